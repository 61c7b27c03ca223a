package dataset

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// DATASET — In-Memory Tabular Data for the Query Engine
// ============================================================================
// A Dataset is loaded once at startup and never mutated afterwards, so it is
// safe for unlimited concurrent readers. Every component above this package
// borrows it read-only.
//
// All field values are stored as text. Numeric interpretation happens lazily
// through ParseNumber — the single coercion rule shared by aggregation,
// sorting, and the warehouse-sales join.
// ============================================================================

// Record is one row of a table: a mapping from column name to text value.
// A missing column reads as the empty string.
type Record map[string]string

// Get returns the value for a column, or "" when the column is absent.
func (r Record) Get(column string) string {
	return r[column]
}

// Num returns the numeric interpretation of a column value.
// The second return is false when the value is missing or not a number.
func (r Record) Num(column string) (float64, bool) {
	return ParseNumber(r[column])
}

// Table is a named, ordered sequence of records.
// Columns are implicit: the union of keys observed across records.
type Table struct {
	Name    string
	Records []Record
}

// Columns returns the union of column names across all records,
// in first-seen order.
func (t Table) Columns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, rec := range t.Records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

// Dataset maps table names to tables. Built once by the loader.
type Dataset struct {
	tables map[string]Table
}

// New creates a Dataset from a name → records mapping.
func New(tables map[string][]Record) *Dataset {
	ds := &Dataset{tables: make(map[string]Table, len(tables))}
	for name, recs := range tables {
		ds.tables[name] = Table{Name: name, Records: recs}
	}
	return ds
}

// Table returns the named table. ok is false when the table does not exist.
func (ds *Dataset) Table(name string) (Table, bool) {
	t, ok := ds.tables[name]
	return t, ok
}

// TableNames returns all table names, sorted.
func (ds *Dataset) TableNames() []string {
	names := make([]string, 0, len(ds.tables))
	for name := range ds.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of tables.
func (ds *Dataset) Len() int { return len(ds.tables) }

// ParseNumber is the single numeric coercion rule for the whole system.
// It parses text as a float; on failure the value is treated as absent,
// never as zero. Sum, avg, join, and sort all go through here.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ============================================================================
// SCHEMA SUMMARY — What the extraction prompt sees
// ============================================================================
// The AI never receives raw tables, only column names, a short description,
// and the first few sample rows per table.
// ============================================================================

// TableSchema describes one table for prompt building.
type TableSchema struct {
	Description string   `json:"description,omitempty"`
	Columns     []string `json:"columns"`
	SampleData  []Record `json:"sample_data"`
}

// tableDescriptions gives the extraction prompt context about each table.
var tableDescriptions = map[string]string{
	"orders":           "Delivery orders with amounts, cities, clients, status, failure reasons",
	"clients":          "Client information and contact details",
	"warehouses":       "Warehouse locations, capacity, and management",
	"drivers":          "Driver information and performance data",
	"fleet_logs":       "Fleet vehicle logs and maintenance records",
	"warehouse_logs":   "Warehouse operations and inventory logs",
	"external_factors": "External factors like weather, traffic, events",
	"feedback":         "Customer feedback and ratings",
}

// Schema produces a per-table summary with up to sampleRows sample rows,
// serialized as indented JSON for the extraction prompt.
func (ds *Dataset) Schema(sampleRows int) string {
	if sampleRows <= 0 {
		sampleRows = 3
	}

	schema := make(map[string]TableSchema, len(ds.tables))
	for _, name := range ds.TableNames() {
		t := ds.tables[name]
		if len(t.Records) == 0 {
			continue
		}
		n := sampleRows
		if n > len(t.Records) {
			n = len(t.Records)
		}
		schema[name] = TableSchema{
			Description: tableDescriptions[name],
			Columns:     t.Columns(),
			SampleData:  t.Records[:n],
		}
	}

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}

// ============================================================================
// RELATIONSHIPS — Known primary/foreign keys between delivery tables
// ============================================================================

// Relationship describes how one table links to the others.
type Relationship struct {
	PrimaryKey   string
	ForeignKeys  map[string]string   // column → referenced table
	ReferencedBy map[string][]string // column → referencing tables
}

// Relationships is the fixed key map of the delivery dataset.
// The extraction prompt includes it so the model knows which joins exist.
var Relationships = map[string]Relationship{
	"orders": {
		PrimaryKey:  "order_id",
		ForeignKeys: map[string]string{"client_id": "clients"},
		ReferencedBy: map[string][]string{
			"order_id": {"external_factors", "feedback", "fleet_logs", "warehouse_logs"},
		},
	},
	"warehouse_logs": {
		PrimaryKey:  "log_id",
		ForeignKeys: map[string]string{"order_id": "orders", "warehouse_id": "warehouses"},
	},
	"fleet_logs": {
		PrimaryKey:  "fleet_log_id",
		ForeignKeys: map[string]string{"order_id": "orders", "driver_id": "drivers"},
	},
	"external_factors": {
		PrimaryKey:  "factor_id",
		ForeignKeys: map[string]string{"order_id": "orders"},
	},
	"feedback": {
		PrimaryKey:  "feedback_id",
		ForeignKeys: map[string]string{"order_id": "orders"},
	},
	"clients":    {PrimaryKey: "client_id"},
	"drivers":    {PrimaryKey: "driver_id"},
	"warehouses": {PrimaryKey: "warehouse_id"},
}

// DescribeRelationships renders the relationship map as prompt text.
func DescribeRelationships() string {
	var b strings.Builder
	b.WriteString("Table Relationships:\n")

	names := make([]string, 0, len(Relationships))
	for name := range Relationships {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rel := Relationships[name]
		b.WriteString("\n" + name + ":\n")
		b.WriteString("  Primary Key: " + rel.PrimaryKey + "\n")
		if len(rel.ForeignKeys) > 0 {
			b.WriteString("  Foreign Keys:\n")
			cols := make([]string, 0, len(rel.ForeignKeys))
			for col := range rel.ForeignKeys {
				cols = append(cols, col)
			}
			sort.Strings(cols)
			for _, col := range cols {
				b.WriteString("    " + col + " -> " + rel.ForeignKeys[col] + "\n")
			}
		}
		if len(rel.ReferencedBy) > 0 {
			b.WriteString("  Referenced By:\n")
			cols := make([]string, 0, len(rel.ReferencedBy))
			for col := range rel.ReferencedBy {
				cols = append(cols, col)
			}
			sort.Strings(cols)
			for _, col := range cols {
				b.WriteString("    " + col + " <- " + strings.Join(rel.ReferencedBy[col], ", ") + "\n")
			}
		}
	}
	return b.String()
}
