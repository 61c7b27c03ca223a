package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lastmile-org/lastmile/dataset"
)

// ============================================================================
// ENGINE TYPES — QuerySpec, Row, and the error taxonomy
// ============================================================================
// QuerySpec is the contract between the extractor and the engine. The
// extractor (AI-backed or fallback cascade) produces it; the engine consumes
// it. The engine has no knowledge of natural language.
//
// Unmarshalling is deliberately tolerant: model output is inconsistent about
// list-vs-string for group_by and filter values, so the custom types below
// accept both shapes.
// ============================================================================

// Supported aggregation operators.
const (
	OpSum   = "sum"
	OpCount = "count"
	OpAvg   = "avg"
)

// QuerySpec defines what the engine should compute.
type QuerySpec struct {
	Intent       string            `json:"intent,omitempty"`
	Table        string            `json:"table"`
	Filters      Filters           `json:"filters,omitempty"`
	GroupBy      GroupBy           `json:"group_by,omitempty"`
	Aggregations map[string]string `json:"aggregations,omitempty"`
	SortBy       string            `json:"sort_by,omitempty"`
	SortOrder    string            `json:"sort_order,omitempty"`
	Limit        int               `json:"limit,omitempty"`
}

// WithDefaults fills the defaulted fields: table "orders", sort order "desc".
func (s QuerySpec) WithDefaults() QuerySpec {
	if s.Table == "" {
		s.Table = "orders"
	}
	if s.SortOrder == "" {
		s.SortOrder = "desc"
	}
	return s
}

// Validate checks the spec's aggregations against the supported operators.
// A bad operator or an empty aggregation column is a MalformedSpecError.
func (s QuerySpec) Validate() error {
	for col, op := range s.Aggregations {
		if col == "" {
			return &MalformedSpecError{Field: "aggregations", Detail: "empty column name"}
		}
		switch op {
		case OpSum, OpCount, OpAvg:
		default:
			return &MalformedSpecError{
				Field:  "aggregations",
				Detail: fmt.Sprintf("unsupported operator %q for column %q (supported: sum, count, avg)", op, col),
			}
		}
	}
	return nil
}

// ============================================================================
// FILTERS
// ============================================================================

// Filters maps a column to one value or a set of values.
// Columns are AND-combined; values within a column are OR-combined.
type Filters map[string]FilterValue

// FilterValue is a single filter value or a set of alternatives.
// JSON accepts a string, a number, a bool, or a list of those.
// A single string containing "|" is treated as a set.
type FilterValue struct {
	values []string
	isList bool
}

// NewFilterValue creates a single-value filter.
func NewFilterValue(v string) FilterValue {
	return FilterValue{values: []string{v}}
}

// NewFilterValues creates a multi-value filter.
func NewFilterValues(vs ...string) FilterValue {
	return FilterValue{values: vs, isList: true}
}

// Members returns the effective value set and whether matching is
// set-membership (true) or single-value (false). Pipe-separated single
// strings expand into a set.
func (f FilterValue) Members() ([]string, bool) {
	if f.isList {
		return f.values, true
	}
	if len(f.values) == 1 && strings.Contains(f.values[0], "|") {
		return strings.Split(f.values[0], "|"), true
	}
	return f.values, false
}

// UnmarshalJSON accepts `"x"`, `3`, `true`, or `["x","y"]`.
func (f *FilterValue) UnmarshalJSON(data []byte) error {
	var list []any
	if err := json.Unmarshal(data, &list); err == nil {
		f.isList = true
		f.values = make([]string, 0, len(list))
		for _, v := range list {
			f.values = append(f.values, scalarString(v))
		}
		return nil
	}

	var scalar any
	if err := json.Unmarshal(data, &scalar); err != nil {
		return err
	}
	f.isList = false
	f.values = []string{scalarString(scalar)}
	return nil
}

// MarshalJSON emits a list for sets, a plain string otherwise.
func (f FilterValue) MarshalJSON() ([]byte, error) {
	if f.isList {
		return json.Marshal(f.values)
	}
	if len(f.values) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(f.values[0])
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ============================================================================
// GROUP BY
// ============================================================================

// GroupBy is the ordered list of grouping columns.
// JSON accepts `"city"`, `"city,failure_reason"` (combined specifier),
// or `["city","failure_reason"]`.
type GroupBy []string

// UnmarshalJSON accepts a string (comma-split) or a list of strings.
func (g *GroupBy) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*g = trimAll(list)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*g = nil
		return nil
	}
	*g = trimAll(strings.Split(s, ","))
	return nil
}

// MarshalJSON keeps the original wire shape: the combined specifier string.
func (g GroupBy) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.Join(g, ","))
}

func trimAll(cols []string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// ============================================================================
// RESULT ROWS
// ============================================================================

// Row is one result row: grouping columns carry raw string values, synthetic
// aggregate columns carry float64 values named "{op}_{column}".
type Row map[string]any

// Has reports whether the row carries a column.
func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// Str returns a column as text ("" when absent).
func (r Row) Str(column string) string {
	switch v := r[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Num returns a column's numeric value through the dataset coercion rule;
// absent or non-numeric values read as 0.
func (r Row) Num(column string) float64 {
	switch v := r[column].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, _ := dataset.ParseNumber(v)
		return f
	default:
		return 0
	}
}

// fromRecord converts a source record into a passthrough result row.
func fromRecord(rec dataset.Record) Row {
	row := make(Row, len(rec))
	for k, v := range rec {
		row[k] = v
	}
	return row
}

// ============================================================================
// ERRORS
// ============================================================================

// DataNotFoundError reports a query against a table that does not exist.
// Surfaced to the caller as a structured "no results" response, never a crash.
type DataNotFoundError struct {
	Table     string
	Available []string
}

func (e *DataNotFoundError) Error() string {
	return fmt.Sprintf("no data found for table %q (available: %s)",
		e.Table, strings.Join(e.Available, ", "))
}

// MalformedSpecError reports an extractor-produced spec the engine cannot
// run: an unsupported operator or a missing required field. Unlike
// collaborator failures this is surfaced to the user, naming the bad field.
type MalformedSpecError struct {
	Field  string
	Detail string
}

func (e *MalformedSpecError) Error() string {
	return fmt.Sprintf("malformed query spec: field %q: %s", e.Field, e.Detail)
}
