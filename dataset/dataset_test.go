package dataset

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// ============================================================================
// DATASET TESTS
// ============================================================================

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"100", 100, true},
		{"100.50", 100.5, true},
		{"-42.5", -42.5, true},
		{"  7 ", 7, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"12abc", 0, false},
		{"1,000", 0, false}, // thousands separators are not parsed
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseNumber(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRecordAccess(t *testing.T) {
	rec := Record{"city": "Chennai", "amount": "250.75"}

	if rec.Get("city") != "Chennai" {
		t.Errorf("Get(city) = %q", rec.Get("city"))
	}
	if rec.Get("missing") != "" {
		t.Errorf("absent column should read as empty, got %q", rec.Get("missing"))
	}
	if v, ok := rec.Num("amount"); !ok || v != 250.75 {
		t.Errorf("Num(amount) = (%v, %v)", v, ok)
	}
	if _, ok := rec.Num("city"); ok {
		t.Error("Num over text must report not-a-number")
	}
}

func TestTableColumnsFirstSeenOrder(t *testing.T) {
	table := Table{Name: "orders", Records: []Record{
		{"amount": "1", "city": "Chennai", "order_id": "1"},
		{"order_id": "2", "status": "Failed"}, // new column appears later
	}}

	want := []string{"amount", "city", "order_id", "status"}
	if got := table.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
}

func TestDatasetLookup(t *testing.T) {
	ds := New(map[string][]Record{
		"orders":  {{"order_id": "1"}},
		"clients": {{"client_id": "C1"}},
	})

	if ds.Len() != 2 {
		t.Errorf("Len = %d, want 2", ds.Len())
	}
	if want := []string{"clients", "orders"}; !reflect.DeepEqual(ds.TableNames(), want) {
		t.Errorf("TableNames = %v, want %v", ds.TableNames(), want)
	}
	if _, ok := ds.Table("orders"); !ok {
		t.Error("orders table should exist")
	}
	if _, ok := ds.Table("shipments"); ok {
		t.Error("unknown table lookup should report missing")
	}
}

func TestSchemaSummary(t *testing.T) {
	ds := New(map[string][]Record{
		"orders": {
			{"order_id": "1", "city": "Chennai"},
			{"order_id": "2", "city": "Mumbai"},
			{"order_id": "3", "city": "Delhi"},
			{"order_id": "4", "city": "Pune"},
		},
		"empty": {},
	})

	raw := ds.Schema(2)
	var schema map[string]TableSchema
	if err := json.Unmarshal([]byte(raw), &schema); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}

	orders, ok := schema["orders"]
	if !ok {
		t.Fatal("schema missing orders table")
	}
	if len(orders.SampleData) != 2 {
		t.Errorf("sample rows = %d, want 2", len(orders.SampleData))
	}
	if orders.Description == "" {
		t.Error("orders should carry its description")
	}
	if _, ok := schema["empty"]; ok {
		t.Error("empty tables should be omitted from the schema")
	}
}

func TestDescribeRelationships(t *testing.T) {
	out := DescribeRelationships()

	for _, want := range []string{
		"orders:",
		"Primary Key: order_id",
		"client_id -> clients",
		"warehouse_id -> warehouses",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("relationship text missing %q", want)
		}
	}
}

func TestParseCSV(t *testing.T) {
	input := `order_id,city ,amount
1, Chennai ,100.50
2,Mumbai
3,Delhi,80,extra-is-dropped
`
	records, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if records[0].Get("city") != "Chennai" || records[0].Get("amount") != "100.50" {
		t.Errorf("values should be trimmed: %v", records[0])
	}
	if records[1].Get("amount") != "" {
		t.Errorf("short row should leave trailing columns absent: %v", records[1])
	}
	if records[2].Get("amount") != "80" {
		t.Errorf("long row should drop extra fields: %v", records[2])
	}
}

// brokenReader yields its buffered data, then fails every subsequent Read
// the way a dropped network connection does.
type brokenReader struct {
	data []byte
	err  error
	pos  int
}

func (r *brokenReader) Read(p []byte) (int, error) {
	if r.pos < len(r.data) {
		n := copy(p, r.data[r.pos:])
		r.pos += n
		return n, nil
	}
	return 0, r.err
}

// A persistent transport error must abort the parse instead of being
// retried forever.
func TestParseCSVTransportError(t *testing.T) {
	connReset := errors.New("read: connection reset by peer")
	records, err := ParseCSV(&brokenReader{
		data: []byte("order_id,city\n1,Chennai\n"),
		err:  connReset,
	})
	if err == nil {
		t.Fatalf("expected transport error, got records %v", records)
	}
	if !errors.Is(err, connReset) {
		t.Errorf("error should wrap the transport failure, got %v", err)
	}
}

// Malformed rows are still skipped, not fatal.
func TestParseCSVSkipsMalformedRows(t *testing.T) {
	input := "order_id,city\n1,Chennai\n2,\"Mumbai\n" // unterminated quote
	records, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(records) != 1 || records[0].Get("city") != "Chennai" {
		t.Errorf("expected the one well-formed record, got %v", records)
	}
}

func TestParseCSVEmptyBody(t *testing.T) {
	records, err := ParseCSV(strings.NewReader("order_id,city\n"))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("header-only input should yield no records, got %v", records)
	}
}

func TestTableNameFromFile(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"orders.csv", "orders"},
		{"sample_orders.csv", "orders"},
		{"warehouse_logs.csv", "warehouse_logs"},
	}
	for _, tt := range tests {
		if got := tableName(tt.in); got != tt.want {
			t.Errorf("tableName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
