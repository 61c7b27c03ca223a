package insight

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lastmile-org/lastmile/engine"
)

// ============================================================================
// INSIGHT GENERATOR TESTS — one per shape rule
// ============================================================================

func TestGenerateEmptyResults(t *testing.T) {
	got := Generate(engine.QuerySpec{}, nil)
	if want := []string{"No data found for this query"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Generate(empty) = %v, want %v", got, want)
	}
}

func TestGenerateRawOrders(t *testing.T) {
	rows := make([]engine.Row, 7)
	for i := range rows {
		rows[i] = engine.Row{
			"order_id":       string(rune('1' + i)),
			"city":           "Chennai",
			"status":         "Failed",
			"failure_reason": "Address not found",
		}
	}

	got := Generate(engine.QuerySpec{Table: "orders"}, rows)
	if got[0] != "Found 7 orders matching the criteria" {
		t.Errorf("header = %q", got[0])
	}
	if len(got) != 7 { // header + 5 orders + overflow line
		t.Fatalf("expected 7 lines, got %d: %v", len(got), got)
	}
	if got[1] != "  1. Order 1: Chennai - Failed (Address not found)" {
		t.Errorf("first order line = %q", got[1])
	}
	if got[6] != "  ... and 2 more orders" {
		t.Errorf("overflow line = %q", got[6])
	}
}

func TestGenerateRawOrdersBlanksAsNA(t *testing.T) {
	rows := []engine.Row{{"order_id": "9", "city": "Delhi", "status": "Delivered", "failure_reason": ""}}
	got := Generate(engine.QuerySpec{}, rows)
	if got[1] != "  1. Order 9: Delhi - Delivered (N/A)" {
		t.Errorf("blank fields should render as N/A: %q", got[1])
	}
}

func TestGenerateCityComparison(t *testing.T) {
	rows := []engine.Row{
		{"city": "Chennai", "failure_reason": "Address not found", "count_order_id": float64(12)},
		{"city": "Chennai", "failure_reason": "Weather delay", "count_order_id": float64(4)},
		{"city": "Chennai", "failure_reason": "Traffic congestion", "count_order_id": float64(3)},
		{"city": "Chennai", "failure_reason": "Damaged in transit", "count_order_id": float64(1)},
		{"city": "Mumbai", "failure_reason": "Traffic congestion", "count_order_id": float64(8)},
	}

	got := Generate(engine.QuerySpec{GroupBy: engine.GroupBy{"city", "failure_reason"}}, rows)
	if got[0] != "Comparison Results:" {
		t.Errorf("header = %q", got[0])
	}
	if got[1] != "Chennai:" {
		t.Errorf("first city header = %q", got[1])
	}
	if got[2] != "  - Address not found: 12 failures" {
		t.Errorf("first reason line = %q", got[2])
	}
	// Top 3 reasons per city: the fourth Chennai reason is cut.
	for _, line := range got {
		if strings.Contains(line, "Damaged in transit") {
			t.Errorf("more than 3 reasons listed for a city: %v", got)
		}
	}
	if got[5] != "Mumbai:" || got[6] != "  - Traffic congestion: 8 failures" {
		t.Errorf("Mumbai block = %q, %q", got[5], got[6])
	}
}

func TestGenerateGroupedSum(t *testing.T) {
	spec := engine.QuerySpec{
		GroupBy:      engine.GroupBy{"city"},
		Aggregations: map[string]string{"amount": engine.OpSum},
	}
	rows := []engine.Row{
		{"city": "Mumbai", "sum_amount": float64(1234567.891)},
		{"city": "Chennai", "sum_amount": float64(900)},
	}

	got := Generate(spec, rows)
	if len(got) != 1 || got[0] != "City with highest amount: Mumbai (1,234,567.89)" {
		t.Errorf("grouped sum insight = %v", got)
	}
}

func TestGenerateGroupedCount(t *testing.T) {
	spec := engine.QuerySpec{
		GroupBy:      engine.GroupBy{"client_id"},
		Aggregations: map[string]string{"order_id": engine.OpCount},
	}
	rows := []engine.Row{
		{"client_id": "C3", "count_order_id": float64(42)},
		{"client_id": "C1", "count_order_id": float64(7)},
	}

	got := Generate(spec, rows)
	if len(got) != 1 || got[0] != "Client with most order_ids: C3 (42 order_ids)" {
		t.Errorf("grouped count insight = %v", got)
	}
}

// Two aggregates per group — the shape the two-city comparison query
// produces without a failure_reason column — emit one line per aggregate,
// in column order, never a randomly chosen one.
func TestGenerateGroupedMultiAggregate(t *testing.T) {
	spec := engine.QuerySpec{
		GroupBy: engine.GroupBy{"city"},
		Aggregations: map[string]string{
			"amount":   engine.OpSum,
			"order_id": engine.OpCount,
		},
	}
	rows := []engine.Row{
		{"city": "Chennai", "sum_amount": float64(300), "count_order_id": float64(4)},
		{"city": "Mumbai", "sum_amount": float64(250), "count_order_id": float64(2)},
	}

	want := []string{
		"City with highest amount: Chennai (300.00)",
		"City with most order_ids: Chennai (4 order_ids)",
	}
	for i := 0; i < 50; i++ {
		got := Generate(spec, rows)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: insights = %v, want %v", i, got, want)
		}
	}
}

func TestGenerateLoneTotals(t *testing.T) {
	spec := engine.QuerySpec{
		Aggregations: map[string]string{"order_id": engine.OpCount, "amount": engine.OpSum},
	}
	rows := []engine.Row{{"count_order_id": float64(128), "sum_amount": float64(45230.5)}}

	got := Generate(spec, rows)
	want := []string{"Total amount: 45,230.50", "Total order_ids: 128"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lone totals = %v, want %v", got, want)
	}
}

func TestGenerateGenericFallback(t *testing.T) {
	rows := []engine.Row{
		{"driver_id": "D1", "avg_amount": float64(10)},
		{"driver_id": "D2", "avg_amount": float64(20)},
	}
	got := Generate(engine.QuerySpec{Table: "fleet_logs"}, rows)
	if len(got) != 1 || got[0] != "Found 2 result(s)" {
		t.Errorf("generic insight = %v", got)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999.994, "999.99"},
		{1000, "1,000.00"},
		{1234567.891, "1,234,567.89"},
		{-4521.5, "-4,521.50"},
		{1234.999, "1,235.00"}, // fraction carries into the integer part
		{999.999, "1,000.00"},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.in); got != tt.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
