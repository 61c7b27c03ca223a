package engine

import (
	"testing"

	"github.com/lastmile-org/lastmile/dataset"
)

// ============================================================================
// WAREHOUSE-SALES JOIN TESTS
// ============================================================================

func joinDataset() *dataset.Dataset {
	return dataset.New(map[string][]dataset.Record{
		"orders": {
			{"order_id": "1", "city": "Chennai", "status": "Delivered", "amount": "100"},
			{"order_id": "2", "city": "Mumbai", "status": "Delivered", "amount": "250.50"},
			{"order_id": "3", "city": "Delhi", "status": "Failed", "amount": "broken"},
		},
		"warehouse_logs": {
			{"warehouse_id": "W1", "order_id": "1"},
			{"warehouse_id": "W1", "order_id": "2"},
			{"warehouse_id": "W2", "order_id": "3"},
			{"warehouse_id": "W2", "order_id": "999"}, // no matching order
		},
	})
}

func TestJoinWarehouseSales(t *testing.T) {
	ds := joinDataset()
	joined, err := joinWarehouseSales(ds)
	if err != nil {
		t.Fatalf("joinWarehouseSales failed: %v", err)
	}

	logs, _ := ds.Table("warehouse_logs")
	if len(joined) > len(logs.Records) {
		t.Errorf("joined rows (%d) exceed warehouse log rows (%d)", len(joined), len(logs.Records))
	}
	if len(joined) != 3 {
		t.Fatalf("expected 3 joined records (unresolved order dropped), got %d", len(joined))
	}

	for _, rec := range joined {
		for _, col := range []string{"warehouse_id", "order_id", "amount", "status", "city"} {
			if _, ok := rec[col]; !ok {
				t.Errorf("joined record missing %q: %v", col, rec)
			}
		}
	}
}

// An unparsable order amount joins as 0 so downstream sums stay finite.
func TestJoinCoercesBadAmounts(t *testing.T) {
	joined, err := joinWarehouseSales(joinDataset())
	if err != nil {
		t.Fatalf("joinWarehouseSales failed: %v", err)
	}
	for _, rec := range joined {
		if rec.Get("order_id") == "3" && rec.Get("amount") != "0" {
			t.Errorf("unparsable amount should join as 0, got %q", rec.Get("amount"))
		}
	}
}

// End to end: warehouse sales ranking through Execute, triggered by intent.
func TestExecuteWarehouseSalesRanking(t *testing.T) {
	spec := QuerySpec{
		Intent:  "warehouse sales analysis",
		Table:   "orders",
		GroupBy: GroupBy{"warehouse_id"},
		Aggregations: map[string]string{
			"amount": OpSum,
		},
		SortBy: "sum_amount",
	}
	rows, err := Execute(spec, joinDataset())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 warehouse groups, got %d", len(rows))
	}
	if rows[0].Str("warehouse_id") != "W1" || rows[0].Num("sum_amount") != 350.5 {
		t.Errorf("top warehouse = %q (%v), want W1 (350.5)",
			rows[0].Str("warehouse_id"), rows[0].Num("sum_amount"))
	}

	// The joined monetary total never exceeds the source orders total.
	orders, _ := joinDataset().Table("orders")
	var sourceTotal float64
	for _, o := range orders.Records {
		v, _ := o.Num("amount")
		sourceTotal += v
	}
	var joinedTotal float64
	for _, row := range rows {
		joinedTotal += row.Num("sum_amount")
	}
	if joinedTotal > sourceTotal {
		t.Errorf("joined total %v exceeds source total %v", joinedTotal, sourceTotal)
	}
}

func TestWantsWarehouseSalesJoin(t *testing.T) {
	tests := []struct {
		intent string
		table  string
		want   bool
	}{
		{"warehouse sales analysis", "orders", true},
		{"Sales per Warehouse", "orders", true},
		{"warehouse sales analysis", "clients", false},
		{"city_performance", "orders", false},
		{"", "orders", false},
	}
	for _, tt := range tests {
		got := wantsWarehouseSalesJoin(QuerySpec{Intent: tt.intent, Table: tt.table})
		if got != tt.want {
			t.Errorf("wantsWarehouseSalesJoin(%q, %q) = %v, want %v", tt.intent, tt.table, got, tt.want)
		}
	}
}
