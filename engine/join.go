package engine

import (
	"strconv"
	"strings"

	"github.com/lastmile-org/lastmile/dataset"
)

// ============================================================================
// WAREHOUSE-SALES JOIN — The only cross-table path
// ============================================================================
// Warehouse sales questions need order amounts attributed to warehouses, but
// amounts live in orders and warehouse ids live in warehouse_logs. When the
// extracted intent signals this analysis, the engine joins the two tables
// up front and runs the ordinary pipeline on the synthetic records.
// ============================================================================

const (
	ordersTable        = "orders"
	warehouseLogsTable = "warehouse_logs"
)

// wantsWarehouseSalesJoin reports whether the spec's free-text intent asks
// for warehouse sales analysis on the orders table.
func wantsWarehouseSalesJoin(spec QuerySpec) bool {
	if spec.Table != ordersTable {
		return false
	}
	intent := strings.ToLower(spec.Intent)
	return strings.Contains(intent, "warehouse") && strings.Contains(intent, "sale")
}

// joinWarehouseSales builds synthetic records from warehouse_logs rows whose
// order_id resolves in orders. Each joined record carries the warehouse id
// from the log plus order fields, with the amount coerced to a number
// (0 when unparsable). Logs with unresolvable order ids are dropped.
func joinWarehouseSales(ds *dataset.Dataset) ([]dataset.Record, error) {
	orders, ok := ds.Table(ordersTable)
	if !ok {
		return nil, &DataNotFoundError{Table: ordersTable, Available: ds.TableNames()}
	}
	logs, ok := ds.Table(warehouseLogsTable)
	if !ok {
		return nil, &DataNotFoundError{Table: warehouseLogsTable, Available: ds.TableNames()}
	}

	lookup := make(map[string]dataset.Record, len(orders.Records))
	for _, order := range orders.Records {
		if id := order.Get("order_id"); id != "" {
			lookup[id] = order
		}
	}

	joined := make([]dataset.Record, 0, len(logs.Records))
	for _, log := range logs.Records {
		order, ok := lookup[log.Get("order_id")]
		if !ok {
			continue
		}
		amount, _ := order.Num("amount") // unparsable → 0
		joined = append(joined, dataset.Record{
			"warehouse_id": log.Get("warehouse_id"),
			"order_id":     log.Get("order_id"),
			"amount":       strconv.FormatFloat(amount, 'f', -1, 64),
			"status":       order.Get("status"),
			"city":         order.Get("city"),
		})
	}
	return joined, nil
}
