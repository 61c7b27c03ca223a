package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/lastmile-org/lastmile/dataset"
)

// ============================================================================
// EXECUTOR — QuerySpec → result rows
// ============================================================================
// Entry point: Execute(spec, ds)
//
// Pipeline:
//   1. Validate spec, resolve table (or the warehouse-sales join)
//   2. Apply filters
//   3. Group by the group_by columns (first-seen order)
//   4. Aggregate per group, or over the whole filtered set, or pass through
//   5. Sort numerically by sort_by
//   6. Apply limit
//
// Execute never calls an AI service and never mutates the dataset; it is a
// pure function of its inputs and safe to call concurrently.
// ============================================================================

// Execute runs a QuerySpec against a Dataset and returns result rows.
// Unknown tables yield a *DataNotFoundError, invalid aggregations a
// *MalformedSpecError; neither is ever a panic.
func Execute(spec QuerySpec, ds *dataset.Dataset) ([]Row, error) {
	spec = spec.WithDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	// 1. Resolve source records
	var records []dataset.Record
	if wantsWarehouseSalesJoin(spec) {
		joined, err := joinWarehouseSales(ds)
		if err != nil {
			return nil, err
		}
		logrus.WithField("records", len(joined)).Debug("warehouse-sales join")
		records = joined
	} else {
		table, ok := ds.Table(spec.Table)
		if !ok {
			return nil, &DataNotFoundError{Table: spec.Table, Available: ds.TableNames()}
		}
		records = table.Records
	}

	// 2. Filter
	records = ApplyFilters(records, spec.Filters)
	logrus.WithFields(logrus.Fields{
		"table":   spec.Table,
		"records": len(records),
	}).Debug("records after filtering")

	// 3. Passthrough: no grouping, no aggregations
	if len(spec.GroupBy) == 0 && len(spec.Aggregations) == 0 {
		rows := make([]Row, 0, len(records))
		for _, rec := range records {
			rows = append(rows, fromRecord(rec))
		}
		rows = limitRows(rows, spec.Limit)
		return rows, nil
	}

	// 4. Ungrouped aggregation: the whole filtered set is one implicit group
	if len(spec.GroupBy) == 0 {
		row := aggregate(records, spec.Aggregations)
		if len(row) == 0 {
			return []Row{}, nil
		}
		return []Row{row}, nil
	}

	// 5. Group, aggregate per group
	groups := groupRecords(records, spec.GroupBy)
	rows := make([]Row, 0, len(groups))
	for _, g := range groups {
		row := aggregate(g.records, spec.Aggregations)
		for i, col := range spec.GroupBy {
			row[col] = g.keys[i]
		}
		rows = append(rows, row)
	}

	// 6. Sort and limit
	sortRows(rows, spec.SortBy, spec.SortOrder)
	rows = limitRows(rows, spec.Limit)

	return rows, nil
}
