package engine

import (
	"sort"
	"strings"

	"github.com/lastmile-org/lastmile/dataset"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting
// ============================================================================
// Pipeline: group → aggregate per group → sort → limit.
// Group buckets fill in first-seen record order; that order is not a ranking
// and an explicit sort_by supersedes it whenever ranking matters.
// ============================================================================

// group is one bucket of records sharing the same grouping key.
type group struct {
	keys    []string // raw value per group_by column, same order
	records []dataset.Record
}

// groupKeySep joins multi-column keys; unit separator never occurs in data.
const groupKeySep = "\x1f"

// groupRecords buckets records by the group_by columns, first-seen order.
func groupRecords(records []dataset.Record, groupBy GroupBy) []group {
	index := make(map[string]int)
	var groups []group

	for _, rec := range records {
		keys := make([]string, len(groupBy))
		for i, col := range groupBy {
			keys[i] = rec.Get(col)
		}
		id := strings.Join(keys, groupKeySep)

		pos, seen := index[id]
		if !seen {
			pos = len(groups)
			index[id] = pos
			groups = append(groups, group{keys: keys})
		}
		groups[pos].records = append(groups[pos].records, rec)
	}
	return groups
}

// aggregate computes one result row for a bucket of records.
// sum and avg only see values the coercion rule accepts; count counts rows
// regardless of content; avg of an empty value set is 0, never NaN.
func aggregate(records []dataset.Record, aggregations map[string]string) Row {
	row := make(Row, len(aggregations))
	for col, op := range aggregations {
		switch op {
		case OpSum:
			total, _ := sumColumn(records, col)
			row[OpSum+"_"+col] = total
		case OpCount:
			row[OpCount+"_"+col] = float64(len(records))
		case OpAvg:
			total, n := sumColumn(records, col)
			if n == 0 {
				row[OpAvg+"_"+col] = float64(0)
			} else {
				row[OpAvg+"_"+col] = total / float64(n)
			}
		}
	}
	return row
}

// sumColumn totals the coercible values of a column and reports how many
// values were coercible.
func sumColumn(records []dataset.Record, col string) (total float64, n int) {
	for _, rec := range records {
		if v, ok := rec.Num(col); ok {
			total += v
			n++
		}
	}
	return total, n
}

// sortRows orders rows numerically by sortBy, descending unless order is
// "asc". Rows missing the key sort as 0. The sort is stable: ties keep the
// grouping order, no secondary key is defined.
func sortRows(rows []Row, sortBy, order string) {
	if sortBy == "" {
		return
	}
	asc := strings.EqualFold(order, "asc")
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Num(sortBy), rows[j].Num(sortBy)
		if asc {
			return a < b
		}
		return a > b
	})
}

// limitRows truncates to the first n rows; n <= 0 or n beyond the result
// count is a no-op.
func limitRows(rows []Row, n int) []Row {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}
