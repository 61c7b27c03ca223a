package insight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lastmile-org/lastmile/engine"
)

// ============================================================================
// INSIGHT GENERATOR — Result rows → readable statements
// ============================================================================
// Dispatches on the SHAPE of the result, top rule first, exactly one fires:
//   1. raw order records          → count line + up to 5 order lines
//   2. city × failure_reason rows → per-city top-3 failure breakdown
//   3. grouped sum/count rows     → one "highest/most" sentence per aggregate
//   4. lone ungrouped aggregate   → "Total <metric>: <value>"
//   5. anything else              → generic "Found N result(s)"
//
// Pure function of its inputs; never calls the model.
// ============================================================================

// maxOrderLines caps how many raw order rows are spelled out.
const maxOrderLines = 5

// Generate turns result rows into human-readable insight lines.
func Generate(spec engine.QuerySpec, rows []engine.Row) []string {
	if len(rows) == 0 {
		return []string{"No data found for this query"}
	}

	if rows[0].Has("order_id") && !hasAggregate(rows[0]) {
		return rawOrderInsights(rows)
	}
	if rows[0].Has("city") && rows[0].Has("failure_reason") {
		return comparisonInsights(rows)
	}
	if lines := groupedAggregateInsights(spec, rows); len(lines) > 0 {
		return lines
	}
	if len(rows) == 1 {
		if lines := loneAggregateInsights(rows[0]); lines != nil {
			return lines
		}
	}
	return []string{fmt.Sprintf("Found %d result(s)", len(rows))}
}

// ============================================================================
// RULE 1 — Raw order records
// ============================================================================

func rawOrderInsights(rows []engine.Row) []string {
	insights := []string{fmt.Sprintf("Found %d orders matching the criteria", len(rows))}

	n := len(rows)
	if n > maxOrderLines {
		n = maxOrderLines
	}
	for i := 0; i < n; i++ {
		insights = append(insights, fmt.Sprintf("  %d. Order %s: %s - %s (%s)",
			i+1,
			orDefault(rows[i].Str("order_id")),
			orDefault(rows[i].Str("city")),
			orDefault(rows[i].Str("status")),
			orDefault(rows[i].Str("failure_reason"))))
	}
	if len(rows) > maxOrderLines {
		insights = append(insights, fmt.Sprintf("  ... and %d more orders", len(rows)-maxOrderLines))
	}
	return insights
}

// ============================================================================
// RULE 2 — City × failure-reason comparison
// ============================================================================

func comparisonInsights(rows []engine.Row) []string {
	insights := []string{"Comparison Results:"}

	// Bucket rows per city, preserving row order.
	cityOrder := []string{}
	cityRows := map[string][]engine.Row{}
	for _, row := range rows {
		city := row.Str("city")
		if _, seen := cityRows[city]; !seen {
			cityOrder = append(cityOrder, city)
		}
		cityRows[city] = append(cityRows[city], row)
	}

	for _, city := range cityOrder {
		insights = append(insights, city+":")
		group := cityRows[city]
		n := len(group)
		if n > 3 {
			n = 3
		}
		for i := 0; i < n; i++ {
			insights = append(insights, fmt.Sprintf("  - %s: %.0f failures",
				orDefault(group[i].Str("failure_reason")), group[i].Num("count_order_id")))
		}
	}
	return insights
}

// ============================================================================
// RULE 3 — Grouped aggregates ("highest/most" sentences)
// ============================================================================

// groupedAggregateInsights fires when the first row carries exactly one
// grouping column plus sum/count aggregates. The first row is the top
// row — the engine has already sorted when ranking matters. Aggregation
// columns are walked in sorted order, one line each, so output is stable
// across runs regardless of map iteration order.
func groupedAggregateInsights(spec engine.QuerySpec, rows []engine.Row) []string {
	if len(spec.GroupBy) != 1 {
		return nil
	}
	groupCol := spec.GroupBy[0]
	top := rows[0]
	if !top.Has(groupCol) {
		return nil
	}

	cols := make([]string, 0, len(spec.Aggregations))
	for col := range spec.Aggregations {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var lines []string
	for _, col := range cols {
		switch spec.Aggregations[col] {
		case engine.OpSum:
			if top.Has("sum_" + col) {
				lines = append(lines, fmt.Sprintf("%s with highest %s: %s (%s)",
					label(groupCol), col, top.Str(groupCol), formatAmount(top.Num("sum_"+col))))
			}
		case engine.OpCount:
			if top.Has("count_" + col) {
				lines = append(lines, fmt.Sprintf("%s with most %ss: %s (%.0f %ss)",
					label(groupCol), col, top.Str(groupCol), top.Num("count_"+col), col))
			}
		}
	}
	return lines
}

// ============================================================================
// RULE 4 — Lone ungrouped aggregate totals
// ============================================================================

func loneAggregateInsights(row engine.Row) []string {
	var insights []string
	for key := range row {
		switch {
		case strings.HasPrefix(key, "count_"):
			metric := strings.TrimPrefix(key, "count_")
			insights = append(insights, fmt.Sprintf("Total %ss: %.0f", metric, row.Num(key)))
		case strings.HasPrefix(key, "sum_"):
			metric := strings.TrimPrefix(key, "sum_")
			insights = append(insights, fmt.Sprintf("Total %s: %s", metric, formatAmount(row.Num(key))))
		default:
			return nil // a non-aggregate column means this shape does not apply
		}
	}
	if len(insights) == 0 {
		return nil
	}
	// Map iteration order is random; keep output stable between runs.
	sort.Strings(insights)
	return insights
}

// ============================================================================
// HELPERS
// ============================================================================

// hasAggregate reports whether a row carries any synthetic aggregate column.
func hasAggregate(row engine.Row) bool {
	for key := range row {
		if strings.HasPrefix(key, "sum_") || strings.HasPrefix(key, "count_") || strings.HasPrefix(key, "avg_") {
			return true
		}
	}
	return false
}

func orDefault(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// label turns "client_id" into "Client", "city" into "City".
func label(col string) string {
	col = strings.TrimSuffix(col, "_id")
	col = strings.ReplaceAll(col, "_", " ")
	if col == "" {
		return col
	}
	return strings.ToUpper(col[:1]) + col[1:]
}

// formatAmount renders a monetary value with comma separators.
// Rounding is delegated to %.2f so carries (999.999 → 1,000.00) hold.
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	dot := strings.IndexByte(s, '.')
	intStr, frac := s[:dot], s[dot:]
	if len(intStr) > 3 {
		var parts []string
		for len(intStr) > 3 {
			parts = append([]string{intStr[len(intStr)-3:]}, parts...)
			intStr = intStr[:len(intStr)-3]
		}
		parts = append([]string{intStr}, parts...)
		intStr = strings.Join(parts, ",")
	}
	return sign + intStr + frac
}
