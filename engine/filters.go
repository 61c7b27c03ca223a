package engine

import (
	"strings"

	"github.com/lastmile-org/lastmile/dataset"
)

// ============================================================================
// FILTERS — Conjunctive column filtering
// ============================================================================
// Columns are AND-combined; values within a column are OR-combined. All
// matching is case-insensitive. Columns whose names look date-like match by
// substring so partial timestamps ("2025-09-15" against
// "2025-09-15 14:03:00") still hit.
// ============================================================================

// dateTokens marks a column as date-like when its name contains any of them.
var dateTokens = []string{"date", "time", "created", "updated"}

// ApplyFilters keeps the records matching every column filter.
// An empty filter set returns the input unchanged.
func ApplyFilters(records []dataset.Record, filters Filters) []dataset.Record {
	if len(filters) == 0 {
		return records
	}

	out := records
	for col, fv := range filters {
		out = filterColumn(out, col, fv)
	}
	return out
}

func filterColumn(records []dataset.Record, col string, fv FilterValue) []dataset.Record {
	members, multi := fv.Members()
	if len(members) == 0 {
		return records
	}

	kept := make([]dataset.Record, 0, len(records))

	if multi {
		set := toLowerSet(members)
		for _, rec := range records {
			if set[strings.ToLower(rec.Get(col))] {
				kept = append(kept, rec)
			}
		}
		return kept
	}

	want := strings.ToLower(members[0])

	if isDateColumn(col) {
		// Partial timestamp match: "2025-09-15" hits "2025-09-15 14:03:00".
		for _, rec := range records {
			if strings.Contains(strings.ToLower(rec.Get(col)), want) {
				kept = append(kept, rec)
			}
		}
		return kept
	}

	for _, rec := range records {
		if strings.ToLower(rec.Get(col)) == want {
			kept = append(kept, rec)
		}
	}
	return kept
}

// isDateColumn applies the date-like column name heuristic.
func isDateColumn(col string) bool {
	lower := strings.ToLower(col)
	for _, tok := range dateTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
