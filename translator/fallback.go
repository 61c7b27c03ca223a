package translator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lastmile-org/lastmile/engine"
)

// ============================================================================
// FALLBACK CASCADE — Deterministic question → QuerySpec
// ============================================================================
// An ordered list of (predicate, builder) pairs evaluated top to bottom;
// the first match wins. No I/O, no model, no state: exhaustively unit
// testable offline. Total by construction — when nothing matches, the
// generic orders summary applies, including for the empty question.
// ============================================================================

// knownCities are the operating cities recognized in question text.
var knownCities = []string{
	"chennai", "mumbai", "delhi", "bangalore", "pune", "ahmedabad", "surat", "coimbatore",
}

var digitsPattern = regexp.MustCompile(`\d+`)

// fallbackRule pairs a predicate over the lowercased question with a
// builder for the matching spec.
type fallbackRule struct {
	match func(q string) bool
	build func(q string) engine.QuerySpec
}

// fallbackRules is evaluated in order; first match wins.
var fallbackRules = []fallbackRule{
	// City ranking by sales: "which city has the highest sales?"
	{
		match: func(q string) bool {
			return strings.Contains(q, "which city") && containsAny(q, "highest", "best", "most", "top")
		},
		build: func(q string) engine.QuerySpec {
			return engine.QuerySpec{
				Intent:       "Find city with highest sales",
				Table:        "orders",
				GroupBy:      engine.GroupBy{"city"},
				Aggregations: map[string]string{"amount": engine.OpSum},
				SortBy:       "sum_amount",
				SortOrder:    "desc",
				Limit:        1,
			}
		},
	},
	// City delay analysis: "why were deliveries delayed in Chennai?"
	{
		match: func(q string) bool {
			return containsAny(q, "delay", "delayed") && len(citiesIn(q)) > 0
		},
		build: func(q string) engine.QuerySpec {
			city := titleCase(citiesIn(q)[0])
			return engine.QuerySpec{
				Intent: "Analyze delivery delays in " + city,
				Table:  "orders",
				Filters: engine.Filters{
					"city":   engine.NewFilterValue(city),
					"status": engine.NewFilterValue("Failed"),
				},
				GroupBy:      engine.GroupBy{"failure_reason"},
				Aggregations: map[string]string{"order_id": engine.OpCount},
				SortBy:       "count_order_id",
				SortOrder:    "desc",
			}
		},
	},
	// Two-city comparison: "compare Chennai and Mumbai"
	{
		match: func(q string) bool {
			return strings.Contains(q, "compare") && len(citiesIn(q)) >= 2
		},
		build: func(q string) engine.QuerySpec {
			cities := citiesIn(q)
			a, b := titleCase(cities[0]), titleCase(cities[1])
			return engine.QuerySpec{
				Intent:  "Compare " + a + " and " + b,
				Table:   "orders",
				GroupBy: engine.GroupBy{"city"},
				Filters: engine.Filters{
					"city": engine.NewFilterValue(a + "|" + b),
				},
				Aggregations: map[string]string{
					"amount":   engine.OpSum,
					"order_id": engine.OpCount,
				},
				SortBy:    "sum_amount",
				SortOrder: "desc",
			}
		},
	},
	// Client ranking: "top 5 clients", "worst clients"
	{
		match: func(q string) bool {
			return containsAny(q, "top", "best", "worst") && strings.Contains(q, "client")
		},
		build: func(q string) engine.QuerySpec {
			limit := 5
			if m := digitsPattern.FindString(q); m != "" {
				if n, err := strconv.Atoi(m); err == nil && n > 0 {
					limit = n
				}
			}
			return engine.QuerySpec{
				Intent:       "Rank top " + strconv.Itoa(limit) + " clients",
				Table:        "orders",
				GroupBy:      engine.GroupBy{"client_id"},
				Aggregations: map[string]string{"order_id": engine.OpCount},
				SortBy:       "count_order_id",
				SortOrder:    "desc",
				Limit:        limit,
			}
		},
	},
	// Client count: "how many clients in total?"
	{
		match: func(q string) bool {
			return containsAny(q, "how many client", "total client", "client count")
		},
		build: func(q string) engine.QuerySpec {
			return engine.QuerySpec{
				Intent:       "Count total clients",
				Table:        "clients",
				Aggregations: map[string]string{"client_id": engine.OpCount},
			}
		},
	},
}

// FallbackSpec derives a QuerySpec from the question text alone.
// Total: every input, including "", yields a valid spec and never panics.
func FallbackSpec(question string) engine.QuerySpec {
	q := strings.ToLower(strings.TrimSpace(question))

	for _, rule := range fallbackRules {
		if rule.match(q) {
			return rule.build(q).WithDefaults()
		}
	}

	// Generic order summary when nothing matches.
	return engine.QuerySpec{
		Intent: "General analysis",
		Table:  "orders",
		Aggregations: map[string]string{
			"order_id": engine.OpCount,
			"amount":   engine.OpSum,
		},
	}.WithDefaults()
}

// citiesIn returns the known cities mentioned in the lowercased question,
// in the fixed city-list order.
func citiesIn(q string) []string {
	var found []string
	for _, city := range knownCities {
		if strings.Contains(q, city) {
			found = append(found, city)
		}
	}
	return found
}

func containsAny(q string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(q, n) {
			return true
		}
	}
	return false
}

// titleCase uppercases the first letter: "chennai" → "Chennai".
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
