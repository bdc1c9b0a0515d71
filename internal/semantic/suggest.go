// Package semantic ranks near-miss identifiers for failed lookups and
// normalizes words for docstring search.
package semantic

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Suggester picks "did you mean" candidates for a failed identifier lookup
// using Jaro-Winkler similarity.
type Suggester struct {
	threshold float64
	max       int
}

// NewSuggester creates a suggester. Out-of-range arguments fall back to the
// defaults: threshold 0.85, at most three suggestions.
func NewSuggester(threshold float64, max int) *Suggester {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.85
	}
	if max <= 0 {
		max = 3
	}
	return &Suggester{threshold: threshold, max: max}
}

// Suggest returns the candidates closest to query, best first, capped at the
// configured maximum. Scoring is case-insensitive; ties keep candidate order.
func (s *Suggester) Suggest(query string, candidates []string) []string {
	type scored struct {
		name  string
		score float64
	}

	lowered := strings.ToLower(query)
	seen := make(map[string]bool, len(candidates))
	var ranked []scored
	for _, cand := range candidates {
		if cand == "" || seen[cand] {
			continue
		}
		seen[cand] = true
		score, err := edlib.StringsSimilarity(lowered, strings.ToLower(cand), edlib.JaroWinkler)
		if err != nil || float64(score) < s.threshold {
			continue
		}
		ranked = append(ranked, scored{name: cand, score: float64(score)})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > s.max {
		ranked = ranked[:s.max]
	}
	names := make([]string, 0, len(ranked))
	for _, c := range ranked {
		names = append(names, c.name)
	}
	return names
}
