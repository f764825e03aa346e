package ranking

import (
	"sort"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// FilterMin drops results whose final score is below minScore.
func FilterMin(results []types.SearchResult, minScore float64) []types.SearchResult {
	kept := make([]types.SearchResult, 0, len(results))
	for _, r := range results {
		if r.FinalScore >= minScore {
			kept = append(kept, r)
		}
	}
	return kept
}

// Rank sorts results by final score descending, ties broken by ID ascending.
func Rank(results []types.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].ID < results[j].ID
	})
}

// Top returns at most k results.
func Top(results []types.SearchResult, k int) []types.SearchResult {
	if k >= 0 && len(results) > k {
		return results[:k]
	}
	return results
}
