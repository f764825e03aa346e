package ranking

import (
	"testing"

	"github.com/jonathan/candidate-ranker/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestRank_SortsDescendingWithIDTieBreak(t *testing.T) {
	results := []types.SearchResult{
		{ID: "c", FinalScore: 0.5},
		{ID: "a", FinalScore: 0.9},
		{ID: "b", FinalScore: 0.5},
	}
	Rank(results)

	ids := []string{results[0].ID, results[1].ID, results[2].ID}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestFilterMin(t *testing.T) {
	results := []types.SearchResult{{ID: "a", FinalScore: 0.98}, {ID: "b", FinalScore: 0.5}}

	assert.Empty(t, FilterMin(results, 0.99))
	assert.NotNil(t, FilterMin(results, 0.99))
	assert.Len(t, FilterMin(results, 0.5), 2)
}

func TestTop(t *testing.T) {
	results := []types.SearchResult{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	assert.Len(t, Top(results, 2), 2)
	assert.Len(t, Top(results, 10), 3)
}
