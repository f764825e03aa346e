// Package retrieval implements two-stage candidate retrieval: a lexical
// prefilter followed by a dense rerank, merged into one hybrid score.
package retrieval

import (
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/candidate-ranker/internal/index"
	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	// DefaultPrefilterTopN is how many lexical hits survive to the dense stage.
	DefaultPrefilterTopN = 50

	lexicalWeight  = 0.3
	semanticWeight = 0.7
	normEpsilon    = 1e-10
)

// Options configures a Retriever.
type Options struct {
	Hybrid        bool
	PrefilterTopN int
}

// Retriever answers top-K queries over one immutable set of indexes.
type Retriever struct {
	exact      *index.Exact
	lexical    index.Lexical  // nil when lexical search is unavailable
	angular    *index.Angular // nil when no approximate index was built
	hybrid     bool
	prefilterN int
}

// New creates a Retriever. lexical and angular may be nil.
func New(exact *index.Exact, lexical index.Lexical, angular *index.Angular, opts Options) *Retriever {
	n := opts.PrefilterTopN
	if n <= 0 {
		n = DefaultPrefilterTopN
	}
	return &Retriever{
		exact:      exact,
		lexical:    lexical,
		angular:    angular,
		hybrid:     opts.Hybrid,
		prefilterN: n,
	}
}

// Retrieve returns up to k candidates for the query ordered by score
// descending, ties broken by position. Hybrid retrieval is used when enabled
// and the query has skills. Otherwise the approximate index is used for
// unweighted queries when available, and exact search in every other case.
// A failing lexical search is returned as an error.
func (r *Retriever) Retrieve(querySkills []string, queryVec []float64, k int, weighted bool) ([]types.RetrievalResult, error) {
	if r.exact == nil || r.exact.Len() == 0 || k <= 0 {
		return []types.RetrievalResult{}, nil
	}

	switch {
	case r.hybrid && r.lexical != nil && len(querySkills) > 0:
		return r.hybridSearch(querySkills, queryVec, k)
	case !weighted && r.angular != nil:
		return r.approximateSearch(queryVec, k), nil
	default:
		return r.exactSearch(queryVec, k), nil
	}
}

// Method reports which strategy Retrieve would use for the given query shape.
func (r *Retriever) Method(hasSkills, weighted bool) string {
	switch {
	case r.hybrid && r.lexical != nil && hasSkills:
		return types.MethodHybrid
	case !weighted && r.angular != nil:
		return types.MethodApproximate
	default:
		return types.MethodExact
	}
}

func (r *Retriever) hybridSearch(querySkills []string, queryVec []float64, k int) ([]types.RetrievalResult, error) {
	lex, err := r.lexical.Scores(querySkills)
	if err != nil {
		return nil, fmt.Errorf("lexical search failed: %w", err)
	}

	maxLex := 0.0
	for _, s := range lex {
		maxLex = max(maxLex, s)
	}

	positions, sems := r.prefilter(lex, queryVec)

	results := make([]types.RetrievalResult, len(positions))
	for i, pos := range positions {
		sem := clampSimilarity(sems[i])
		norm := lex[pos] / (maxLex + normEpsilon)
		results[i] = types.RetrievalResult{
			Position:      pos,
			LexicalScore:  lex[pos],
			SemanticScore: sem,
			HybridScore:   lexicalWeight*norm + semanticWeight*sem,
			Method:        types.MethodHybrid,
		}
	}
	return truncate(sortResults(results), k), nil
}

// prefilter picks the candidates the dense stage reranks, with their raw
// similarities. Lexical matches come first; when fewer than prefilterN
// documents match, the remaining slots go to the most similar non-matches.
func (r *Retriever) prefilter(lex []float64, queryVec []float64) ([]int, []float64) {
	matched := make([]int, 0, len(lex))
	for pos, s := range lex {
		if s > 0 {
			matched = append(matched, pos)
		}
	}
	if len(matched) >= r.prefilterN || len(matched) == len(lex) {
		positions := topPositions(lex, r.prefilterN)
		return positions, r.exact.SimilaritiesAt(queryVec, positions)
	}

	all := r.exact.Similarities(queryVec)
	fill := make([]float64, len(all))
	for pos, s := range all {
		if lex[pos] > 0 {
			fill[pos] = math.Inf(-1)
		} else {
			fill[pos] = s
		}
	}

	positions := topPositions(lex, len(matched))
	positions = append(positions, topPositions(fill, r.prefilterN-len(matched))...)
	sems := make([]float64, len(positions))
	for i, pos := range positions {
		sems[i] = all[pos]
	}
	return positions, sems
}

func (r *Retriever) exactSearch(queryVec []float64, k int) []types.RetrievalResult {
	sims := r.exact.Similarities(queryVec)
	results := make([]types.RetrievalResult, len(sims))
	for pos, s := range sims {
		sem := clampSimilarity(s)
		results[pos] = types.RetrievalResult{
			Position:      pos,
			SemanticScore: sem,
			HybridScore:   sem,
			Method:        types.MethodExact,
		}
	}
	return truncate(sortResults(results), k)
}

func (r *Retriever) approximateSearch(queryVec []float64, k int) []types.RetrievalResult {
	neighbors := r.angular.Nearest(queryVec, k)
	results := make([]types.RetrievalResult, len(neighbors))
	for i, nb := range neighbors {
		sem := clampSimilarity(nb.Similarity)
		results[i] = types.RetrievalResult{
			Position:      nb.Position,
			SemanticScore: sem,
			HybridScore:   sem,
			Method:        types.MethodApproximate,
		}
	}
	return sortResults(results)
}

// topPositions returns the positions of the n highest scores, ties broken
// by position.
func topPositions(scores []float64, n int) []int {
	positions := make([]int, len(scores))
	for i := range positions {
		positions[i] = i
	}
	sort.SliceStable(positions, func(i, j int) bool {
		return scores[positions[i]] > scores[positions[j]]
	})
	if len(positions) > n {
		positions = positions[:n]
	}
	return positions
}

func sortResults(results []types.RetrievalResult) []types.RetrievalResult {
	sort.Slice(results, func(i, j int) bool {
		if results[i].HybridScore != results[j].HybridScore {
			return results[i].HybridScore > results[j].HybridScore
		}
		return results[i].Position < results[j].Position
	})
	return results
}

func truncate(results []types.RetrievalResult, k int) []types.RetrievalResult {
	if len(results) > k {
		return results[:k]
	}
	return results
}

// clampSimilarity maps a cosine into [0, 1]; opposite directions count as
// no similarity.
func clampSimilarity(s float64) float64 {
	return min(max(s, 0), 1)
}
