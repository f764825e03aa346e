package index

import "github.com/jonathan/candidate-ranker/internal/embedding"

// Exact holds unit-normalized vectors and answers queries by brute force.
// For unit vectors the dot product is the cosine similarity.
type Exact struct {
	vecs [][]float64
	dim  int
}

// NewExact builds an exact index. All vectors must share one dimension.
func NewExact(vecs [][]float64) *Exact {
	dim := 0
	if len(vecs) > 0 {
		dim = len(vecs[0])
	}
	return &Exact{vecs: vecs, dim: dim}
}

// Similarities returns the cosine similarity of q to every vector.
func (e *Exact) Similarities(q []float64) []float64 {
	sims := make([]float64, len(e.vecs))
	for i, v := range e.vecs {
		sims[i] = embedding.Dot(q, v)
	}
	return sims
}

// SimilaritiesAt returns the cosine similarity of q to the vectors at positions.
func (e *Exact) SimilaritiesAt(q []float64, positions []int) []float64 {
	sims := make([]float64, len(positions))
	for i, p := range positions {
		sims[i] = embedding.Dot(q, e.vecs[p])
	}
	return sims
}

func (e *Exact) Len() int { return len(e.vecs) }

func (e *Exact) Dimension() int { return e.dim }
