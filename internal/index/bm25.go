package index

import "math"

// BM25 parameters (Okapi variant).
const (
	bm25K1      = 1.5
	bm25B       = 0.75
	bm25Epsilon = 0.25
)

// BM25 is an Okapi BM25 ranking over token documents. Each document is a
// profile's skill-token list.
type BM25 struct {
	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
	idf       map[string]float64
}

// NewBM25 indexes docs.
func NewBM25(docs [][]string) *BM25 {
	b := &BM25{
		termFreqs: make([]map[string]int, len(docs)),
		docLens:   make([]int, len(docs)),
		idf:       make(map[string]float64),
	}

	docFreq := make(map[string]int)
	total := 0
	for i, doc := range docs {
		tf := make(map[string]int, len(doc))
		for _, tok := range doc {
			tf[tok]++
		}
		b.termFreqs[i] = tf
		b.docLens[i] = len(doc)
		total += len(doc)
		for tok := range tf {
			docFreq[tok]++
		}
	}
	if len(docs) > 0 {
		b.avgDocLen = float64(total) / float64(len(docs))
	}

	// Terms present in half the corpus or more get a non-positive raw idf;
	// those are floored to a fraction of the mean positive idf so a match
	// always scores above no match.
	n := float64(len(docs))
	var posSum float64
	var posCount int
	var floored []string
	for tok, df := range docFreq {
		v := math.Log(n-float64(df)+0.5) - math.Log(float64(df)+0.5)
		b.idf[tok] = v
		if v > 0 {
			posSum += v
			posCount++
		} else {
			floored = append(floored, tok)
		}
	}
	eps := bm25Epsilon
	if posCount > 0 {
		eps = bm25Epsilon * posSum / float64(posCount)
	}
	for _, tok := range floored {
		b.idf[tok] = eps
	}
	return b
}

// Scores returns the BM25 score of every document for query.
// It never fails.
func (b *BM25) Scores(query []string) ([]float64, error) {
	scores := make([]float64, len(b.termFreqs))
	if len(query) == 0 || b.avgDocLen == 0 {
		return scores, nil
	}

	for _, q := range query {
		idf, ok := b.idf[q]
		if !ok {
			continue
		}
		for i, tf := range b.termFreqs {
			f := float64(tf[q])
			if f == 0 {
				continue
			}
			norm := 1 - bm25B + bm25B*float64(b.docLens[i])/b.avgDocLen
			scores[i] += idf * (f * (bm25K1 + 1)) / (f + bm25K1*norm)
		}
	}
	return scores, nil
}

func (b *BM25) Len() int { return len(b.termFreqs) }

func (b *BM25) Name() string { return BackendBM25 }
