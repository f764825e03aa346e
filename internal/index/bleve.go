package index

import (
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/search/query"
)

const skillsField = "skills"

// BleveLexical scores documents with an in-memory bleve index. Each skill is
// indexed as a single keyword term so multi-word skills match whole.
type BleveLexical struct {
	idx  bleve.Index
	size int
}

// NewBleveLexical indexes docs in memory. Document IDs are corpus positions.
func NewBleveLexical(docs [][]string) (*BleveLexical, error) {
	m := bleve.NewIndexMapping()
	m.DefaultAnalyzer = keyword.Name

	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, &DependencyUnavailable{Dependency: BackendBleve, Message: "failed to create index", Cause: err}
	}

	batch := idx.NewBatch()
	for i, doc := range docs {
		if err := batch.Index(strconv.Itoa(i), map[string]any{skillsField: doc}); err != nil {
			_ = idx.Close()
			return nil, &DependencyUnavailable{Dependency: BackendBleve, Message: "failed to index document", Cause: err}
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, &DependencyUnavailable{Dependency: BackendBleve, Message: "failed to commit batch", Cause: err}
	}

	return &BleveLexical{idx: idx, size: len(docs)}, nil
}

// Scores runs a disjunction of term queries and maps hits back to corpus
// positions. Unmatched documents score zero.
func (b *BleveLexical) Scores(q []string) ([]float64, error) {
	scores := make([]float64, b.size)
	if len(q) == 0 || b.size == 0 {
		return scores, nil
	}

	terms := make([]query.Query, 0, len(q))
	for _, tok := range q {
		tq := bleve.NewTermQuery(tok)
		tq.SetField(skillsField)
		terms = append(terms, tq)
	}
	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(terms...), b.size, 0, false)

	res, err := b.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}
	for _, hit := range res.Hits {
		pos, err := strconv.Atoi(hit.ID)
		if err != nil || pos < 0 || pos >= b.size {
			continue
		}
		scores[pos] = hit.Score
	}
	return scores, nil
}

func (b *BleveLexical) Len() int { return b.size }

func (b *BleveLexical) Name() string { return BackendBleve }

// Close releases the in-memory index.
func (b *BleveLexical) Close() error {
	return b.idx.Close()
}
