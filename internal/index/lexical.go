// Package index provides the lexical (BM25, bleve) and dense (exact and
// approximate angular) indexes the retriever queries.
package index

// Lexical scores every document in corpus order against a query token set.
// A search that fails returns an error rather than partial scores.
type Lexical interface {
	Scores(query []string) ([]float64, error)
	Len() int
	Name() string
}

// Lexical backend names.
const (
	BackendBM25  = "bm25"
	BackendBleve = "bleve"
)

// NewLexical builds the named lexical backend over docs. An unknown or
// failing backend returns a DependencyUnavailable error.
func NewLexical(backend string, docs [][]string) (Lexical, error) {
	switch backend {
	case BackendBM25, "":
		return NewBM25(docs), nil
	case BackendBleve:
		return NewBleveLexical(docs)
	default:
		return nil, &DependencyUnavailable{Dependency: backend, Message: "unknown lexical backend"}
	}
}
