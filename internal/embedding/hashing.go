package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
)

// DefaultDimension is the vector size used when none is configured.
const DefaultDimension = 384

// HashingEncoder maps whitespace tokens into a fixed number of buckets. The
// first half of the vector holds signed buckets; the second half only ever
// accumulates positive counts, so any text with at least one token encodes
// to a non-zero vector. It needs no model or network and gives identical
// output for identical token multisets.
type HashingEncoder struct {
	dim int
}

// NewHashingEncoder creates a HashingEncoder with dim buckets.
func NewHashingEncoder(dim int) *HashingEncoder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &HashingEncoder{dim: dim}
}

// Encode hashes each token of text into the vector and normalizes it.
// Text with no tokens yields a zero vector, which the Guard rejects.
func (e *HashingEncoder) Encode(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, e.dim)
	signed := e.dim / 2
	positive := e.dim - signed
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()

		if signed > 0 {
			idx := int(sum % uint64(signed))
			if sum&(1<<63) != 0 {
				vec[idx]--
			} else {
				vec[idx]++
			}
		}
		vec[signed+int((sum>>32)%uint64(positive))]++
	}
	return Normalize(vec), nil
}

// EncodeBatch encodes each text in order.
func (e *HashingEncoder) EncodeBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, err := e.Encode(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *HashingEncoder) Dimension() int { return e.dim }

func (e *HashingEncoder) Version() string { return fmt.Sprintf("hashing-fnv64a-v2-%d", e.dim) }
