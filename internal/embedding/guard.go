package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultTimeout bounds a single encoder call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Guard bounds every call to an Encoder with a timeout and rejects vectors
// that are nil, of the wrong dimension, non-finite or all zero. It never
// substitutes a fallback vector.
type Guard struct {
	inner   Encoder
	timeout time.Duration
}

// NewGuard wraps inner. A non-positive timeout selects DefaultTimeout.
func NewGuard(inner Encoder, timeout time.Duration) *Guard {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Guard{inner: inner, timeout: timeout}
}

// Encode calls the wrapped encoder under the timeout and validates the result.
func (g *Guard) Encode(ctx context.Context, text string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	vec, err := g.inner.Encode(ctx, text)
	if err != nil {
		return nil, g.wrap(err)
	}
	return g.check(vec)
}

// EncodeBatch calls the wrapped encoder under the timeout and validates
// every vector.
func (g *Guard) EncodeBatch(ctx context.Context, texts []string) ([][]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	vecs, err := g.inner.EncodeBatch(ctx, texts)
	if err != nil {
		return nil, g.wrap(err)
	}
	if len(vecs) != len(texts) {
		return nil, &EncoderFailure{Message: fmt.Sprintf("expected %d vectors, got %d", len(texts), len(vecs))}
	}
	out := make([][]float64, len(vecs))
	for i, v := range vecs {
		checked, err := g.check(v)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		out[i] = checked
	}
	return out, nil
}

func (g *Guard) Dimension() int { return g.inner.Dimension() }

func (g *Guard) Version() string { return g.inner.Version() }

func (g *Guard) wrap(err error) error {
	var ef *EncoderFailure
	if errors.As(err, &ef) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &EncoderFailure{Message: fmt.Sprintf("encoder timed out after %s", g.timeout), Cause: err}
	}
	return &EncoderFailure{Message: "encoder call failed", Cause: err}
}

// check validates vec and returns a unit-length copy of it.
func (g *Guard) check(vec []float64) ([]float64, error) {
	if vec == nil {
		return nil, &EncoderFailure{Message: "encoder returned no vector"}
	}
	if want := g.inner.Dimension(); len(vec) != want {
		return nil, &EncoderFailure{Message: fmt.Sprintf("expected dimension %d, got %d", want, len(vec))}
	}
	for i, x := range vec {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, &EncoderFailure{Message: fmt.Sprintf("non-finite value at component %d", i)}
		}
	}
	if Norm(vec) == 0 {
		return nil, &EncoderFailure{Message: "encoder returned a zero vector"}
	}

	out := make([]float64, len(vec))
	copy(out, vec)
	return Normalize(out), nil
}
