// Package embedding defines the text Encoder contract, its concrete
// variants, and the wrappers that bound and validate encoder calls.
package embedding

import (
	"context"
	"fmt"
	"strings"
)

// Encoder turns text into a fixed-length, L2-normalized dense vector.
// Implementations must be deterministic for a given Version.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float64, error)
	EncodeBatch(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
	Version() string
}

// Kind selects an encoder variant.
type Kind string

const (
	KindHashing Kind = "hashing"
	KindOpenAI  Kind = "openai"
	KindGemini  Kind = "gemini"
)

// Config describes which encoder to construct.
type Config struct {
	Kind      Kind
	Dimension int
	Model     string
	APIKey    string
	BaseURL   string
}

// New constructs the encoder variant named by cfg.Kind. Callers wrap the
// result in a Guard before using it for ranking.
func New(ctx context.Context, cfg Config) (Encoder, error) {
	var (
		enc Encoder
		err error
	)

	switch cfg.Kind {
	case KindHashing, "":
		enc = NewHashingEncoder(cfg.Dimension)
	case KindOpenAI:
		enc, err = NewOpenAIEncoder(cfg.APIKey, cfg.Model, cfg.Dimension, cfg.BaseURL)
	case KindGemini:
		enc, err = NewGeminiEncoder(ctx, cfg.APIKey, cfg.Model, cfg.Dimension)
	default:
		return nil, fmt.Errorf("unknown encoder kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, err
	}
	return enc, nil
}

// ProfileText renders a skill list as encoder input.
func ProfileText(skills []string) string {
	if len(skills) == 0 {
		return "no skills"
	}
	return strings.Join(skills, " ")
}
