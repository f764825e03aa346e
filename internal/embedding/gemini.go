package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "text-embedding-004"

// GeminiEncoder calls the Gemini embedding model.
type GeminiEncoder struct {
	client *genai.Client
	model  string
	dim    int
}

// NewGeminiEncoder creates a GeminiEncoder.
func NewGeminiEncoder(ctx context.Context, apiKey, model string, dim int) (*GeminiEncoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	if dim <= 0 {
		dim = 768
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEncoder{client: client, model: model, dim: dim}, nil
}

// Encode embeds a single text.
func (e *GeminiEncoder) Encode(ctx context.Context, text string) ([]float64, error) {
	em := e.client.EmbeddingModel(e.model)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed call failed: %w", err)
	}
	if res == nil || res.Embedding == nil {
		return nil, &EncoderFailure{Message: "empty embedding response"}
	}
	return Normalize(toFloat64(res.Embedding.Values)), nil
}

// EncodeBatch embeds texts with a single batch request.
func (e *GeminiEncoder) EncodeBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	em := e.client.EmbeddingModel(e.model)
	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}

	res, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("gemini batch embed call failed: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, &EncoderFailure{Message: fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(res.Embeddings))}
	}

	out := make([][]float64, len(texts))
	for i, emb := range res.Embeddings {
		if emb == nil {
			return nil, &EncoderFailure{Message: fmt.Sprintf("missing embedding at %d", i)}
		}
		out[i] = Normalize(toFloat64(emb.Values))
	}
	return out, nil
}

func (e *GeminiEncoder) Dimension() int { return e.dim }

func (e *GeminiEncoder) Version() string { return fmt.Sprintf("gemini-%s-%d", e.model, e.dim) }

// Close releases the underlying client.
func (e *GeminiEncoder) Close() error {
	return e.client.Close()
}
