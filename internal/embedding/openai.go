package embedding

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEncoder calls the OpenAI embeddings API.
type OpenAIEncoder struct {
	client *openai.Client
	model  string
	dim    int
}

// NewOpenAIEncoder creates an OpenAIEncoder. baseURL may be empty to use the
// public endpoint.
func NewOpenAIEncoder(apiKey, model string, dim int, baseURL string) (*OpenAIEncoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	if dim <= 0 {
		dim = 1536
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &OpenAIEncoder{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		dim:    dim,
	}, nil
}

// Encode embeds a single text.
func (e *OpenAIEncoder) Encode(ctx context.Context, text string) ([]float64, error) {
	vecs, err := e.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EncodeBatch embeds texts in one request and returns them in input order.
func (e *OpenAIEncoder) EncodeBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	}
	if strings.HasPrefix(e.model, "text-embedding-3") {
		req.Dimensions = e.dim
	}

	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai embeddings call failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, &EncoderFailure{Message: fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(resp.Data))}
	}

	out := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, &EncoderFailure{Message: fmt.Sprintf("embedding index %d out of range", d.Index)}
		}
		out[d.Index] = Normalize(toFloat64(d.Embedding))
	}
	return out, nil
}

func (e *OpenAIEncoder) Dimension() int { return e.dim }

func (e *OpenAIEncoder) Version() string { return fmt.Sprintf("openai-%s-%d", e.model, e.dim) }
