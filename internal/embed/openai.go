package embed

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/lexdiff/internal/llm"
)

// OpenAI embeds text with the OpenAI embeddings endpoint
type OpenAI struct {
	client *openai.Client
	model  openai.EmbeddingModel
	dims   int
}

// NewOpenAI creates an OpenAI embedder. dims of 0 keeps the model's
// native size.
func NewOpenAI(config llm.Config, model string, dims int) (*OpenAI, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAI{
		client: llm.NewOpenAIClient(config),
		model:  openai.EmbeddingModel(model),
		dims:   dims,
	}, nil
}

// Name implements Embedder
func (e *OpenAI) Name() string {
	return "openai/" + string(e.model)
}

// Embed implements Embedder
func (e *OpenAI) Embed(ctx context.Context, text string) ([]float64, error) {
	return first(e.EmbedBatch(ctx, []string{text}))
}

// EmbedBatch implements Embedder
func (e *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      texts,
		Model:      e.model,
		Dimensions: e.dims,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings failed: %w", err)
	}

	vectors := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("%w: index %d out of range", ErrCount, d.Index)
		}
		v := make([]float64, len(d.Embedding))
		for i, x := range d.Embedding {
			v[i] = float64(x)
		}
		vectors[d.Index] = v
	}

	if err := checkBatch(vectors, len(texts), e.dims); err != nil {
		return nil, err
	}
	return vectors, nil
}
