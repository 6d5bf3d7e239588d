package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/lexdiff/internal/llm"
	"github.com/ppiankov/lexdiff/internal/util"
)

const (
	voyageAPI = "https://api.voyageai.com/v1/embeddings"

	// DefaultVoyageModel is used when no embedding model is configured
	DefaultVoyageModel = "voyage-3-lite"
)

// Voyage embeds text with the Voyage AI API
type Voyage struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

type voyageRequest struct {
	Input     []string `json:"input"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type,omitempty"`
}

type voyageResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// NewVoyage creates a Voyage embedder. config.BaseURL overrides the endpoint.
func NewVoyage(config llm.Config, model string) (*Voyage, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("VOYAGE_API_KEY environment variable not set")
	}
	if model == "" {
		model = DefaultVoyageModel
	}
	endpoint := config.BaseURL
	if endpoint == "" {
		endpoint = voyageAPI
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Voyage{
		apiKey:     config.APIKey,
		model:      model,
		endpoint:   endpoint,
		httpClient: util.NewHTTPClient(timeout, config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
	}, nil
}

// Name implements Embedder
func (e *Voyage) Name() string {
	return "voyage/" + e.model
}

// Embed implements Embedder
func (e *Voyage) Embed(ctx context.Context, text string) ([]float64, error) {
	return first(e.EmbedBatch(ctx, []string{text}))
}

// EmbedBatch implements Embedder
func (e *Voyage) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	jsonBody, err := json.Marshal(voyageRequest{Input: texts, Model: e.model, InputType: "document"})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp voyageResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	vectors := make([][]float64, len(texts))
	for _, d := range apiResp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("%w: index %d out of range", ErrCount, d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	if err := checkBatch(vectors, len(texts), 0); err != nil {
		return nil, err
	}
	return vectors, nil
}
