package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/lexdiff/internal/llm"
)

func TestOpenAI_EmbedBatch(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		// answer out of order; vectors are placed by index
		_, _ = w.Write([]byte(`{"object":"list","model":"text-embedding-3-small","data":[
			{"object":"embedding","index":1,"embedding":[0,1]},
			{"object":"embedding","index":0,"embedding":[1,0]}
		],"usage":{"prompt_tokens":4,"total_tokens":4}}`))
	}))
	defer server.Close()

	e, err := NewOpenAI(llm.Config{APIKey: "test-key", BaseURL: server.URL + "/v1"}, "", 2)
	require.NoError(t, err)
	assert.Equal(t, "openai/text-embedding-3-small", e.Name())

	vs, err := e.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, vs)

	assert.Equal(t, "text-embedding-3-small", got["model"])
	assert.Equal(t, float64(2), got["dimensions"])
	assert.Equal(t, []any{"first", "second"}, got["input"])
}

func TestOpenAI_RequiresKey(t *testing.T) {
	_, err := NewOpenAI(llm.Config{}, "", 0)
	assert.Error(t, err)
}

func TestOpenAI_DimensionMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[1,0,0]}]}`))
	}))
	defer server.Close()

	e, err := NewOpenAI(llm.Config{APIKey: "k", BaseURL: server.URL + "/v1"}, "text-embedding-3-large", 2)
	require.NoError(t, err)
	_, err = e.Embed(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDimension)
}

func TestOllama_Embed(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		var req ollamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultOllamaModel, req.Model)

		v := []float64{1, 0}
		if req.Prompt == "second" {
			v = []float64{0, 1}
		}
		_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: v})
	}))
	defer server.Close()

	e := NewOllama(llm.Config{BaseURL: server.URL + "/"}, "")
	assert.Equal(t, "ollama/nomic-embed-text", e.Name())

	vs, err := e.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, vs)
	assert.Equal(t, 2, calls)
}

func TestOllama_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	_, err := NewOllama(llm.Config{BaseURL: server.URL}, "missing").Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestVoyage_EmbedBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer vk", r.Header.Get("Authorization"))
		var req voyageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultVoyageModel, req.Model)
		assert.Equal(t, "document", req.InputType)
		assert.Equal(t, []string{"a", "b"}, req.Input)

		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.5,0.5],"index":0},{"embedding":[0.1,0.9],"index":1}]}`))
	}))
	defer server.Close()

	e, err := NewVoyage(llm.Config{APIKey: "vk", BaseURL: server.URL}, "")
	require.NoError(t, err)

	vs, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.5, 0.5}, {0.1, 0.9}}, vs)
}

func TestVoyage_Errors(t *testing.T) {
	_, err := NewVoyage(llm.Config{}, "")
	assert.Error(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate limited`))
	}))
	defer server.Close()

	e, err := NewVoyage(llm.Config{APIKey: "vk", BaseURL: server.URL}, "")
	require.NoError(t, err)
	_, err = e.Embed(context.Background(), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
