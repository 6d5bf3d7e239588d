package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const remoteDoc = `{"payment": "The Customer shall pay each invoice within 30 days of receipt."}`

func noSleep(t *testing.T) {
	t.Helper()
	orig := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	t.Cleanup(func() { fetchSleepFunc = orig })
}

func TestFetchWithRetry_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, remoteDoc)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, "", "", "")
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, remoteDoc, string(result.Data))
	assert.Equal(t, "application/json", result.ContentType)
}

func TestFetchWithRetry_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, remoteDoc)
	}))
	defer server.Close()
	noSleep(t)

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, "", "", "")
	result, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, remoteDoc, string(result.Data))
	assert.EqualValues(t, 3, attempts.Load())
}

func TestFetchWithRetry_PermanentFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()
	noSleep(t)

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, "", "", "")
	_, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	assert.EqualError(t, err, "unexpected status: 404 404 Not Found")
	assert.EqualValues(t, 1, attempts.Load(), "client errors are not retried")
}

func TestFetchWithRetry_AllRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	noSleep(t)

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, "", "", "")
	_, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	assert.Error(t, err)
	assert.EqualValues(t, 3, attempts.Load())
}

func TestFetchWithRetry_429Retried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = fmt.Fprint(w, remoteDoc)
	}))
	defer server.Close()
	noSleep(t)

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, "", "", "")
	_, err := fetcher.FetchWithRetry(context.Background(), server.URL)
	require.NoError(t, err)
	assert.EqualValues(t, 2, attempts.Load())
}

func TestFetch_TooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, strings.Repeat("x", 64))
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 32, "", "", "")
	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.False(t, isRetryableFetchError(err), "oversized bodies are not retried")
}

func TestLoad_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(remoteDoc), 0o644))

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, "", "", "")
	data, err := fetcher.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, remoteDoc, string(data))

	small := NewFetcher(5*time.Second, "test-agent", 8, "", "", "")
	_, err = small.Load(context.Background(), path)
	assert.Error(t, err, "local files obey the size limit")

	_, err = fetcher.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoad_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, remoteDoc)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, "", "", "")
	data, err := fetcher.Load(context.Background(), server.URL+"/v2.json")
	require.NoError(t, err)
	assert.Equal(t, remoteDoc, string(data))
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://example.com/terms.json", true},
		{"HTTP://example.com/terms.yaml", true},
		{"terms.json", false},
		{"/tmp/http/terms.json", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRemote(tt.source), tt.source)
	}
}

func TestIsRetryableFetchError(t *testing.T) {
	tests := []struct {
		err       string
		retryable bool
	}{
		{"unexpected status: 503 Service Unavailable", true},
		{"unexpected status: 500 Internal Server Error", true},
		{"unexpected status: 502 Bad Gateway", true},
		{"unexpected status: 429 Too Many Requests", true},
		{"unexpected status: 404 Not Found", false},
		{"unexpected status: 403 Forbidden", false},
		{"unexpected status: 401 Unauthorized", false},
		{"fetch: connection refused", true},
		{"fetch: connection reset by peer", true},
		{"create request: invalid URL", false},
		{"read body: unexpected EOF", false},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			assert.Equal(t, tt.retryable, isRetryableFetchError(fmt.Errorf("%s", tt.err)))
		})
	}
}

func TestIsRetryableFetchError_Nil(t *testing.T) {
	assert.False(t, isRetryableFetchError(nil))
}

func TestLoad_RobotsDisallowed(t *testing.T) {
	var docHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
			return
		}
		docHits.Add(1)
		_, _ = fmt.Fprint(w, remoteDoc)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, "test-agent", 1<<20, "", "", "")
	fetcher.RespectRobots()

	_, err := fetcher.Load(context.Background(), server.URL+"/private/terms.json")
	require.ErrorIs(t, err, ErrDisallowed)
	assert.Zero(t, docHits.Load(), "disallowed documents are not requested")

	_, err = fetcher.Load(context.Background(), server.URL+"/public/terms.json")
	assert.NoError(t, err)
}
