package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobotsChecker_Allowed(t *testing.T) {
	var robotsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits.Add(1)
			_, _ = fmt.Fprint(w, "User-agent: lexdiff\nDisallow: /private/\n\nUser-agent: *\nDisallow: /\n")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewRobotsChecker(&http.Client{Timeout: 5 * time.Second}, "lexdiff/0.1 (+https://github.com/ppiankov/lexdiff)")
	ctx := context.Background()

	allowed, err := checker.Allowed(ctx, server.URL+"/terms/v2.json")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = checker.Allowed(ctx, server.URL+"/private/draft.json")
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.Equal(t, int32(1), robotsHits.Load(), "robots.txt is fetched once per host")
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewRobotsChecker(&http.Client{Timeout: 5 * time.Second}, "lexdiff/0.1")
	allowed, err := checker.Allowed(context.Background(), server.URL+"/terms.json")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	checker := NewRobotsChecker(&http.Client{Timeout: time.Second}, "lexdiff/0.1")
	allowed, err := checker.Allowed(context.Background(), url+"/terms.json")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestNormalizeUserAgent(t *testing.T) {
	assert.Equal(t, "lexdiff", NormalizeUserAgent("lexdiff/0.1 (+https://github.com/ppiankov/lexdiff)"))
	assert.Equal(t, "curl", NormalizeUserAgent("curl"))
	assert.Equal(t, "", NormalizeUserAgent(""))
}
