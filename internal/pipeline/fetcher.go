package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/lexdiff/internal/util"
)

const (
	fetchAttempts  = 3
	fetchBaseDelay = time.Second
)

// fetchSleepFunc is swapped out by tests
var fetchSleepFunc = time.Sleep

// ErrDisallowed is returned when robots.txt forbids fetching a document
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Fetcher loads structured documents from local paths or http(s) URLs
type Fetcher struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, httpProxy, httpsProxy, noProxy string) *Fetcher {
	client := util.NewHTTPClient(timeout, httpProxy, httpsProxy, noProxy)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 3 {
			return fmt.Errorf("stopped after 3 redirects")
		}
		return nil
	}
	return &Fetcher{
		httpClient: client,
		userAgent:  userAgent,
		maxBytes:   maxBytes,
	}
}

// RespectRobots makes Load consult robots.txt before fetching a URL
func (f *Fetcher) RespectRobots() {
	f.robots = util.NewRobotsChecker(f.httpClient, f.userAgent)
}

// FetchResult contains the fetched document body and response metadata
type FetchResult struct {
	Data        []byte
	ContentType string
	FinalURL    string
}

// IsRemote reports whether source names an http(s) document
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Load returns the raw bytes of source, fetching it over HTTP when it is a URL
func (f *Fetcher) Load(ctx context.Context, source string) ([]byte, error) {
	if IsRemote(source) {
		if f.robots != nil {
			allowed, err := f.robots.Allowed(ctx, source)
			if err != nil {
				return nil, fmt.Errorf("fetch %s: %w", source, err)
			}
			if !allowed {
				return nil, fmt.Errorf("fetch %s: %w", source, ErrDisallowed)
			}
		}
		res, err := f.FetchWithRetry(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		return res.Data, nil
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	if f.maxBytes > 0 && info.Size() > f.maxBytes {
		return nil, fmt.Errorf("read %s: document exceeds %d bytes", source, f.maxBytes)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return data, nil
}

// Fetch retrieves a document from the given URL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json,application/yaml;q=0.9,text/yaml;q=0.9,*/*;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	limit := f.maxBytes
	if limit <= 0 {
		limit = 20 << 20
	}
	// One extra byte tells a full document apart from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("read body: document exceeds %d bytes", limit)
	}

	return &FetchResult{
		Data:        body,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// FetchWithRetry retries transient failures with exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			fetchSleepFunc(fetchBaseDelay << (attempt - 1))
		}

		res, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// isRetryableFetchError reports transport failures, 5xx and 429 as transient
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()

	if rest, ok := strings.CutPrefix(msg, "unexpected status: "); ok {
		code, _, _ := strings.Cut(rest, " ")
		status, convErr := strconv.Atoi(code)
		if convErr != nil {
			return false
		}
		return status == http.StatusTooManyRequests || status >= 500
	}

	return strings.HasPrefix(msg, "fetch: ")
}
