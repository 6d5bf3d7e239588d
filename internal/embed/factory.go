package embed

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/lexdiff/internal/cache"
	"github.com/ppiankov/lexdiff/internal/llm"
	"github.com/ppiankov/lexdiff/internal/model"
	"github.com/ppiankov/lexdiff/internal/worker"
)

// ErrUnknownProvider is returned by New for unsupported embedder names
var ErrUnknownProvider = errors.New("unknown embedding provider")

// New builds the configured embedder. Remote providers are rate limited;
// every provider gets the LRU cache when cache_size is positive and the
// disk cache when disk_cache_dir is set.
func New(cfg model.EmbedderConfig, llmCfg model.LLMConfig) (Embedder, error) {
	provider := strings.ToLower(cfg.Provider)
	clientCfg := clientConfig(provider, cfg, llmCfg)

	var (
		e      Embedder
		remote = true
		err    error
	)
	switch provider {
	case "", "hashing":
		e, remote = NewHashing(cfg.Dimensions), false
	case "openai":
		e, err = NewOpenAI(clientCfg, cfg.Model, cfg.Dimensions)
	case "ollama":
		e = NewOllama(clientCfg, cfg.Model)
	case "voyage":
		e, err = NewVoyage(clientCfg, cfg.Model)
	default:
		return nil, fmt.Errorf("%w: %s (supported: hashing, openai, ollama, voyage)", ErrUnknownProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if remote && cfg.RequestsPerSecond > 0 {
		e = NewLimited(e, worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst))
	}

	if cfg.CacheSize > 0 {
		var store cache.Cache
		if cfg.DiskCacheDir != "" {
			store = cache.NewDiskCache(filepath.Join(cfg.DiskCacheDir, "embeddings"), cfg.CacheTTL)
		}
		e, err = NewCached(e, cfg.CacheSize, store, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

func clientConfig(provider string, cfg model.EmbedderConfig, llmCfg model.LLMConfig) llm.Config {
	c := llm.Config{
		Provider:   provider,
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Timeout:    llmCfg.Timeout,
		HTTPProxy:  llmCfg.HTTPProxy,
		HTTPSProxy: llmCfg.HTTPSProxy,
		NoProxy:    llmCfg.NoProxy,
	}
	if c.APIKey == "" {
		c.APIKey = llm.APIKeyFromEnv(provider)
	}
	if c.BaseURL == "" && provider == "ollama" {
		c.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	return c
}
