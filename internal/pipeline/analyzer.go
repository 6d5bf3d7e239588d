package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/lexdiff/internal/cache"
	"github.com/ppiankov/lexdiff/internal/llm"
	"github.com/ppiankov/lexdiff/internal/logger"
	"github.com/ppiankov/lexdiff/internal/model"
	"github.com/ppiankov/lexdiff/internal/nlp"
	"github.com/ppiankov/lexdiff/internal/worker"
)

const cacheCleanupInterval = 10 * time.Minute

// NewAnalyzer builds the configured clause analyzer behind an analysis
// cache. LLM analyzers are rate limited and may persist their cache to disk.
func NewAnalyzer(cfg model.AnalyzerConfig, llmCfg model.LLMConfig, log logger.Logger) (nlp.Analyzer, error) {
	provider := strings.ToLower(cfg.Provider)

	if provider == "" || provider == "lexical" {
		memory := cache.NewMemoryCache(cfg.CacheTTL, cacheCleanupInterval)
		return nlp.NewCached(nlp.NewLexical(), memory, "lexical", cfg.CacheTTL), nil
	}

	p, err := llm.NewProvider(llm.ConfigFromModel(cfg, llmCfg))
	if err != nil {
		return nil, fmt.Errorf("analyzer provider: %w", err)
	}

	analyzer := nlp.NewLLMAnalyzer(p,
		nlp.WithModel(cfg.Model),
		nlp.WithLimiter(worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst)),
		nlp.WithLogger(log),
	)

	var store cache.Cache = cache.NewMemoryCache(cfg.CacheTTL, cacheCleanupInterval)
	if cfg.DiskCacheDir != "" {
		store = cache.NewLayeredCache(cfg.CacheTTL, filepath.Join(cfg.DiskCacheDir, "analysis"), cfg.CacheTTL)
	}
	return nlp.NewCached(analyzer, store, provider+"/"+cfg.Model, cfg.CacheTTL), nil
}
