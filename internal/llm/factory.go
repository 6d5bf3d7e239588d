package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/lexdiff/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "", "lexical":
		// No provider configured - return nil (LLM disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: %s (supported: openai, anthropic, ollama)", ErrUnknownProvider, config.Provider)
	}
}

// ConfigFromModel builds the provider configuration for the LLM analyzer
func ConfigFromModel(analyzer model.AnalyzerConfig, llmCfg model.LLMConfig) Config {
	cfg := Config{
		Provider:   analyzer.Provider,
		Model:      analyzer.Model,
		APIKey:     llmCfg.APIKey,
		BaseURL:    llmCfg.BaseURL,
		Timeout:    llmCfg.Timeout,
		MaxTokens:  llmCfg.MaxTokens,
		HTTPProxy:  llmCfg.HTTPProxy,
		HTTPSProxy: llmCfg.HTTPSProxy,
		NoProxy:    llmCfg.NoProxy,
	}
	if cfg.APIKey == "" {
		cfg.APIKey = APIKeyFromEnv(cfg.Provider)
	}
	if cfg.BaseURL == "" && strings.EqualFold(cfg.Provider, "ollama") {
		cfg.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	return cfg
}

// APIKeyFromEnv returns the conventional API key variable for a provider
func APIKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "voyage":
		return os.Getenv("VOYAGE_API_KEY")
	default:
		return ""
	}
}
