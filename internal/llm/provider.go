package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProvider is returned by NewProvider for unsupported provider names
var ErrUnknownProvider = errors.New("unknown LLM provider")

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a single prompt and returns the model's reply
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for one completion
type CompletionRequest struct {
	// System is the system instruction
	System string

	// Prompt is the user message
	Prompt string

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// JSON asks the provider to constrain the reply to a JSON object
	JSON bool
}

// CompletionResponse contains the model's reply
type CompletionResponse struct {
	// Text is the generated text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 800,
	}
}

func (c Config) model(override, fallback string) string {
	if override != "" {
		return override
	}
	if c.Model != "" {
		return c.Model
	}
	return fallback
}

func (c Config) maxTokens(override int) int {
	if override > 0 {
		return override
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 800
}

// AnalysisSystemPrompt instructs a model to act as a clause parser
const AnalysisSystemPrompt = `You are a linguistic parser for contract clauses. You never interpret, translate or summarize. You only report the grammatical structure of the clause you are given, as JSON.`

// BuildAnalysisPrompt asks for the grammatical structure of one clause
func BuildAnalysisPrompt(clause string) string {
	return fmt.Sprintf(`Parse the clause below and answer with a single JSON object with these fields:
- "root_verb": lemma of the main verb governed by the modal (shall, must, may, doit, peut...), in the clause's own language
- "verbs": lemmas of every verb in the clause
- "entities": named organisations or persons, each {"text": ..., "label": "ORG" or "PERSON"}
- "object": the direct object of the main verb without determiners, in the clause's own language

Do not add fields. Do not explain.

Clause:
%s`, clause)
}

// ExtractJSON returns the first JSON object in a model reply, dropping
// Markdown code fences and surrounding prose.
func ExtractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}
