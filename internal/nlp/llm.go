package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/lexdiff/internal/llm"
	"github.com/ppiankov/lexdiff/internal/logger"
	"github.com/ppiankov/lexdiff/internal/rules"
	"github.com/ppiankov/lexdiff/internal/worker"
)

// ErrEmptyReply is returned when a model reply holds no JSON object
var ErrEmptyReply = errors.New("model reply has no JSON object")

// LLMAnalyzer asks an LLM provider for the clause structure and merges it
// over the lexical analysis. A provider failure returns the lexical result
// with a *FallbackError.
type LLMAnalyzer struct {
	provider llm.Provider
	model    string
	lexical  *Lexical
	limiter  *worker.Limiter
	log      logger.Logger
}

// LLMOption configures an LLMAnalyzer
type LLMOption func(*LLMAnalyzer)

// WithModel overrides the provider's default model
func WithModel(model string) LLMOption {
	return func(a *LLMAnalyzer) { a.model = model }
}

// WithLimiter rate-limits provider calls, keyed by provider name
func WithLimiter(l *worker.Limiter) LLMOption {
	return func(a *LLMAnalyzer) { a.limiter = l }
}

// WithLogger sets the logger used to report fallbacks
func WithLogger(l logger.Logger) LLMOption {
	return func(a *LLMAnalyzer) { a.log = logger.OrNop(l) }
}

// NewLLMAnalyzer creates an analyzer backed by provider
func NewLLMAnalyzer(provider llm.Provider, opts ...LLMOption) *LLMAnalyzer {
	a := &LLMAnalyzer{
		provider: provider,
		lexical:  NewLexical(),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type llmReply struct {
	RootVerb string   `json:"root_verb"`
	Verbs    []string `json:"verbs"`
	Entities []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"entities"`
	Object string `json:"object"`
}

// Parse implements Analyzer
func (a *LLMAnalyzer) Parse(ctx context.Context, text string) (*Analysis, error) {
	base, err := a.lexical.Parse(ctx, text)
	if err != nil {
		return nil, err
	}

	reply, err := a.ask(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.log.Debug("llm analysis failed", "provider", a.provider.Name(), "error", err)
		return base, &FallbackError{Provider: a.provider.Name(), Err: err}
	}

	merge(base, reply)
	return base, nil
}

func (a *LLMAnalyzer) ask(ctx context.Context, text string) (*llmReply, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, a.provider.Name()); err != nil {
			return nil, err
		}
	}

	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		System: llm.AnalysisSystemPrompt,
		Prompt: llm.BuildAnalysisPrompt(text),
		Model:  a.model,
		JSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	raw := llm.ExtractJSON(resp.Text)
	if raw == "" {
		return nil, ErrEmptyReply
	}

	var reply llmReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	return &reply, nil
}

// merge overlays the model's answer on the lexical analysis. Entities are
// placed at the token where their first word occurs.
func merge(a *Analysis, r *llmReply) {
	if root := strings.ToLower(strings.TrimSpace(r.RootVerb)); root != "" {
		a.RootVerb = rules.Lemma(root)
	}

	if len(r.Verbs) > 0 {
		verbs := make([]string, 0, len(r.Verbs))
		for _, v := range r.Verbs {
			if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
				verbs = append(verbs, rules.Lemma(v))
			}
		}
		a.VerbTokens = verbs
	}

	if len(r.Entities) > 0 {
		entities := make([]Entity, 0, len(r.Entities))
		for _, e := range r.Entities {
			idx := tokenIndex(a.Tokens, e.Text)
			if idx < 0 {
				continue
			}
			label := strings.ToUpper(e.Label)
			if label == "" {
				label = "ORG"
			}
			entities = append(entities, Entity{Text: e.Text, Label: label, Index: idx})
		}
		a.NamedEntities = entities
	}

	if obj := strings.TrimSpace(r.Object); obj != "" && a.RootVerb != "" {
		a.Objects[a.RootVerb] = obj
	}
}

func tokenIndex(tokens []Token, text string) int {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return -1
	}
	first := strings.Trim(fields[0], ".,;:")
	for i, t := range tokens {
		if strings.EqualFold(t.Text, first) {
			return i
		}
	}
	return -1
}
