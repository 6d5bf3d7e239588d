// Package nlp provides the linguistic analysis used to build clause
// objects: verb detection, named entities and verb objects.
package nlp

import (
	"context"
	"fmt"
)

// Part-of-speech tags produced by the analyzers
const (
	POSModal  = "MD"
	POSVerb   = "VERB"
	POSDet    = "DET"
	POSNum    = "NUM"
	POSProper = "PROPN"
	POSNoun   = "NOUN"
)

// Token is one word of the analysed clause
type Token struct {
	Text  string `json:"text"`
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
}

// Entity is a named entity. Index is the token index of its first word.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Index int    `json:"index"`
}

// Analysis is the result of parsing one clause
type Analysis struct {
	RootVerb      string            `json:"root_verb"`
	VerbTokens    []string          `json:"verb_tokens"`
	NamedEntities []Entity          `json:"named_entities"`
	Tokens        []Token           `json:"tokens"`
	Objects       map[string]string `json:"objects"`
}

// Analyzer parses clause text. An analyzer that degrades may return a
// usable Analysis together with a non-nil error; callers decide whether to
// use it.
type Analyzer interface {
	Parse(ctx context.Context, text string) (*Analysis, error)
}

// FallbackError reports that Provider failed and the accompanying Analysis
// comes from the lexical analyzer.
type FallbackError struct {
	Provider string
	Err      error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("%s analysis failed, lexical fallback used: %v", e.Provider, e.Err)
}

func (e *FallbackError) Unwrap() error { return e.Err }

// VerbAfter returns the lemma of the first verb within window tokens after
// index i.
func (a *Analysis) VerbAfter(i, window int) (string, bool) {
	for j := i + 1; j < len(a.Tokens) && j <= i+window; j++ {
		if a.Tokens[j].POS == POSVerb {
			return a.Tokens[j].Lemma, true
		}
	}
	return "", false
}

// EntityBefore returns the first ORG or PERSON entity with a word in the
// window tokens preceding index i.
func (a *Analysis) EntityBefore(i, window int) (Entity, bool) {
	lo := i - window
	for _, e := range a.NamedEntities {
		if e.Label != "ORG" && e.Label != "PERSON" {
			continue
		}
		end := e.Index + wordCount(e.Text) - 1
		if e.Index < i && end >= lo {
			return e, true
		}
	}
	return Entity{}, false
}
