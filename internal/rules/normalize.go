package rules

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
)

var phrasePunct = regexp.MustCompile(`[,;:.!?]`)

// NormalizePhrase reduces a condition or exception to an order-insensitive
// token string: lowercased, punctuation and stopwords removed, tokens sorted.
func NormalizePhrase(phrase string) string {
	cleaned := phrasePunct.ReplaceAllString(fold(strings.TrimSpace(phrase)), "")

	tokens := make([]string, 0, 8)
	for _, tok := range strings.Fields(cleaned) {
		if !ConditionStopwords[tok] {
			tokens = append(tokens, tok)
		}
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// NormalizeCondition digests a condition so small rewordings compare equal
func NormalizeCondition(condition string) string {
	sum := md5.Sum([]byte(NormalizePhrase(condition)))
	return hex.EncodeToString(sum[:])[:12]
}

// NormalizeConditions applies NormalizeCondition to each condition
func NormalizeConditions(conditions []string) []string {
	out := make([]string, len(conditions))
	for i, c := range conditions {
		out[i] = NormalizeCondition(c)
	}
	return out
}

// NormalizeExceptions applies NormalizePhrase to each exception
func NormalizeExceptions(exceptions []string) []string {
	out := make([]string, len(exceptions))
	for i, e := range exceptions {
		out[i] = NormalizePhrase(e)
	}
	return out
}
