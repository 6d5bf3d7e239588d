package rules

import "regexp"

var exceptionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bexcept\s+(?:where|when|if|as|for)\s+(.+?)` + phraseEnd),
	regexp.MustCompile(`(?i)\bexcluding\s+(.+?)` + phraseEnd),
	regexp.MustCompile(`(?i)\bother\s+than\s+(.+?)` + phraseEnd),
	regexp.MustCompile(`(?i)\bsave\s+for\s+(.+?)` + phraseEnd),
	regexp.MustCompile(`(?i)\bunless\s+(.+?)` + phraseEnd),
	regexp.MustCompile(`(?i)\bnotwithstanding\s+(.+?)` + phraseEnd),
	regexp.MustCompile(`(?i)\bsubject\s+to\s+(.+?)` + phraseEnd),
	regexp.MustCompile(`(?i)\bwith\s+the\s+exception\s+of\s+(.+?)` + phraseEnd),
	regexp.MustCompile(`(?i)(?:^|\s)(?:sauf\s+(?:si|lorsque)|à\s+l'exception\s+de)\s+(.+?)` + phraseEnd),
}

// minExceptionLen drops fragments too short to carry meaning
const minExceptionLen = 5

// Exceptions extracts carve-outs from a clause in text order. Phrases are
// lowercased, trailing conjunctions are removed and fragments of five
// characters or fewer are skipped.
func Exceptions(text string) []string {
	return collectPhrases(fold(text), exceptionPatterns, minExceptionLen)
}

// ExceptionDiff compares two exception lists by their normalized form and
// returns the exceptions only present on each side, in original wording.
func ExceptionDiff(from, to []string) (added, removed []string) {
	fromKeys := make(map[string]bool, len(from))
	for _, e := range from {
		fromKeys[NormalizePhrase(e)] = true
	}
	toKeys := make(map[string]bool, len(to))
	for _, e := range to {
		toKeys[NormalizePhrase(e)] = true
	}

	seen := make(map[string]bool)
	for _, e := range to {
		key := NormalizePhrase(e)
		if !fromKeys[key] && !seen[key] {
			seen[key] = true
			added = append(added, e)
		}
	}
	seen = make(map[string]bool)
	for _, e := range from {
		key := NormalizePhrase(e)
		if !toKeys[key] && !seen[key] {
			seen[key] = true
			removed = append(removed, e)
		}
	}
	return added, removed
}
