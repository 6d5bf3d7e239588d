package rules

import (
	"regexp"
	"sort"
	"strings"
)

// phraseEnd terminates a captured phrase at a clause separator, a sentence
// end or the end of the text.
const phraseEnd = `(?:[,;]|\.(?:\s|$)|$)`

var conditionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:if|when|whenever|unless)\s+(.+?)(?:\s+then\b|` + phraseEnd + `)`),
	regexp.MustCompile(`(?i)\bprovided\s+that\s+(.+?)` + phraseEnd),
	regexp.MustCompile(`(?i)\bsubject\s+to\s+(.+?)` + phraseEnd),
	regexp.MustCompile(`(?i)\bin\s+the\s+event\s+(?:that\s+)?(.+?)` + phraseEnd),
	regexp.MustCompile(`(?i)(?:^|\s)(?:si|lorsque|à\s+condition\s+que)\s+(.+?)` + phraseEnd),
}

type span struct {
	start int
	text  string
}

// Conditions extracts the conditional phrases of a clause in text order
func Conditions(text string) []string {
	return collectPhrases(fold(text), conditionPatterns, 0)
}

func collectPhrases(text string, patterns []*regexp.Regexp, minLen int) []string {
	var found []span
	for _, re := range patterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			phrase := strings.TrimSpace(text[loc[2]:loc[3]])
			phrase = trailingConjunction.ReplaceAllString(phrase, "")
			if phrase == "" || len(phrase) <= minLen {
				continue
			}
			found = append(found, span{start: loc[2], text: collapse(phrase)})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].start < found[j].start
	})

	seen := make(map[string]bool, len(found))
	out := make([]string, 0, len(found))
	for _, s := range found {
		if seen[s.text] {
			continue
		}
		seen[s.text] = true
		out = append(out, s.text)
	}
	return out
}

var trailingConjunction = regexp.MustCompile(`\s+(?:and|or|but|et|ou)$`)
