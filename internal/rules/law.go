package rules

import (
	"regexp"
	"strings"
)

var lawPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:GDPR|LGPD|CCPA|HIPAA)\b`),
	regexp.MustCompile(`(?i)\bpursuant\s+to\s+(.+?)` + phraseEnd),
	regexp.MustCompile(`(?i)\bunder\s+(.+?)\s+law\b`),
	regexp.MustCompile(`(?i)\bconformément\s+(?:au|à\s+la|aux)\s+(.+?)` + phraseEnd),
}

// LawReference returns the first statute or legal basis cited by a clause,
// as written, or "" when there is none.
func LawReference(text string) string {
	for _, re := range lawPatterns {
		if m := re.FindString(text); m != "" {
			return strings.TrimRight(strings.TrimSpace(m), ".,;")
		}
	}
	return ""
}
