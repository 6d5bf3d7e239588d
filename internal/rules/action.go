package rules

import (
	"regexp"
	"strings"
)

// ActionMap folds verb synonyms into a closed action vocabulary
var ActionMap = map[string]string{
	"provide": "PROVIDE", "furnish": "PROVIDE", "supply": "PROVIDE",
	"protect": "PROTECT", "safeguard": "PROTECT", "secure": "PROTECT",
	"notify": "NOTIFY", "inform": "NOTIFY", "advise": "NOTIFY",
	"pay": "PAY", "compensate": "PAY", "remunerate": "PAY",
	"maintain": "MAINTAIN", "keep": "MAINTAIN", "preserve": "MAINTAIN",
	"comply": "COMPLY", "adhere": "COMPLY", "conform": "COMPLY",
	"deliver": "DELIVER", "transfer": "DELIVER", "convey": "DELIVER",
	"ensure": "ENSURE", "guarantee": "ENSURE", "warrant": "ENSURE",
	"terminate": "TERMINATE", "end": "TERMINATE", "cancel": "TERMINATE",
	"indemnify": "INDEMNIFY", "hold harmless": "INDEMNIFY",

	"fournir": "PROVIDE", "protéger": "PROTECT", "notifier": "NOTIFY",
	"informer": "NOTIFY", "payer": "PAY", "régler": "PAY",
	"maintenir": "MAINTAIN", "conserver": "MAINTAIN", "respecter": "COMPLY",
	"livrer": "DELIVER", "transférer": "DELIVER", "garantir": "ENSURE",
	"assurer": "ENSURE", "résilier": "TERMINATE", "indemniser": "INDEMNIFY",
}

// actionScanOrder fixes the order of the lexical fallback scan
var actionScanOrder = []string{
	"provide", "furnish", "supply", "protect", "safeguard", "secure",
	"notify", "inform", "advise", "pay", "compensate", "remunerate",
	"maintain", "keep", "preserve", "comply", "adhere", "conform",
	"deliver", "transfer", "convey", "ensure", "guarantee", "warrant",
	"terminate", "end", "cancel", "indemnify", "hold harmless",
}

var actionScanRe = phraseRegexp(actionScanOrder)

// NormalizeAction maps a verb onto the action vocabulary. Verbs outside the
// vocabulary are returned uppercased.
func NormalizeAction(verb string) string {
	v := collapse(fold(verb))
	if a, ok := ActionMap[v]; ok {
		return a
	}
	if lemma := Lemma(v); lemma != v {
		if a, ok := ActionMap[lemma]; ok {
			return a
		}
	}
	return strings.ToUpper(v)
}

var modalVerbRe = regexp.MustCompile(`(?i)\b(?:shall|must|will|may)\s+(?:not\s+)?([\p{L}]+)`)

// VerbAfterModal returns the word following "shall", "must", "will" or "may"
func VerbAfterModal(text string) (string, bool) {
	m := modalVerbRe.FindStringSubmatch(fold(text))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ScanAction returns the first vocabulary verb found in text
func ScanAction(text string) (string, bool) {
	folded := fold(text)
	loc := actionScanRe.FindStringSubmatchIndex(folded)
	if loc == nil {
		return "", false
	}
	return collapse(folded[loc[2]:loc[3]]), true
}
