package rules

import (
	"regexp"
	"strings"
)

// maxObjectWords bounds the object phrase taken after the action
const maxObjectWords = 5

var determiners = map[string]bool{
	"the": true, "a": true, "an": true, "its": true, "their": true,
	"such": true, "any": true, "all": true, "each": true, "his": true, "her": true,
	"le": true, "la": true, "les": true, "l'": true, "un": true, "une": true,
	"des": true, "du": true, "de": true, "d'": true, "ses": true, "son": true, "sa": true,
}

// objectBoundaries end an object phrase
var objectBoundaries = map[string]bool{
	"within": true, "by": true, "on": true, "before": true, "after": true,
	"if": true, "when": true, "whenever": true, "unless": true, "except": true,
	"excluding": true, "provided": true, "subject": true, "notwithstanding": true,
	"upon": true, "until": true, "pursuant": true, "under": true, "during": true,
	"save": true, "to": true, "for": true, "in": true, "at": true, "from": true,
	"with": true, "without": true, "via": true, "through": true, "and": true,
	"or": true, "that": true, "which": true, "who": true,
	"dans": true, "avant": true, "si": true, "sauf": true, "lorsque": true,
	"sous": true, "et": true, "ou": true, "au": true, "aux": true, "en": true,
}

var wordOrPunct = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}'-]*|[,;:.!?()]`)

type word struct {
	text  string
	punct bool
}

func words(text string) []word {
	raw := wordOrPunct.FindAllString(fold(text), -1)
	out := make([]word, 0, len(raw))
	for _, w := range raw {
		punct := strings.ContainsAny(w[:1], ",;:.!?()")
		// elided articles such as l'acheteur split into article and noun
		if !punct && len(w) > 2 && (strings.HasPrefix(w, "l'") || strings.HasPrefix(w, "d'")) {
			out = append(out, word{text: w[:2]}, word{text: w[2:]})
			continue
		}
		out = append(out, word{text: w, punct: punct})
	}
	return out
}

// actionIndex finds the first word that is the action verb or an inflection
// of it.
func actionIndex(ws []word, action string) int {
	action = fold(strings.TrimSpace(action))
	if action == "" {
		return -1
	}
	// multi-word actions such as "hold harmless" anchor on their last word
	parts := strings.Fields(action)
	last := parts[len(parts)-1]
	for i, w := range ws {
		if w.punct {
			continue
		}
		if w.text == last || (len(parts) == 1 && Lemma(w.text) == Lemma(last)) {
			return i
		}
	}
	return -1
}

// ObjectPhrase returns the noun phrase that follows the action: leading
// determiners are skipped, the phrase stops at punctuation or at a word that
// opens a deadline, condition or exception, and holds at most five words.
func ObjectPhrase(text, action string) string {
	ws := words(text)
	i := actionIndex(ws, action)
	if i < 0 {
		return ""
	}

	var phrase []string
	for _, w := range ws[i+1:] {
		if w.punct || objectBoundaries[w.text] {
			break
		}
		if len(phrase) == 0 && determiners[w.text] {
			continue
		}
		phrase = append(phrase, w.text)
		if len(phrase) == maxObjectWords {
			break
		}
	}
	return strings.Join(phrase, " ")
}

// WordWindow returns up to n words following the action, ignoring
// punctuation.
func WordWindow(text, action string, n int) string {
	ws := words(text)
	i := actionIndex(ws, action)
	if i < 0 {
		return ""
	}

	var window []string
	for _, w := range ws[i+1:] {
		if w.punct {
			continue
		}
		window = append(window, w.text)
		if len(window) == n {
			break
		}
	}
	return strings.Join(window, " ")
}

// windowFiller are words left behind once deadline, condition and exception
// phrases are cut from a clause
var windowFiller = map[string]bool{"where": true, "as": true, "then": true, "event": true}

// ObjectWindow returns the words following the action once the deadline and
// any condition or exception phrases have been cut from the text. It catches
// objects that ObjectPhrase misses because a boundary word comes first, as in
// "shall deliver within 10 days to the Buyer's warehouse".
func ObjectWindow(text, action string) string {
	folded := fold(text)
	if tb, ok := FindTimebound(folded); ok {
		folded = strings.Replace(folded, tb.Raw, " ", 1)
	}
	folded = collapse(folded)
	for _, p := range append(Conditions(folded), Exceptions(folded)...) {
		folded = strings.Replace(folded, p, " ", 1)
	}

	var kept []string
	for _, w := range strings.Fields(WordWindow(folded, action, maxObjectWords)) {
		if objectBoundaries[w] || windowFiller[w] || (len(kept) == 0 && determiners[w]) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// NormalizeObject lowercases an object and collapses its whitespace
func NormalizeObject(object string) string {
	return collapse(fold(object))
}
