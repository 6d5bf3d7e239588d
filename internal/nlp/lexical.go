package nlp

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/ppiankov/lexdiff/internal/rules"
)

// verbWindow bounds how far after a modal the main verb is searched
const verbWindow = 6

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}'-]*`)

var modalWords = map[string]bool{
	"shall": true, "must": true, "will": true, "may": true, "can": true,
	"cannot": true, "should": true,
	"doit": true, "doivent": true, "peut": true, "peuvent": true,
}

// modalCues introduce an infinitive without being modal verbs themselves
var modalCues = map[string]bool{
	"entitled": true, "required": true, "obligated": true, "permitted": true,
	"authorized": true, "authorised": true, "prohibited": true, "right": true,
	"tenu": true, "tenue": true, "tenus": true, "droit": true,
}

// verbSkip are the words between a modal and its main verb
var verbSkip = map[string]bool{
	"not": true, "be": true, "been": true, "have": true, "has": true,
	"also": true, "hereby": true, "further": true, "only": true, "to": true,
	"from": true, "the": true, "right": true, "entitled": true,
	"required": true, "obligated": true, "permitted": true, "authorized": true,
	"authorised": true, "allowed": true, "prohibited": true,
	"ne": true, "pas": true, "de": true, "d'": true, "le": true, "droit": true,
	"également": true, "aussi": true,
}

// notVerbs cannot start a verb phrase; hitting one means the modal is
// followed by an inserted phrase such as "at its option"
var notVerbs = map[string]bool{
	"at": true, "in": true, "on": true, "upon": true, "for": true, "with": true,
	"by": true, "as": true, "its": true, "their": true, "a": true, "an": true,
	"any": true, "all": true, "such": true, "within": true, "if": true,
	"unless": true, "where": true, "when": true, "à": true, "en": true,
	"dans": true, "sous": true, "sa": true, "son": true, "ses": true,
}

var determinerWords = map[string]bool{
	"the": true, "a": true, "an": true, "any": true, "all": true, "each": true,
	"such": true, "this": true, "that": true, "these": true, "those": true,
	"le": true, "la": true, "les": true, "un": true, "une": true, "des": true,
	"du": true, "ce": true, "cette": true, "ces": true,
}

// functionWords are not proper nouns even when capitalised
var functionWords = map[string]bool{
	"if": true, "when": true, "whenever": true, "where": true, "unless": true,
	"notwithstanding": true, "subject": true, "except": true, "provided": true,
	"in": true, "upon": true, "on": true, "for": true, "no": true, "neither": true,
	"nothing": true, "either": true, "both": true, "without": true, "after": true,
	"before": true, "during": true, "within": true, "under": true, "pursuant": true,
	"si": true, "lorsque": true, "sauf": true, "dans": true, "en": true,
	"chaque": true, "aucun": true, "aucune": true, "il": true,
}

// Lexical is a deterministic heuristic analyzer. It tags modal verbs, the
// verb vocabulary of the rules package and capitalised words, and treats
// the first content word after a modal as the main verb.
type Lexical struct{}

// NewLexical returns the lexical analyzer
func NewLexical() *Lexical { return &Lexical{} }

// Parse tags text. It only fails when ctx is done.
func (l *Lexical) Parse(ctx context.Context, text string) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized := strings.ReplaceAll(text, "’", "'")
	raw := tokenRe.FindAllString(normalized, -1)

	tokens := make([]Token, len(raw))
	for i, w := range raw {
		lower := strings.ToLower(w)
		tokens[i] = Token{Text: w, Lemma: rules.Lemma(lower), POS: tagOf(w, lower)}
	}

	a := &Analysis{
		Tokens:        tokens,
		VerbTokens:    []string{},
		NamedEntities: []Entity{},
		Objects:       map[string]string{},
	}

	root := -1
	for i, t := range tokens {
		if t.POS != POSModal && !modalCues[strings.ToLower(t.Text)] {
			continue
		}
		if j := mainVerb(tokens, i); j >= 0 {
			root = j
			break
		}
	}
	if root < 0 {
		for i, t := range tokens {
			if t.POS == POSVerb {
				root = i
				break
			}
		}
	}
	if root >= 0 {
		tokens[root].POS = POSVerb
		a.RootVerb = tokens[root].Lemma
	}

	seen := map[string]bool{}
	for _, t := range tokens {
		if t.POS != POSVerb || seen[t.Lemma] {
			continue
		}
		seen[t.Lemma] = true
		a.VerbTokens = append(a.VerbTokens, t.Lemma)
		if phrase := rules.ObjectPhrase(normalized, t.Lemma); phrase != "" {
			a.Objects[t.Lemma] = phrase
		}
	}

	a.NamedEntities = properRuns(tokens)
	return a, nil
}

func tagOf(w, lower string) string {
	switch {
	case modalWords[lower]:
		return POSModal
	case determinerWords[lower]:
		return POSDet
	case isNumber(lower):
		return POSNum
	case rules.IsVerb(lower):
		return POSVerb
	case isCapitalised(w) && !functionWords[lower]:
		return POSProper
	default:
		return POSNoun
	}
}

// mainVerb finds the verb governed by the modal at index i. The first
// content word is taken unless it opens an inserted phrase, in which case
// the first known verb of the window is used.
func mainVerb(tokens []Token, i int) int {
	for j := i + 1; j < len(tokens) && j <= i+verbWindow; j++ {
		lower := strings.ToLower(tokens[j].Text)
		if tokens[j].POS == POSModal || verbSkip[lower] || isAdverb(lower) {
			continue
		}
		if notVerbs[lower] || tokens[j].POS == POSNum || tokens[j].POS == POSDet {
			for k := j + 1; k < len(tokens) && k <= i+verbWindow; k++ {
				if rules.IsVerb(strings.ToLower(tokens[k].Text)) {
					return k
				}
			}
			return -1
		}
		return j
	}
	return -1
}

func properRuns(tokens []Token) []Entity {
	entities := []Entity{}
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		words := make([]string, 0, end-start)
		for _, t := range tokens[start:end] {
			words = append(words, t.Text)
		}
		entities = append(entities, Entity{Text: strings.Join(words, " "), Label: "ORG", Index: start})
		start = -1
	}
	for i, t := range tokens {
		if t.POS == POSProper {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(tokens))
	return entities
}

func isAdverb(lower string) bool {
	return len(lower) > 4 && strings.HasSuffix(lower, "ly") && !rules.IsVerb(lower)
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func isCapitalised(w string) bool {
	for _, r := range w {
		return unicode.IsUpper(r)
	}
	return false
}

func wordCount(s string) int {
	n := len(strings.Fields(s))
	if n == 0 {
		return 1
	}
	return n
}
