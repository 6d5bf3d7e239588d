package rules

import (
	"regexp"

	"github.com/ppiankov/lexdiff/internal/model"
)

type modalEntry struct {
	phrase   string
	modality model.Modality
}

// modalLexicon maps modal phrases to the modality they express. When several
// phrases start at the same position the longest one applies.
var modalLexicon = []modalEntry{
	{"shall", model.ModalityObligation},
	{"must", model.ModalityObligation},
	{"will", model.ModalityObligation},
	{"should", model.ModalityObligation},
	{"required to", model.ModalityObligation},
	{"obligated to", model.ModalityObligation},
	{"may", model.ModalityPermission},
	{"can", model.ModalityPermission},
	{"permitted to", model.ModalityPermission},
	{"authorized to", model.ModalityPermission},
	{"authorised to", model.ModalityPermission},
	{"shall not", model.ModalityProhibition},
	{"must not", model.ModalityProhibition},
	{"may not", model.ModalityProhibition},
	{"will not", model.ModalityProhibition},
	{"should not", model.ModalityProhibition},
	{"cannot", model.ModalityProhibition},
	{"can not", model.ModalityProhibition},
	{"prohibited from", model.ModalityProhibition},
	{"entitled to", model.ModalityRight},
	{"has the right", model.ModalityRight},
	{"have the right", model.ModalityRight},
	{"shall be entitled to", model.ModalityRight},
	{"shall have the right", model.ModalityRight},

	{"doit", model.ModalityObligation},
	{"doivent", model.ModalityObligation},
	{"est tenu de", model.ModalityObligation},
	{"est tenue de", model.ModalityObligation},
	{"sont tenus de", model.ModalityObligation},
	{"ne doit pas", model.ModalityProhibition},
	{"ne doivent pas", model.ModalityProhibition},
	{"ne peut pas", model.ModalityProhibition},
	{"ne peuvent pas", model.ModalityProhibition},
	{"il est interdit", model.ModalityProhibition},
	{"peut", model.ModalityPermission},
	{"peuvent", model.ModalityPermission},
	{"a le droit de", model.ModalityRight},
	{"ont le droit de", model.ModalityRight},
}

var (
	modalRe      *regexp.Regexp
	modalByWords map[string]model.Modality
	conditionRe  = regexp.MustCompile(`(?i)^\s*(?:if|when|whenever|provided|in the event|si|lorsque)\b`)
)

func init() {
	phrases := make([]string, len(modalLexicon))
	modalByWords = make(map[string]model.Modality, len(modalLexicon))
	for i, e := range modalLexicon {
		phrases[i] = e.phrase
		modalByWords[e.phrase] = e.modality
	}
	modalRe = phraseRegexp(phrases)
}

// ModalSpan locates the first modal phrase in text. It returns the phrase as
// written in the lexicon and its byte offsets, or ok=false.
func ModalSpan(text string) (phrase string, start, end int, ok bool) {
	folded := fold(text)
	loc := modalRe.FindStringSubmatchIndex(folded)
	if loc == nil {
		return "", 0, 0, false
	}
	return collapse(folded[loc[2]:loc[3]]), loc[2], loc[3], true
}

// HasModal reports whether text carries any legal modal cue
func HasModal(text string) bool {
	_, _, _, ok := ModalSpan(text)
	return ok
}

// Modality classifies a clause by its first modal phrase. Clauses without a
// modal that open with a condition cue are CONDITION; everything else
// defaults to OBLIGATION.
func Modality(text string) model.Modality {
	phrase, _, _, ok := ModalSpan(text)
	if ok {
		if m, found := modalByWords[phrase]; found {
			return m
		}
		return model.ModalityObligation
	}
	if conditionRe.MatchString(text) {
		return model.ModalityCondition
	}
	return model.ModalityObligation
}
