package rules

import (
	"regexp"
	"strings"
)

type roleEntry struct {
	term string
	role string
}

// partyRoles maps role terms to canonical party names
var partyRoles = []roleEntry{
	{"controller", "DATA_CONTROLLER"},
	{"data controller", "DATA_CONTROLLER"},
	{"processor", "DATA_PROCESSOR"},
	{"data processor", "DATA_PROCESSOR"},
	{"sub-processor", "SUB_PROCESSOR"},
	{"subprocessor", "SUB_PROCESSOR"},
	{"sub processor", "SUB_PROCESSOR"},
	{"data subject", "DATA_SUBJECT"},
	{"data subjects", "DATA_SUBJECT"},

	{"vendor", "VENDOR"},
	{"supplier", "SUPPLIER"},
	{"provider", "SERVICE_PROVIDER"},
	{"service provider", "SERVICE_PROVIDER"},
	{"customer", "CUSTOMER"},
	{"client", "CLIENT"},
	{"buyer", "BUYER"},
	{"seller", "SELLER"},
	{"purchaser", "PURCHASER"},
	{"licensor", "LICENSOR"},
	{"licensee", "LICENSEE"},
	{"employer", "EMPLOYER"},
	{"employee", "EMPLOYEE"},
	{"landlord", "LANDLORD"},
	{"tenant", "TENANT"},

	{"company", "COMPANY"},
	{"organization", "ORGANIZATION"},
	{"organisation", "ORGANIZATION"},
	{"entity", "ENTITY"},
	{"corporation", "CORPORATION"},
	{"enterprise", "ENTERPRISE"},

	{"party", "PARTY"},
	{"parties", "PARTIES"},
	{"counterparty", "COUNTERPARTY"},

	{"auditor", "AUDITOR"},
	{"regulator", "REGULATOR"},
	{"authority", "AUTHORITY"},
	{"agent", "AGENT"},
	{"representative", "REPRESENTATIVE"},
}

// frenchPartyRoles covers French contract vocabulary
var frenchPartyRoles = []roleEntry{
	{"client", "CUSTOMER"},
	{"cliente", "CUSTOMER"},
	{"fournisseur", "SUPPLIER"},
	{"prestataire", "SERVICE_PROVIDER"},
	{"acheteur", "BUYER"},
	{"vendeur", "SELLER"},
	{"responsable du traitement", "DATA_CONTROLLER"},
	{"sous-traitant", "DATA_PROCESSOR"},
	{"personne concernée", "DATA_SUBJECT"},
	{"société", "COMPANY"},
	{"partie", "PARTY"},
	{"parties", "PARTIES"},
	{"bailleur", "LANDLORD"},
	{"locataire", "TENANT"},
	{"employeur", "EMPLOYER"},
	{"salarié", "EMPLOYEE"},
}

type rolePass struct {
	re    *regexp.Regexp
	roles map[string]string
}

var (
	englishModalAfter = `(?:shall|must|will|may|can|cannot|should|agrees|is\s+entitled|is\s+required|has\s+the\s+right)`
	frenchModalAfter  = `(?:doit|doivent|peut|peuvent|ne|est\s+tenue?|a\s+le\s+droit|s'engage)`

	englishRoles      map[string]string
	roleModalPasses   []rolePass
	roleArticlePasses []rolePass

	possessiveRe = regexp.MustCompile(`(?i)\b([a-z][a-z-]*)'s\s+(?:obligation|obligations|duty|duties|right|rights|responsibility|responsibilities)\b`)
	theNounModal = regexp.MustCompile(`(?i)\bthe\s+([a-z][a-z-]*)\s+(?:shall|must|will|may)\b`)
)

func init() {
	en := roleIndex(partyRoles)
	englishRoles = en
	fr := roleIndex(frenchPartyRoles)
	enAlt := phraseAlternation(roleTerms(partyRoles))
	frAlt := phraseAlternation(roleTerms(frenchPartyRoles))

	roleModalPasses = []rolePass{
		{regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(` + enAlt + `)\s+` + englishModalAfter + `(?:[^\p{L}\p{N}_]|$)`), en},
		{regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(` + frAlt + `)\s+` + frenchModalAfter + `(?:[^\p{L}\p{N}_]|$)`), fr},
	}
	roleArticlePasses = []rolePass{
		{regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])the\s+(` + enAlt + `)(?:[^\p{L}\p{N}_]|$)`), en},
		{regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(?:le\s+|la\s+|les\s+|l')(` + frAlt + `)(?:[^\p{L}\p{N}_]|$)`), fr},
	}
}

func roleIndex(entries []roleEntry) map[string]string {
	idx := make(map[string]string, len(entries))
	for _, e := range entries {
		idx[e.term] = e.role
	}
	return idx
}

func roleTerms(entries []roleEntry) []string {
	terms := make([]string, len(entries))
	for i, e := range entries {
		terms[i] = e.term
	}
	return terms
}

// Party finds the acting party from the role vocabulary. A role term
// directly followed by a modal is preferred; otherwise the first role
// introduced by a definite article is used. Within a pass the earliest
// occurrence wins and, at the same position, the longest term.
func Party(text string) (string, bool) {
	folded := fold(text)
	if role, ok := earliestRole(folded, roleModalPasses); ok {
		return role, true
	}
	return earliestRole(folded, roleArticlePasses)
}

func earliestRole(text string, passes []rolePass) (string, bool) {
	best := -1
	role := ""
	for _, p := range passes {
		loc := p.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if best >= 0 && loc[2] >= best {
			continue
		}
		term := collapse(text[loc[2]:loc[3]])
		if r, ok := p.roles[term]; ok {
			best = loc[2]
			role = r
		}
	}
	return role, best >= 0
}

// CanonicalParty maps a party name to its role when it is a known role term
func CanonicalParty(name string) string {
	term := collapse(fold(name))
	term = strings.ReplaceAll(term, "_", " ")
	if role, ok := englishRoles[term]; ok {
		return role
	}
	return strings.ReplaceAll(strings.ToUpper(term), " ", "_")
}

// PossessiveParty handles "X's obligation" and "the X shall" constructs
func PossessiveParty(text string) (string, bool) {
	folded := fold(text)
	for _, re := range []*regexp.Regexp{possessiveRe, theNounModal} {
		if m := re.FindStringSubmatch(folded); m != nil {
			return CanonicalParty(m[1]), true
		}
	}
	return "", false
}
