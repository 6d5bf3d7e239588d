package rules

import "strings"

// KnownVerbs is the verb vocabulary used for lemmatization and tagging
var KnownVerbs = map[string]bool{
	"accept": true, "access": true, "acknowledge": true, "act": true,
	"adhere": true, "advise": true, "agree": true, "allow": true,
	"anonymize": true, "apply": true, "appoint": true, "approve": true,
	"assign": true, "assist": true, "audit": true, "be": true,
	"cancel": true, "carry": true, "charge": true, "collect": true,
	"compensate": true, "comply": true, "conduct": true, "conform": true,
	"continue": true, "convey": true, "cooperate": true, "cure": true,
	"defend": true, "delete": true, "deliver": true, "designate": true,
	"destroy": true, "disclose": true, "do": true, "encrypt": true,
	"end": true, "engage": true, "ensure": true, "erase": true,
	"execute": true, "exceed": true, "extend": true, "file": true,
	"furnish": true, "get": true, "go": true, "grant": true,
	"guarantee": true, "have": true, "hold": true, "implement": true,
	"indemnify": true, "inform": true, "invoice": true, "issue": true,
	"keep": true, "license": true, "limit": true, "maintain": true,
	"make": true, "notify": true, "obtain": true, "pay": true,
	"perform": true, "permit": true, "preserve": true, "prevent": true,
	"process": true, "procure": true, "protect": true, "provide": true,
	"refund": true, "reimburse": true, "remain": true, "remit": true,
	"remunerate": true, "renew": true, "report": true, "represent": true,
	"restrict": true, "retain": true, "return": true, "review": true,
	"safeguard": true, "secure": true, "send": true, "share": true,
	"sign": true, "store": true, "sublicense": true, "submit": true,
	"supply": true, "survive": true, "take": true, "terminate": true,
	"transfer": true, "transmit": true, "use": true, "warrant": true,

	"payer": true, "fournir": true, "notifier": true, "informer": true,
	"livrer": true, "respecter": true, "garantir": true, "résilier": true,
	"conserver": true, "protéger": true, "maintenir": true, "transférer": true,
	"indemniser": true, "supprimer": true, "traiter": true, "communiquer": true,
	"assurer": true, "régler": true,
}

// Lemma strips common English inflections when the stem is a known verb.
// Unknown words are returned unchanged.
func Lemma(word string) string {
	w := strings.ToLower(word)
	if KnownVerbs[w] {
		return w
	}

	candidates := []string{}
	switch {
	case strings.HasSuffix(w, "ies"):
		candidates = append(candidates, strings.TrimSuffix(w, "ies")+"y")
	case strings.HasSuffix(w, "ied"):
		candidates = append(candidates, strings.TrimSuffix(w, "ied")+"y")
	}
	if strings.HasSuffix(w, "ing") {
		stem := strings.TrimSuffix(w, "ing")
		candidates = append(candidates, stem, stem+"e")
	}
	if strings.HasSuffix(w, "ed") {
		stem := strings.TrimSuffix(w, "ed")
		candidates = append(candidates, stem, stem+"e", strings.TrimSuffix(w, "d"))
	}
	if strings.HasSuffix(w, "es") {
		candidates = append(candidates, strings.TrimSuffix(w, "es"))
	}
	if strings.HasSuffix(w, "s") {
		candidates = append(candidates, strings.TrimSuffix(w, "s"))
	}

	for _, c := range candidates {
		if KnownVerbs[c] {
			return c
		}
	}
	return w
}

// IsVerb reports whether word inflects a known verb
func IsVerb(word string) bool {
	return KnownVerbs[Lemma(word)]
}
