package rules

import (
	"regexp"
	"strconv"
	"strings"
)

// Timebound is a deadline found in a clause
type Timebound struct {
	Normalized string // canonical English form, e.g. "within 30 days"
	Raw        string // text as it appeared in the clause, lowercased
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "twelve": 12,
	"fourteen": 14, "fifteen": 15, "twenty": 20, "thirty": 30,
	"forty-five": 45, "sixty": 60, "ninety": 90,
	"un": 1, "une": 1, "deux": 2, "trois": 3, "quinze": 15, "trente": 30,
	"soixante": 60, "quatre-vingt-dix": 90,
}

const (
	numberWord = `(one|two|three|four|five|six|seven|eight|nine|ten|twelve|fourteen|fifteen|twenty|thirty|forty-five|sixty|ninety)`
	timeUnit   = `((?:business\s+|working\s+|calendar\s+)?(?:day|week|month|year)s?)`
	monthName  = `(?:january|february|march|april|may|june|july|august|september|october|november|december)`
)

var (
	withinDigits = regexp.MustCompile(`(?i)\bwithin\s+(?:[a-z-]+\s+)?\(?(\d+)\)?\s+` + timeUnit + `\b`)
	withinWords  = regexp.MustCompile(`(?i)\bwithin\s+` + numberWord + `\s+` + timeUnit + `\b`)
	relative     = regexp.MustCompile(`(?i)\b(\d+)\s+` + timeUnit + `\s+(from|after|before|of|following|prior\s+to)\b`)
	onOrBefore   = regexp.MustCompile(`(?i)\bon\s+or\s+before\s+(.+?)` + phraseEnd)
	byDate       = regexp.MustCompile(`(?i)\bby\s+(` + monthName + `\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?|\d{1,2}\s+` + monthName + `(?:\s+\d{4})?|\d{4}-\d{2}-\d{2}|the\s+end\s+of\s+(?:each|the|every)\s+(?:month|quarter|year))\b`)
	frenchWithin = regexp.MustCompile(`(?i)(?:^|\s)(?:dans\s+(?:un\s+délai\s+de|les)|sous)\s+(\d+|[a-z-]+)\s+(jours?|semaines?|mois|ans?|années?)(?:[^\p{L}]|$)`)
)

var frenchUnits = map[string]string{
	"jour": "day", "jours": "day",
	"semaine": "week", "semaines": "week",
	"mois": "month",
	"an": "year", "ans": "year", "année": "year", "années": "year",
}

// FindTimebound returns the first deadline expressed in text, normalized so
// equivalent wordings ("within thirty (30) days", "dans les 30 jours")
// compare equal.
func FindTimebound(text string) (Timebound, bool) {
	folded := fold(text)

	if m := withinDigits.FindStringSubmatch(folded); m != nil {
		n, _ := strconv.Atoi(m[1])
		return Timebound{Normalized: "within " + quantity(n, m[2]), Raw: m[0]}, true
	}
	if m := withinWords.FindStringSubmatch(folded); m != nil {
		return Timebound{Normalized: "within " + quantity(numberWords[m[1]], m[2]), Raw: m[0]}, true
	}
	if m := frenchWithin.FindStringSubmatchIndex(folded); m != nil {
		raw := strings.TrimSpace(folded[m[0]:m[5]])
		num := folded[m[2]:m[3]]
		n, err := strconv.Atoi(num)
		if err != nil {
			n = numberWords[num]
		}
		if n > 0 {
			unit := frenchUnits[folded[m[4]:m[5]]]
			return Timebound{Normalized: "within " + quantity(n, unit), Raw: raw}, true
		}
	}
	if m := relative.FindStringSubmatch(folded); m != nil {
		n, _ := strconv.Atoi(m[1])
		return Timebound{Normalized: quantity(n, m[2]) + " " + collapse(m[3]), Raw: m[0]}, true
	}
	if m := onOrBefore.FindStringSubmatch(folded); m != nil {
		date := strings.TrimSpace(m[1])
		return Timebound{Normalized: "on or before " + collapse(date), Raw: strings.TrimSpace("on or before " + date)}, true
	}
	if m := byDate.FindStringSubmatch(folded); m != nil {
		return Timebound{Normalized: "by " + collapse(strings.ReplaceAll(m[1], ",", "")), Raw: m[0]}, true
	}
	return Timebound{}, false
}

// ExtractTimebound returns the normalized deadline of a clause, or ""
func ExtractTimebound(text string) string {
	tb, _ := FindTimebound(text)
	return tb.Normalized
}

// quantity renders "N unit" with the unit singular for one and plural otherwise
func quantity(n int, unit string) string {
	unit = strings.TrimSuffix(collapse(unit), "s")
	if n != 1 {
		unit += "s"
	}
	return strconv.Itoa(n) + " " + unit
}
