package risk

import (
	"regexp"
	"strconv"
	"strings"

	"collections-console/internal/models"
)

// DefaultStatus is assigned when no note text matches any status rule.
const DefaultStatus = "Active"

// statusRule maps a substring of note text to a categorical account status.
// Rules are evaluated in order and the first hit wins, so more specific
// terms must come before terms they could be confused with.
type statusRule struct {
	keyword string
	status  string
}

var statusRules = []statusRule{
	{"bankruptcy", "Bankruptcy"},
	{"legal", "Legal"},
	{"promise to pay", "Promise to Pay"},
	{"ptp", "Promise to Pay"},
	{"paid", "Paid"},
	{"dispute", "Dispute"},
	{"broken", "Broken Promise"},
	{"skip", "Skip"},
	{"deceased", "Deceased"},
	{"settlement", "Settlement"},
	{"arrangement", "Arrangement"},
}

// dpdPatterns are tried in order against each note's text. The first capture
// on the first matching note is the account's DPD.
var dpdPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*(?:days?\s*past\s*due|dpd)`),
	regexp.MustCompile(`(?i)dpd[:\s]\s*(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s*dpd`),
	regexp.MustCompile(`(?i)delinquent[:\s]\s*(\d+)`),
}

// noteText flattens the searchable free-text fields of a note into one
// lower-cased string.
func noteText(n models.Note) string {
	return strings.ToLower(n.Body + " " + n.Reason + " " + n.ReasonDetails)
}

// ExtractStatus derives a categorical status from a customer's notes,
// expected newest-first. Scanning stops at the first note whose text contains
// any rule keyword; within a note, rule-table order breaks ties.
func ExtractStatus(notes []models.Note) string {
	for _, n := range notes {
		text := noteText(n)
		for _, rule := range statusRules {
			if strings.Contains(text, rule.keyword) {
				return rule.status
			}
		}
	}
	return DefaultStatus
}

// ExtractDPD derives a days-past-due figure from a customer's notes, expected
// newest-first. When no note states a figure, falls back to a note-count
// heuristic.
func ExtractDPD(notes []models.Note) int {
	for _, n := range notes {
		text := noteText(n)
		for _, p := range dpdPatterns {
			if m := p.FindStringSubmatch(text); m != nil {
				if v, err := strconv.Atoi(m[1]); err == nil {
					return v
				}
			}
		}
	}
	return fallbackDPD(len(notes))
}

// fallbackDPD estimates delinquency from contact volume when no note states
// a figure. Kept exactly as shipped, clamp included: existing risk tiers for
// accounts without explicit DPD text depend on these values.
func fallbackDPD(count int) int {
	switch {
	case count > 10:
		return 60 + min(count*3, 120)
	case count > 5:
		return 30 + count*3
	default:
		return 10 + count*2
	}
}
