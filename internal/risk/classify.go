package risk

import "strings"

// Level is a three-tier risk classification of an account.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// Classification thresholds and priority weights
const (
	criticalDPDThreshold = 90
	highDPDThreshold     = 30

	criticalWeight = 1000
	highWeight     = 500
	lowWeight      = 100

	// Balance contributes at most this much to priority, so one huge balance
	// cannot outrank a critical account.
	balanceWeightCap = 200
)

// Assessment is the risk tier derived for an account. Presentation (colors,
// icons) is a UI concern keyed off the level, not part of the assessment.
type Assessment struct {
	Level Level `json:"level"`
}

// Classify maps a (dpd, status) pair to a risk tier. Rules are evaluated in
// order, first match wins: bankruptcy or legal status is critical at any DPD.
func Classify(dpd int, status string) Assessment {
	s := strings.ToLower(status)
	switch {
	case dpd > criticalDPDThreshold || strings.Contains(s, "bankruptcy") || strings.Contains(s, "legal"):
		return Assessment{Level: LevelCritical}
	case dpd > highDPDThreshold:
		return Assessment{Level: LevelHigh}
	default:
		return Assessment{Level: LevelLow}
	}
}

// PriorityScore computes a sort/display weight for an account. It never
// affects the tier itself. Balance is optional; pass 0 when unknown.
func PriorityScore(dpd int, balance float64, status string) float64 {
	base := lowWeight
	switch Classify(dpd, status).Level {
	case LevelCritical:
		base = criticalWeight
	case LevelHigh:
		base = highWeight
	}

	balanceWeight := balance / 100
	if balanceWeight > balanceWeightCap {
		balanceWeight = balanceWeightCap
	}
	if balanceWeight < 0 {
		balanceWeight = 0
	}

	return float64(base) + float64(dpd*2) + balanceWeight
}
