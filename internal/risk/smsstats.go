package risk

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"collections-console/internal/models"
)

// Statuses assigned to accounts known only through SMS traffic.
const (
	smsOnlyStatus        = "SMS Only"
	smsOnlyOverdueStatus = "SMS Only - Overdue"

	// An SMS-only account whose messages mention a lateness beyond this many
	// days is flagged overdue.
	smsOverdueThreshold = 30
)

// SMSStats summarises one customer's outbound SMS traffic. Arrears and DPD
// figures are scraped from message bodies when present.
type SMSStats struct {
	Total         int      `json:"total"`
	Successful    int      `json:"successful"`
	Failed        int      `json:"failed"`
	SuccessRate   int      `json:"successRate"`
	LatestArrears *float64 `json:"latestArrears,omitempty"`
	LatestDPD     *int     `json:"latestDPD,omitempty"`
	LastSentDate  string   `json:"lastSentDate"`
}

var (
	// Monetary amounts in reminder texts, e.g. "Kes 12,340.50", "KES. 800".
	arrearsPattern = regexp.MustCompile(`(?i)kes\.?\s*([\d,]+(?:\.\d{2})?)`)
	// Lateness phrasing in reminder texts, e.g. "late by 45 days".
	lateByPattern = regexp.MustCompile(`(?i)late\s+by\s+(\d+)\s+days?`)
)

// ComputeSMSStats derives delivery statistics and scraped figures from a
// customer's SMS logs, expected newest-first. The first-encountered amount
// and lateness win, so with newest-first input "latest" means most recent.
func ComputeSMSStats(logs []models.SMSLog) SMSStats {
	stats := SMSStats{Total: len(logs), LastSentDate: "N/A"}
	if len(logs) == 0 {
		return stats
	}
	stats.LastSentDate = logs[0].DateSent

	for _, l := range logs {
		if strings.EqualFold(strings.TrimSpace(l.SendStatus), "success") {
			stats.Successful++
		}
		if stats.LatestArrears == nil {
			if m := arrearsPattern.FindStringSubmatch(l.Message); m != nil {
				raw := strings.ReplaceAll(m[1], ",", "")
				if v, err := strconv.ParseFloat(raw, 64); err == nil {
					stats.LatestArrears = &v
				}
			}
		}
		if stats.LatestDPD == nil {
			if m := lateByPattern.FindStringSubmatch(l.Message); m != nil {
				if v, err := strconv.Atoi(m[1]); err == nil {
					stats.LatestDPD = &v
				}
			}
		}
	}

	stats.Failed = stats.Total - stats.Successful
	stats.SuccessRate = int(math.Round(float64(stats.Successful) / float64(stats.Total) * 100))
	return stats
}

// FallbackFromSMS derives the (dpd, status) pair for an account that has SMS
// traffic but no notes.
func FallbackFromSMS(stats SMSStats) (int, string) {
	dpd := 0
	if stats.LatestDPD != nil {
		dpd = *stats.LatestDPD
	}
	if dpd > smsOverdueThreshold {
		return dpd, smsOnlyOverdueStatus
	}
	return dpd, smsOnlyStatus
}
