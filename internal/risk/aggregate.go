// Package risk implements the account-aggregation and risk-derivation
// pipeline: grouping notes and SMS logs by customer, extracting delinquency
// signals from free text with ordered rule tables, and classifying the
// result into risk tiers. Everything here is pure: dirty data degrades to
// defaults, never to errors.
package risk

import (
	"sort"
	"strings"

	"collections-console/internal/models"
)

// group collects one customer's records during an aggregation pass.
// accountNumbers preserves first-encountered order so that account-number
// resolution is deterministic run to run.
type group struct {
	notes          []models.Note
	sms            []models.SMSLog
	accountNumbers []string
	accountSeen    map[string]struct{}
}

// FallbackAccountID synthesizes the account id for a customer none of whose
// records carry an account number.
func FallbackAccountID(custNumber string) string {
	return "SMS-" + custNumber
}

// AggregateAccounts merges note and SMS collections into one account per
// customer. Records whose customer identifier is a placeholder are dropped
// silently. Both inputs are expected newest-first per customer; the
// aggregator does not re-sort them. The result is sorted by DPD descending,
// ties keeping first-grouped order.
func AggregateAccounts(notes []models.Note, smsLogs []models.SMSLog) []models.Account {
	groups := make(map[string]*group)
	var order []string

	grab := func(key string) *group {
		g, ok := groups[key]
		if !ok {
			g = &group{accountSeen: make(map[string]struct{})}
			groups[key] = g
			order = append(order, key)
		}
		return g
	}

	for _, n := range notes {
		key := strings.TrimSpace(n.CustNumber)
		if !IsValidIdentifier(key) {
			continue
		}
		g := grab(key)
		g.notes = append(g.notes, n)
		if accNumber := strings.TrimSpace(n.AccNumber); IsValidIdentifier(accNumber) {
			if _, seen := g.accountSeen[accNumber]; !seen {
				g.accountSeen[accNumber] = struct{}{}
				g.accountNumbers = append(g.accountNumbers, accNumber)
			}
		}
	}

	for _, s := range smsLogs {
		key := strings.TrimSpace(s.CustomerNumber)
		if !IsValidIdentifier(key) {
			continue
		}
		grab(key).sms = append(grab(key).sms, s)
	}

	accounts := make([]models.Account, 0, len(order))
	for _, key := range order {
		accounts = append(accounts, buildAccount(key, groups[key]))
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].DPD > accounts[j].DPD
	})
	return accounts
}

// buildAccount projects one customer's grouped records into an Account.
func buildAccount(custNumber string, g *group) models.Account {
	account := models.Account{
		ID:          custNumber,
		CustNumber:  custNumber,
		Name:        "Customer " + custNumber,
		Status:      DefaultStatus,
		LastContact: "N/A",
		NoteCount:   len(g.notes),
		SMSCount:    len(g.sms),
	}

	// Account-number resolution: first-encountered wins. Notes arrive
	// newest-first, so this is the number on the most recent note that has
	// one. Customers with no note-derived number get a synthesized id.
	if len(g.accountNumbers) > 0 {
		account.AccNumber = g.accountNumbers[0]
	} else {
		account.ID = FallbackAccountID(custNumber)
	}

	switch {
	case len(g.notes) > 0 && len(g.sms) > 0:
		account.Source = models.SourceBoth
	case len(g.notes) > 0:
		account.Source = models.SourceNotes
	default:
		account.Source = models.SourceSMS
	}

	switch {
	case len(g.notes) > 0:
		account.DPD = ExtractDPD(g.notes)
		account.Status = ExtractStatus(g.notes)
		account.LastContact = g.notes[0].NoteDate
	case len(g.sms) > 0:
		stats := ComputeSMSStats(g.sms)
		account.DPD, account.Status = FallbackFromSMS(stats)
		account.LastContact = stats.LastSentDate
	}

	if len(g.sms) > 0 && len(g.notes) == 0 && g.sms[0].PhoneNumber != "" {
		account.Name = g.sms[0].PhoneNumber
	}

	return account
}
