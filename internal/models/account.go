package models

// Source tags describe which upstream channels contributed to an Account.
const (
	SourceNotes = "notes"
	SourceSMS   = "sms"
	SourceBoth  = "both"
)

// Account is the derived per-customer aggregate shown in the console. It is
// never persisted: every aggregation pass rebuilds the full list from the
// note and SMS records, so an Account is only ever as stale as the last
// refresh.
type Account struct {
	ID          string `json:"id"`
	CustNumber  string `json:"custnumber"`
	AccNumber   string `json:"accnumber,omitempty"`
	Name        string `json:"name"`
	DPD         int    `json:"dpd"`
	Status      string `json:"status"`
	LastContact string `json:"lastContact"`
	NoteCount   int    `json:"noteCount"`
	SMSCount    int    `json:"smsCount"`
	Source      string `json:"source"`
}
