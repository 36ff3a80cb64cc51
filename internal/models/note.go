package models

// Note is one free-text interaction record for a customer. Notes are
// append-only; nothing in the console mutates a note after it is written.
type Note struct {
	ID            int64  `json:"id"`
	CustNumber    string `json:"custnumber"`
	AccNumber     string `json:"accnumber"`
	Owner         string `json:"owner"`
	Body          string `json:"notemade"`
	Reason        string `json:"reason"`
	ReasonDetails string `json:"reason_details"`
	Important     bool   `json:"important"`
	NoteDate      string `json:"notedate"`
}

// CreateNoteRequest is the request body for appending a note
type CreateNoteRequest struct {
	CustNumber    string `json:"custnumber" binding:"required"`
	AccNumber     string `json:"accnumber"`
	Owner         string `json:"owner"`
	Body          string `json:"notemade" binding:"required"`
	Reason        string `json:"reason"`
	ReasonDetails string `json:"reason_details"`
	Important     bool   `json:"important"`
	NoteDate      string `json:"notedate"`
}
