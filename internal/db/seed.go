package db

import (
	"context"

	"collections-console/internal/models"
)

// SeedDemoRecords loads a small set of note and SMS records so a fresh
// install has something to aggregate. It is a no-op when the notes table
// already has rows.
func (d *Database) SeedDemoRecords(ctx context.Context) error {
	var n int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	notes := NewNoteRepository(d.db)
	sms := NewSMSRepository(d.db)

	demoNotes := []models.Note{
		{CustNumber: "1002345", AccNumber: "ACC-8841", Owner: "jmwangi", Body: "Customer is 45 days past due, promised partial payment", Reason: "Follow-up", NoteDate: "2024-03-12"},
		{CustNumber: "1002345", AccNumber: "ACC-8841", Owner: "jmwangi", Body: "Left voicemail", NoteDate: "2024-03-05"},
		{CustNumber: "1007781", AccNumber: "ACC-1277", Owner: "apatel", Body: "Customer filed for bankruptcy, case forwarded", Reason: "Legal", NoteDate: "2024-03-10"},
		{CustNumber: "1003310", AccNumber: "ACC-5520", Owner: "apatel", Body: "PTP agreed for end of month", Reason: "Promise", NoteDate: "2024-03-08"},
	}
	for i := range demoNotes {
		if err := notes.Add(ctx, &demoNotes[i]); err != nil {
			return err
		}
	}

	demoSMS := []models.SMSLog{
		{CustomerNumber: "1002345", PhoneNumber: "+254700111222", Message: "Dear customer, your arrears of Kes 14,500.00 are due", SendStatus: "Success", DateSent: "2024-03-11"},
		{CustomerNumber: "1009904", PhoneNumber: "+254700333444", Message: "Your account is late by 62 days. Pay Kes 3,200.00 to avoid listing", SendStatus: "Success", DateSent: "2024-03-09"},
		{CustomerNumber: "1009904", PhoneNumber: "+254700333444", Message: "Payment reminder", SendStatus: "Failed", DateSent: "2024-03-02"},
	}
	for i := range demoSMS {
		if err := sms.Add(ctx, &demoSMS[i]); err != nil {
			return err
		}
	}

	return nil
}
