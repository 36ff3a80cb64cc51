package db

import (
	"context"
	"database/sql"
	"errors"

	"collections-console/internal/models"
)

// NoteRepository reads and appends note records. Listing is always newest
// first: the aggregation pipeline depends on that ordering for its
// latest-contact and first-match semantics.
type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

const noteColumns = "id, custnumber, accnumber, owner, notemade, reason, reason_details, important, notedate"

// Add appends a note record
func (r *NoteRepository) Add(ctx context.Context, n *models.Note) error {
	if n == nil {
		return errors.New("note cannot be nil")
	}
	if n.CustNumber == "" || n.Body == "" || n.NoteDate == "" {
		return errors.New("custnumber, notemade and notedate are required")
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO notes (custnumber, accnumber, owner, notemade, reason, reason_details, important, notedate) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		n.CustNumber, n.AccNumber, n.Owner, n.Body, n.Reason, n.ReasonDetails, n.Important, n.NoteDate,
	)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		n.ID = id
	}
	return nil
}

// ListPage returns one page of notes ordered newest first
func (r *NoteRepository) ListPage(ctx context.Context, limit, offset int) ([]models.Note, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	if offset < 0 {
		return nil, errors.New("offset cannot be negative")
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+noteColumns+" FROM notes ORDER BY notedate DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotes(rows)
}

// ListByCustomer returns all of one customer's notes ordered newest first
func (r *NoteRepository) ListByCustomer(ctx context.Context, custNumber string) ([]models.Note, error) {
	if custNumber == "" {
		return nil, errors.New("customer number is required")
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE custnumber = ? ORDER BY notedate DESC, id DESC",
		custNumber,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotes(rows)
}

func scanNotes(rows *sql.Rows) ([]models.Note, error) {
	var notes []models.Note
	for rows.Next() {
		var n models.Note
		var accNumber, owner, reason, reasonDetails sql.NullString
		if err := rows.Scan(&n.ID, &n.CustNumber, &accNumber, &owner, &n.Body, &reason, &reasonDetails, &n.Important, &n.NoteDate); err != nil {
			return nil, err
		}
		n.AccNumber = accNumber.String
		n.Owner = owner.String
		n.Reason = reason.String
		n.ReasonDetails = reasonDetails.String
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}
