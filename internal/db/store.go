package db

import (
	"context"
	"database/sql"

	"collections-console/internal/models"
)

// Store bundles the note and SMS repositories behind the single read surface
// the aggregation service consumes.
type Store struct {
	notes *NoteRepository
	sms   *SMSRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		notes: NewNoteRepository(db),
		sms:   NewSMSRepository(db),
	}
}

func (s *Store) ListNotesPage(ctx context.Context, limit, offset int) ([]models.Note, error) {
	return s.notes.ListPage(ctx, limit, offset)
}

func (s *Store) ListSMSPage(ctx context.Context, limit, offset int) ([]models.SMSLog, error) {
	return s.sms.ListPage(ctx, limit, offset)
}

func (s *Store) ListNotesByCustomer(ctx context.Context, custNumber string) ([]models.Note, error) {
	return s.notes.ListByCustomer(ctx, custNumber)
}

func (s *Store) ListSMSByCustomer(ctx context.Context, custNumber string) ([]models.SMSLog, error) {
	return s.sms.ListByCustomer(ctx, custNumber)
}

func (s *Store) AddNote(ctx context.Context, n *models.Note) error {
	return s.notes.Add(ctx, n)
}

func (s *Store) AddSMSLog(ctx context.Context, l *models.SMSLog) error {
	return s.sms.Add(ctx, l)
}
