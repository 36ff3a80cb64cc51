package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"collections-console/internal/models"
	"collections-console/internal/risk"
	"collections-console/pkg/logger"

	"go.uber.org/zap"
)

// RecordStore is the read side of the backing record store, as the
// aggregation pipeline needs it. Listing is newest first.
type RecordStore interface {
	ListNotesPage(ctx context.Context, limit, offset int) ([]models.Note, error)
	ListSMSPage(ctx context.Context, limit, offset int) ([]models.SMSLog, error)
	ListNotesByCustomer(ctx context.Context, custNumber string) ([]models.Note, error)
	ListSMSByCustomer(ctx context.Context, custNumber string) ([]models.SMSLog, error)
}

// ErrAccountNotFound is returned when no aggregated account matches the lookup
var ErrAccountNotFound = errors.New("account not found")

// AccountService drives fetch-and-aggregate passes over the record store and
// serves the resulting account snapshot. A refresh replaces the snapshot
// atomically: readers see either the previous list or the new one, never a
// partial rebuild.
type AccountService struct {
	store    RecordStore
	pageSize int
	maxPages int

	mu          sync.RWMutex
	snapshot    []models.Account
	lastRefresh time.Time
}

// NewAccountService creates a new account service
func NewAccountService(store RecordStore, pageSize, maxPages int) *AccountService {
	if pageSize <= 0 {
		pageSize = 500
	}
	if maxPages <= 0 {
		maxPages = 200
	}
	return &AccountService{store: store, pageSize: pageSize, maxPages: maxPages}
}

// RefreshAccounts re-runs the full aggregation pass. The two source fetches
// run concurrently; a single failed source degrades to an empty collection
// so the console still shows whatever did load. Only when both sources fail
// is the pass itself a failure, and the previous snapshot stays in place.
func (s *AccountService) RefreshAccounts(ctx context.Context) ([]models.Account, error) {
	var (
		wg       sync.WaitGroup
		notes    []models.Note
		smsLogs  []models.SMSLog
		notesErr error
		smsErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		notes, notesErr = s.fetchAllNotes(ctx)
	}()
	go func() {
		defer wg.Done()
		smsLogs, smsErr = s.fetchAllSMS(ctx)
	}()
	wg.Wait()

	if notesErr != nil && smsErr != nil {
		return nil, fmt.Errorf("both sources failed: notes: %v, sms: %w", notesErr, smsErr)
	}
	if notesErr != nil {
		logger.Warn("Notes fetch failed, aggregating from SMS only", zap.Error(notesErr))
		notes = nil
	}
	if smsErr != nil {
		logger.Warn("SMS fetch failed, aggregating from notes only", zap.Error(smsErr))
		smsLogs = nil
	}

	accounts := risk.AggregateAccounts(notes, smsLogs)

	s.mu.Lock()
	s.snapshot = accounts
	s.lastRefresh = time.Now()
	s.mu.Unlock()

	logger.Info("Account snapshot rebuilt",
		zap.Int("accounts", len(accounts)),
		zap.Int("notes", len(notes)),
		zap.Int("sms", len(smsLogs)),
	)

	return s.Accounts(), nil
}

// Accounts returns a copy of the current snapshot
func (s *AccountService) Accounts() []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Account, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Account returns one account from the current snapshot by id
func (s *AccountService) Account(id string) (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.snapshot {
		if a.ID == id || a.CustNumber == id {
			return a, nil
		}
	}
	return models.Account{}, ErrAccountNotFound
}

// LastRefresh returns when the snapshot was last rebuilt
func (s *AccountService) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

// RefreshAccount recomputes a single customer's account from its own records
// without a full pass, and patches it into the snapshot.
func (s *AccountService) RefreshAccount(ctx context.Context, custNumber string) (models.Account, error) {
	if custNumber == "" {
		return models.Account{}, errors.New("customer number is required")
	}

	notes, notesErr := s.store.ListNotesByCustomer(ctx, custNumber)
	smsLogs, smsErr := s.store.ListSMSByCustomer(ctx, custNumber)
	if notesErr != nil && smsErr != nil {
		return models.Account{}, fmt.Errorf("both sources failed: notes: %v, sms: %w", notesErr, smsErr)
	}
	if notesErr != nil {
		logger.Warn("Notes fetch failed for customer", zap.String("custnumber", custNumber), zap.Error(notesErr))
		notes = nil
	}
	if smsErr != nil {
		logger.Warn("SMS fetch failed for customer", zap.String("custnumber", custNumber), zap.Error(smsErr))
		smsLogs = nil
	}

	accounts := risk.AggregateAccounts(notes, smsLogs)
	if len(accounts) == 0 {
		return models.Account{}, ErrAccountNotFound
	}
	account := accounts[0]

	s.mu.Lock()
	replaced := false
	for i, a := range s.snapshot {
		if a.CustNumber == account.CustNumber {
			s.snapshot[i] = account
			replaced = true
			break
		}
	}
	if !replaced {
		s.snapshot = append(s.snapshot, account)
	}
	s.mu.Unlock()

	return account, nil
}

// CustomerRecords returns one customer's raw notes and SMS logs, newest first
func (s *AccountService) CustomerRecords(ctx context.Context, custNumber string) ([]models.Note, []models.SMSLog, error) {
	if custNumber == "" {
		return nil, nil, errors.New("customer number is required")
	}
	notes, err := s.store.ListNotesByCustomer(ctx, custNumber)
	if err != nil {
		return nil, nil, err
	}
	smsLogs, err := s.store.ListSMSByCustomer(ctx, custNumber)
	if err != nil {
		return nil, nil, err
	}
	return notes, smsLogs, nil
}

// fetchAllNotes pages through the notes table until a short page, the page
// cap, or cancellation.
func (s *AccountService) fetchAllNotes(ctx context.Context) ([]models.Note, error) {
	var all []models.Note
	for page := 0; page < s.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := s.store.ListNotesPage(ctx, s.pageSize, page*s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("notes page %d: %w", page, err)
		}
		all = append(all, rows...)
		if len(rows) < s.pageSize {
			return all, nil
		}
	}
	logger.Warn("Notes pagination hit page cap, result truncated",
		zap.Int("max_pages", s.maxPages), zap.Int("rows", len(all)))
	return all, nil
}

// fetchAllSMS pages through the sms_logs table, same policy as fetchAllNotes.
func (s *AccountService) fetchAllSMS(ctx context.Context) ([]models.SMSLog, error) {
	var all []models.SMSLog
	for page := 0; page < s.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := s.store.ListSMSPage(ctx, s.pageSize, page*s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("sms page %d: %w", page, err)
		}
		all = append(all, rows...)
		if len(rows) < s.pageSize {
			return all, nil
		}
	}
	logger.Warn("SMS pagination hit page cap, result truncated",
		zap.Int("max_pages", s.maxPages), zap.Int("rows", len(all)))
	return all, nil
}
