package handlers

import (
	"context"
	"time"

	"collections-console/internal/models"
)

// AccountServiceInterface defines the contract for account aggregation
// operations. This interface is used for dependency injection and testing.
type AccountServiceInterface interface {
	Accounts() []models.Account
	Account(id string) (models.Account, error)
	RefreshAccounts(ctx context.Context) ([]models.Account, error)
	RefreshAccount(ctx context.Context, custNumber string) (models.Account, error)
	CustomerRecords(ctx context.Context, custNumber string) ([]models.Note, []models.SMSLog, error)
	LastRefresh() time.Time
}

// ChatServiceInterface defines the contract for the assistant
type ChatServiceInterface interface {
	Respond(ctx context.Context, custNumber, message string, history []models.ChatMessage) (string, error)
}

// AgentServiceInterface defines the contract for agent account operations
type AgentServiceInterface interface {
	Register(username, email, password, role string) (*models.Agent, error)
	Authenticate(username, password, totpCode string) (*models.Agent, error)
}

// RecordWriter appends raw note and SMS records to the backing store
type RecordWriter interface {
	AddNote(ctx context.Context, n *models.Note) error
	AddSMSLog(ctx context.Context, l *models.SMSLog) error
}
