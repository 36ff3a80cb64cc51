package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"collections-console/internal/models"
	"collections-console/internal/risk"
	"collections-console/pkg/logger"

	"go.uber.org/zap"
)

const (
	defaultMaxHistory    = 20
	defaultMaxMessageLen = 2000
	contextNoteLimit     = 5
)

// LLMClient is the black-box completion function the assistant runs on.
type LLMClient interface {
	Chat(ctx context.Context, model string, messages []models.ChatMessage) (string, error)
}

// ChatService answers agent questions about a customer, feeding the model
// the aggregated account context alongside the conversation history.
type ChatService struct {
	store         RecordStore
	llm           LLMClient
	model         string
	maxHistory    int
	maxMessageLen int
}

// NewChatService creates a new chat service
func NewChatService(store RecordStore, llm LLMClient, model string) (*ChatService, error) {
	if store == nil {
		return nil, errors.New("record store must not be nil")
	}
	if llm == nil {
		return nil, errors.New("llm client must not be nil")
	}
	if model == "" {
		return nil, errors.New("model must not be empty")
	}
	return &ChatService{
		store:         store,
		llm:           llm,
		model:         model,
		maxHistory:    defaultMaxHistory,
		maxMessageLen: defaultMaxMessageLen,
	}, nil
}

// Respond runs one assistant turn for the given customer. Record-store
// failures degrade to a thinner context rather than failing the turn.
func (s *ChatService) Respond(ctx context.Context, custNumber, message string, history []models.ChatMessage) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message is required")
	}
	if len(message) > s.maxMessageLen {
		return "", fmt.Errorf("message exceeds %d characters", s.maxMessageLen)
	}
	if !risk.IsValidIdentifier(custNumber) {
		return "", errors.New("customer number is required")
	}

	notes, err := s.store.ListNotesByCustomer(ctx, custNumber)
	if err != nil {
		logger.Warn("Notes unavailable for chat context", zap.String("custnumber", custNumber), zap.Error(err))
		notes = nil
	}
	smsLogs, err := s.store.ListSMSByCustomer(ctx, custNumber)
	if err != nil {
		logger.Warn("SMS unavailable for chat context", zap.String("custnumber", custNumber), zap.Error(err))
		smsLogs = nil
	}

	messages := make([]models.ChatMessage, 0, s.maxHistory+2)
	messages = append(messages, models.ChatMessage{
		Role:    "system",
		Content: buildAccountContext(custNumber, notes, smsLogs),
	})
	messages = append(messages, trimHistory(history, s.maxHistory)...)
	messages = append(messages, models.ChatMessage{Role: "user", Content: message})

	reply, err := s.llm.Chat(ctx, s.model, messages)
	if err != nil {
		return "", fmt.Errorf("assistant call failed: %w", err)
	}
	return reply, nil
}

// trimHistory keeps the most recent turns within the limit
func trimHistory(history []models.ChatMessage, limit int) []models.ChatMessage {
	if len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}

// buildAccountContext renders the aggregated account view into the system
// prompt the assistant is grounded on.
func buildAccountContext(custNumber string, notes []models.Note, smsLogs []models.SMSLog) string {
	var b strings.Builder
	b.WriteString("You are an assistant for debt-collection agents. ")
	b.WriteString("Answer using the account context below. Be factual and concise; ")
	b.WriteString("do not invent figures that are not in the context.\n\n")

	accounts := risk.AggregateAccounts(notes, smsLogs)
	if len(accounts) == 0 {
		fmt.Fprintf(&b, "No records found for customer %s.\n", custNumber)
		return b.String()
	}
	a := accounts[0]
	assessment := risk.Classify(a.DPD, a.Status)

	fmt.Fprintf(&b, "Account %s (customer %s)\n", a.ID, a.CustNumber)
	if a.AccNumber != "" {
		fmt.Fprintf(&b, "Account number: %s\n", a.AccNumber)
	}
	fmt.Fprintf(&b, "Status: %s\n", a.Status)
	fmt.Fprintf(&b, "Days past due: %d\n", a.DPD)
	fmt.Fprintf(&b, "Risk level: %s\n", assessment.Level)
	fmt.Fprintf(&b, "Last contact: %s\n", a.LastContact)
	fmt.Fprintf(&b, "Contact volume: %d notes, %d SMS (source: %s)\n", a.NoteCount, a.SMSCount, a.Source)

	if len(smsLogs) > 0 {
		stats := risk.ComputeSMSStats(smsLogs)
		fmt.Fprintf(&b, "SMS delivery: %d/%d delivered (%d%%)\n", stats.Successful, stats.Total, stats.SuccessRate)
		if stats.LatestArrears != nil {
			fmt.Fprintf(&b, "Latest arrears mentioned: Kes %.2f\n", *stats.LatestArrears)
		}
	}

	if len(notes) > 0 {
		b.WriteString("\nRecent notes (newest first):\n")
		for i, n := range notes {
			if i == contextNoteLimit {
				break
			}
			fmt.Fprintf(&b, "- [%s] %s\n", n.NoteDate, n.Body)
		}
	}

	return b.String()
}
