package db

import (
	"context"
	"database/sql"
	"errors"

	"collections-console/internal/models"
)

// SMSRepository reads and appends outbound SMS log records, newest first.
type SMSRepository struct {
	db *sql.DB
}

func NewSMSRepository(db *sql.DB) *SMSRepository {
	return &SMSRepository{db: db}
}

const smsColumns = "id, customer_number, phone_number, message, send_status, date_sent"

// Add appends an SMS log record
func (r *SMSRepository) Add(ctx context.Context, s *models.SMSLog) error {
	if s == nil {
		return errors.New("sms log cannot be nil")
	}
	if s.CustomerNumber == "" || s.Message == "" || s.DateSent == "" {
		return errors.New("customer_number, message and date_sent are required")
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO sms_logs (customer_number, phone_number, message, send_status, date_sent) VALUES (?, ?, ?, ?, ?)",
		s.CustomerNumber, s.PhoneNumber, s.Message, s.SendStatus, s.DateSent,
	)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		s.ID = id
	}
	return nil
}

// ListPage returns one page of SMS logs ordered newest first
func (r *SMSRepository) ListPage(ctx context.Context, limit, offset int) ([]models.SMSLog, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	if offset < 0 {
		return nil, errors.New("offset cannot be negative")
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+smsColumns+" FROM sms_logs ORDER BY date_sent DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSMSLogs(rows)
}

// ListByCustomer returns all of one customer's SMS logs ordered newest first
func (r *SMSRepository) ListByCustomer(ctx context.Context, custNumber string) ([]models.SMSLog, error) {
	if custNumber == "" {
		return nil, errors.New("customer number is required")
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+smsColumns+" FROM sms_logs WHERE customer_number = ? ORDER BY date_sent DESC, id DESC",
		custNumber,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSMSLogs(rows)
}

func scanSMSLogs(rows *sql.Rows) ([]models.SMSLog, error) {
	var logs []models.SMSLog
	for rows.Next() {
		var s models.SMSLog
		var phone, status sql.NullString
		if err := rows.Scan(&s.ID, &s.CustomerNumber, &phone, &s.Message, &status, &s.DateSent); err != nil {
			return nil, err
		}
		s.PhoneNumber = phone.String
		s.SendStatus = status.String
		logs = append(logs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}
