package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Database owns the backing record store connection. The store is treated as
// an opaque read/write record set: notes and SMS logs are append-only, and
// the console derives everything else from them at read time.
type Database struct {
	db *sql.DB
}

func NewDatabase(dsn string) (*Database, error) {
	if dsn == "" {
		return nil, errors.New("database DSN is required")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Verify we can actually connect to the database
	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("ping failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	if err := createTables(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("create tables failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	return &Database{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			custnumber TEXT NOT NULL,
			accnumber TEXT,
			owner TEXT,
			notemade TEXT NOT NULL,
			reason TEXT,
			reason_details TEXT,
			important INTEGER NOT NULL DEFAULT 0,
			notedate TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_notes_custnumber ON notes(custnumber);

		CREATE TABLE IF NOT EXISTS sms_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_number TEXT NOT NULL,
			phone_number TEXT,
			message TEXT NOT NULL,
			send_status TEXT,
			date_sent TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sms_logs_customer ON sms_logs(customer_number);

		CREATE TABLE IF NOT EXISTS agents (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'agent',
			totp_secret TEXT,
			totp_enabled INTEGER NOT NULL DEFAULT 0,
			active INTEGER NOT NULL DEFAULT 1,
			failed_login_attempts INTEGER NOT NULL DEFAULT 0,
			locked_until INTEGER,
			last_login INTEGER,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	return err
}

// GetDB exposes the underlying connection for repository construction
func (d *Database) GetDB() *sql.DB {
	return d.db
}

func (d *Database) Close() error {
	if d == nil {
		return errors.New("database is nil")
	}

	if d.db == nil {
		return errors.New("database already closed")
	}

	err := d.db.Close()
	d.db = nil
	return err
}
