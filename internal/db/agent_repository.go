package db

import (
	"database/sql"
	"errors"
)

// ErrAgentNotFound is returned when no agent matches the lookup
var ErrAgentNotFound = errors.New("agent not found")

// AgentRecord mirrors one row of the agents table
type AgentRecord struct {
	ID                  string
	Username            string
	Email               string
	PasswordHash        string
	Role                string
	TOTPSecret          *string
	TOTPEnabled         bool
	Active              bool
	FailedLoginAttempts int
	LockedUntil         *int64
	LastLogin           *int64
	CreatedAt           int64
	UpdatedAt           int64
}

// AgentRepository persists console agent accounts
type AgentRepository struct {
	db *sql.DB
}

func NewAgentRepository(db *sql.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

const agentColumns = "id, username, email, password_hash, role, totp_secret, totp_enabled, active, failed_login_attempts, locked_until, last_login, created_at, updated_at"

// Create inserts a new agent record
func (r *AgentRepository) Create(a *AgentRecord) error {
	if a == nil {
		return errors.New("agent cannot be nil")
	}
	if a.ID == "" || a.Username == "" || a.PasswordHash == "" {
		return errors.New("id, username and password hash are required")
	}

	_, err := r.db.Exec(
		"INSERT INTO agents ("+agentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.Username, a.Email, a.PasswordHash, a.Role, a.TOTPSecret, a.TOTPEnabled,
		a.Active, a.FailedLoginAttempts, a.LockedUntil, a.LastLogin, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

// GetByUsername looks an agent up by unique username
func (r *AgentRepository) GetByUsername(username string) (*AgentRecord, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}
	return r.getWhere("username = ?", username)
}

// GetByID looks an agent up by id
func (r *AgentRepository) GetByID(id string) (*AgentRecord, error) {
	if id == "" {
		return nil, errors.New("id is required")
	}
	return r.getWhere("id = ?", id)
}

func (r *AgentRepository) getWhere(where string, arg any) (*AgentRecord, error) {
	row := r.db.QueryRow("SELECT "+agentColumns+" FROM agents WHERE "+where, arg)

	a := &AgentRecord{}
	err := row.Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &a.TOTPSecret, &a.TOTPEnabled,
		&a.Active, &a.FailedLoginAttempts, &a.LockedUntil, &a.LastLogin, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAgentNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Update rewrites the mutable columns of an agent record
func (r *AgentRepository) Update(a *AgentRecord) error {
	if a == nil {
		return errors.New("agent cannot be nil")
	}

	res, err := r.db.Exec(
		`UPDATE agents SET email = ?, password_hash = ?, role = ?, totp_secret = ?, totp_enabled = ?,
			active = ?, failed_login_attempts = ?, locked_until = ?, last_login = ?, updated_at = ?
		 WHERE id = ?`,
		a.Email, a.PasswordHash, a.Role, a.TOTPSecret, a.TOTPEnabled,
		a.Active, a.FailedLoginAttempts, a.LockedUntil, a.LastLogin, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAgentNotFound
	}
	return nil
}

// Count returns the number of agent accounts
func (r *AgentRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM agents").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
