package models

import (
	"time"

	"github.com/google/uuid"
)

// Agent roles. Supervisors can do everything agents can, plus record
// ingestion and agent administration.
const (
	RoleAgent      = "agent"
	RoleSupervisor = "supervisor"
)

// Agent represents a console user with authentication state
type Agent struct {
	ID                  string  `json:"id"`                                       // UUID
	Username            string  `json:"username" binding:"required,min=3,max=50"` // Unique username
	Email               string  `json:"email" binding:"required,email"`           // Agent email
	PasswordHash        string  `json:"-"`                                        // EXCLUDED from JSON - bcrypt hash
	Role                string  `json:"role"`                                     // agent or supervisor
	TOTPSecret          *string `json:"-"`                                        // EXCLUDED from JSON - encrypted TOTP secret
	TOTPEnabled         bool    `json:"totp_enabled"`                             // Whether 2FA is enabled
	Active              bool    `json:"active"`                                   // Whether the account is active
	FailedLoginAttempts int     `json:"failed_login_attempts"`                    // Consecutive failed login attempts
	LockedUntil         *int64  `json:"locked_until,omitempty"`                   // Unix timestamp when lock expires
	LastLogin           *int64  `json:"last_login,omitempty"`                     // Unix timestamp of last successful login
	CreatedAt           int64   `json:"created_at"`                               // Unix timestamp of account creation
	UpdatedAt           int64   `json:"updated_at"`                               // Unix timestamp of last update
}

// RegisterAgentRequest represents the request body for creating a new agent
type RegisterAgentRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"` // Plain password - will be hashed
	Role     string `json:"role"`
}

// AgentResponse is a safe agent representation for API responses, with all
// sensitive fields excluded
type AgentResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Active      bool   `json:"active"`
	TOTPEnabled bool   `json:"totp_enabled"`
	LastLogin   *int64 `json:"last_login,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// NewAgent creates a new Agent with generated UUID and timestamps.
// The password must already be hashed.
func NewAgent(username, email, passwordHash, role string) *Agent {
	if role == "" {
		role = RoleAgent
	}
	now := time.Now().Unix()
	return &Agent{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsActive returns whether the agent account is active and not locked
func (a *Agent) IsActive() bool {
	if !a.Active {
		return false
	}
	return !a.IsLocked()
}

// IsLocked returns whether the account is currently locked out.
// An account is locked if LockedUntil is set and in the future.
func (a *Agent) IsLocked() bool {
	if a.LockedUntil == nil {
		return false
	}
	return *a.LockedUntil > time.Now().Unix()
}

// ToResponse converts Agent to AgentResponse, excluding sensitive fields
func (a *Agent) ToResponse() *AgentResponse {
	return &AgentResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		Role:        a.Role,
		Active:      a.Active,
		TOTPEnabled: a.TOTPEnabled,
		LastLogin:   a.LastLogin,
		CreatedAt:   a.CreatedAt,
	}
}
