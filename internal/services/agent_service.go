package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"collections-console/internal/db"
	"collections-console/internal/models"
	"collections-console/pkg/logger"
	"collections-console/pkg/utils"

	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
	minPasswordLen  = 8
)

var (
	// ErrInvalidCredentials is returned for any authentication failure so a
	// caller cannot distinguish unknown usernames from wrong passwords
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked is returned while a lockout is in effect
	ErrAccountLocked = errors.New("account is locked")
	// ErrTOTPRequired is returned when 2FA is enabled and no code was supplied
	ErrTOTPRequired = errors.New("TOTP code is required")
)

// AgentRepositoryInterface is the persistence surface the agent service needs
type AgentRepositoryInterface interface {
	Create(a *db.AgentRecord) error
	GetByUsername(username string) (*db.AgentRecord, error)
	GetByID(id string) (*db.AgentRecord, error)
	Update(a *db.AgentRecord) error
	Count() (int, error)
}

// AgentService manages console agent accounts and authentication
type AgentService struct {
	repo          AgentRepositoryInterface
	encryptionKey string
}

// NewAgentService creates a new agent service. The encryption key protects
// stored TOTP secrets and must be 32 bytes when 2FA is used.
func NewAgentService(repo AgentRepositoryInterface, encryptionKey string) *AgentService {
	return &AgentService{repo: repo, encryptionKey: encryptionKey}
}

// Register creates a new agent account with a bcrypt-hashed password
func (s *AgentService) Register(username, email, password, role string) (*models.Agent, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 50 {
		return nil, errors.New("username must be 3-50 characters")
	}
	if !strings.Contains(email, "@") {
		return nil, errors.New("valid email is required")
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if role != "" && role != models.RoleAgent && role != models.RoleSupervisor {
		return nil, errors.New("unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	agent := models.NewAgent(username, email, string(hash), role)
	if err := s.repo.Create(toRecord(agent)); err != nil {
		return nil, err
	}

	logger.Info("Agent registered",
		zap.String("agent_id", agent.ID),
		zap.String("username", agent.Username),
		zap.String("role", agent.Role),
	)
	return agent, nil
}

// Authenticate verifies credentials and, when enabled, the TOTP code.
// Repeated failures lock the account for a cooldown period.
func (s *AgentService) Authenticate(username, password, totpCode string) (*models.Agent, error) {
	record, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, db.ErrAgentNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	agent := fromRecord(record)

	if agent.IsLocked() {
		logger.Warn("Login attempt on locked account",
			zap.String("username", username),
			zap.String("event_type", "locked_account_login"),
		)
		return nil, ErrAccountLocked
	}
	if !agent.Active {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(agent.PasswordHash), []byte(password)); err != nil {
		s.recordFailedLogin(record)
		logger.Warn("Failed login",
			zap.String("username", username),
			zap.String("event_type", "failed_password_validation"),
		)
		return nil, ErrInvalidCredentials
	}

	if agent.TOTPEnabled {
		if err := s.verifyTOTP(record, totpCode); err != nil {
			s.recordFailedLogin(record)
			logger.Warn("Failed login",
				zap.String("username", username),
				zap.String("event_type", "failed_totp_validation"),
			)
			return nil, err
		}
	}

	now := time.Now().Unix()
	record.FailedLoginAttempts = 0
	record.LockedUntil = nil
	record.LastLogin = &now
	record.UpdatedAt = now
	if err := s.repo.Update(record); err != nil {
		logger.Error("Failed to record successful login", zap.Error(err))
	}

	return fromRecord(record), nil
}

// GenerateTOTPSecret creates and stores an encrypted TOTP secret for an
// agent, returning the plaintext secret for enrollment.
func (s *AgentService) GenerateTOTPSecret(agentID string) (string, error) {
	record, err := s.repo.GetByID(agentID)
	if err != nil {
		return "", err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "collections-console",
		AccountName: record.Username,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	encrypted, err := utils.EncryptSecret(key.Secret(), s.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt TOTP secret: %w", err)
	}

	record.TOTPSecret = &encrypted
	record.UpdatedAt = time.Now().Unix()
	if err := s.repo.Update(record); err != nil {
		return "", err
	}
	return key.Secret(), nil
}

// EnableTOTP turns 2FA on after the agent proves possession of the secret
func (s *AgentService) EnableTOTP(agentID, totpCode string) error {
	record, err := s.repo.GetByID(agentID)
	if err != nil {
		return err
	}
	if record.TOTPSecret == nil {
		return errors.New("no TOTP secret generated")
	}
	if err := s.verifyTOTP(record, totpCode); err != nil {
		return err
	}
	record.TOTPEnabled = true
	record.UpdatedAt = time.Now().Unix()
	return s.repo.Update(record)
}

// DisableTOTP turns 2FA off and discards the stored secret
func (s *AgentService) DisableTOTP(agentID string) error {
	record, err := s.repo.GetByID(agentID)
	if err != nil {
		return err
	}
	record.TOTPEnabled = false
	record.TOTPSecret = nil
	record.UpdatedAt = time.Now().Unix()
	return s.repo.Update(record)
}

// EnsureSeedAgent creates a supervisor account when the agents table is
// empty, so a fresh install can be logged into.
func (s *AgentService) EnsureSeedAgent(username, email, password string) error {
	n, err := s.repo.Count()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = s.Register(username, email, password, models.RoleSupervisor)
	return err
}

func (s *AgentService) verifyTOTP(record *db.AgentRecord, totpCode string) error {
	if totpCode == "" {
		return ErrTOTPRequired
	}
	if record.TOTPSecret == nil {
		return errors.New("no TOTP secret stored")
	}
	secret, err := utils.DecryptSecret(*record.TOTPSecret, s.encryptionKey)
	if err != nil {
		return fmt.Errorf("failed to decrypt TOTP secret: %w", err)
	}
	if !totp.Validate(totpCode, secret) {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *AgentService) recordFailedLogin(record *db.AgentRecord) {
	record.FailedLoginAttempts++
	record.UpdatedAt = time.Now().Unix()
	if record.FailedLoginAttempts >= maxFailedLogins {
		until := time.Now().Add(lockoutDuration).Unix()
		record.LockedUntil = &until
		logger.Warn("Account locked after repeated failures",
			zap.String("username", record.Username),
			zap.Int("attempts", record.FailedLoginAttempts),
		)
	}
	if err := s.repo.Update(record); err != nil {
		logger.Error("Failed to record login failure", zap.Error(err))
	}
}

func toRecord(a *models.Agent) *db.AgentRecord {
	return &db.AgentRecord{
		ID:                  a.ID,
		Username:            a.Username,
		Email:               a.Email,
		PasswordHash:        a.PasswordHash,
		Role:                a.Role,
		TOTPSecret:          a.TOTPSecret,
		TOTPEnabled:         a.TOTPEnabled,
		Active:              a.Active,
		FailedLoginAttempts: a.FailedLoginAttempts,
		LockedUntil:         a.LockedUntil,
		LastLogin:           a.LastLogin,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

func fromRecord(r *db.AgentRecord) *models.Agent {
	return &models.Agent{
		ID:                  r.ID,
		Username:            r.Username,
		Email:               r.Email,
		PasswordHash:        r.PasswordHash,
		Role:                r.Role,
		TOTPSecret:          r.TOTPSecret,
		TOTPEnabled:         r.TOTPEnabled,
		Active:              r.Active,
		FailedLoginAttempts: r.FailedLoginAttempts,
		LockedUntil:         r.LockedUntil,
		LastLogin:           r.LastLogin,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}
