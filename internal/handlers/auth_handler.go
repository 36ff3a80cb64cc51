package handlers

import (
	"errors"
	"net/http"

	"collections-console/internal/config"
	"collections-console/internal/models"
	"collections-console/internal/services"
	"collections-console/pkg/logger"
	"collections-console/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code"`
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	config *config.Config
	agents AgentServiceInterface
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config, agents AgentServiceInterface) *AuthHandler {
	return &AuthHandler{config: cfg, agents: agents}
}

// Login handles agent authentication and returns a JWT token
func (h *AuthHandler) Login(c *gin.Context) {
	logger.Info("Auth login endpoint called")
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	agent, err := h.agents.Authenticate(req.Username, req.Password, req.TOTPCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountLocked):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is locked"})
		case errors.Is(err, services.ErrTOTPRequired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "TOTP code is required"})
		default:
			logger.Warn("Login rejected", zap.String("username", req.Username))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		}
		return
	}

	token, err := middleware.GenerateToken(agent.ID, agent.Role, h.config)
	if err != nil {
		logger.Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "agent": agent.ToResponse()})
}

// Register handles agent registration (POST /api/agents)
func (h *AuthHandler) Register(c *gin.Context) {
	logger.Info("Agent registration endpoint called")

	var req models.RegisterAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	agent, err := h.agents.Register(req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, agent.ToResponse())
}
