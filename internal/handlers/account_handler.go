package handlers

import (
	"errors"
	"net/http"

	"collections-console/internal/models"
	"collections-console/internal/risk"
	"collections-console/internal/services"
	"collections-console/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountView is an Account decorated with its risk assessment for display
type AccountView struct {
	models.Account
	Risk     risk.Level `json:"risk"`
	Priority float64    `json:"priority"`
	Badge    string     `json:"badge"`
}

// riskBadges maps risk levels to the display badge the dashboard renders.
// Presentation only; the classifier itself knows nothing about colors.
var riskBadges = map[risk.Level]string{
	risk.LevelLow:      "green",
	risk.LevelHigh:     "amber",
	risk.LevelCritical: "red",
}

// AccountHandler serves the aggregated account views
type AccountHandler struct {
	accounts AccountServiceInterface
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts AccountServiceInterface) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func toView(a models.Account) AccountView {
	assessment := risk.Classify(a.DPD, a.Status)
	return AccountView{
		Account:  a,
		Risk:     assessment.Level,
		Priority: risk.PriorityScore(a.DPD, 0, a.Status),
		Badge:    riskBadges[assessment.Level],
	}
}

// List handles GET /api/accounts
func (h *AccountHandler) List(c *gin.Context) {
	accounts := h.accounts.Accounts()

	views := make([]AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, toView(a))
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts":     views,
		"last_refresh": h.accounts.LastRefresh(),
	})
}

// Refresh handles POST /api/accounts/refresh
func (h *AccountHandler) Refresh(c *gin.Context) {
	logger.Info("Account refresh endpoint called")

	accounts, err := h.accounts.RefreshAccounts(c.Request.Context())
	if err != nil {
		logger.Error("Account refresh failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to refresh accounts"})
		return
	}

	views := make([]AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, toView(a))
	}

	c.JSON(http.StatusOK, gin.H{"accounts": views})
}

// Get handles GET /api/accounts/:custnumber, recomputing the one account
// from its raw records so the detail view is never stale.
func (h *AccountHandler) Get(c *gin.Context) {
	custNumber := c.Param("custnumber")
	if !risk.IsValidIdentifier(custNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer number"})
		return
	}

	account, err := h.accounts.RefreshAccount(c.Request.Context(), custNumber)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Account lookup failed", zap.String("custnumber", custNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	notes, smsLogs, err := h.accounts.CustomerRecords(c.Request.Context(), custNumber)
	if err != nil {
		logger.Warn("Customer records unavailable", zap.String("custnumber", custNumber), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"account":   toView(account),
		"notes":     notes,
		"sms_stats": risk.ComputeSMSStats(smsLogs),
	})
}
