package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collections-console/internal/config"
	"collections-console/internal/db"
	"collections-console/internal/handlers"
	"collections-console/internal/llm"
	"collections-console/internal/models"
	"collections-console/internal/services"
	"collections-console/pkg/logger"
	"collections-console/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxRequestBody = 1 << 20 // 1 MiB

// SetupServer initializes and returns a configured HTTP server
func SetupServer(cfg *config.Config) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}

	if cfg.Server.Port <= 0 {
		return nil, errors.New("invalid server port")
	}

	// Initialize database
	database, err := db.NewDatabase(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	store := db.NewStore(database.GetDB())
	agentRepo := db.NewAgentRepository(database.GetDB())

	// Initialize services
	accountService := services.NewAccountService(store, cfg.Paging.PageSize, cfg.Paging.MaxPages)
	agentService := services.NewAgentService(agentRepo, cfg.Security.EncryptionKey)

	// The chat assistant is optional. Without an API key the rest of the
	// console still works and POST /api/chat reports the assistant as
	// unavailable.
	var chatService *services.ChatService
	if apiKey := os.Getenv(cfg.LLM.APIKeyEnv); apiKey != "" {
		llmClient, err := llm.NewClient(apiKey, llm.WithBaseURL(cfg.LLM.BaseURL))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
		}
		chatService, err = services.NewChatService(store, llmClient, cfg.LLM.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize chat service: %w", err)
		}
	} else {
		logger.Warn("LLM API key not set, chat assistant disabled",
			zap.String("env", cfg.LLM.APIKeyEnv))
	}

	// Seed demo records and the bootstrap supervisor if enabled
	if cfg.Seed.Enable {
		if err := database.SeedDemoRecords(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to seed records: %w", err)
		}
		if err := agentService.EnsureSeedAgent("admin", "admin@example.com", "change-me-now"); err != nil {
			return nil, fmt.Errorf("failed to seed agent: %w", err)
		}
	}

	// Build the first account snapshot so GET /api/accounts has data
	// before the first explicit refresh. Failures here are not fatal;
	// both sources being empty is a valid cold start.
	if _, err := accountService.RefreshAccounts(context.Background()); err != nil {
		logger.Warn("Initial account refresh failed", zap.Error(err))
	}

	// Initialize router
	router := gin.Default()

	setupRoutes(router, cfg, accountService, chatService, agentService, store)

	// Create server with security timeouts
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return srv, nil
}

// setupRoutes configures all the HTTP routes
func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	accountService *services.AccountService,
	chatService *services.ChatService,
	agentService *services.AgentService,
	store *db.Store,
) {
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestSizeLimitMiddleware(maxRequestBody))
	router.Use(middleware.AuditLogMiddleware())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, agentService)
	accountHandler := handlers.NewAccountHandler(accountService)
	recordsHandler := handlers.NewRecordsHandler(store)

	// Basic health check endpoint (public)
	router.GET("/health", handleHealthCheck)

	// Auth endpoints (public)
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", authHandler.Login)
	}

	// Agent registration endpoint (public)
	agentsGroup := router.Group("/api/agents")
	{
		agentsGroup.POST("", authHandler.Register)
	}

	// Protected routes group
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg))

	protected.GET("/accounts", accountHandler.List)
	protected.POST("/accounts/refresh", accountHandler.Refresh)
	protected.GET("/accounts/:custnumber", accountHandler.Get)
	protected.POST("/notes", recordsHandler.AddNote)
	protected.POST("/sms", middleware.RequireRole(models.RoleSupervisor), recordsHandler.AddSMS)

	if chatService != nil {
		chatHandler := handlers.NewChatHandler(chatService)
		protected.POST("/chat", chatHandler.Respond)
	} else {
		protected.POST("/chat", func(c *gin.Context) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is not configured"})
		})
	}
}

// handleHealthCheck handles the health check endpoint
func handleHealthCheck(c *gin.Context) {
	logger.Info("Health check endpoint called")
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().UTC(),
		"version": version,
		"service": "collections-console",
	})
}

// StartServer starts the HTTP server and handles graceful shutdown
func StartServer(srv *http.Server) error {
	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

// StartServerWithContext starts the HTTP server with a context for shutdown control
func StartServerWithContext(ctx context.Context, srv *http.Server) error {
	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
