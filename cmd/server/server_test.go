package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"collections-console/internal/config"
	"collections-console/internal/db"
	"collections-console/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupServer(t *testing.T) {
	// Test with valid configuration
	cfg := config.DefaultConfig()
	cfg.Server.Port = 8080
	cfg.Database.DSN = "file:servertest.db?mode=memory&cache=shared"

	srv, err := SetupServer(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, srv)
	assert.Equal(t, ":8080", srv.Addr)
	srv.Close()

	// Test with unreachable database path
	cfg.Database.DSN = "/nonexistent-dir/sub/collections.db"
	srv, err = SetupServer(cfg)
	assert.Error(t, err)
	assert.Nil(t, srv)

	// Test with empty configuration
	srv, err = SetupServer(nil)
	assert.Error(t, err)
	assert.Nil(t, srv)

	// Test with invalid port
	cfg = config.DefaultConfig()
	cfg.Server.Port = -1
	srv, err = SetupServer(cfg)
	assert.Error(t, err)
	assert.Nil(t, srv)
}

func TestSetupServerWithSeed(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Port = 8082
	cfg.Database.DSN = "file:seedtest.db?mode=memory&cache=shared"
	cfg.Seed.Enable = true

	srv, err := SetupServer(cfg)
	require.NoError(t, err)
	require.NotNil(t, srv)
	srv.Close()
}

func TestHandleHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", handleHealthCheck)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
	assert.Equal(t, "collections-console", response["service"])
	assert.NotEmpty(t, response["time"])
}

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cfg := config.DefaultConfig()

	database, err := db.NewDatabase("file:routetest.db?mode=memory&cache=shared")
	require.NoError(t, err)
	defer database.Close()

	store := db.NewStore(database.GetDB())
	accountService := services.NewAccountService(store, cfg.Paging.PageSize, cfg.Paging.MaxPages)
	agentService := services.NewAgentService(db.NewAgentRepository(database.GetDB()), cfg.Security.EncryptionKey)

	// Chat service is nil when no LLM key is configured; the route must
	// still be registered.
	setupRoutes(router, cfg, accountService, nil, agentService, store)

	routes := router.Routes()
	assert.NotEmpty(t, routes)

	want := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"POST", "/api/auth/login"},
		{"POST", "/api/agents"},
		{"GET", "/api/accounts"},
		{"POST", "/api/accounts/refresh"},
		{"GET", "/api/accounts/:custnumber"},
		{"POST", "/api/notes"},
		{"POST", "/api/sms"},
		{"POST", "/api/chat"},
	}
	for _, w := range want {
		found := false
		for _, route := range routes {
			if route.Path == w.path && route.Method == w.method {
				found = true
			}
		}
		assert.True(t, found, "route %s %s not registered", w.method, w.path)
	}

	// The chat route sits behind auth even when the assistant is disabled
	req := httptest.NewRequest("POST", "/api/chat", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Nil router panics
	assert.Panics(t, func() {
		setupRoutes(nil, cfg, accountService, nil, agentService, store)
	})
}

func TestStartServerWithContext(t *testing.T) {
	srv := &http.Server{
		Addr:    ":0", // let the OS assign a port
		Handler: gin.New(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- StartServerWithContext(ctx, srv)
	}()

	// Wait a bit for the server to start
	time.Sleep(100 * time.Millisecond)

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Server didn't shut down within timeout")
	}
}
