package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"collections-console/internal/config"
	"collections-console/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	// Create test config
	cfg := config.DefaultConfig()
	cfg.JWT.Secret = "test_secret"
	cfg.JWT.TokenExpiry = time.Hour * 24

	validToken := generateValidToken(cfg)
	expiredToken := generateExpiredToken(cfg)

	testCases := []struct {
		name           string
		token          string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing token",
			token:          "",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Authorization header is required",
		},
		{
			name:           "invalid token",
			token:          "invalid",
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid token",
		},
		{
			name:           "expired token",
			token:          "Bearer " + expiredToken,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Token has expired",
		},
		{
			name:           "valid token",
			token:          "Bearer " + validToken,
			expectedStatus: http.StatusOK,
			expectedError:  "",
		},
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"agentID": c.GetString("agentID"),
			"role":    c.GetString("role"),
		})
	})

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/test", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", tc.token)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			if tc.expectedError != "" {
				assert.Contains(t, w.Body.String(), tc.expectedError)
			} else {
				assert.Contains(t, w.Body.String(), "test-agent")
				assert.Contains(t, w.Body.String(), models.RoleAgent)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TokenExpiry = 24 * time.Hour

	testCases := []struct {
		name          string
		agentID       string
		cfg           *config.Config
		expectedError string
	}{
		{
			name:          "empty agent ID",
			agentID:       "",
			cfg:           cfg,
			expectedError: "agent ID is required",
		},
		{
			name:          "nil config",
			agentID:       "test-agent",
			cfg:           nil,
			expectedError: "config is required",
		},
		{
			name:          "empty secret",
			agentID:       "test-agent",
			cfg:           &config.Config{},
			expectedError: "JWT secret is required",
		},
		{
			name:          "valid token",
			agentID:       "test-agent",
			cfg:           cfg,
			expectedError: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := GenerateToken(tc.agentID, models.RoleSupervisor, tc.cfg)

			if tc.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)

				// Verify token
				parsedToken, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
					return []byte(cfg.JWT.Secret), nil
				})
				assert.NoError(t, err)
				assert.True(t, parsedToken.Valid)

				claims, ok := parsedToken.Claims.(*Claims)
				assert.True(t, ok)
				assert.Equal(t, tc.agentID, claims.AgentID)
				assert.Equal(t, models.RoleSupervisor, claims.Role)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(role interface{}, set bool) *gin.Engine {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			if set {
				c.Set("role", role)
			}
			c.Next()
		})
		router.POST("/restricted", RequireRole(models.RoleSupervisor), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return router
	}

	testCases := []struct {
		name           string
		role           interface{}
		set            bool
		expectedStatus int
	}{
		{"matching role", models.RoleSupervisor, true, http.StatusNoContent},
		{"insufficient role", models.RoleAgent, true, http.StatusForbidden},
		{"no role set", nil, false, http.StatusForbidden},
		{"non-string role", 42, true, http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/restricted", nil)
			newRouter(tc.role, tc.set).ServeHTTP(w, req)
			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}

func TestRequireRoleSupervisorBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("role", models.RoleSupervisor)
		c.Next()
	})
	router.GET("/agent-only", RequireRole(models.RoleAgent), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/agent-only", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func generateValidToken(cfg *config.Config) string {
	token, _ := GenerateToken("test-agent", models.RoleAgent, cfg)
	return token
}

func generateExpiredToken(cfg *config.Config) string {
	claims := &Claims{
		AgentID: "test-agent",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			NotBefore: jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(cfg.JWT.Secret))
	return tokenString
}
