package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"collections-console/pkg/logger"

	"go.uber.org/zap"
)

// Config holds all configuration settings
type Config struct {
	Server struct {
		Port int    `json:"port"`
		Host string `json:"host"`
	} `json:"server"`
	Database struct {
		DSN string `json:"dsn"`
	} `json:"database"`
	JWT struct {
		Secret      string        `json:"secret"`
		TokenExpiry time.Duration `json:"token_expiry"`
	} `json:"jwt"`
	Paging struct {
		PageSize int `json:"page_size"`
		// MaxPages caps full-table pagination so a corrupt or runaway table
		// cannot stall an aggregation pass.
		MaxPages int `json:"max_pages"`
	} `json:"paging"`
	LLM struct {
		BaseURL   string `json:"base_url"`
		Model     string `json:"model"`
		APIKeyEnv string `json:"api_key_env"`
	} `json:"llm"`
	Security struct {
		EncryptionKey string `json:"encryption_key"` // 32 bytes, encrypts stored TOTP secrets
	} `json:"security"`
	Logging struct {
		Level string `json:"level"`
		Path  string `json:"path"`
	} `json:"logging"`
	Seed struct {
		Enable bool `json:"enable"`
	} `json:"seed"`
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	// Validate path to prevent directory traversal
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("config path must be absolute")
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("config file error: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("config path is not a regular file")
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Warn("Failed to close config file", zap.Error(closeErr))
		}
	}()

	config := DefaultConfig()
	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.Server.Port = 8080
	config.Server.Host = "localhost"
	config.Database.DSN = "file:collections.db?cache=shared&mode=rwc"
	config.JWT.Secret = "your-secret-key" // This should be changed in production
	config.JWT.TokenExpiry = 24 * time.Hour
	config.Paging.PageSize = 500
	config.Paging.MaxPages = 200
	config.LLM.BaseURL = "https://api.openai.com/v1"
	config.LLM.Model = "gpt-4o-mini"
	config.LLM.APIKeyEnv = "OPENAI_API_KEY"
	config.Logging.Level = "info"
	config.Logging.Path = "server.log"
	config.Seed.Enable = false
	return config
}
