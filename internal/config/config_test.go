package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "file:collections.db?cache=shared&mode=rwc", cfg.Database.DSN)
	assert.Equal(t, "your-secret-key", cfg.JWT.Secret)
	assert.Equal(t, 500, cfg.Paging.PageSize)
	assert.Equal(t, 200, cfg.Paging.MaxPages)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.LLM.APIKeyEnv)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "server.log", cfg.Logging.Path)
	assert.False(t, cfg.Seed.Enable)
}

func TestLoadConfig(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	configData := `{
		"server": {
			"port": 9090,
			"host": "127.0.0.1"
		},
		"database": {
			"dsn": "file:test.db?cache=shared&mode=rwc"
		},
		"jwt": {
			"secret": "test-secret-key"
		},
		"paging": {
			"page_size": 100,
			"max_pages": 20
		},
		"llm": {
			"model": "gpt-4o"
		},
		"logging": {
			"level": "debug",
			"path": "test.log"
		}
	}`

	err := os.WriteFile(configPath, []byte(configData), 0644)
	assert.NoError(t, err)

	// Test loading valid config
	cfg, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "file:test.db?cache=shared&mode=rwc", cfg.Database.DSN)
	assert.Equal(t, "test-secret-key", cfg.JWT.Secret)
	assert.Equal(t, 100, cfg.Paging.PageSize)
	assert.Equal(t, 20, cfg.Paging.MaxPages)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "test.log", cfg.Logging.Path)

	// Test loading a relative path
	cfg, err = LoadConfig("relative.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)

	// Test loading non-existent file
	cfg, err = LoadConfig(filepath.Join(tmpDir, "missing.json"))
	assert.Error(t, err)
	assert.Nil(t, cfg)

	// Test loading invalid JSON
	invalidConfigPath := filepath.Join(tmpDir, "invalid.json")
	err = os.WriteFile(invalidConfigPath, []byte("invalid json"), 0644)
	assert.NoError(t, err)

	cfg, err = LoadConfig(invalidConfigPath)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfigPartial(t *testing.T) {
	// Fields absent from the file fall back to defaults
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.json")

	configData := `{
		"server": {
			"port": 9090
		},
		"jwt": {
			"secret": "test-secret-key"
		}
	}`

	err := os.WriteFile(configPath, []byte(configData), 0644)
	assert.NoError(t, err)

	cfg, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test-secret-key", cfg.JWT.Secret)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 500, cfg.Paging.PageSize)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}
