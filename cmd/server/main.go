package main

import (
	"flag"
	"os"
	"path/filepath"

	"collections-console/internal/config"
	"collections-console/pkg/logger"

	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to JSON config file")
	flag.Parse()

	// Load configuration
	cfg := config.DefaultConfig()
	if *configPath != "" {
		absPath, err := filepath.Abs(*configPath)
		if err != nil {
			panic(err)
		}
		cfg, err = config.LoadConfig(absPath)
		if err != nil {
			panic(err)
		}
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Path, cfg.Logging.Level); err != nil {
		panic(err)
	}
	defer logger.Info("Server shutting down")

	// Setup and start server
	srv, err := SetupServer(cfg)
	if err != nil {
		logger.Fatal("Failed to setup server", zap.Error(err))
	}

	if err := StartServer(srv); err != nil {
		logger.Error("Server error", zap.Error(err))
		os.Exit(1)
	}
}
