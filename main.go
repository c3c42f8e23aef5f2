package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Vk9769/voting-backend/internal/auth"
	"github.com/Vk9769/voting-backend/internal/config"
	"github.com/Vk9769/voting-backend/internal/database"
	"github.com/Vk9769/voting-backend/internal/logger"
	"github.com/Vk9769/voting-backend/internal/presence"
	"github.com/Vk9769/voting-backend/internal/router"

	"go.uber.org/zap"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		fmt.Fprintf(os.Stderr, "create data dir: %v\n", err)
		os.Exit(1)
	}
	if err := ensureDir(filepath.Dir(cfg.Log.File)); err != nil {
		fmt.Fprintf(os.Stderr, "create log dir: %v\n", err)
		os.Exit(1)
	}
	if err := ensureDir(cfg.Uploads.Dir); err != nil {
		fmt.Fprintf(os.Stderr, "create uploads dir: %v\n", err)
		os.Exit(1)
	}

	logger.Initialize(logger.Configuration{
		LogFile: cfg.Log.File,
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console,
	})

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	// run migrations and seed the role table
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}
	if err := database.SeedRoles(db, auth.DefaultHierarchy()); err != nil {
		logger.Fatal("seed roles", zap.Error(err))
	}

	// presence fan-out hub
	hub := presence.NewHub(cfg.Presence.SendBuffer)
	go hub.Run()
	defer hub.Stop()

	r := router.Setup(cfg, db, hub)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Info("server up", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
