// Command api serves the applicant tracking REST API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"ats-backend/internal/auth"
	"ats-backend/internal/config"
	"ats-backend/internal/database"
	"ats-backend/internal/logging"
	"ats-backend/internal/server"
	"ats-backend/internal/storage"
)

// @title ATS Backend API
// @version 1.0
// @description Applicant tracking system: jobs, candidates, applications, interviews and the recruiting dashboard.
// @BasePath /api
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.InitLogger(cfg.LogLevel, cfg.LogPretty); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.Logger(ctx)
	auth.Configure(cfg.SecretKey, cfg.TokenTTL)

	db, err := database.GetMainDB(cfg)
	if err != nil {
		logger.Fatal("Database failed to initialize", zap.Error(err))
	}
	defer db.Close()

	store, err := storage.New(ctx, cfg.GCSBucket, cfg.UploadDir)
	if err != nil {
		logger.Fatal("Storage failed to initialize", zap.Error(err))
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	blacklist, err := auth.NewBlacklistStore(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("Token blacklist failed to initialize", zap.Error(err))
	}
	defer blacklist.Close()

	if err := server.NewServer(cfg, db, store, blacklist).Serve(ctx); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		return
	}
	logger.Info("Server exited")
}
