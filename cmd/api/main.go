package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"staffbook/auth"
	"staffbook/config"
	"staffbook/db"
	"staffbook/docstore"
)

func main() {
	cfg := config.Load()
	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("bootstrap database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := docstore.NewPostgres(pool)
	authService := auth.NewService(auth.NewRepository(pool), cfg.JWTSecret)

	server := NewServer(authService, store, logger)

	logger.Info("api listening", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, server.Handler()); err != nil {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToUpper(cfg.LogFormat) == "JSON" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
