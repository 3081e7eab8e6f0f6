// Package main запускает HTTP API начисления бонусных баллов.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	rewardsaggregator "github.com/magabrotheeeer/rewards-aggregator/internal/app/rewards-aggregator"
	"github.com/magabrotheeeer/rewards-aggregator/internal/config"
	"github.com/magabrotheeeer/rewards-aggregator/internal/lib/sl"
)

const (
	envLocal = "local"
	envProd  = "prod"
)

func main() {
	// .env необязателен: CONFIG_PATH и переопределения можно задать и окружением.
	_ = godotenv.Load()
	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	logger.Info("starting rewards-aggregator", slog.String("env", cfg.Env))
	logger.Debug("debug messages are enabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := rewardsaggregator.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("rewards-aggregator stopped gracefully")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
