package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"reviewhunter/internal/application"
	"reviewhunter/pkg/contextx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.TimeOnly,
	}))
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err := application.Run(ctx); err != nil {
		log.Error("application failed", "error", err)
		os.Exit(1)
	}

	log.Info("application stopped")
}
