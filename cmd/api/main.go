package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"resume-chat/internal/bootstrap"
	"resume-chat/internal/shared/config"
	"resume-chat/internal/shared/server"
	"resume-chat/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	telemetry.Setup(cfg.Env, cfg.Debug)
	defer telemetry.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Fatal(ctx, "bootstrap failed", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			telemetry.Warn(ctx, "could not close database", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		telemetry.Info(ctx, "starting API server",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("chat_model", cfg.ChatModel),
			zap.Bool("debug", cfg.Debug),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			telemetry.Fatal(ctx, "server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	telemetry.Info(shutdownCtx, "stopping API server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error(shutdownCtx, "could not stop API server", zap.Error(err))
	}
}
