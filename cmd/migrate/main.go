package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"resume-chat/internal/shared/config"
	"resume-chat/internal/shared/storage/db"
	"resume-chat/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	telemetry.Setup(cfg.Env, cfg.Debug)
	defer telemetry.Sync()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error(ctx, "failed to connect database", zap.Error(err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error(ctx, "failed to run migrations", zap.Error(err))
		os.Exit(1)
	}
	telemetry.Info(ctx, "migrations applied")
}
