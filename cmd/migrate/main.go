// Command migrate applies the service's schema migrations and exits.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"klarnasync/internal/adapters/outbound/persistence/postgresql/migrations"
	postgresqlshared "klarnasync/internal/adapters/outbound/persistence/postgresql/shared"
	"klarnasync/internal/infrastructure/config"
	"klarnasync/internal/infrastructure/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, cfgErr := config.LoadConfig()
	if cfgErr != nil {
		logger := logging.New(logging.Config{})
		logger.Error("startup config error",
			zap.String("code", cfgErr.Code),
			zap.String("message", cfgErr.Message),
			zap.Any("metadata", cfgErr.Metadata),
		)
		_ = logger.Sync()
		os.Exit(1)
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}).Named("migrate")
	if err := run(cfg, logger); err != nil {
		logger.Error("migration failed", zap.String("database_target", cfg.Database.Target), zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg config.Config, logger *zap.Logger) error {
	db, err := postgresqlshared.NewDatabasePool(cfg.Database.URL, postgresqlshared.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Database.ReadinessTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return err
	}

	return migrations.Apply(ctx, db, logger)
}
