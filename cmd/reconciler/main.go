package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"klarnasync/internal/application/dto"
	"klarnasync/internal/infrastructure/config"
	"klarnasync/internal/infrastructure/di"
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

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}).Named("reconciler")
	defer func() { _ = logger.Sync() }()

	if code := run(cfg, logger); code != 0 {
		_ = logger.Sync()
		os.Exit(code)
	}
}

func run(cfg config.Config, logger *zap.Logger) int {
	container, buildErr := di.Build(cfg, logger)
	if buildErr != nil {
		logger.Error("dependency wiring error", zap.Error(buildErr))
		return 1
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Warn("resource close warning", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	persistenceErr := container.InitializePersistenceUseCase.Execute(ctx, dto.InitializePersistenceCommand{
		ReadinessTimeout:       cfg.Database.ReadinessTimeout,
		ReadinessRetryInterval: cfg.Database.ReadinessRetryInterval,
		SkipMigrations:         cfg.Database.SkipMigrations,
	})
	if persistenceErr != nil {
		logger.Error("persistence initialization failed",
			zap.String("code", persistenceErr.Code),
			zap.String("message", persistenceErr.Message),
			zap.Any("details", persistenceErr.Details),
		)
		return 1
	}

	if !container.SyncWorker.Enabled() {
		logger.Error("sync worker is not enabled")
		return 1
	}

	container.SyncWorker.Start(ctx)
	logger.Info("reconciler stopped")

	return 0
}
