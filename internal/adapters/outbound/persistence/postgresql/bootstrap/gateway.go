package bootstrap

import (
	"context"
	"database/sql"

	"klarnasync/internal/adapters/outbound/persistence/postgresql/migrations"
	portsout "klarnasync/internal/application/ports/out"
	apperrors "klarnasync/internal/shared_kernel/errors"

	"go.uber.org/zap"
)

type Gateway struct {
	db             *sql.DB
	databaseTarget string
	logger         *zap.Logger
}

var (
	_ portsout.PersistenceBootstrapGateway = (*Gateway)(nil)
	_ portsout.DatabaseHealthProbe         = (*Gateway)(nil)
)

// NewGateway wraps the shared pool. databaseTarget is the redacted host/db
// label used in logs and error details.
func NewGateway(db *sql.DB, databaseTarget string, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Gateway{
		db:             db,
		databaseTarget: databaseTarget,
		logger:         logger,
	}
}

func (g *Gateway) CheckReadiness(ctx context.Context) *apperrors.AppError {
	if appErr := g.Ping(ctx); appErr != nil {
		return appErr
	}

	g.logger.Info("database readiness check succeeded", zap.String("database_target", g.databaseTarget))
	return nil
}

func (g *Gateway) Ping(ctx context.Context) *apperrors.AppError {
	if g.db == nil {
		return apperrors.NewInternal(
			"DB_CONNECT_INIT_FAILED",
			"database connection is not initialized",
			map[string]any{"database_target": g.databaseTarget},
		)
	}

	if err := g.db.PingContext(ctx); err != nil {
		g.logger.Warn("database ping failed",
			zap.String("database_target", g.databaseTarget),
			zap.Error(err),
		)
		return apperrors.NewInternal(
			"DB_CONNECT_FAILED",
			"failed to connect to database",
			map[string]any{"database_target": g.databaseTarget},
		)
	}

	return nil
}

func (g *Gateway) RunMigrations(ctx context.Context) *apperrors.AppError {
	if err := ctx.Err(); err != nil {
		return apperrors.NewInternal(
			"DB_MIGRATION_CONTEXT_CANCELED",
			"migration context canceled",
			map[string]any{"database_target": g.databaseTarget},
		)
	}

	if err := migrations.Apply(ctx, g.db, g.logger); err != nil {
		g.logger.Error("database migrations failed",
			zap.String("database_target", g.databaseTarget),
			zap.Error(err),
		)
		return apperrors.NewInternal(
			"DB_MIGRATION_APPLY_FAILED",
			"failed to apply migrations",
			map[string]any{
				"database_target": g.databaseTarget,
				"error":           err.Error(),
			},
		)
	}

	return nil
}
