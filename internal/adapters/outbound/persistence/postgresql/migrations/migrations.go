// Package migrations owns the schema this service needs: the Klarna columns on
// the host order table and the acknowledgement log.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	stderrors "errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Table records applied versions apart from any migrations table the host
// platform keeps.
const Table = "kl_schema_migrations"

//go:embed *.sql
var files embed.FS

// Apply runs every pending up migration on db. It borrows a single connection
// and leaves db open.
func Apply(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if db == nil {
		return stderrors.New("migrations: database handle is required")
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("migrations: acquire connection: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{MigrationsTable: Table})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("migrations: init postgres driver: %w", err)
	}

	source, err := iofs.New(files, ".")
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("migrations: open embedded source: %w", err)
	}

	runner, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return fmt.Errorf("migrations: init runner: %w", err)
	}
	defer func() {
		sourceErr, dbErr := runner.Close()
		if sourceErr != nil {
			logger.Warn("migration source close failed", zap.Error(sourceErr))
		}
		if dbErr != nil {
			logger.Warn("migration connection close failed", zap.Error(dbErr))
		}
	}()

	err = runner.Up()
	if stderrors.Is(err, migrate.ErrNoChange) {
		logger.Info("database migrations up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrations: apply: %w", err)
	}

	version, dirty, _ := runner.Version()
	logger.Info("database migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))

	return nil
}
