package acknowledgement

import (
	"context"
	"database/sql"
	"time"

	portsout "klarnasync/internal/application/ports/out"
	apperrors "klarnasync/internal/shared_kernel/errors"

	"github.com/google/uuid"
)

type Repository struct {
	db    *sql.DB
	newID func() string
}

var _ portsout.AcknowledgementLogRepository = (*Repository)(nil)

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db:    db,
		newID: uuid.NewString,
	}
}

func (r *Repository) Register(ctx context.Context, klarnaOrderID string, receivedAt time.Time) *apperrors.AppError {
	const query = `INSERT INTO kl_ack (oxid, klorderid, klreceived) VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, r.newID(), klarnaOrderID, receivedAt.UTC()); err != nil {
		return apperrors.NewInternal(
			"acknowledgement_insert_failed",
			"failed to record klarna acknowledgement",
			map[string]any{"klarna_order_id": klarnaOrderID, "error": err.Error()},
		)
	}

	return nil
}

func (r *Repository) CountByKlarnaOrderID(ctx context.Context, klarnaOrderID string) (int64, *apperrors.AppError) {
	const query = `SELECT COUNT(*) FROM kl_ack WHERE klorderid = $1`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, klarnaOrderID).Scan(&count); err != nil {
		return 0, apperrors.NewInternal(
			"acknowledgement_query_failed",
			"failed to count klarna acknowledgements",
			map[string]any{"klarna_order_id": klarnaOrderID, "error": err.Error()},
		)
	}

	return count, nil
}
