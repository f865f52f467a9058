package out

import (
	"context"
	"time"

	apperrors "klarnasync/internal/shared_kernel/errors"
)

// AcknowledgementLogRepository is the append-only log of acknowledge pushes
// received from Klarna.
type AcknowledgementLogRepository interface {
	Register(ctx context.Context, klarnaOrderID string, receivedAt time.Time) *apperrors.AppError
	CountByKlarnaOrderID(ctx context.Context, klarnaOrderID string) (int64, *apperrors.AppError)
}
