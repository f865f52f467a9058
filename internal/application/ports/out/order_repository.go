package out

import (
	"context"

	"klarnasync/internal/domain/entities"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (entities.Order, bool, *apperrors.AppError)
	FindByKlarnaOrderID(ctx context.Context, klarnaOrderID string) (entities.Order, bool, *apperrors.AppError)
	SaveSyncFlag(ctx context.Context, orderID string, inSync bool) *apperrors.AppError
	MarkCancelled(ctx context.Context, orderID string) *apperrors.AppError
	ListSyncableOrderIDs(ctx context.Context, afterOrderID string, limit int) ([]string, *apperrors.AppError)
}
