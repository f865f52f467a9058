package out

import (
	"context"

	apperrors "klarnasync/internal/shared_kernel/errors"
)

const OrderLockedErrorCode = "order_locked"

// ReleaseFunc releases a lock obtained from OrderLocker. It is safe to call
// more than once.
type ReleaseFunc func()

type OrderLocker interface {
	Lock(ctx context.Context, orderID string) (ReleaseFunc, *apperrors.AppError)
}
