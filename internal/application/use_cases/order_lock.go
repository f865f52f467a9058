package use_cases

import (
	"context"

	portsout "klarnasync/internal/application/ports/out"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

func lockOrder(ctx context.Context, locker portsout.OrderLocker, orderID string) (portsout.ReleaseFunc, *apperrors.AppError) {
	if locker == nil {
		return func() {}, nil
	}

	return locker.Lock(ctx, orderID)
}
