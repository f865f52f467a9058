package noop

import (
	"context"

	portsout "klarnasync/internal/application/ports/out"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

// Locker never blocks. It is used when no Redis address is configured.
type Locker struct{}

var _ portsout.OrderLocker = Locker{}

func (Locker) Lock(_ context.Context, _ string) (portsout.ReleaseFunc, *apperrors.AppError) {
	return func() {}, nil
}
