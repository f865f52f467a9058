package out

import (
	"context"

	apperrors "klarnasync/internal/shared_kernel/errors"
)

type PersistenceBootstrapGateway interface {
	CheckReadiness(ctx context.Context) *apperrors.AppError
	RunMigrations(ctx context.Context) *apperrors.AppError
}

type DatabaseHealthProbe interface {
	Ping(ctx context.Context) *apperrors.AppError
}
