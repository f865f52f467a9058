package in

import (
	"context"

	"klarnasync/internal/application/dto"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

type InitializePersistenceUseCase interface {
	Execute(ctx context.Context, command dto.InitializePersistenceCommand) *apperrors.AppError
}
