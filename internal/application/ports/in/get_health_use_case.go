package in

import (
	"context"

	"klarnasync/internal/application/dto"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

type GetHealthUseCase interface {
	Execute(ctx context.Context, command dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError)
}
