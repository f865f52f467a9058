package in

import (
	"context"

	"klarnasync/internal/application/dto"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

type GetOrderOverviewUseCase interface {
	Execute(ctx context.Context, query dto.GetOrderOverviewQuery) (dto.OrderOverviewOutput, *apperrors.AppError)
}

type GetKlarnaOrderDetailsUseCase interface {
	Execute(ctx context.Context, query dto.GetKlarnaOrderDetailsQuery) (dto.KlarnaOrderDetailsOutput, *apperrors.AppError)
}
