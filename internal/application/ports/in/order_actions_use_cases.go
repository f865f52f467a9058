package in

import (
	"context"

	"klarnasync/internal/application/dto"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

type CaptureOrderUseCase interface {
	Execute(ctx context.Context, command dto.CaptureOrderCommand) (dto.CaptureOrderOutput, *apperrors.AppError)
}

type RefundOrderUseCase interface {
	Execute(ctx context.Context, command dto.RefundOrderCommand) (dto.RefundOrderOutput, *apperrors.AppError)
}

type CancelOrderUseCase interface {
	Execute(ctx context.Context, command dto.CancelOrderCommand) (dto.CancelOrderOutput, *apperrors.AppError)
}
