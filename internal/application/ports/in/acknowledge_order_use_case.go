package in

import (
	"context"

	"klarnasync/internal/application/dto"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

type AcknowledgeOrderUseCase interface {
	Execute(ctx context.Context, command dto.AcknowledgeOrderCommand) (dto.AcknowledgeOrderOutput, *apperrors.AppError)
}
