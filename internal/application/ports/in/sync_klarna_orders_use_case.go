package in

import (
	"context"

	"klarnasync/internal/application/dto"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

type SyncKlarnaOrdersUseCase interface {
	Execute(ctx context.Context, command dto.SyncKlarnaOrdersCommand) (dto.SyncKlarnaOrdersOutput, *apperrors.AppError)
}
