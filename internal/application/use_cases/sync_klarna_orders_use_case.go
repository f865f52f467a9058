package use_cases

import (
	"context"

	"klarnasync/internal/application/dto"
	portsin "klarnasync/internal/application/ports/in"
	portsout "klarnasync/internal/application/ports/out"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

type syncKlarnaOrdersUseCase struct {
	orders     portsout.OrderRepository
	reconciler *OrderReconciler
	locker     portsout.OrderLocker
}

func NewSyncKlarnaOrdersUseCase(
	orders portsout.OrderRepository,
	reconciler *OrderReconciler,
	locker portsout.OrderLocker,
) portsin.SyncKlarnaOrdersUseCase {
	return &syncKlarnaOrdersUseCase{
		orders:     orders,
		reconciler: reconciler,
		locker:     locker,
	}
}

func (u *syncKlarnaOrdersUseCase) Execute(ctx context.Context, command dto.SyncKlarnaOrdersCommand) (dto.SyncKlarnaOrdersOutput, *apperrors.AppError) {
	if u.orders == nil {
		return dto.SyncKlarnaOrdersOutput{}, apperrors.NewInternal(
			OrderRepositoryMissingCode,
			"order repository is required",
			nil,
		)
	}
	if appErr := u.reconciler.validate(); appErr != nil {
		return dto.SyncKlarnaOrdersOutput{}, appErr
	}
	if command.BatchSize <= 0 {
		return dto.SyncKlarnaOrdersOutput{}, apperrors.NewValidation(
			"sync_batch_size_invalid",
			"batch size must be greater than zero",
			map[string]any{"batch_size": command.BatchSize},
		)
	}

	orderIDs, appErr := u.orders.ListSyncableOrderIDs(ctx, command.AfterOrderID, command.BatchSize)
	if appErr != nil {
		return dto.SyncKlarnaOrdersOutput{}, appErr
	}

	output := dto.SyncKlarnaOrdersOutput{}
	for _, orderID := range orderIDs {
		if ctx.Err() != nil {
			break
		}
		output.Scanned++
		output.NextOrderID = orderID

		switch u.syncOne(ctx, orderID) {
		case syncOutcomeInSync:
			output.InSync++
		case syncOutcomeOutOfSync:
			output.OutOfSync++
		case syncOutcomeSkipped:
			output.Skipped++
		case syncOutcomeError:
			output.Errors++
		}
	}

	if len(orderIDs) < command.BatchSize {
		output.NextOrderID = ""
	}

	return output, nil
}

type syncOutcome int

const (
	syncOutcomeInSync syncOutcome = iota
	syncOutcomeOutOfSync
	syncOutcomeSkipped
	syncOutcomeError
)

// syncOne never fails the batch; a row that cannot be read or saved counts as an error.
func (u *syncKlarnaOrdersUseCase) syncOne(ctx context.Context, orderID string) syncOutcome {
	release, lockErr := lockOrder(ctx, u.locker, orderID)
	if lockErr != nil {
		if lockErr.HasCode(portsout.OrderLockedErrorCode) {
			return syncOutcomeSkipped
		}
		return syncOutcomeError
	}
	defer release()

	order, found, appErr := u.orders.FindByID(ctx, orderID)
	if appErr != nil {
		return syncOutcomeError
	}
	if !found || !order.IsSyncable() {
		return syncOutcomeSkipped
	}

	result, appErr := u.reconciler.Reconcile(ctx, order)
	if appErr != nil {
		return syncOutcomeError
	}

	switch {
	case result.RemoteErr != nil:
		return syncOutcomeError
	case result.InSync:
		return syncOutcomeInSync
	default:
		return syncOutcomeOutOfSync
	}
}
