package use_cases

import (
	"context"
	"strings"

	"klarnasync/internal/application/dto"
	"klarnasync/internal/application/messages"
	portsin "klarnasync/internal/application/ports/in"
	portsout "klarnasync/internal/application/ports/out"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

type cancelOrderUseCase struct {
	orders     portsout.OrderRepository
	gateway    portsout.KlarnaOrderGateway
	reconciler *OrderReconciler
	locker     portsout.OrderLocker
}

func NewCancelOrderUseCase(
	orders portsout.OrderRepository,
	gateway portsout.KlarnaOrderGateway,
	reconciler *OrderReconciler,
	locker portsout.OrderLocker,
) portsin.CancelOrderUseCase {
	return &cancelOrderUseCase{
		orders:     orders,
		gateway:    gateway,
		reconciler: reconciler,
		locker:     locker,
	}
}

func (u *cancelOrderUseCase) Execute(ctx context.Context, command dto.CancelOrderCommand) (dto.CancelOrderOutput, *apperrors.AppError) {
	if appErr := requireOrderActionDeps(u.orders, u.gateway); appErr != nil {
		return dto.CancelOrderOutput{}, appErr
	}
	if appErr := u.reconciler.validate(); appErr != nil {
		return dto.CancelOrderOutput{}, appErr
	}
	if appErr := validateCommand(command); appErr != nil {
		return dto.CancelOrderOutput{}, appErr
	}

	release, appErr := lockOrder(ctx, u.locker, command.OrderID)
	if appErr != nil {
		return dto.CancelOrderOutput{}, appErr
	}
	defer release()

	order, appErr := loadOrder(ctx, u.orders, command.OrderID)
	if appErr != nil {
		return dto.CancelOrderOutput{}, appErr
	}

	output := dto.CancelOrderOutput{
		OrderID:   order.ID,
		Cancelled: true,
	}
	if order.Cancelled {
		return output, nil
	}

	if order.IsKlarnaOrder() {
		check, appErr := u.reconciler.CheckCredentials(ctx, order)
		if appErr != nil {
			return dto.CancelOrderOutput{}, appErr
		}
		if !check.Valid {
			return dto.CancelOrderOutput{}, credentialsChangedError(check)
		}

		if remoteErr := u.gateway.CancelOrder(ctx, u.reconciler.reference(order)); remoteErr != nil {
			if !strings.Contains(remoteErr.Message, remoteAlreadyCancelledSuffix) {
				return dto.CancelOrderOutput{}, remoteErr
			}
			output.RemoteAlreadyCancelled = true
		}

		// An order Klarna had already cancelled keeps its stored sync flag.
		if !output.RemoteAlreadyCancelled {
			if appErr := u.orders.SaveSyncFlag(ctx, order.ID, true); appErr != nil {
				return dto.CancelOrderOutput{}, appErr
			}
		}
		output.Message = messages.Of(messages.New(messages.KeyCancelSuccessful))
	}

	if appErr := u.orders.MarkCancelled(ctx, order.ID); appErr != nil {
		return dto.CancelOrderOutput{}, appErr
	}

	return output, nil
}
