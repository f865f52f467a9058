package use_cases

import (
	"context"

	"klarnasync/internal/application/dto"
	"klarnasync/internal/application/messages"
	portsin "klarnasync/internal/application/ports/in"
	portsout "klarnasync/internal/application/ports/out"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

type refundOrderUseCase struct {
	orders     portsout.OrderRepository
	gateway    portsout.KlarnaOrderGateway
	reconciler *OrderReconciler
	locker     portsout.OrderLocker
}

func NewRefundOrderUseCase(
	orders portsout.OrderRepository,
	gateway portsout.KlarnaOrderGateway,
	reconciler *OrderReconciler,
	locker portsout.OrderLocker,
) portsin.RefundOrderUseCase {
	return &refundOrderUseCase{
		orders:     orders,
		gateway:    gateway,
		reconciler: reconciler,
		locker:     locker,
	}
}

func (u *refundOrderUseCase) Execute(ctx context.Context, command dto.RefundOrderCommand) (dto.RefundOrderOutput, *apperrors.AppError) {
	if appErr := requireOrderActionDeps(u.orders, u.gateway); appErr != nil {
		return dto.RefundOrderOutput{}, appErr
	}
	if appErr := u.reconciler.validate(); appErr != nil {
		return dto.RefundOrderOutput{}, appErr
	}
	if appErr := validateCommand(command); appErr != nil {
		return dto.RefundOrderOutput{}, appErr
	}

	release, appErr := lockOrder(ctx, u.locker, command.OrderID)
	if appErr != nil {
		return dto.RefundOrderOutput{}, appErr
	}
	defer release()

	order, appErr := loadKlarnaOrder(ctx, u.orders, command.OrderID)
	if appErr != nil {
		return dto.RefundOrderOutput{}, appErr
	}

	check, appErr := u.reconciler.CheckCredentials(ctx, order)
	if appErr != nil {
		return dto.RefundOrderOutput{}, appErr
	}
	if !check.Valid {
		return dto.RefundOrderOutput{}, credentialsChangedError(check)
	}

	refunded, appErr := u.gateway.RefundOrder(ctx, dto.RefundKlarnaOrderInput{
		KlarnaOrderReference: u.reconciler.reference(order),
		RefundedAmount:       command.AmountMinor,
		Description:          command.Description,
	})
	if appErr != nil {
		return dto.RefundOrderOutput{}, appErr
	}

	return dto.RefundOrderOutput{
		OrderID:     order.ID,
		RefundID:    refunded.RefundID,
		AmountMinor: command.AmountMinor,
		Message:     messages.Of(messages.New(messages.KeyRefundSuccessful)),
	}, nil
}
