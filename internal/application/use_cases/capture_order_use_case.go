package use_cases

import (
	"context"

	"klarnasync/internal/application/dto"
	"klarnasync/internal/application/messages"
	portsin "klarnasync/internal/application/ports/in"
	portsout "klarnasync/internal/application/ports/out"
	"klarnasync/internal/domain/entities"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

const (
	OrderNotKlarnaErrorCode      = "order_not_klarna"
	OrderCancelledErrorCode      = "order_cancelled"
	CredentialsChangedErrorCode  = "klarna_credentials_changed"
	CaptureNotAllowedErrorCode   = "capture_not_allowed"
	OrderRepositoryMissingCode   = "order_repository_missing"
	KlarnaGatewayMissingCode     = "klarna_order_gateway_missing"
	remoteAlreadyCancelledSuffix = "is canceled."
)

type captureOrderUseCase struct {
	orders     portsout.OrderRepository
	gateway    portsout.KlarnaOrderGateway
	reconciler *OrderReconciler
	locker     portsout.OrderLocker
}

func NewCaptureOrderUseCase(
	orders portsout.OrderRepository,
	gateway portsout.KlarnaOrderGateway,
	reconciler *OrderReconciler,
	locker portsout.OrderLocker,
) portsin.CaptureOrderUseCase {
	return &captureOrderUseCase{
		orders:     orders,
		gateway:    gateway,
		reconciler: reconciler,
		locker:     locker,
	}
}

func (u *captureOrderUseCase) Execute(ctx context.Context, command dto.CaptureOrderCommand) (dto.CaptureOrderOutput, *apperrors.AppError) {
	if appErr := requireOrderActionDeps(u.orders, u.gateway); appErr != nil {
		return dto.CaptureOrderOutput{}, appErr
	}
	if appErr := validateCommand(command); appErr != nil {
		return dto.CaptureOrderOutput{}, appErr
	}

	release, appErr := lockOrder(ctx, u.locker, command.OrderID)
	if appErr != nil {
		return dto.CaptureOrderOutput{}, appErr
	}
	defer release()

	order, appErr := loadKlarnaOrder(ctx, u.orders, command.OrderID)
	if appErr != nil {
		return dto.CaptureOrderOutput{}, appErr
	}

	result, appErr := u.reconciler.Reconcile(ctx, order)
	if appErr != nil {
		return dto.CaptureOrderOutput{}, appErr
	}
	if !result.Credentials.Valid {
		return dto.CaptureOrderOutput{}, credentialsChangedError(result.Credentials)
	}
	if result.RemoteErr != nil {
		return dto.CaptureOrderOutput{}, result.RemoteErr
	}
	if !result.InSync || result.Snapshot.RemainingAuthorizedAmount == 0 {
		return dto.CaptureOrderOutput{}, apperrors.NewConflict(
			CaptureNotAllowedErrorCode,
			"order is out of sync with klarna or has nothing left to capture",
			map[string]any{
				"order_id":                    order.ID,
				"status":                      result.Snapshot.Status.String(),
				"reason":                      string(result.Evaluation.Reason),
				"remaining_authorized_amount": result.Snapshot.RemainingAuthorizedAmount,
			},
		)
	}

	reference := u.reconciler.reference(order)
	captured, appErr := u.gateway.CaptureOrder(ctx, dto.CaptureKlarnaOrderInput{
		KlarnaOrderReference: reference,
		CapturedAmount:       order.TotalMinorUnits(),
	})
	if appErr != nil {
		return dto.CaptureOrderOutput{}, appErr
	}

	if appErr := u.orders.SaveSyncFlag(ctx, order.ID, true); appErr != nil {
		return dto.CaptureOrderOutput{}, appErr
	}

	output := dto.CaptureOrderOutput{
		OrderID:   order.ID,
		CaptureID: captured.CaptureID,
		Status:    result.Snapshot.Status.String(),
		InSync:    true,
		Message:   messages.Of(messages.New(messages.KeyCaptureSuccessful)),
	}

	// The capture went through; a failed refresh only leaves the pre-capture status.
	if refreshed, refreshErr := u.gateway.RetrieveOrder(ctx, reference); refreshErr == nil {
		output.Status = refreshed.Status.String()
	}

	return output, nil
}

func requireOrderActionDeps(orders portsout.OrderRepository, gateway portsout.KlarnaOrderGateway) *apperrors.AppError {
	if orders == nil {
		return apperrors.NewInternal(OrderRepositoryMissingCode, "order repository is required", nil)
	}
	if gateway == nil {
		return apperrors.NewInternal(KlarnaGatewayMissingCode, "klarna order gateway is required", nil)
	}

	return nil
}

// loadKlarnaOrder loads an order that an action may be sent to Klarna for.
func loadKlarnaOrder(ctx context.Context, orders portsout.OrderRepository, orderID string) (entities.Order, *apperrors.AppError) {
	order, appErr := loadOrder(ctx, orders, orderID)
	if appErr != nil {
		return entities.Order{}, appErr
	}

	if !order.IsKlarnaOrder() {
		return entities.Order{}, apperrors.NewConflict(
			OrderNotKlarnaErrorCode,
			"order was not paid with klarna",
			map[string]any{"order_id": order.ID},
		)
	}
	if order.Cancelled {
		return entities.Order{}, apperrors.NewConflict(
			OrderCancelledErrorCode,
			"order is cancelled",
			map[string]any{"order_id": order.ID},
		)
	}

	return order, nil
}

func credentialsChangedError(check dto.CredentialCheck) *apperrors.AppError {
	return apperrors.NewConflict(
		CredentialsChangedErrorCode,
		"klarna merchant id configured for the order country has changed",
		map[string]any{
			"merchant_id":         check.MerchantID,
			"country_iso":         check.CountryISO,
			"current_merchant_id": check.CurrentMerchantID,
		},
	)
}
