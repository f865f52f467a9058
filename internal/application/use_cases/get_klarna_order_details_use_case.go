package use_cases

import (
	"context"
	"time"

	"klarnasync/internal/application/dto"
	"klarnasync/internal/application/messages"
	portsin "klarnasync/internal/application/ports/in"
	portsout "klarnasync/internal/application/ports/out"
	"klarnasync/internal/domain/entities"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

const (
	displayTimeLayout      = "2006-01-02 15:04:05"
	missingKlarnaReference = " - "
)

type getKlarnaOrderDetailsUseCase struct {
	orders     portsout.OrderRepository
	reconciler *OrderReconciler
	location   *time.Location
}

// NewGetKlarnaOrderDetailsUseCase renders capture and refund times in
// location, UTC when nil.
func NewGetKlarnaOrderDetailsUseCase(
	orders portsout.OrderRepository,
	reconciler *OrderReconciler,
	location *time.Location,
) portsin.GetKlarnaOrderDetailsUseCase {
	if location == nil {
		location = time.UTC
	}

	return &getKlarnaOrderDetailsUseCase{
		orders:     orders,
		reconciler: reconciler,
		location:   location,
	}
}

func (u *getKlarnaOrderDetailsUseCase) Execute(ctx context.Context, query dto.GetKlarnaOrderDetailsQuery) (dto.KlarnaOrderDetailsOutput, *apperrors.AppError) {
	if u.orders == nil {
		return dto.KlarnaOrderDetailsOutput{}, apperrors.NewInternal(
			"order_repository_missing",
			"order repository is required",
			nil,
		)
	}

	order, appErr := loadOrder(ctx, u.orders, query.OrderID)
	if appErr != nil {
		return dto.KlarnaOrderDetailsOutput{}, appErr
	}

	output := dto.KlarnaOrderDetailsOutput{
		OrderID:       order.ID,
		IsKlarnaOrder: order.IsKlarnaOrder(),
		Cancelled:     order.Cancelled,
		InSync:        order.InSync,
		Currency:      order.Currency,
	}
	if !order.IsKlarnaOrder() {
		output.Message = messages.Of(messages.New(messages.KeyOnlyForKlarnaPayment))
		return output, nil
	}

	// Cancelled orders are shown as they are at Klarna; their sync flag is left alone.
	var result ReconcileResult
	if order.Cancelled {
		result, appErr = u.reconciler.Fetch(ctx, order)
	} else {
		result, appErr = u.reconciler.Reconcile(ctx, order)
	}
	if appErr != nil {
		return dto.KlarnaOrderDetailsOutput{}, appErr
	}

	output.InSync = result.InSync
	output.Credentials = result.Credentials
	output.Warning = result.Warning
	output.Error = result.Error
	if result.Credentials.Valid {
		output.PortalLink = order.PortalLink()
	}
	if result.Snapshot != nil {
		u.applySnapshot(&output, *result.Snapshot)
	}

	return output, nil
}

func (u *getKlarnaOrderDetailsUseCase) applySnapshot(output *dto.KlarnaOrderDetailsOutput, snapshot entities.KlarnaOrderSnapshot) {
	output.Status = snapshot.Status.String()
	output.Cancelled = snapshot.Status.IsCancelled()
	output.OrderAmount = snapshot.OrderAmount
	output.RemainingAuthorizedAmount = snapshot.RemainingAuthorizedAmount
	output.KlarnaReference = snapshot.KlarnaReference
	if output.KlarnaReference == "" {
		output.KlarnaReference = missingKlarnaReference
	}
	if snapshot.PurchaseCurrency != "" {
		output.Currency = snapshot.PurchaseCurrency
	}

	output.Captures = make([]dto.KlarnaCaptureView, 0, len(snapshot.Captures))
	for _, capture := range snapshot.Captures {
		output.Captures = append(output.Captures, dto.KlarnaCaptureView{
			CaptureID:       capture.CaptureID,
			CapturedAmount:  capture.CapturedAmount,
			CapturedAt:      u.formatTime(capture.CapturedAt),
			Description:     capture.Description,
			KlarnaReference: capture.KlarnaReference,
		})
	}

	output.Refunds = make([]dto.KlarnaRefundView, 0, len(snapshot.Refunds))
	for _, refund := range snapshot.Refunds {
		output.Refunds = append(output.Refunds, dto.KlarnaRefundView{
			RefundID:       refund.RefundID,
			RefundedAmount: refund.RefundedAmount,
			RefundedAt:     u.formatTime(refund.RefundedAt),
			Description:    refund.Description,
		})
	}
}

func (u *getKlarnaOrderDetailsUseCase) formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.In(u.location).Format(displayTimeLayout)
}
