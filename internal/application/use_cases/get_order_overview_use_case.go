package use_cases

import (
	"context"
	"strings"

	"klarnasync/internal/application/dto"
	portsin "klarnasync/internal/application/ports/in"
	portsout "klarnasync/internal/application/ports/out"
	"klarnasync/internal/domain/entities"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

type getOrderOverviewUseCase struct {
	orders     portsout.OrderRepository
	reconciler *OrderReconciler
}

func NewGetOrderOverviewUseCase(orders portsout.OrderRepository, reconciler *OrderReconciler) portsin.GetOrderOverviewUseCase {
	return &getOrderOverviewUseCase{
		orders:     orders,
		reconciler: reconciler,
	}
}

func (u *getOrderOverviewUseCase) Execute(ctx context.Context, query dto.GetOrderOverviewQuery) (dto.OrderOverviewOutput, *apperrors.AppError) {
	if u.orders == nil {
		return dto.OrderOverviewOutput{}, apperrors.NewInternal(
			"order_repository_missing",
			"order repository is required",
			nil,
		)
	}

	order, appErr := loadOrder(ctx, u.orders, query.OrderID)
	if appErr != nil {
		return dto.OrderOverviewOutput{}, appErr
	}

	output := dto.OrderOverviewOutput{
		OrderID:       order.ID,
		IsKlarnaOrder: order.IsKlarnaOrder(),
		Cancelled:     order.Cancelled,
		InSync:        order.InSync,
	}
	if !order.IsSyncable() {
		return output, nil
	}

	result, appErr := u.reconciler.Reconcile(ctx, order)
	if appErr != nil {
		return dto.OrderOverviewOutput{}, appErr
	}

	output.InSync = result.InSync
	output.Credentials = result.Credentials
	output.Warning = result.Warning
	output.Error = result.Error
	if result.Snapshot != nil {
		output.Status = result.Snapshot.Status.String()
	}

	return output, nil
}

func loadOrder(ctx context.Context, orders portsout.OrderRepository, rawOrderID string) (entities.Order, *apperrors.AppError) {
	orderID := strings.TrimSpace(rawOrderID)
	if orderID == "" {
		return entities.Order{}, apperrors.NewValidation(
			"order_id_required",
			"order id is required",
			nil,
		)
	}

	order, found, appErr := orders.FindByID(ctx, orderID)
	if appErr != nil {
		return entities.Order{}, appErr
	}
	if !found {
		return entities.Order{}, apperrors.NewNotFound(
			"order_not_found",
			"order not found",
			map[string]any{"order_id": orderID},
		)
	}

	return order, nil
}
