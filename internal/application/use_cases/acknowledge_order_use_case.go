package use_cases

import (
	"context"
	"strings"

	"klarnasync/internal/application/dto"
	portsin "klarnasync/internal/application/ports/in"
	portsout "klarnasync/internal/application/ports/out"
	valueobjects "klarnasync/internal/domain/value_objects"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

// unmatchedAcknowledgeCancelThreshold is the number of earlier pushes for a
// Klarna order with no local order after which the order is cancelled at Klarna.
const unmatchedAcknowledgeCancelThreshold = 2

type acknowledgeOrderUseCase struct {
	orders            portsout.OrderRepository
	acknowledgements  portsout.AcknowledgementLogRepository
	gateway           portsout.KlarnaOrderGateway
	defaultCountryISO string
	clock             Clock
}

func NewAcknowledgeOrderUseCase(
	orders portsout.OrderRepository,
	acknowledgements portsout.AcknowledgementLogRepository,
	gateway portsout.KlarnaOrderGateway,
	defaultCountryISO string,
	clock Clock,
) portsin.AcknowledgeOrderUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}

	return &acknowledgeOrderUseCase{
		orders:            orders,
		acknowledgements:  acknowledgements,
		gateway:           gateway,
		defaultCountryISO: defaultCountryISO,
		clock:             clock,
	}
}

func (u *acknowledgeOrderUseCase) Execute(ctx context.Context, command dto.AcknowledgeOrderCommand) (dto.AcknowledgeOrderOutput, *apperrors.AppError) {
	if appErr := requireOrderActionDeps(u.orders, u.gateway); appErr != nil {
		return dto.AcknowledgeOrderOutput{}, appErr
	}
	if u.acknowledgements == nil {
		return dto.AcknowledgeOrderOutput{}, apperrors.NewInternal(
			"acknowledgement_log_repository_missing",
			"acknowledgement log repository is required",
			nil,
		)
	}

	output := dto.AcknowledgeOrderOutput{Action: dto.AcknowledgeActionNone}
	klarnaOrderID := strings.TrimSpace(command.KlarnaOrderID)
	if klarnaOrderID == "" {
		return output, nil
	}

	prior, appErr := u.acknowledgements.CountByKlarnaOrderID(ctx, klarnaOrderID)
	if appErr != nil {
		return output, appErr
	}
	output.PriorAttempts = prior

	receivedAt := command.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = u.clock.NowUTC()
	}
	if appErr := u.acknowledgements.Register(ctx, klarnaOrderID, receivedAt); appErr != nil {
		return output, appErr
	}

	order, found, appErr := u.orders.FindByKlarnaOrderID(ctx, klarnaOrderID)
	if appErr != nil {
		return output, appErr
	}

	reference := dto.KlarnaOrderReference{
		KlarnaOrderID: klarnaOrderID,
		CountryISO:    valueobjects.ResolveCountryISO(order.BillCountryISO, u.defaultCountryISO),
	}

	switch {
	case found:
		if appErr := u.gateway.AcknowledgeOrder(ctx, reference); appErr != nil {
			return output, appErr
		}
		output.Action = dto.AcknowledgeActionAcknowledged
	case prior >= unmatchedAcknowledgeCancelThreshold:
		if appErr := u.gateway.CancelOrder(ctx, reference); appErr != nil {
			return output, appErr
		}
		output.Action = dto.AcknowledgeActionCancelled
	}

	return output, nil
}
