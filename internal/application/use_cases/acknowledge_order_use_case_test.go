//go:build !integration

package use_cases

import (
	"context"
	"testing"
	"time"

	"klarnasync/internal/application/dto"
	apperrors "klarnasync/internal/shared_kernel/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAcknowledgeFixture() (*fakeOrderRepository, *fakeAcknowledgementLog, *fakeKlarnaGateway, *acknowledgeOrderUseCase) {
	orders := newFakeOrderRepository(klarnaOrder("o1", "10.00"))
	log := newFakeAcknowledgementLog()
	gateway := newFakeKlarnaGateway()
	clock := fixedClock{now: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)}
	useCase := NewAcknowledgeOrderUseCase(orders, log, gateway, "DE", clock).(*acknowledgeOrderUseCase)

	return orders, log, gateway, useCase
}

func TestAcknowledgeOrderUseCaseAcknowledgesKnownOrder(t *testing.T) {
	_, log, gateway, useCase := newAcknowledgeFixture()

	output, appErr := useCase.Execute(context.Background(), dto.AcknowledgeOrderCommand{KlarnaOrderID: "kl-o1"})
	require.Nil(t, appErr)

	assert.Equal(t, dto.AcknowledgeActionAcknowledged, output.Action)
	require.Len(t, gateway.acknowledged, 1)
	assert.Equal(t, dto.KlarnaOrderReference{KlarnaOrderID: "kl-o1", CountryISO: "DE"}, gateway.acknowledged[0])
	assert.Empty(t, gateway.cancels)
	assert.Equal(t, int64(1), log.counts["kl-o1"])
	assert.Equal(t, []time.Time{time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)}, log.registered)
}

func TestAcknowledgeOrderUseCaseCancelsUnknownOrderOnThirdPush(t *testing.T) {
	_, log, gateway, useCase := newAcknowledgeFixture()
	command := dto.AcknowledgeOrderCommand{KlarnaOrderID: "kl-unknown"}

	first, appErr := useCase.Execute(context.Background(), command)
	require.Nil(t, appErr)
	assert.Equal(t, dto.AcknowledgeActionNone, first.Action)

	second, appErr := useCase.Execute(context.Background(), command)
	require.Nil(t, appErr)
	assert.Equal(t, dto.AcknowledgeActionNone, second.Action)
	assert.Empty(t, gateway.cancels)

	third, appErr := useCase.Execute(context.Background(), command)
	require.Nil(t, appErr)
	assert.Equal(t, dto.AcknowledgeActionCancelled, third.Action)
	assert.Equal(t, int64(2), third.PriorAttempts)
	require.Len(t, gateway.cancels, 1)
	assert.Equal(t, "kl-unknown", gateway.cancels[0].KlarnaOrderID)
	assert.Equal(t, "DE", gateway.cancels[0].CountryISO)
	assert.Equal(t, int64(3), log.counts["kl-unknown"])
	assert.Empty(t, gateway.acknowledged)
}

func TestAcknowledgeOrderUseCaseIgnoresEmptyID(t *testing.T) {
	_, log, gateway, useCase := newAcknowledgeFixture()

	output, appErr := useCase.Execute(context.Background(), dto.AcknowledgeOrderCommand{KlarnaOrderID: "  "})
	require.Nil(t, appErr)

	assert.Equal(t, dto.AcknowledgeActionNone, output.Action)
	assert.Empty(t, log.registered)
	assert.Empty(t, gateway.acknowledged)
}

func TestAcknowledgeOrderUseCaseReturnsFailures(t *testing.T) {
	_, log, gateway, useCase := newAcknowledgeFixture()
	gateway.acknowledgeErr = apperrors.NewUpstream("klarna_transport_failed", "timeout", nil)

	output, appErr := useCase.Execute(context.Background(), dto.AcknowledgeOrderCommand{
		KlarnaOrderID: "kl-o1",
		ReceivedAt:    time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NotNil(t, appErr)
	assert.Equal(t, dto.AcknowledgeActionNone, output.Action)
	assert.Equal(t, []time.Time{time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)}, log.registered)

	log.countErr = apperrors.NewInternal("acknowledgement_query_failed", "failed", nil)
	_, appErr = useCase.Execute(context.Background(), dto.AcknowledgeOrderCommand{KlarnaOrderID: "kl-o1"})
	require.NotNil(t, appErr)
	assert.Equal(t, "acknowledgement_query_failed", appErr.Code)
	assert.Len(t, log.registered, 1)
}
