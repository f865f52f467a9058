//go:build !integration

package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"klarnasync/internal/application/dto"
	apperrors "klarnasync/internal/shared_kernel/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubAcknowledgeUseCase struct {
	output  dto.AcknowledgeOrderOutput
	err     *apperrors.AppError
	command dto.AcknowledgeOrderCommand
}

func (s *stubAcknowledgeUseCase) Execute(_ context.Context, command dto.AcknowledgeOrderCommand) (dto.AcknowledgeOrderOutput, *apperrors.AppError) {
	s.command = command
	return s.output, s.err
}

func TestAcknowledgeControllerReadsQueryParameter(t *testing.T) {
	useCase := &stubAcknowledgeUseCase{output: dto.AcknowledgeOrderOutput{Action: dto.AcknowledgeActionAcknowledged}}
	controller := NewAcknowledgeController(useCase, nil)

	rec := httptest.NewRecorder()
	controller.Acknowledge(rec, httptest.NewRequest(http.MethodGet, "/klarna/acknowledge?klarna_order_id=kl-1", nil), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kl-1", useCase.command.KlarnaOrderID)
}

func TestAcknowledgeControllerReadsFormBody(t *testing.T) {
	useCase := &stubAcknowledgeUseCase{output: dto.AcknowledgeOrderOutput{Action: dto.AcknowledgeActionNone}}
	controller := NewAcknowledgeController(useCase, nil)

	form := url.Values{klarnaOrderIDField: {"kl-2"}}
	req := httptest.NewRequest(http.MethodPost, "/klarna/acknowledge", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	controller.Acknowledge(rec, req, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kl-2", useCase.command.KlarnaOrderID)
}

func TestAcknowledgeControllerLogsFailureAndStillReturnsOK(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	useCase := &stubAcknowledgeUseCase{
		output: dto.AcknowledgeOrderOutput{Action: dto.AcknowledgeActionAcknowledged},
		err:    apperrors.NewUpstream("klarna_request_failed", "boom", nil),
	}
	controller := NewAcknowledgeController(useCase, zap.New(core))

	rec := httptest.NewRecorder()
	controller.Acknowledge(rec, httptest.NewRequest(http.MethodGet, "/klarna/acknowledge?klarna_order_id=kl-3", nil), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	entries := logs.FilterMessage("acknowledge failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "klarna_request_failed", entries[0].ContextMap()["code"])
}
