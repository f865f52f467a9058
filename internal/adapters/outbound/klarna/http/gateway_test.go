//go:build !integration

package http

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"klarnasync/internal/application/dto"
	portsout "klarnasync/internal/application/ports/out"
	valueobjects "klarnasync/internal/domain/value_objects"
	apperrors "klarnasync/internal/shared_kernel/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCredentials struct {
	err *apperrors.AppError
}

func (s staticCredentials) Resolve(_ context.Context, countryISO string) (dto.KlarnaCredentials, *apperrors.AppError) {
	if s.err != nil {
		return dto.KlarnaCredentials{}, s.err
	}

	return dto.KlarnaCredentials{
		CountryISO: countryISO,
		MerchantID: "K100",
		Password:   "s3cret",
		Mode:       valueobjects.ServerModePlayground,
	}, nil
}

func newTestGateway(t *testing.T, handler nethttp.HandlerFunc) *Gateway {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gateway := NewGateway(Config{BaseURL: server.URL + "/", Timeout: time.Second}, staticCredentials{}, nil)
	gateway.newKey = func() string { return "idem-1" }

	return gateway
}

var reference = dto.KlarnaOrderReference{KlarnaOrderID: "kl-1", CountryISO: "DE"}

func TestGatewayRetrieveOrder(t *testing.T) {
	gateway := newTestGateway(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodGet, r.Method)
		assert.Equal(t, "/ordermanagement/v1/orders/kl-1", r.URL.Path)
		user, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "K100", user)
		assert.Equal(t, "s3cret", password)
		assert.Empty(t, r.Header.Get(idempotencyHeader))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
  "order_id": "kl-1",
  "status": "PART_CAPTURED",
  "order_amount": 10000,
  "original_order_amount": 10000,
  "captured_amount": 4000,
  "refunded_amount": 0,
  "remaining_authorized_amount": 6000,
  "purchase_currency": "EUR",
  "klarna_reference": "REF-1",
  "captures": [{"capture_id": "cap-1", "captured_amount": 4000, "captured_at": "2026-02-01T10:30:00Z", "description": "first"}],
  "refunds": [{"refund_id": "ref-1", "refunded_amount": 100, "refunded_at": "2026-02-02T10:30:00.5Z"}]
}`)
	})

	snapshot, appErr := gateway.RetrieveOrder(context.Background(), reference)
	require.Nil(t, appErr)

	assert.Equal(t, valueobjects.KlarnaOrderStatusPartCaptured, snapshot.Status)
	assert.Equal(t, int64(10000), snapshot.OrderAmount)
	assert.Equal(t, int64(6000), snapshot.RemainingAuthorizedAmount)
	assert.Equal(t, "REF-1", snapshot.KlarnaReference)
	require.Len(t, snapshot.Captures, 1)
	assert.Equal(t, time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC), snapshot.Captures[0].CapturedAt.UTC())
	require.Len(t, snapshot.Refunds, 1)
	assert.Equal(t, "ref-1", snapshot.Refunds[0].RefundID)
}

func TestGatewayCaptureOrder(t *testing.T) {
	gateway := newTestGateway(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodPost, r.Method)
		assert.Equal(t, "/ordermanagement/v1/orders/kl-1/captures", r.URL.Path)
		assert.Equal(t, "idem-1", r.Header.Get(idempotencyHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body := map[string]any{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(10000), body["captured_amount"])
		assert.NotContains(t, body, "description")

		w.Header().Set("Location", "https://api.playground.klarna.com/ordermanagement/v1/orders/kl-1/captures/cap-77")
		w.WriteHeader(nethttp.StatusCreated)
	})

	output, appErr := gateway.CaptureOrder(context.Background(), dto.CaptureKlarnaOrderInput{
		KlarnaOrderReference: reference,
		CapturedAmount:       10000,
	})
	require.Nil(t, appErr)
	assert.Equal(t, "cap-77", output.CaptureID)
}

func TestGatewayRefundOrderUsesLocationHeader(t *testing.T) {
	gateway := newTestGateway(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, "/ordermanagement/v1/orders/kl-1/refunds", r.URL.Path)

		body := map[string]any{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(250), body["refunded_amount"])
		assert.Equal(t, "broken", body["description"])

		w.Header().Set("Location", "/ordermanagement/v1/orders/kl-1/refunds/ref-42")
		w.WriteHeader(nethttp.StatusCreated)
	})

	output, appErr := gateway.RefundOrder(context.Background(), dto.RefundKlarnaOrderInput{
		KlarnaOrderReference: reference,
		RefundedAmount:       250,
		Description:          "broken",
	})
	require.Nil(t, appErr)
	assert.Equal(t, "ref-42", output.RefundID)
}

func TestGatewayCancelAndAcknowledge(t *testing.T) {
	var paths []string
	gateway := newTestGateway(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(nethttp.StatusNoContent)
	})

	require.Nil(t, gateway.CancelOrder(context.Background(), reference))
	require.Nil(t, gateway.AcknowledgeOrder(context.Background(), reference))
	assert.Equal(t, []string{
		"/ordermanagement/v1/orders/kl-1/cancel",
		"/ordermanagement/v1/orders/kl-1/acknowledge",
	}, paths)
}

func TestGatewayMapsErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    string
		message string
	}{
		{name: "unauthorized", status: nethttp.StatusUnauthorized, body: ``, code: portsout.KlarnaErrorCodeUnauthorized, message: "unauthorized klarna request"},
		{name: "not found", status: nethttp.StatusNotFound, body: `{"error_code":"NO_SUCH_ORDER","error_messages":["Order not found"]}`, code: portsout.KlarnaErrorCodeOrderNotFound, message: "Order not found"},
		{name: "forbidden", status: nethttp.StatusForbidden, body: `{"error_code":"NOT_ALLOWED","error_messages":["Order is canceled."]}`, code: portsout.KlarnaErrorCodeNotAllowed, message: "Order is canceled."},
		{name: "generic", status: nethttp.StatusBadRequest, body: `{"error_code":"BAD_VALUE","error_messages":["Invalid amount.","Try again."],"correlation_id":"c-1"}`, code: portsout.KlarnaErrorCodeRequestFailed, message: "Invalid amount. Try again."},
		{name: "non json", status: nethttp.StatusBadGateway, body: `upstream down`, code: portsout.KlarnaErrorCodeRequestFailed, message: "upstream down"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gateway := newTestGateway(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			appErr := gateway.CancelOrder(context.Background(), reference)
			require.NotNil(t, appErr)
			assert.Equal(t, apperrors.TypeUpstream, appErr.Type)
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, tc.message, appErr.Message)
			assert.Equal(t, tc.status, appErr.Details["status_code"])
		})
	}
}

func TestGatewayTransportFailure(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(nethttp.ResponseWriter, *nethttp.Request) {}))
	server.Close()

	gateway := NewGateway(Config{BaseURL: server.URL}, staticCredentials{}, nil)
	_, appErr := gateway.RetrieveOrder(context.Background(), reference)
	require.NotNil(t, appErr)
	assert.Equal(t, portsout.KlarnaErrorCodeTransportFailed, appErr.Code)
}

func TestGatewayRequiresOrderIDAndCredentials(t *testing.T) {
	gateway := NewGateway(Config{BaseURL: "http://127.0.0.1:1"}, staticCredentials{}, nil)
	_, appErr := gateway.RetrieveOrder(context.Background(), dto.KlarnaOrderReference{CountryISO: "DE"})
	require.NotNil(t, appErr)
	assert.Equal(t, "klarna_order_id_missing", appErr.Code)

	missing := apperrors.NewValidation(portsout.KlarnaErrorCodeCredentialsUnset, "no credentials", nil)
	gateway = NewGateway(Config{BaseURL: "http://127.0.0.1:1"}, staticCredentials{err: missing}, nil)
	appErr = gateway.AcknowledgeOrder(context.Background(), reference)
	assert.Equal(t, missing, appErr)
}

func TestAPIBaseURL(t *testing.T) {
	assert.Equal(t, "https://api.playground.klarna.com", apiBaseURL(valueobjects.ServerModePlayground, "DE"))
	assert.Equal(t, "https://api.klarna.com", apiBaseURL(valueobjects.ServerModeLive, "de"))
	assert.Equal(t, "https://api-na.klarna.com", apiBaseURL(valueobjects.ServerModeLive, "US"))
	assert.Equal(t, "https://api-oc.playground.klarna.com", apiBaseURL(valueobjects.ServerModePlayground, "AU"))
}

func TestLastPathSegment(t *testing.T) {
	assert.Equal(t, "abc", lastPathSegment("https://x/y/refunds/abc"))
	assert.Equal(t, "abc", lastPathSegment("/y/refunds/abc/"))
	assert.Empty(t, lastPathSegment(""))
}
