package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"klarnasync/internal/application/dto"
	portsout "klarnasync/internal/application/ports/out"
	"klarnasync/internal/domain/entities"
	valueobjects "klarnasync/internal/domain/value_objects"
	apperrors "klarnasync/internal/shared_kernel/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBodyBytes  = 4096
	ordersPathPrefix   = "/ordermanagement/v1/orders/"
	idempotencyHeader  = "Klarna-Idempotency-Key"
)

type Config struct {
	Timeout time.Duration
	// BaseURL replaces the regional Klarna host when set.
	BaseURL   string
	UserAgent string
}

// Gateway talks to the Klarna Order Management API with the credentials
// configured for each order's country.
type Gateway struct {
	credentials portsout.CredentialResolver
	client      *nethttp.Client
	baseURL     string
	userAgent   string
	newKey      func() string
	logger      *zap.Logger
}

var _ portsout.KlarnaOrderGateway = (*Gateway)(nil)

func NewGateway(cfg Config, credentials portsout.CredentialResolver, logger *zap.Logger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Gateway{
		credentials: credentials,
		client:      &nethttp.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		userAgent:   strings.TrimSpace(cfg.UserAgent),
		newKey:      uuid.NewString,
		logger:      logger,
	}
}

func (g *Gateway) RetrieveOrder(ctx context.Context, reference dto.KlarnaOrderReference) (entities.KlarnaOrderSnapshot, *apperrors.AppError) {
	response, appErr := g.do(ctx, nethttp.MethodGet, reference, "", nil)
	if appErr != nil {
		return entities.KlarnaOrderSnapshot{}, appErr
	}
	defer response.Body.Close()

	payload := orderPayload{}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return entities.KlarnaOrderSnapshot{}, apperrors.NewUpstream(
			portsout.KlarnaErrorCodeRequestFailed,
			"failed to decode klarna order",
			map[string]any{"klarna_order_id": reference.KlarnaOrderID, "error": err.Error()},
		)
	}

	return payload.toSnapshot(), nil
}

func (g *Gateway) CaptureOrder(ctx context.Context, input dto.CaptureKlarnaOrderInput) (dto.CaptureKlarnaOrderOutput, *apperrors.AppError) {
	body := map[string]any{"captured_amount": input.CapturedAmount}
	if description := strings.TrimSpace(input.Description); description != "" {
		body["description"] = description
	}

	response, appErr := g.do(ctx, nethttp.MethodPost, input.KlarnaOrderReference, "captures", body)
	if appErr != nil {
		return dto.CaptureKlarnaOrderOutput{}, appErr
	}
	defer drain(response)

	captureID := strings.TrimSpace(response.Header.Get("Capture-Id"))
	if captureID == "" {
		captureID = lastPathSegment(response.Header.Get("Location"))
	}

	return dto.CaptureKlarnaOrderOutput{CaptureID: captureID}, nil
}

func (g *Gateway) RefundOrder(ctx context.Context, input dto.RefundKlarnaOrderInput) (dto.RefundKlarnaOrderOutput, *apperrors.AppError) {
	body := map[string]any{"refunded_amount": input.RefundedAmount}
	if description := strings.TrimSpace(input.Description); description != "" {
		body["description"] = description
	}

	response, appErr := g.do(ctx, nethttp.MethodPost, input.KlarnaOrderReference, "refunds", body)
	if appErr != nil {
		return dto.RefundKlarnaOrderOutput{}, appErr
	}
	defer drain(response)

	return dto.RefundKlarnaOrderOutput{
		RefundID: lastPathSegment(response.Header.Get("Location")),
	}, nil
}

func (g *Gateway) CancelOrder(ctx context.Context, reference dto.KlarnaOrderReference) *apperrors.AppError {
	response, appErr := g.do(ctx, nethttp.MethodPost, reference, "cancel", nil)
	if appErr != nil {
		return appErr
	}
	drain(response)

	return nil
}

func (g *Gateway) AcknowledgeOrder(ctx context.Context, reference dto.KlarnaOrderReference) *apperrors.AppError {
	response, appErr := g.do(ctx, nethttp.MethodPost, reference, "acknowledge", nil)
	if appErr != nil {
		return appErr
	}
	drain(response)

	return nil
}

// do sends one request and returns the response only for 2xx statuses. The
// caller owns the response body.
func (g *Gateway) do(
	ctx context.Context,
	method string,
	reference dto.KlarnaOrderReference,
	action string,
	body any,
) (*nethttp.Response, *apperrors.AppError) {
	if g == nil || g.client == nil || g.credentials == nil {
		return nil, apperrors.NewInternal(
			"klarna_gateway_not_configured",
			"klarna gateway is not configured",
			nil,
		)
	}

	klarnaOrderID := strings.TrimSpace(reference.KlarnaOrderID)
	if klarnaOrderID == "" {
		return nil, apperrors.NewValidation(
			"klarna_order_id_missing",
			"klarna order id is required",
			nil,
		)
	}

	credentials, appErr := g.credentials.Resolve(ctx, reference.CountryISO)
	if appErr != nil {
		return nil, appErr
	}

	endpoint := g.endpoint(credentials, klarnaOrderID, action)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.NewInternal(
				"klarna_request_build_failed",
				"failed to encode klarna request",
				map[string]any{"error": err.Error()},
			)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := nethttp.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, apperrors.NewInternal(
			"klarna_request_build_failed",
			"failed to build klarna request",
			map[string]any{"error": err.Error()},
		)
	}
	request.SetBasicAuth(credentials.MerchantID, credentials.Password)
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if method == nethttp.MethodPost {
		request.Header.Set(idempotencyHeader, g.newKey())
	}
	if g.userAgent != "" {
		request.Header.Set("User-Agent", g.userAgent)
	}

	startedAt := time.Now()
	response, err := g.client.Do(request)
	if err != nil {
		g.logger.Warn("klarna request failed",
			zap.String("method", method),
			zap.String("klarna_order_id", klarnaOrderID),
			zap.String("action", action),
			zap.Error(err),
		)
		return nil, apperrors.NewUpstream(
			portsout.KlarnaErrorCodeTransportFailed,
			"failed to reach klarna",
			map[string]any{"klarna_order_id": klarnaOrderID, "error": err.Error()},
		)
	}

	g.logger.Debug("klarna request completed",
		zap.String("method", method),
		zap.String("klarna_order_id", klarnaOrderID),
		zap.String("action", action),
		zap.Int("status", response.StatusCode),
		zap.Duration("elapsed", time.Since(startedAt)),
	)

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return response, nil
	}

	defer response.Body.Close()
	return nil, mapErrorResponse(response, klarnaOrderID)
}

func (g *Gateway) endpoint(credentials dto.KlarnaCredentials, klarnaOrderID string, action string) string {
	base := g.baseURL
	if base == "" {
		base = apiBaseURL(credentials.Mode, credentials.CountryISO)
	}

	endpoint := base + ordersPathPrefix + url.PathEscape(klarnaOrderID)
	if action != "" {
		endpoint += "/" + action
	}

	return endpoint
}

var (
	northAmericaCountries = map[string]struct{}{"US": {}, "CA": {}, "MX": {}}
	oceaniaCountries      = map[string]struct{}{"AU": {}, "NZ": {}}
)

// apiBaseURL picks the regional Klarna host for a country. Everything outside
// North America and Oceania is served by the EU host.
func apiBaseURL(mode valueobjects.ServerMode, countryISO string) string {
	region := ""
	country := strings.ToUpper(strings.TrimSpace(countryISO))
	if _, ok := northAmericaCountries[country]; ok {
		region = "-na"
	} else if _, ok := oceaniaCountries[country]; ok {
		region = "-oc"
	}

	if mode.IsPlayground() {
		return fmt.Sprintf("https://api%s.playground.klarna.com", region)
	}

	return fmt.Sprintf("https://api%s.klarna.com", region)
}

type errorPayload struct {
	ErrorCode     string   `json:"error_code"`
	ErrorMessages []string `json:"error_messages"`
	CorrelationID string   `json:"correlation_id"`
}

func mapErrorResponse(response *nethttp.Response, klarnaOrderID string) *apperrors.AppError {
	raw, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
	payload := errorPayload{}
	_ = json.Unmarshal(raw, &payload)

	details := map[string]any{
		"klarna_order_id": klarnaOrderID,
		"status_code":     response.StatusCode,
	}
	if payload.ErrorCode != "" {
		details["error_code"] = payload.ErrorCode
	}
	if payload.CorrelationID != "" {
		details["correlation_id"] = payload.CorrelationID
	}

	message := strings.TrimSpace(strings.Join(payload.ErrorMessages, " "))

	switch response.StatusCode {
	case nethttp.StatusUnauthorized:
		return apperrors.NewUpstream(portsout.KlarnaErrorCodeUnauthorized, fallback(message, "unauthorized klarna request"), details)
	case nethttp.StatusNotFound:
		return apperrors.NewUpstream(portsout.KlarnaErrorCodeOrderNotFound, fallback(message, "klarna order not found"), details)
	case nethttp.StatusForbidden:
		return apperrors.NewUpstream(portsout.KlarnaErrorCodeNotAllowed, fallback(message, "klarna rejected the action"), details)
	default:
		if message == "" {
			message = strings.TrimSpace(string(raw))
		}
		return apperrors.NewUpstream(portsout.KlarnaErrorCodeRequestFailed, fallback(message, "klarna request failed"), details)
	}
}

func fallback(value string, otherwise string) string {
	if value == "" {
		return otherwise
	}
	return value
}

func lastPathSegment(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return ""
	}

	if parsed, err := url.Parse(location); err == nil {
		location = parsed.Path
	}

	segment := path.Base(strings.TrimRight(location, "/"))
	if segment == "." || segment == "/" {
		return ""
	}

	return segment
}

func drain(response *nethttp.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, maxErrorBodyBytes))
	_ = response.Body.Close()
}
