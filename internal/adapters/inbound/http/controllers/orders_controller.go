package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"klarnasync/internal/application/dto"
	"klarnasync/internal/application/messages"
	portsin "klarnasync/internal/application/ports/in"
	"klarnasync/internal/application/use_cases"
	apperrors "klarnasync/internal/shared_kernel/errors"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const orderIDParam = "id"

// OrderUseCases groups the admin order operations served by OrdersController.
type OrderUseCases struct {
	Overview portsin.GetOrderOverviewUseCase
	Details  portsin.GetKlarnaOrderDetailsUseCase
	Capture  portsin.CaptureOrderUseCase
	Refund   portsin.RefundOrderUseCase
	Cancel   portsin.CancelOrderUseCase
}

type OrdersController struct {
	useCases OrderUseCases
	catalog  *messages.Catalog
	logger   *zap.Logger
}

func NewOrdersController(useCases OrderUseCases, catalog *messages.Catalog, logger *zap.Logger) *OrdersController {
	if catalog == nil {
		catalog = messages.NewCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OrdersController{
		useCases: useCases,
		catalog:  catalog,
		logger:   logger,
	}
}

type orderOverviewResponse struct {
	OrderID           string `json:"order_id"`
	IsKlarnaOrder     bool   `json:"is_klarna_order"`
	Cancelled         bool   `json:"cancelled"`
	Status            string `json:"status,omitempty"`
	InSync            bool   `json:"in_sync"`
	CredentialsValid  bool   `json:"credentials_valid"`
	MerchantID        string `json:"merchant_id"`
	CountryISO        string `json:"country_iso"`
	CurrentMerchantID string `json:"current_merchant_id"`
	WarningMessage    string `json:"warning_message,omitempty"`
	ErrorMessage      string `json:"error_message,omitempty"`
}

type captureResponse struct {
	CaptureID       string `json:"capture_id"`
	CapturedAmount  int64  `json:"captured_amount"`
	CapturedAt      string `json:"captured_at"`
	Description     string `json:"description,omitempty"`
	KlarnaReference string `json:"klarna_reference,omitempty"`
}

type refundResponse struct {
	RefundID       string `json:"refund_id"`
	RefundedAmount int64  `json:"refunded_amount"`
	RefundedAt     string `json:"refunded_at"`
	Description    string `json:"description,omitempty"`
}

type klarnaDetailsResponse struct {
	orderOverviewResponse
	Currency                  string            `json:"currency,omitempty"`
	OrderAmount               int64             `json:"order_amount"`
	RemainingAuthorizedAmount int64             `json:"remaining_authorized_amount"`
	KlarnaReference           string            `json:"klarna_reference,omitempty"`
	PortalLink                string            `json:"portal_link,omitempty"`
	Captures                  []captureResponse `json:"captures"`
	Refunds                   []refundResponse  `json:"refunds"`
	Message                   string            `json:"message,omitempty"`
}

type captureOrderResponse struct {
	OrderID   string `json:"order_id"`
	CaptureID string `json:"capture_id"`
	Status    string `json:"status,omitempty"`
	InSync    bool   `json:"in_sync"`
	Message   string `json:"message"`
}

type refundOrderRequest struct {
	Amount      *int64 `json:"amount"`
	Description string `json:"description"`
}

type refundOrderResponse struct {
	OrderID  string `json:"order_id"`
	RefundID string `json:"refund_id,omitempty"`
	Amount   int64  `json:"amount"`
	Message  string `json:"message"`
}

type cancelOrderResponse struct {
	OrderID                string `json:"order_id"`
	Cancelled              bool   `json:"cancelled"`
	RemoteAlreadyCancelled bool   `json:"remote_already_cancelled"`
	Message                string `json:"message,omitempty"`
}

func (c *OrdersController) GetOverview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tag := c.requestLanguage(r)
	output, appErr := c.useCases.Overview.Execute(r.Context(), dto.GetOrderOverviewQuery{
		OrderID: ps.ByName(orderIDParam),
	})
	if appErr != nil {
		c.writeError(w, r, localizeAppError(appErr, c.catalog, tag, nil))
		return
	}

	writeJSON(w, http.StatusOK, c.overviewResponse(tag, output))
}

func (c *OrdersController) GetKlarnaDetails(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tag := c.requestLanguage(r)
	output, appErr := c.useCases.Details.Execute(r.Context(), dto.GetKlarnaOrderDetailsQuery{
		OrderID: ps.ByName(orderIDParam),
	})
	if appErr != nil {
		c.writeError(w, r, localizeAppError(appErr, c.catalog, tag, nil))
		return
	}

	response := klarnaDetailsResponse{
		orderOverviewResponse: c.overviewResponse(tag, dto.OrderOverviewOutput{
			OrderID:       output.OrderID,
			IsKlarnaOrder: output.IsKlarnaOrder,
			Cancelled:     output.Cancelled,
			Status:        output.Status,
			InSync:        output.InSync,
			Credentials:   output.Credentials,
			Warning:       output.Warning,
			Error:         output.Error,
		}),
		Currency:                  output.Currency,
		OrderAmount:               output.OrderAmount,
		RemainingAuthorizedAmount: output.RemainingAuthorizedAmount,
		KlarnaReference:           output.KlarnaReference,
		PortalLink:                output.PortalLink,
		Captures:                  make([]captureResponse, 0, len(output.Captures)),
		Refunds:                   make([]refundResponse, 0, len(output.Refunds)),
		Message:                   c.catalog.Render(tag, output.Message),
	}
	for _, capture := range output.Captures {
		response.Captures = append(response.Captures, captureResponse(capture))
	}
	for _, refund := range output.Refunds {
		response.Refunds = append(response.Refunds, refundResponse(refund))
	}

	writeJSON(w, http.StatusOK, response)
}

func (c *OrdersController) Capture(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tag := c.requestLanguage(r)
	output, appErr := c.useCases.Capture.Execute(r.Context(), dto.CaptureOrderCommand{
		OrderID: ps.ByName(orderIDParam),
	})
	if appErr != nil {
		c.writeError(w, r, localizeAppError(appErr, c.catalog, tag, map[string]messages.Key{
			use_cases.OrderCancelledErrorCode: messages.KeyCaptureFailOrderCancelled,
		}))
		return
	}

	writeJSON(w, http.StatusOK, captureOrderResponse{
		OrderID:   output.OrderID,
		CaptureID: output.CaptureID,
		Status:    output.Status,
		InSync:    output.InSync,
		Message:   c.catalog.Render(tag, output.Message),
	})
}

func (c *OrdersController) Refund(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tag := c.requestLanguage(r)
	request, appErr := parseRefundOrderRequest(r)
	if appErr != nil {
		c.writeError(w, r, appErr)
		return
	}

	command := dto.RefundOrderCommand{
		OrderID:     ps.ByName(orderIDParam),
		AmountMinor: *request.Amount,
		Description: request.Description,
	}
	output, appErr := c.useCases.Refund.Execute(r.Context(), command)
	if appErr != nil {
		c.writeError(w, r, localizeAppError(appErr, c.catalog, tag, nil))
		return
	}

	writeJSON(w, http.StatusCreated, refundOrderResponse{
		OrderID:  output.OrderID,
		RefundID: output.RefundID,
		Amount:   output.AmountMinor,
		Message:  c.catalog.Render(tag, output.Message),
	})
}

func (c *OrdersController) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tag := c.requestLanguage(r)
	output, appErr := c.useCases.Cancel.Execute(r.Context(), dto.CancelOrderCommand{
		OrderID: ps.ByName(orderIDParam),
	})
	if appErr != nil {
		c.writeError(w, r, localizeAppError(appErr, c.catalog, tag, nil))
		return
	}

	writeJSON(w, http.StatusOK, cancelOrderResponse{
		OrderID:                output.OrderID,
		Cancelled:              output.Cancelled,
		RemoteAlreadyCancelled: output.RemoteAlreadyCancelled,
		Message:                c.catalog.Render(tag, output.Message),
	})
}

func (c *OrdersController) requestLanguage(r *http.Request) language.Tag {
	return c.catalog.Resolve(r.Header.Get("Accept-Language"))
}

func (c *OrdersController) writeError(w http.ResponseWriter, r *http.Request, appErr *apperrors.AppError) {
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.String("code", appErr.Code),
		zap.String("message", appErr.Message),
	}
	if statusForAppError(appErr) >= http.StatusInternalServerError {
		c.logger.Error("request error", fields...)
	} else {
		c.logger.Info("request rejected", fields...)
	}

	writeAppError(w, appErr)
}

func (c *OrdersController) overviewResponse(tag language.Tag, output dto.OrderOverviewOutput) orderOverviewResponse {
	return orderOverviewResponse{
		OrderID:           output.OrderID,
		IsKlarnaOrder:     output.IsKlarnaOrder,
		Cancelled:         output.Cancelled,
		Status:            output.Status,
		InSync:            output.InSync,
		CredentialsValid:  output.Credentials.Valid,
		MerchantID:        output.Credentials.MerchantID,
		CountryISO:        output.Credentials.CountryISO,
		CurrentMerchantID: output.Credentials.CurrentMerchantID,
		WarningMessage:    c.catalog.Render(tag, output.Warning),
		ErrorMessage:      c.catalog.Render(tag, output.Error),
	}
}

func parseRefundOrderRequest(r *http.Request) (refundOrderRequest, *apperrors.AppError) {
	if r.Body == nil {
		return refundOrderRequest{}, apperrors.NewValidation("invalid_request", "request body is required", nil)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var request refundOrderRequest
	if err := decoder.Decode(&request); err != nil {
		return refundOrderRequest{}, apperrors.NewValidation(
			"invalid_request",
			"request body must be valid JSON",
			map[string]any{"error": err.Error()},
		)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return refundOrderRequest{}, apperrors.NewValidation(
			"invalid_request",
			"request body must contain a single JSON object",
			nil,
		)
	}
	if request.Amount == nil {
		return refundOrderRequest{}, apperrors.NewValidation(
			"invalid_request",
			"amount is required",
			map[string]any{"field": "amount"},
		)
	}

	return request, nil
}
