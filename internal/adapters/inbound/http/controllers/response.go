package controllers

import (
	"encoding/json"
	"net/http"

	"klarnasync/internal/application/messages"
	portsout "klarnasync/internal/application/ports/out"
	"klarnasync/internal/application/use_cases"
	apperrors "klarnasync/internal/shared_kernel/errors"

	"golang.org/x/text/language"
)

type errorResponse struct {
	Error errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func statusForAppError(appErr *apperrors.AppError) int {
	switch appErr.Type {
	case apperrors.TypeValidation:
		return http.StatusBadRequest
	case apperrors.TypeNotFound:
		return http.StatusNotFound
	case apperrors.TypeConflict:
		return http.StatusConflict
	case apperrors.TypeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeAppError(w http.ResponseWriter, appErr *apperrors.AppError) {
	writeJSON(w, statusForAppError(appErr), errorResponse{
		Error: errorEnvelope{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

var errorMessageKeys = map[string]messages.Key{
	portsout.KlarnaErrorCodeUnauthorized:  messages.KeyUnauthorizedRequest,
	portsout.KlarnaErrorCodeOrderNotFound: messages.KeyOrderNotFound,
	use_cases.OrderNotKlarnaErrorCode:     messages.KeyOnlyForKlarnaPayment,
	use_cases.CaptureNotAllowedErrorCode:  messages.KeyCaptureNotAllowed,
}

// localizeAppError swaps the message of well-known error codes for the admin
// text in the requested language. overrides take precedence per action.
func localizeAppError(
	appErr *apperrors.AppError,
	catalog *messages.Catalog,
	tag language.Tag,
	overrides map[string]messages.Key,
) *apperrors.AppError {
	if catalog == nil || appErr == nil {
		return appErr
	}

	var text messages.Text
	if key, ok := overrides[appErr.Code]; ok {
		text = messages.Of(messages.New(key))
	} else if key, ok := errorMessageKeys[appErr.Code]; ok {
		text = messages.Of(messages.New(key))
	} else if appErr.Code == use_cases.CredentialsChangedErrorCode {
		text = messages.Of(messages.New(
			messages.KeyMerchantIDChangedForCountry,
			appErr.Details["merchant_id"],
			appErr.Details["country_iso"],
			appErr.Details["current_merchant_id"],
		))
	}
	if text.IsEmpty() {
		return appErr
	}

	localized := *appErr
	localized.Message = catalog.Render(tag, text)

	return &localized
}
