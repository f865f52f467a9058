package out

import (
	"context"

	"klarnasync/internal/application/dto"
	"klarnasync/internal/domain/entities"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

const (
	KlarnaErrorCodeUnauthorized     = "klarna_unauthorized"
	KlarnaErrorCodeOrderNotFound    = "klarna_order_not_found"
	KlarnaErrorCodeNotAllowed       = "klarna_action_not_allowed"
	KlarnaErrorCodeRequestFailed    = "klarna_request_failed"
	KlarnaErrorCodeTransportFailed  = "klarna_transport_failed"
	KlarnaErrorCodeCredentialsUnset = "klarna_credentials_missing"
)

type KlarnaOrderGateway interface {
	RetrieveOrder(ctx context.Context, reference dto.KlarnaOrderReference) (entities.KlarnaOrderSnapshot, *apperrors.AppError)
	CaptureOrder(ctx context.Context, input dto.CaptureKlarnaOrderInput) (dto.CaptureKlarnaOrderOutput, *apperrors.AppError)
	RefundOrder(ctx context.Context, input dto.RefundKlarnaOrderInput) (dto.RefundKlarnaOrderOutput, *apperrors.AppError)
	CancelOrder(ctx context.Context, reference dto.KlarnaOrderReference) *apperrors.AppError
	AcknowledgeOrder(ctx context.Context, reference dto.KlarnaOrderReference) *apperrors.AppError
}

type CredentialResolver interface {
	Resolve(ctx context.Context, countryISO string) (dto.KlarnaCredentials, *apperrors.AppError)
}
