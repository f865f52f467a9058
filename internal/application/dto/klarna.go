package dto

import valueobjects "klarnasync/internal/domain/value_objects"

// KlarnaCredentials are the API credentials configured for one country.
type KlarnaCredentials struct {
	CountryISO string
	MerchantID string
	Password   string
	Mode       valueobjects.ServerMode
}

type KlarnaOrderReference struct {
	KlarnaOrderID string
	CountryISO    string
}

type CaptureKlarnaOrderInput struct {
	KlarnaOrderReference
	CapturedAmount int64
	Description    string
}

type CaptureKlarnaOrderOutput struct {
	CaptureID string
}

type RefundKlarnaOrderInput struct {
	KlarnaOrderReference
	RefundedAmount int64
	Description    string
}

type RefundKlarnaOrderOutput struct {
	RefundID string
}
