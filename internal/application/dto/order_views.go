package dto

import "klarnasync/internal/application/messages"

type GetOrderOverviewQuery struct {
	OrderID string
}

// CredentialCheck carries the merchant ids compared by the credential check so
// they can be shown next to a mismatch warning.
type CredentialCheck struct {
	Valid             bool
	MerchantID        string
	CountryISO        string
	CurrentMerchantID string
}

type OrderOverviewOutput struct {
	OrderID       string
	IsKlarnaOrder bool
	Cancelled     bool
	Status        string
	InSync        bool
	Credentials   CredentialCheck
	Warning       messages.Text
	Error         messages.Text
}

type GetKlarnaOrderDetailsQuery struct {
	OrderID string
}

type KlarnaCaptureView struct {
	CaptureID       string
	CapturedAmount  int64
	CapturedAt      string
	Description     string
	KlarnaReference string
}

type KlarnaRefundView struct {
	RefundID       string
	RefundedAmount int64
	RefundedAt     string
	Description    string
}

type KlarnaOrderDetailsOutput struct {
	OrderID                   string
	IsKlarnaOrder             bool
	Cancelled                 bool
	Status                    string
	InSync                    bool
	Currency                  string
	OrderAmount               int64
	RemainingAuthorizedAmount int64
	KlarnaReference           string
	PortalLink                string
	Captures                  []KlarnaCaptureView
	Refunds                   []KlarnaRefundView
	Credentials               CredentialCheck
	Message                   messages.Text
	Warning                   messages.Text
	Error                     messages.Text
}
