package entities

import (
	"time"

	valueobjects "klarnasync/internal/domain/value_objects"
)

type KlarnaCapture struct {
	CaptureID       string
	CapturedAmount  int64
	CapturedAt      time.Time
	Description     string
	KlarnaReference string
}

type KlarnaRefund struct {
	RefundID       string
	RefundedAmount int64
	RefundedAt     time.Time
	Description    string
}

// KlarnaOrderSnapshot is the remote order state fetched from Klarna for a
// single request. Amounts are minor units.
type KlarnaOrderSnapshot struct {
	KlarnaOrderID             string
	Status                    valueobjects.KlarnaOrderStatus
	OrderAmount               int64
	OriginalOrderAmount       int64
	CapturedAmount            int64
	RefundedAmount            int64
	RemainingAuthorizedAmount int64
	PurchaseCurrency          string
	KlarnaReference           string
	Captures                  []KlarnaCapture
	Refunds                   []KlarnaRefund
}
