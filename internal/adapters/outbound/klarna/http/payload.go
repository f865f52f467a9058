package http

import (
	"time"

	"klarnasync/internal/domain/entities"
	valueobjects "klarnasync/internal/domain/value_objects"
)

type orderPayload struct {
	OrderID                   string           `json:"order_id"`
	Status                    string           `json:"status"`
	OrderAmount               int64            `json:"order_amount"`
	OriginalOrderAmount       int64            `json:"original_order_amount"`
	CapturedAmount            int64            `json:"captured_amount"`
	RefundedAmount            int64            `json:"refunded_amount"`
	RemainingAuthorizedAmount int64            `json:"remaining_authorized_amount"`
	PurchaseCurrency          string           `json:"purchase_currency"`
	KlarnaReference           string           `json:"klarna_reference"`
	Captures                  []capturePayload `json:"captures"`
	Refunds                   []refundPayload  `json:"refunds"`
}

type capturePayload struct {
	CaptureID       string    `json:"capture_id"`
	KlarnaReference string    `json:"klarna_reference"`
	CapturedAmount  int64     `json:"captured_amount"`
	CapturedAt      time.Time `json:"captured_at"`
	Description     string    `json:"description"`
}

type refundPayload struct {
	RefundID       string    `json:"refund_id"`
	RefundedAmount int64     `json:"refunded_amount"`
	RefundedAt     time.Time `json:"refunded_at"`
	Description    string    `json:"description"`
}

func (p orderPayload) toSnapshot() entities.KlarnaOrderSnapshot {
	snapshot := entities.KlarnaOrderSnapshot{
		KlarnaOrderID:             p.OrderID,
		Status:                    valueobjects.ParseKlarnaOrderStatus(p.Status),
		OrderAmount:               p.OrderAmount,
		OriginalOrderAmount:       p.OriginalOrderAmount,
		CapturedAmount:            p.CapturedAmount,
		RefundedAmount:            p.RefundedAmount,
		RemainingAuthorizedAmount: p.RemainingAuthorizedAmount,
		PurchaseCurrency:          p.PurchaseCurrency,
		KlarnaReference:           p.KlarnaReference,
		Captures:                  make([]entities.KlarnaCapture, 0, len(p.Captures)),
		Refunds:                   make([]entities.KlarnaRefund, 0, len(p.Refunds)),
	}

	for _, capture := range p.Captures {
		snapshot.Captures = append(snapshot.Captures, entities.KlarnaCapture{
			CaptureID:       capture.CaptureID,
			CapturedAmount:  capture.CapturedAmount,
			CapturedAt:      capture.CapturedAt,
			Description:     capture.Description,
			KlarnaReference: capture.KlarnaReference,
		})
	}
	for _, refund := range p.Refunds {
		snapshot.Refunds = append(snapshot.Refunds, entities.KlarnaRefund{
			RefundID:       refund.RefundID,
			RefundedAmount: refund.RefundedAmount,
			RefundedAt:     refund.RefundedAt,
			Description:    refund.Description,
		})
	}

	return snapshot
}
