package dto

import "klarnasync/internal/application/messages"

type CaptureOrderCommand struct {
	OrderID string `validate:"required"`
}

type CaptureOrderOutput struct {
	OrderID   string
	CaptureID string
	Status    string
	InSync    bool
	Message   messages.Text
}

type RefundOrderCommand struct {
	OrderID     string `validate:"required"`
	AmountMinor int64  `validate:"gt=0"`
	Description string `validate:"max=255"`
}

type RefundOrderOutput struct {
	OrderID     string
	RefundID    string
	AmountMinor int64
	Message     messages.Text
}

type CancelOrderCommand struct {
	OrderID string `validate:"required"`
}

type CancelOrderOutput struct {
	OrderID                string
	Cancelled              bool
	RemoteAlreadyCancelled bool
	Message                messages.Text
}
