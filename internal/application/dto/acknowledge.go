package dto

import "time"

type AcknowledgeAction string

const (
	AcknowledgeActionNone         AcknowledgeAction = "none"
	AcknowledgeActionAcknowledged AcknowledgeAction = "acknowledged"
	AcknowledgeActionCancelled    AcknowledgeAction = "cancelled"
)

type AcknowledgeOrderCommand struct {
	KlarnaOrderID string
	ReceivedAt    time.Time
}

type AcknowledgeOrderOutput struct {
	Action        AcknowledgeAction
	PriorAttempts int64
}
