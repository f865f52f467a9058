package policies

import (
	"klarnasync/internal/domain/entities"
)

type SyncReason string

const (
	SyncReasonInSync                      SyncReason = "in_sync"
	SyncReasonRemoteCancelled             SyncReason = "remote_cancelled"
	SyncReasonOrderAmountMismatch         SyncReason = "order_amount_mismatch"
	SyncReasonRemainingAuthorizedMismatch SyncReason = "remaining_authorized_mismatch"
	SyncReasonCaptureOutOfSync            SyncReason = "capture_out_of_sync"
)

type SyncEvaluation struct {
	InSync bool
	Reason SyncReason
}

// EvaluateOrderSync compares the local order with the remote Klarna snapshot.
// Checks run in a fixed order and the first failing one is reported.
func EvaluateOrderSync(order entities.Order, snapshot entities.KlarnaOrderSnapshot) SyncEvaluation {
	localTotal := order.TotalMinorUnits()

	switch {
	case snapshot.Status.IsCancelled():
		return SyncEvaluation{Reason: SyncReasonRemoteCancelled}
	case snapshot.OrderAmount != localTotal:
		return SyncEvaluation{Reason: SyncReasonOrderAmountMismatch}
	case snapshot.RemainingAuthorizedAmount != 0 && snapshot.RemainingAuthorizedAmount != localTotal:
		return SyncEvaluation{Reason: SyncReasonRemainingAuthorizedMismatch}
	case !IsCaptureInSync(snapshot.Status, order.HasSendDate()):
		return SyncEvaluation{Reason: SyncReasonCaptureOutOfSync}
	default:
		return SyncEvaluation{InSync: true, Reason: SyncReasonInSync}
	}
}
