package policies

import valueobjects "klarnasync/internal/domain/value_objects"

// IsCaptureInSync applies the per-status capture rule. A partially captured
// order is only in sync once the shop has shipped it.
func IsCaptureInSync(status valueobjects.KlarnaOrderStatus, hasSendDate bool) bool {
	switch status {
	case valueobjects.KlarnaOrderStatusPartCaptured:
		return hasSendDate
	case valueobjects.KlarnaOrderStatusAuthorized:
		return true
	default:
		// TODO: decide whether unknown statuses should count as drift once the
		// shop side tracks CAPTURED/EXPIRED orders.
		return true
	}
}
