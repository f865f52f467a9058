package valueobjects

import "strings"

// KlarnaOrderStatus is the order status reported by the Klarna Order Management API.
type KlarnaOrderStatus string

const (
	KlarnaOrderStatusAuthorized   KlarnaOrderStatus = "AUTHORIZED"
	KlarnaOrderStatusPartCaptured KlarnaOrderStatus = "PART_CAPTURED"
	KlarnaOrderStatusCaptured     KlarnaOrderStatus = "CAPTURED"
	KlarnaOrderStatusCancelled    KlarnaOrderStatus = "CANCELLED"
	KlarnaOrderStatusExpired      KlarnaOrderStatus = "EXPIRED"
	KlarnaOrderStatusClosed       KlarnaOrderStatus = "CLOSED"
)

// ParseKlarnaOrderStatus normalizes raw. Statuses this service does not know
// are kept as-is so they can still be displayed.
func ParseKlarnaOrderStatus(raw string) KlarnaOrderStatus {
	return KlarnaOrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

func (s KlarnaOrderStatus) IsCancelled() bool {
	return s == KlarnaOrderStatusCancelled
}

func (s KlarnaOrderStatus) String() string {
	return string(s)
}
