// Package messages holds the admin-facing texts the reconciliation views and
// actions return, and renders them for a requested language.
package messages

type Key string

const (
	KeyMerchantIDChangedForCountry Key = "KLARNA_MID_CHANGED_FOR_COUNTRY"
	KeyUnauthorizedRequest         Key = "KLARNA_UNAUTHORIZED_REQUEST"
	KeyOrderNotFound               Key = "KLARNA_ORDER_NOT_FOUND"
	KeyOrderIsCancelled            Key = "KLARNA_ORDER_IS_CANCELLED"
	KeyOrderNotInSync              Key = "KLARNA_ORDER_NOT_IN_SYNC"
	KeyNoRequestsWillBeSent        Key = "KL_NO_REQUESTS_WILL_BE_SENT"
	KeyCaptureSuccessful           Key = "KLARNA_CAPTURE_SUCCESSFULL"
	KeyCaptureFailOrderCancelled   Key = "KL_CAPTURE_FAIL_ORDER_CANCELLED"
	KeyOnlyForKlarnaPayment        Key = "KLARNA_ONLY_FOR_KLARNA_PAYMENT"
	KeyCaptureNotAllowed           Key = "KLARNA_CAPTURE_NOT_ALLOWED"
	KeyRefundSuccessful            Key = "KLARNA_REFUND_SUCCESSFULL"
	KeyCancelSuccessful            Key = "KLARNA_CANCEL_SUCCESSFULL"
)

// Message is one translatable fragment. Raw carries text that comes verbatim
// from Klarna and is never translated.
type Message struct {
	Key  Key
	Args []any
	Raw  string
}

// Text is a sequence of fragments rendered back to back.
type Text []Message

func New(key Key, args ...any) Message {
	return Message{Key: key, Args: args}
}

func Raw(text string) Message {
	return Message{Raw: text}
}

func Of(parts ...Message) Text {
	return Text(parts)
}

func (t Text) IsEmpty() bool {
	return len(t) == 0
}
