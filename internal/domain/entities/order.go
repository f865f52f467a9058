package entities

import (
	"strings"
	"time"

	valueobjects "klarnasync/internal/domain/value_objects"

	"github.com/shopspring/decimal"
)

const klarnaPaymentTypePrefix = "klarna_"

// Order is the host platform's order row together with the columns the
// Klarna migrations add to it.
type Order struct {
	ID               string
	OrderNumber      int64
	PaymentType      string
	TotalOrderSum    decimal.Decimal
	Currency         string
	Language         int
	BillCountryID    string
	BillCountryISO   string
	SendDate         *time.Time
	Cancelled        bool
	KlarnaOrderID    string
	KlarnaMerchantID string
	KlarnaServerMode valueobjects.ServerMode
	InSync           bool
}

func (o Order) IsKlarnaOrder() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(o.PaymentType)), klarnaPaymentTypePrefix)
}

// IsSyncable reports whether the order takes part in Klarna reconciliation.
func (o Order) IsSyncable() bool {
	return o.IsKlarnaOrder() && !o.Cancelled
}

func (o Order) TotalMinorUnits() int64 {
	return valueobjects.ToMinorUnits(o.TotalOrderSum)
}

func (o Order) HasSendDate() bool {
	return o.SendDate != nil && !o.SendDate.IsZero()
}

func (o Order) PortalLink() string {
	return valueobjects.KlarnaPortalLink(o.KlarnaServerMode, o.KlarnaMerchantID, o.KlarnaOrderID)
}
