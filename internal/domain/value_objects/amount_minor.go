package valueobjects

import "github.com/shopspring/decimal"

const minorUnitExponent = 2

// ToMinorUnits converts a currency amount to integer minor units, rounding
// half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(minorUnitExponent).Round(0).IntPart()
}

func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -minorUnitExponent)
}
