package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorUnitFactor converts between currency units and the int64 minor units
// all pool arithmetic runs in (2 decimal places).
const MinorUnitFactor = 100

var minorUnitFactor = decimal.NewFromInt(MinorUnitFactor)

// ParseAmount converts a currency-unit string (e.g. "0.10") into minor units.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative: %s", s)
	}
	return d.Mul(minorUnitFactor).IntPart(), nil
}

// FormatAmount converts minor units back into a currency-unit decimal.
func FormatAmount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v).Div(minorUnitFactor)
}
