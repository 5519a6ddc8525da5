package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// formatMoney formats value in currency cur with digits decimals.
// A negative digits uses the currency's own fraction.
func formatMoney(value decimal.Decimal, cur string, digits int) string {
	// to get a never nil currency I need to call the Money constructor
	f := *money.New(0, cur).Currency().Formatter()
	if digits >= 0 {
		f.Fraction = digits
	}
	return f.Format(value.Shift(int32(f.Fraction)).Round(0).IntPart())
}

// Price formats a price with the currency fraction: $116.50.
func Price(value decimal.Decimal, cur string) string { return formatMoney(value, cur, -1) }

// Dividend formats a dividend per share, which is often more precise than the currency: $0.4850.
func Dividend(value decimal.Decimal, cur string) string { return formatMoney(value, cur, 4) }
