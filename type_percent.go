package dividends

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a ratio expressed in percent: 5 is 5%.
type Percent float64

// NewPercent returns ratio*100 as a Percent.
func NewPercent(ratio decimal.Decimal) Percent {
	return Percent(ratio.Shift(2).InexactFloat64())
}

// Ratio returns the Percent as a decimal ratio: 5% is 0.05.
func (p Percent) Ratio() decimal.Decimal {
	return decimal.NewFromFloat(float64(p)).Shift(-2)
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
