package analysis

import (
	"fmt"
	"slices"

	"github.com/etnz/dividends"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// YieldRow summarizes one calendar year of prices and dividends.
type YieldRow struct {
	Year        int
	MeanClose   decimal.Decimal
	DividendSum decimal.Decimal
	Yield       dividends.Percent // DividendSum / MeanClose
	// PriceGrowth is (previous MeanClose - MeanClose) / previous MeanClose.
	// It is nil for the first year of the table.
	PriceGrowth *dividends.Percent
}

// DividendYearRow summarizes the dividend payments of one calendar year.
type DividendYearRow struct {
	Year        int
	DividendSum decimal.Decimal
	Events      int
}

// yearly accumulates records of the same year.
type yearly struct {
	year     int
	closeSum decimal.Decimal
	days     int
	divSum   decimal.Decimal
	divCount int
}

// groupByYear returns one accumulator per year, in ascending year order.
func groupByYear(s dividends.Series) []*yearly {
	byYear := make(map[int]*yearly)
	for _, r := range s {
		y := r.Date.Year()
		acc, ok := byYear[y]
		if !ok {
			acc = &yearly{year: y}
			byYear[y] = acc
		}
		acc.closeSum = acc.closeSum.Add(r.Close)
		acc.days++
		if r.HasDividend() {
			acc.divSum = acc.divSum.Add(r.DividendAmount)
			acc.divCount++
		}
	}
	years := make([]*yearly, 0, len(byYear))
	for _, acc := range byYear {
		years = append(years, acc)
	}
	slices.SortFunc(years, func(a, b *yearly) int { return a.year - b.year })
	return years
}

// YieldTable computes the mean close price, dividend sum, yield and price growth of each year of s.
func YieldTable(s dividends.Series) ([]YieldRow, error) {
	years := groupByYear(s)
	rows := make([]YieldRow, 0, len(years))
	for i, acc := range years {
		mean := acc.closeSum.Div(decimal.NewFromInt(int64(acc.days)))
		if mean.IsZero() {
			return nil, fmt.Errorf("%w: yield of %d with a zero mean price", dividends.ErrDivisionByZero, acc.year)
		}
		row := YieldRow{
			Year:        acc.year,
			MeanClose:   mean,
			DividendSum: acc.divSum,
			Yield:       dividends.NewPercent(acc.divSum.Div(mean)),
		}
		if i > 0 {
			prev := rows[i-1].MeanClose
			growth := dividends.NewPercent(prev.Sub(mean).Div(prev))
			row.PriceGrowth = &growth
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DividendYears computes the dividend sum and number of payments of each year of s
// with at least one payment.
func DividendYears(s dividends.Series) []DividendYearRow {
	var rows []DividendYearRow
	for _, acc := range groupByYear(s) {
		if acc.divCount == 0 {
			continue
		}
		rows = append(rows, DividendYearRow{Year: acc.year, DividendSum: acc.divSum, Events: acc.divCount})
	}
	return rows
}

// Frequency estimates the number of payments per year: the median of the yearly
// counts, rounded half away from zero.
func Frequency(years []DividendYearRow) (int, error) {
	if len(years) == 0 {
		return 0, fmt.Errorf("%w: no dividend paid in the lookback window", dividends.ErrInsufficientData)
	}
	counts := make([]int, len(years))
	for i, y := range years {
		counts[i] = y.Events
	}
	slices.Sort(counts)
	mid := len(counts) / 2
	if len(counts)%2 == 1 {
		return counts[mid], nil
	}
	return (counts[mid-1] + counts[mid] + 1) / 2, nil
}

// ProjectCurrentYear returns the dividend total expected for the current year.
//
// Payments still missing to reach freq are projected at the amount of the most
// recent payment. events must all belong to the current year.
//
// When the year already has more payments than freq (a special dividend, a
// change of schedule) the total is the observed sum: the extra payments are
// never subtracted back as a negative number of missing payments.
func ProjectCurrentYear(events []DividendEvent, freq int) (decimal.Decimal, error) {
	if len(events) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no dividend paid this year to project from", dividends.ErrInsufficientData)
	}
	sum := decimal.Zero
	latest := events[0]
	for _, e := range events {
		sum = sum.Add(e.Amount)
		if e.Date.After(latest.Date) {
			latest = e
		}
	}
	missing := freq - len(events)
	if missing <= 0 {
		return sum, nil
	}
	return sum.Add(latest.Amount.Mul(decimal.NewFromInt(int64(missing)))), nil
}
