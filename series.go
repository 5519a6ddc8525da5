package dividends

import (
	"fmt"
	"slices"

	"github.com/etnz/dividends/date"
	"github.com/shopspring/decimal"
)

// Record is a single day of a daily adjusted time series.
//
// Only Date, Close and DividendAmount are used by the analysis, the other fields
// are kept so that a persisted series holds everything the remote source returned.
type Record struct {
	Date             date.Date
	Open             decimal.Decimal
	High             decimal.Decimal
	Low              decimal.Decimal
	Close            decimal.Decimal
	AdjustedClose    decimal.Decimal
	Volume           int64
	DividendAmount   decimal.Decimal
	SplitCoefficient decimal.Decimal
}

// HasDividend reports whether a dividend was paid on that day.
func (r Record) HasDividend() bool { return r.DividendAmount.IsPositive() }

// Series is a sequence of daily records.
//
// The remote source delivers them most recent first, and the cache returns them
// as they were persisted. Use Chronological before any temporal computation.
type Series []Record

// Validate checks that dates are unique and dividends are not negative.
func (s Series) Validate() error {
	seen := make(map[date.Date]struct{}, len(s))
	for _, r := range s {
		if r.Date.IsZero() {
			return fmt.Errorf("%w: record without a date", ErrInvalidParameter)
		}
		if _, ok := seen[r.Date]; ok {
			return fmt.Errorf("%w: duplicate record on %s", ErrInvalidParameter, r.Date)
		}
		seen[r.Date] = struct{}{}
		if r.DividendAmount.IsNegative() {
			return fmt.Errorf("%w: negative dividend %s on %s", ErrInvalidParameter, r.DividendAmount, r.Date)
		}
	}
	return nil
}

// Chronological returns a copy of the series sorted oldest first.
func (s Series) Chronological() Series {
	c := slices.Clone(s)
	slices.SortStableFunc(c, func(a, b Record) int { return a.Date.Compare(b.Date) })
	return c
}

// Latest returns the most recent record, whatever the order of the series.
func (s Series) Latest() (Record, bool) {
	if len(s) == 0 {
		return Record{}, false
	}
	latest := s[0]
	for _, r := range s[1:] {
		if r.Date.After(latest.Date) {
			latest = r
		}
	}
	return latest, true
}

// Until returns the records on or before a given day, in the same order.
func (s Series) Until(on date.Date) Series {
	res := make(Series, 0, len(s))
	for _, r := range s {
		if !r.Date.After(on) {
			res = append(res, r)
		}
	}
	return res
}
