// Package analysis reduces a daily price and dividend series into yearly
// summaries, a projection of the current year, and target prices.
//
// The lookback window is made of whole calendar years before the current one:
// the current year is incomplete and only used for the projection.
package analysis

import (
	"fmt"

	"github.com/etnz/dividends"
	"github.com/etnz/dividends/date"
	"github.com/shopspring/decimal"
)

// DividendEvent is a single dividend payment.
type DividendEvent struct {
	Date   date.Date
	Close  decimal.Decimal
	Amount decimal.Decimal
	Yield  dividends.Percent // Amount / Close
}

// Summary holds the headline figures of a security.
type Summary struct {
	ID          dividends.ID
	On          date.Date  // analysis date
	Window      date.Range // historical years
	TargetYield dividends.Percent
	Frequency   int // payments per year

	FirstYear           int
	FirstYearDividend   decimal.Decimal
	LastYear            int
	LastYearDividend    decimal.Decimal
	CurrentYearDividend decimal.Decimal // projected
	DividendGrowth      dividends.Percent
	AverageYield        dividends.Percent

	MostRecentPrice       decimal.Decimal
	MostRecentDate        date.Date
	HistoricalTargetPrice decimal.Decimal
	CurrentTargetPrice    decimal.Decimal
}

// Result gathers the four tables of an analysis.
type Result struct {
	Events        []DividendEvent // from the window start, current year included, oldest first
	Yields        []YieldRow
	DividendYears []DividendYearRow
	Summary       Summary
}

// Window returns the historical window of an analysis on a given day:
// from lookbackYears*365 days before the start of the current year, to the
// start of the current year (excluded).
func Window(on date.Date, lookbackYears int) date.Range {
	end := on.StartOfYear()
	return date.Range{From: end.Add(-lookbackYears * 365), To: end}
}

// Analyze computes the dividend history and yearly tables of series as of day on.
//
// Records after on are ignored. targetYield is the yield the investor wants, it
// drives the target prices. Analyze either returns all tables or an error.
func Analyze(on date.Date, id dividends.ID, series dividends.Series, lookbackYears int, targetYield dividends.Percent) (*Result, error) {
	if lookbackYears < 1 {
		return nil, fmt.Errorf("%w: lookback must be at least one year, got %d", dividends.ErrInvalidParameter, lookbackYears)
	}
	if targetYield <= 0 {
		return nil, fmt.Errorf("%w: target yield must be positive, got %v", dividends.ErrInvalidParameter, targetYield)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	series = series.Until(on).Chronological()
	window := Window(on, lookbackYears)

	// Step 1: historical slice and dividend events.
	var historical dividends.Series
	var events, current []DividendEvent
	for _, r := range series {
		if window.Contains(r.Date) {
			historical = append(historical, r)
		}
		if r.Date.Before(window.From) || !r.HasDividend() {
			continue
		}
		e := DividendEvent{Date: r.Date, Close: r.Close, Amount: r.DividendAmount}
		if !r.Close.IsZero() {
			e.Yield = dividends.NewPercent(r.DividendAmount.Div(r.Close))
		}
		events = append(events, e)
		if r.Date.Year() == on.Year() {
			current = append(current, e)
		}
	}
	if len(historical) == 0 {
		return nil, fmt.Errorf("%w: %s has no price in %s", dividends.ErrInsufficientData, id, window)
	}

	// Step 2 and 3: yearly tables.
	yields, err := YieldTable(historical)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	years := DividendYears(historical)

	// Step 4: frequency and projection.
	freq, err := Frequency(years)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	projected, err := ProjectCurrentYear(current, freq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	// Step 5: summary.
	first, last := years[0], years[len(years)-1]
	if first.DividendSum.IsZero() {
		return nil, fmt.Errorf("%w: %s dividend growth from a zero base in %d", dividends.ErrDivisionByZero, id, first.Year)
	}
	growth := dividends.NewPercent(last.DividendSum.Sub(first.DividendSum).Div(first.DividendSum))

	var yieldSum dividends.Percent
	for _, y := range yields {
		yieldSum += y.Yield
	}

	divSum := decimal.Zero
	for _, y := range years {
		divSum = divSum.Add(y.DividendSum)
	}
	meanDividend := divSum.Div(decimal.NewFromInt(int64(len(years))))

	target := targetYield.Ratio()
	latest, _ := series.Latest() // not empty: historical is not

	return &Result{
		Events:        events,
		Yields:        yields,
		DividendYears: years,
		Summary: Summary{
			ID:          id,
			On:          on,
			Window:      window,
			TargetYield: targetYield,
			Frequency:   freq,

			FirstYear:           first.Year,
			FirstYearDividend:   first.DividendSum,
			LastYear:            last.Year,
			LastYearDividend:    last.DividendSum,
			CurrentYearDividend: projected,
			DividendGrowth:      growth,
			AverageYield:        yieldSum / dividends.Percent(len(yields)),

			MostRecentPrice:       latest.Close,
			MostRecentDate:        latest.Date,
			HistoricalTargetPrice: meanDividend.Div(target),
			CurrentTargetPrice:    projected.Div(target),
		},
	}, nil
}
