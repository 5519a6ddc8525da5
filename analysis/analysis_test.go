package analysis

import (
	"errors"
	"testing"
	"time"

	"github.com/etnz/dividends"
	"github.com/etnz/dividends/date"
	"github.com/shopspring/decimal"
)

var KO = dividends.MustParseID("NYSE:KO")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// year appends a monthly close price for each month of year, and a quarterly
// dividend on the 15th of March, June, September and December.
func year(s dividends.Series, y int, price, dividend string) dividends.Series {
	for m := time.January; m <= time.December; m++ {
		r := dividends.Record{Date: date.New(y, m, 15), Close: dec(price), DividendAmount: decimal.Zero}
		if m%3 == 0 {
			r.DividendAmount = dec(dividend)
		}
		s = append(s, r)
	}
	return s
}

// sample returns 2021 to 2023 with 4.00, 4.20 and 4.40 of yearly dividends,
// and the first half of 2024 with two payments of 1.15.
// Records are most recent first, like the remote source delivers them.
func sample() dividends.Series {
	var s dividends.Series
	s = year(s, 2019, "90", "0.90")
	s = year(s, 2020, "95", "0.95")
	s = year(s, 2021, "100", "1.00")
	s = year(s, 2022, "105", "1.05")
	s = year(s, 2023, "110", "1.10")
	for m := time.January; m <= time.June; m++ {
		r := dividends.Record{Date: date.New(2024, m, 15), Close: dec("115"), DividendAmount: decimal.Zero}
		if m%3 == 0 {
			r.DividendAmount = dec("1.15")
		}
		s = append(s, r)
	}
	// a last price without dividend, after the last payment
	s = append(s, dividends.Record{Date: date.New(2024, time.June, 28), Close: dec("116.5"), DividendAmount: decimal.Zero})
	// reverse it
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return s
}

var on = date.New(2024, time.June, 30)

func TestWindow(t *testing.T) {
	tests := []struct {
		on       date.Date
		lookback int
		want     date.Range
	}{
		{on, 3, date.Range{From: date.New(2021, time.January, 1), To: date.New(2024, time.January, 1)}},
		{on, 1, date.Range{From: date.New(2023, time.January, 1), To: date.New(2024, time.January, 1)}},
		// 365 days per year: leap years shift the start by one day.
		{date.New(2025, time.March, 1), 1, date.Range{From: date.New(2024, time.January, 2), To: date.New(2025, time.January, 1)}},
	}
	for _, tt := range tests {
		if got := Window(tt.on, tt.lookback); got != tt.want {
			t.Errorf("Window(%v, %d) = %v, want %v", tt.on, tt.lookback, got, tt.want)
		}
	}
}

func TestAnalyze(t *testing.T) {
	res, err := Analyze(on, KO, sample(), 3, 5)
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}

	// Dividend years.
	wantYears := []DividendYearRow{
		{Year: 2021, DividendSum: dec("4.00"), Events: 4},
		{Year: 2022, DividendSum: dec("4.20"), Events: 4},
		{Year: 2023, DividendSum: dec("4.40"), Events: 4},
	}
	if len(res.DividendYears) != len(wantYears) {
		t.Fatalf("DividendYears = %v, want %v", res.DividendYears, wantYears)
	}
	for i, want := range wantYears {
		got := res.DividendYears[i]
		if got.Year != want.Year || got.Events != want.Events || !got.DividendSum.Equal(want.DividendSum) {
			t.Errorf("DividendYears[%d] = %v, want %v", i, got, want)
		}
	}

	// Yield table.
	wantYields := []struct {
		year   int
		mean   string
		yield  dividends.Percent
		growth *dividends.Percent
	}{
		{2021, "100", 4, nil},
		{2022, "105", 4, ptr(-5)},
		{2023, "110", 4, ptr(dividends.Percent(-5.0 / 105 * 100))},
	}
	if len(res.Yields) != len(wantYields) {
		t.Fatalf("Yields has %d rows, want %d", len(res.Yields), len(wantYields))
	}
	for i, want := range wantYields {
		got := res.Yields[i]
		if got.Year != want.year || !got.MeanClose.Equal(dec(want.mean)) || !got.Yield.Equal(want.yield) {
			t.Errorf("Yields[%d] = {%d %v %v}, want {%d %v %v}", i, got.Year, got.MeanClose, got.Yield, want.year, want.mean, want.yield)
		}
		switch {
		case want.growth == nil && got.PriceGrowth != nil:
			t.Errorf("Yields[%d].PriceGrowth = %v, want nil", i, *got.PriceGrowth)
		case want.growth != nil && (got.PriceGrowth == nil || !got.PriceGrowth.Equal(*want.growth)):
			t.Errorf("Yields[%d].PriceGrowth = %v, want %v", i, got.PriceGrowth, *want.growth)
		}
	}

	// Events: from the window start, the current year included.
	if got, want := len(res.Events), 14; got != want {
		t.Errorf("len(Events) = %d, want %d", got, want)
	}
	if first := res.Events[0]; first.Date != date.New(2021, time.March, 15) || !first.Yield.Equal(1) {
		t.Errorf("Events[0] = %v, want 2021-03-15 with a 1%% yield", first)
	}
	if last := res.Events[len(res.Events)-1]; last.Date != date.New(2024, time.June, 15) {
		t.Errorf("last event on %v, want 2024-06-15", last.Date)
	}

	s := res.Summary
	checks := []struct {
		name      string
		got, want decimal.Decimal
	}{
		{"FirstYearDividend", s.FirstYearDividend, dec("4.00")},
		{"LastYearDividend", s.LastYearDividend, dec("4.40")},
		{"CurrentYearDividend", s.CurrentYearDividend, dec("4.60")},
		{"MostRecentPrice", s.MostRecentPrice, dec("116.5")},
		{"HistoricalTargetPrice", s.HistoricalTargetPrice, dec("84")},
		{"CurrentTargetPrice", s.CurrentTargetPrice, dec("92")},
	}
	for _, c := range checks {
		if !c.got.Equal(c.want) {
			t.Errorf("Summary.%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if !s.DividendGrowth.Equal(10) {
		t.Errorf("Summary.DividendGrowth = %v, want 10%%", s.DividendGrowth)
	}
	if !s.AverageYield.Equal(4) {
		t.Errorf("Summary.AverageYield = %v, want 4%%", s.AverageYield)
	}
	if s.FirstYear != 2021 || s.LastYear != 2023 || s.Frequency != 4 || s.ID != KO {
		t.Errorf("Summary = %+v, want years 2021-2023, frequency 4 for %v", s, KO)
	}
	if s.MostRecentDate != date.New(2024, time.June, 28) {
		t.Errorf("Summary.MostRecentDate = %v, want 2024-06-28", s.MostRecentDate)
	}
}

func ptr(p dividends.Percent) *dividends.Percent { return &p }

func TestAnalyzeIgnoresRecordsAfterDay(t *testing.T) {
	s := sample()
	s = append(dividends.Series{{Date: date.New(2024, time.July, 15), Close: dec("200"), DividendAmount: dec("9")}}, s...)
	res, err := Analyze(on, KO, s, 3, 5)
	if err != nil {
		t.Fatalf("Analyze() unexpected error: %v", err)
	}
	if !res.Summary.MostRecentPrice.Equal(dec("116.5")) || !res.Summary.CurrentYearDividend.Equal(dec("4.60")) {
		t.Errorf("Analyze() used a record after %v: %+v", on, res.Summary)
	}
}

func TestAnalyzeParameters(t *testing.T) {
	tests := []struct {
		name     string
		series   dividends.Series
		lookback int
		target   dividends.Percent
		err      error
	}{
		{"zero lookback", sample(), 0, 5, dividends.ErrInvalidParameter},
		{"zero lookback on empty series", nil, 0, 5, dividends.ErrInvalidParameter},
		{"negative lookback", sample(), -1, 5, dividends.ErrInvalidParameter},
		{"zero target", sample(), 3, 0, dividends.ErrInvalidParameter},
		{"negative target", sample(), 3, -2, dividends.ErrInvalidParameter},
		{"empty series", nil, 3, 5, dividends.ErrInsufficientData},
		{"duplicate dates", append(sample(), sample()[0]), 3, 5, dividends.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Analyze(on, KO, tt.series, tt.lookback, tt.target)
			if !errors.Is(err, tt.err) {
				t.Errorf("Analyze() error = %v, want %v", err, tt.err)
			}
			if res != nil {
				t.Errorf("Analyze() returned a partial result with an error")
			}
		})
	}
}

func TestAnalyzeWithoutDividends(t *testing.T) {
	var s dividends.Series
	for y := 2021; y <= 2024; y++ {
		s = year(s, y, "50", "0")
	}
	window := Window(on, 3)
	var historical dividends.Series
	for _, r := range s {
		if window.Contains(r.Date) {
			historical = append(historical, r)
		}
	}
	if years := DividendYears(historical); len(years) != 0 {
		t.Errorf("DividendYears() = %v, want an empty table", years)
	}

	_, err := Analyze(on, KO, s, 3, 5)
	if !errors.Is(err, dividends.ErrInsufficientData) {
		t.Errorf("Analyze() error = %v, want ErrInsufficientData", err)
	}
}

func TestAnalyzeNoPaymentThisYear(t *testing.T) {
	s := sample()
	for i := range s {
		if s[i].Date.Year() == 2024 {
			s[i].DividendAmount = decimal.Zero
		}
	}
	_, err := Analyze(on, KO, s, 3, 5)
	if !errors.Is(err, dividends.ErrInsufficientData) {
		t.Errorf("Analyze() error = %v, want ErrInsufficientData", err)
	}
}

func TestFrequency(t *testing.T) {
	rows := func(counts ...int) []DividendYearRow {
		r := make([]DividendYearRow, len(counts))
		for i, c := range counts {
			r[i] = DividendYearRow{Year: 2000 + i, Events: c}
		}
		return r
	}
	tests := []struct {
		name   string
		counts []int
		want   int
	}{
		{"single", []int{4}, 4},
		{"odd", []int{4, 2, 4}, 4},
		{"even", []int{4, 4, 3, 4}, 4},
		{"even half", []int{2, 3}, 3},
		{"monthly with a gap", []int{12, 11, 12, 12, 12}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Frequency(rows(tt.counts...))
			if err != nil {
				t.Fatalf("Frequency() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Frequency(%v) = %d, want %d", tt.counts, got, tt.want)
			}
		})
	}
	if _, err := Frequency(nil); !errors.Is(err, dividends.ErrInsufficientData) {
		t.Errorf("Frequency(nil) error = %v, want ErrInsufficientData", err)
	}
}

func TestProjectCurrentYear(t *testing.T) {
	ev := func(month time.Month, amount string) DividendEvent {
		return DividendEvent{Date: date.New(2024, month, 15), Amount: dec(amount)}
	}
	tests := []struct {
		name   string
		events []DividendEvent
		freq   int
		want   string
	}{
		{"complete", []DividendEvent{ev(3, "1.15"), ev(6, "1.15"), ev(9, "1.15"), ev(12, "1.15")}, 4, "4.60"},
		{"two missing", []DividendEvent{ev(3, "1.15"), ev(6, "1.15")}, 4, "4.60"},
		{"raise", []DividendEvent{ev(3, "1.10"), ev(6, "1.20")}, 4, "4.70"},
		{"unordered", []DividendEvent{ev(6, "1.20"), ev(3, "1.10")}, 4, "4.70"},
		{"special dividend", []DividendEvent{ev(3, "1"), ev(4, "5"), ev(6, "1")}, 2, "7"},
		{"extra payment", []DividendEvent{ev(3, "1"), ev(5, "1"), ev(7, "1"), ev(9, "1"), ev(11, "2")}, 4, "6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProjectCurrentYear(tt.events, tt.freq)
			if err != nil {
				t.Fatalf("ProjectCurrentYear() unexpected error: %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Errorf("ProjectCurrentYear() = %v, want %v", got, tt.want)
			}
		})
	}
	if _, err := ProjectCurrentYear(nil, 4); !errors.Is(err, dividends.ErrInsufficientData) {
		t.Errorf("ProjectCurrentYear(nil) error = %v, want ErrInsufficientData", err)
	}
}

func TestYieldTableZeroPrice(t *testing.T) {
	s := year(nil, 2023, "0", "1")
	if _, err := YieldTable(s); !errors.Is(err, dividends.ErrDivisionByZero) {
		t.Errorf("YieldTable() error = %v, want ErrDivisionByZero", err)
	}
}
