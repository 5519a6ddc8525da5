package renderer

import (
	"strconv"

	"github.com/etnz/dividends/analysis"
)

// RecentEvents is the number of dividend events shown in a report.
const RecentEvents = 10

// ReportRenderOptions holds configuration for rendering a report.
type ReportRenderOptions struct {
	SkipEvents bool // Do not render the recent dividends section.
}

// Report is the view of an analysis.Result, every figure formatted for display.
type Report struct {
	Title    string
	Window   string
	Currency string
	Summary  []SummaryLine
	Yields   []YieldLine
	Years    []YearLine
	Events   []EventLine // most recent first
	// TotalEvents is the number of events in the result, Events is truncated.
	TotalEvents int
}

// SummaryLine is a single label and its value.
type SummaryLine struct {
	Label string
	Value string
}

type YieldLine struct {
	Year        int
	MeanClose   string
	DividendSum string
	Yield       string
	PriceGrowth string
}

type YearLine struct {
	Year        int
	DividendSum string
	Events      int
}

type EventLine struct {
	Date   string
	Close  string
	Amount string
	Yield  string
}

// NewReport formats r for display in currency cur.
func NewReport(r *analysis.Result, cur string) *Report {
	s := r.Summary
	rep := &Report{
		Title:       string(s.ID),
		Window:      s.Window.From.String() + " to " + s.Window.To.Add(-1).String(),
		Currency:    cur,
		TotalEvents: len(r.Events),
	}

	rep.Summary = []SummaryLine{
		{"Analysis date", s.On.String()},
		{"Most recent price", Price(s.MostRecentPrice, cur) + " (" + s.MostRecentDate.String() + ")"},
		{"Payments per year", strconv.Itoa(s.Frequency)},
		{"Dividend " + strconv.Itoa(s.FirstYear), Dividend(s.FirstYearDividend, cur)},
		{"Dividend " + strconv.Itoa(s.LastYear), Dividend(s.LastYearDividend, cur)},
		{"Dividend " + strconv.Itoa(s.On.Year()) + " (projected)", Dividend(s.CurrentYearDividend, cur)},
		{"Dividend growth", s.DividendGrowth.SignedString()},
		{"Average yield", s.AverageYield.String()},
		{"Target yield", s.TargetYield.String()},
		{"Historical target price", Price(s.HistoricalTargetPrice, cur)},
		{"Current target price", Price(s.CurrentTargetPrice, cur)},
	}

	for _, y := range r.Yields {
		line := YieldLine{
			Year:        y.Year,
			MeanClose:   Price(y.MeanClose, cur),
			DividendSum: Dividend(y.DividendSum, cur),
			Yield:       y.Yield.String(),
			PriceGrowth: "-",
		}
		if y.PriceGrowth != nil {
			line.PriceGrowth = y.PriceGrowth.SignedString()
		}
		rep.Yields = append(rep.Yields, line)
	}

	for _, y := range r.DividendYears {
		rep.Years = append(rep.Years, YearLine{Year: y.Year, DividendSum: Dividend(y.DividendSum, cur), Events: y.Events})
	}

	for i := len(r.Events) - 1; i >= 0 && len(rep.Events) < RecentEvents; i-- {
		e := r.Events[i]
		rep.Events = append(rep.Events, EventLine{
			Date:   e.Date.String(),
			Close:  Price(e.Close, cur),
			Amount: Dividend(e.Amount, cur),
			Yield:  e.Yield.String(),
		})
	}
	return rep
}

// RenderReport renders the full report of an analysis to a markdown string.
func RenderReport(r *Report, opts ReportRenderOptions) string {
	partials := map[string]string{
		"report_summary": "report_summary.md",
		"report_yields":  "report_yields.md",
		"report_years":   "report_years.md",
		"report_events":  "report_events.md",
	}
	if opts.SkipEvents {
		partials["report_events"] = ""
	}
	return renderTemplate("report", "report.md", partials, r)
}
