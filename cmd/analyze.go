package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dividends"
	"github.com/etnz/dividends/analysis"
	"github.com/etnz/dividends/cache"
	"github.com/etnz/dividends/config"
	"github.com/etnz/dividends/date"
	"github.com/etnz/dividends/renderer"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
)

// analysisFlags are the flags shared by the commands running an analysis.
type analysisFlags struct {
	years   int
	target  float64
	on      string
	refresh bool
}

func (a *analysisFlags) SetFlags(f *flag.FlagSet) {
	f.IntVar(&a.years, "years", 0, "Number of years of the historical window. Defaults to the configuration.")
	f.Float64Var(&a.target, "target", 0, "Target yield in percent. Defaults to the configuration.")
	f.StringVar(&a.on, "d", "", "Analysis date (YYYY-MM-DD). Defaults to today.")
	f.BoolVar(&a.refresh, "refresh", false, "Download the series even if it is cached.")
}

// analyze runs the analysis of id and returns its result.
func (a *analysisFlags) analyze(ctx context.Context, store *cache.Cache, cfg *config.Config, id dividends.ID) (*analysis.Result, error) {
	years, target := a.years, a.target
	if years == 0 {
		years = cfg.Analysis.LookbackYears
	}
	if target == 0 {
		target = cfg.Analysis.TargetYield
	}
	on := date.Today()
	if a.on != "" {
		var err error
		if on, err = date.Parse(a.on); err != nil {
			return nil, fmt.Errorf("%w: analysis date: %w", dividends.ErrInvalidParameter, err)
		}
	}

	series, err := store.Get(ctx, id, a.refresh)
	if err != nil {
		return nil, err
	}
	return analysis.Analyze(on, id, series, years, dividends.Percent(target))
}

type analyzeCmd struct {
	analysisFlags
	skipEvents bool
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "analyzes the dividend history of a security" }
func (*analyzeCmd) Usage() string {
	return `dvd analyze [-years N] [-target P] [-d YYYY-MM-DD] <MARKET:SYMBOL>

Displays the yearly yield, the dividends per year, the recent dividends and the
target prices of a security. See 'dvd topic analysis'.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	c.analysisFlags.SetFlags(f)
	f.BoolVar(&c.skipEvents, "skip-events", false, "Do not display the recent dividends.")
}

func (*analyzeCmd) predictArgs() complete.Predictor { return predictIDs }

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one security must be specified.")
		f.Usage()
		return subcommands.ExitUsageError
	}
	id, err := dividends.ParseID(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	store, cfg, err := openCache()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	res, err := c.analyze(ctx, store, cfg, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", id, err)
		return subcommands.ExitFailure
	}

	md := renderer.RenderReport(renderer.NewReport(res, cfg.Currency), renderer.ReportRenderOptions{SkipEvents: c.skipEvents})
	printMarkdown(md)
	return subcommands.ExitSuccess
}
