package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dividends"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
)

type fetchCmd struct {
	refresh bool
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetches the daily series of securities into the cache" }
func (*fetchCmd) Usage() string {
	return `dvd fetch [-refresh] <MARKET:SYMBOL>...

Returns the daily series of each security from the cache, downloading it when
it has never been fetched.

The -refresh flag downloads the series again even if it is already cached.

Downloads are spaced to respect the requests_per_minute quota.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Download the series even if it is cached.")
}

func (*fetchCmd) predictArgs() complete.Predictor { return predictIDs }

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one security must be specified.")
		f.Usage()
		return subcommands.ExitUsageError
	}
	ids, err := parseIDs(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	store, _, err := openCache()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	status := subcommands.ExitSuccess
	for _, id := range ids {
		series, err := store.Get(ctx, id, c.refresh)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", id, err)
			status = subcommands.ExitFailure
			continue // other securities might succeed.
		}
		latest, ok := series.Latest()
		if !ok {
			fmt.Printf("%s: empty series\n", id)
			continue
		}
		fmt.Printf("%s: %d days, last on %s\n", id, len(series), latest.Date)
	}
	return status
}

// parseIDs parses every argument as a security identifier.
func parseIDs(args []string) ([]dividends.ID, error) {
	ids := make([]dividends.ID, 0, len(args))
	for _, arg := range args {
		id, err := dividends.ParseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
