package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
)

type refreshCmd struct{}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "downloads again the series of cached securities" }
func (*refreshCmd) Usage() string {
	return `dvd refresh [<MARKET:SYMBOL>...]

Downloads again the daily series of the given securities, or of every cached
security if none is given. Downloads are spaced to respect the
requests_per_minute quota, a failure does not stop the others.
`
}

func (*refreshCmd) SetFlags(f *flag.FlagSet) {}

func (*refreshCmd) predictArgs() complete.Predictor { return predictIDs }

func (*refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	results, err := store.RefreshAll(ctx, ids...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not list cached securities: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(results) == 0 {
		fmt.Println("No security in the cache. Nothing to refresh.")
		return subcommands.ExitSuccess
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "Error refreshing %s: %v\n", res.ID, res.Err)
			continue
		}
		fmt.Printf("%s: %d days\n", res.ID, res.Rows)
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d securities failed to refresh.\n", failed, len(results))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
