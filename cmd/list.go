package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "lists the cached securities" }
func (*listCmd) Usage() string {
	return `dvd list

Lists the cached securities and the day their series was last refreshed.
`
}

func (*listCmd) SetFlags(f *flag.FlagSet) {}

func (*listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "Error: no arguments expected.")
		return subcommands.ExitUsageError
	}
	store, _, err := openCache()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	entries, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(entries) == 0 {
		fmt.Println("No security in the cache.")
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	b.WriteString("| Security | Refreshed |\n|:---|:---|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s |\n", e.ID, e.Refreshed)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
