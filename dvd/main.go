// Command dvd caches daily price histories and analyzes the dividends of securities.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/etnz/dividends/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Complete("dvd")

	commander := subcommands.NewCommander(flag.CommandLine, "dvd")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	if name := flag.Arg(0); name != "" && !cmd.IsCommand(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
