// Package cmd implements the subcommands of the dvd CLI.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/dividends/alphavantage"
	"github.com/etnz/dividends/cache"
	"github.com/etnz/dividends/config"
	"github.com/etnz/dividends/eodhd"
	"github.com/google/subcommands"
	"github.com/phuslu/log"
)

// Commands lists the subcommands, by group.
var Commands = map[string][]subcommands.Command{
	"series": {
		&fetchCmd{},
		&refreshCmd{},
		&listCmd{},
	},
	"analysis": {
		&analyzeCmd{},
		&assistCmd{},
	},
	"help": {
		&topicCmd{},
	},
}

// Register registers every subcommand in c.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "dvd.yaml", "Path to the configuration file.")
	dataRoot   = flag.String("data-root", "", "Directory of the cached series. Overrides the configuration.")
	Verbose    = flag.Bool("v", false, "Log debug messages.")
)

// loadConfig loads the configuration, applies the global flags and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *dataRoot != "" {
		cfg.DataRoot = *dataRoot
	}
	if *Verbose {
		cfg.LogLevel = "debug"
	}
	setupLogging(cfg.LogLevel)
	return cfg, nil
}

func setupLogging(level string) {
	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: time.TimeOnly,
		Writer: &log.ConsoleWriter{
			Writer:         os.Stderr,
			ColorOutput:    log.IsTerminal(os.Stderr.Fd()),
			EndWithMessage: true,
		},
	}
}

// openCache loads the configuration and opens the series cache backed by the configured source.
func openCache() (*cache.Cache, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cache.New(cfg, newSource(cfg)), cfg, nil
}

func newSource(cfg *config.Config) cache.Source {
	if cfg.Source == "eodhd" {
		return eodhd.NewClient(cfg.EODHD.APIKey,
			eodhd.WithBaseURL(cfg.EODHD.BaseURL),
			eodhd.WithTimeout(cfg.EODHD.Timeout),
		)
	}
	return alphavantage.NewClient(cfg.AlphaVantage.APIKey,
		alphavantage.WithBaseURL(cfg.AlphaVantage.BaseURL),
		alphavantage.WithTimeout(cfg.AlphaVantage.Timeout),
	)
}

// printMarkdown renders md for the terminal, or prints it as is when it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	log.Debug().Err(err).Msg("markdown rendering failed")
	fmt.Print(md)
}

// IsCommand reports whether name is a dvd subcommand or a builtin one.
func IsCommand(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, cmds := range Commands {
		for _, c := range cmds {
			if c.Name() == name {
				return true
			}
		}
	}
	return false
}
