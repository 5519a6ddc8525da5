package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/dividends"
	"github.com/etnz/dividends/agent"
	"github.com/etnz/dividends/cache"
	"github.com/etnz/dividends/config"
	"github.com/etnz/dividends/renderer"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	analysisFlags
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "discusses the analysis of a security with Gemini" }
func (*assistCmd) Usage() string {
	return `dvd assist [-years N] [-target P] [-d YYYY-MM-DD] <MARKET:SYMBOL> [question...]

Sends the analysis of a security to Gemini and displays its commentary, or its
answer to the question, then starts an interactive session. Type 'bye' to exit.

The assistant can analyze other securities and search the news. The Gemini API
key is read from GEMINI_API_KEY.
`
}

func (*assistCmd) predictArgs() complete.Predictor { return predictIDs }

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a security must be specified.")
		f.Usage()
		return subcommands.ExitUsageError
	}
	id, err := dividends.ParseID(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	question := strings.Join(f.Args()[1:], " ")
	if question == "" {
		question = "What do you think of this security for a dividend investor?"
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
	report := renderer.RenderReport(renderer.NewReport(res, cfg.Currency), renderer.ReportRenderOptions{})

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	model := cfg.Assist.Model
	analyst := agent.NewAnalyst(model, c.analyzeTool(store, cfg), listTool(store))
	a := agent.New(os.Stdout, os.Stdin, printMarkdown, model, analyst, agent.NewReporter(model))

	initial := fmt.Sprintf("Here is the dividend analysis of %s:\n\n%s\n\n%s", id, report, question)
	if err := a.Run(ctx, client, initial); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// analyzeTool returns the analysis function of the assistant.
// It uses the command line flags unless the model sets them.
func (c *assistCmd) analyzeTool(store *cache.Cache, cfg *config.Config) agent.AnalyzeFunc {
	return func(ctx context.Context, raw string, years int, target float64) (string, error) {
		id, err := dividends.ParseID(raw)
		if err != nil {
			return "", err
		}
		flags := c.analysisFlags
		if years > 0 {
			flags.years = years
		}
		if target > 0 {
			flags.target = target
		}
		res, err := flags.analyze(ctx, store, cfg, id)
		if err != nil {
			return "", err
		}
		return renderer.RenderReport(renderer.NewReport(res, cfg.Currency), renderer.ReportRenderOptions{}), nil
	}
}

func listTool(store *cache.Cache) agent.ListFunc {
	return func() ([]string, error) {
		entries, err := store.List()
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ID.String()
		}
		return ids, nil
	}
}
