package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dividends/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "shows documentation" }
func (*topicCmd) Usage() string {
	return `dvd topic [<topic>...]

Shows the documentation of the given topics, or the list of topics.
`
}

func (*topicCmd) SetFlags(f *flag.FlagSet) {}

func (*topicCmd) predictArgs() complete.Predictor {
	topics, _ := docs.AllTopics()
	return predict.Set(topics)
}

func (*topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}

	doc, err := docs.Topics(topics...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
