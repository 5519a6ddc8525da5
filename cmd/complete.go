package cmd

import (
	"flag"
	"os"

	"github.com/etnz/dividends/cache"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// argsPredictor is implemented by commands that can predict their arguments.
type argsPredictor interface {
	predictArgs() complete.Predictor
}

// predictIDs predicts the identifiers of the cached securities.
var predictIDs = complete.PredictFunc(func(prefix string) []string {
	cfg, err := loadConfig()
	if err != nil {
		return nil
	}
	// do not create a data root just to complete a command line.
	if _, err := os.Stat(cfg.DataRoot); err != nil {
		return nil
	}
	ids, _ := listTool(cache.New(cfg, nil))()
	return ids
})

// flagPredictors returns a predictor for every flag of fs.
func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}

// completion returns the completion tree of the dvd command line.
func completion(global *flag.FlagSet) *complete.Command {
	flags := flagPredictors(global)
	flags["config"] = predict.Files("*.yaml")
	flags["data-root"] = predict.Dirs("*")
	root := &complete.Command{
		Flags: flags,
		Sub:   make(map[string]*complete.Command),
	}
	for _, cmds := range Commands {
		for _, c := range cmds {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			sub := &complete.Command{Flags: flagPredictors(fs)}
			if p, ok := c.(argsPredictor); ok {
				sub.Args = p.predictArgs()
			}
			root.Sub[c.Name()] = sub
		}
	}
	// subcommands builtins
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

// Complete answers a shell completion request for the command name, and exits.
// It returns immediately when the process was not invoked for completion.
//
// Run "COMP_INSTALL=1 dvd" to install the completion in the shell.
func Complete(name string) {
	completion(flag.CommandLine).Complete(name)
}
