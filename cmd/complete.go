package cmd

import (
	"flag"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var (
	units  = predict.Set{"gold", "money"}
	ranges = predict.Set{"all", "today", "yesterday", "day-before-yesterday", "week", "month", "custom"}
)

// predictors of flags whose values are known.
var predictors = map[string]complete.Predictor{
	"u":      units,
	"r":      ranges,
	"order":  predict.Set{"asc", "desc"},
	"o":      predict.Files("*.xlsx"),
	"config": predict.Files("*.yaml"),
	"store":  predict.Dirs("*"),
}

// Completion returns the shell completion of the commands, built from their
// flags.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, c := range Commands {
		fs := flag.NewFlagSet(c.Command.Name(), flag.ContinueOnError)
		c.Command.SetFlags(fs)
		root.Sub[c.Command.Name()] = &complete.Command{Flags: flagPredictors(fs)}
	}
	return root
}

func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = nil
			return
		}
		if p, ok := predictors[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		flags[f.Name] = predict.Set{}
	})
	return flags
}
