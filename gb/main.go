// Command gb keeps the gold and money ledgers of a gold shop.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/goldbook/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	// Answers the shell and exits when invoked for completion.
	cmd.Completion().Complete("gb")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
