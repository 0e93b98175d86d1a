package main

import (
	"context"
	"flag"
	"os"
	"path"

	"cattlecloud.net/go/finweb/commands"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commands.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
