package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"expenses/internal/cli"
)

func main() {
	cli.LoadEnvFile()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	Register(subcommands.DefaultCommander)

	flag.Parse()

	// No subcommand runs the interactive menu
	if flag.NArg() == 0 {
		os.Exit(int((&shellCmd{}).Execute(context.Background(), flag.CommandLine)))
	}
	os.Exit(int(subcommands.Execute(context.Background())))
}
