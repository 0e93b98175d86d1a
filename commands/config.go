package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"cattlecloud.net/go/finweb/config"
	"github.com/google/subcommands"
)

type configCmd struct {
	create bool
}

func (*configCmd) Name() string     { return "config" }
func (*configCmd) Synopsis() string { return "show or create the configuration file" }
func (*configCmd) Usage() string {
	return `finweb config [-init]

  Prints the effective configuration. With -init, writes the defaults to
  the configuration file unless it already exists.
`
}

func (c *configCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.create, "init", false, "write the default configuration file")
}

func (c *configCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.create {
		if _, err := os.Stat(*configPath); !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error: %s already exists\n", *configPath)
			return subcommands.ExitFailure
		}
		if err := config.Save(*configPath, config.Default()); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing configuration: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println("Wrote", *configPath)
		return subcommands.ExitSuccess
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("# %s\n", *configPath)
	if err := config.Write(os.Stdout, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error printing configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
