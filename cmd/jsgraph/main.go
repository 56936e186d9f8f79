// Command jsgraph scans a JS/TS codebase and writes its knowledge graph.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/ritzau/jsgraph/pkg/config"
	"github.com/ritzau/jsgraph/pkg/logging"
)

func main() {
	flags := pflag.NewFlagSet("jsgraph", pflag.ExitOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: jsgraph [flags] [root]\n\n")
		flags.PrintDefaults()
	}
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if cfg.Root == "" && flags.NArg() > 0 {
		cfg.Root = flags.Arg(0)
	}

	if err := setupLogging(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, newPrompter(os.Stdin, os.Stdout)); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("\nOperation cancelled by user.")
			os.Exit(130)
		}
		logging.Error("jsgraph failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(cfg *config.Config) error {
	level := logging.LevelFromVerbosity(cfg.VerboseCnt)
	if cfg.Verbosity != "" {
		parsed, err := logging.ParseLevel(cfg.Verbosity)
		if err != nil {
			return err
		}
		level = parsed
	}

	if cfg.JSONLogs {
		logging.SetJSONOutput(level)
	} else {
		logging.SetLevel(level)
	}
	return nil
}
