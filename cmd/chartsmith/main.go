// Command chartsmith renders the social media charts described by a TOML
// config to SVG, PNG, PDF or JSON, and serves them over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartsmith/internal/cli"
	apperr "github.com/matzehuels/chartsmith/pkg/errors"
)

const (
	exitFailure     = 1
	exitInvalid     = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		os.Exit(exitInterrupted)
	}
	fmt.Fprintln(os.Stderr, "chartsmith:", err)
	os.Exit(exitCode(err))
}

// exitCode is 2 for input the user can fix (bad flags, config, chart or
// format) and 1 for everything else.
func exitCode(err error) int {
	if strings.HasPrefix(string(apperr.GetCode(err)), "INVALID_") {
		return exitInvalid
	}
	return exitFailure
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline, cache and HTTP events")

	next := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if next == nil {
			return nil
		}
		return next(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
