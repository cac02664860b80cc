package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/32bitkid/blam/errs"
)

func main() {
	app := &cli.Command{
		Name:   "blam",
		Usage:  "Inspect, verify and build Halo: Combat Evolved tags",
		Flags:  globalFlags(),
		Before: setup,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			verifyCmd(),
			dumpCmd(),
			bitmapCmd(),
			cacheCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		report(err)
		os.Exit(1)
	}
}

// report prints every message in err's chain on its own line.
func report(err error) {
	var exit cli.ExitCoder
	var e *errs.Error
	if errors.As(err, &exit) || !errors.As(err, &e) {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "error (%s):\n", errs.CategoryOf(err))
	for _, msg := range errs.Messages(err) {
		_, _ = fmt.Fprintf(os.Stderr, "  %s\n", msg)
	}
}
