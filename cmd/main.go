package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/desertthunder/vidup/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})
	defer runner.Close()

	app := &cli.Command{
		Name:     "vidup",
		Usage:    "Upload videos and publish them to YouTube",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.Before,
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		runner.Close()
		switch {
		case errors.Is(err, shared.ErrNotImplemented):
			logger.Warn("not implemented")
			os.Exit(0)
		case hint(err) != "":
			logger.Fatal(err.Error(), "hint", hint(err))
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
