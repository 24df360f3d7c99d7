package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	var logCloser io.Closer
	return &cli.Command{
		Name:    "narytree",
		Usage:   "Build and inspect ordered n-ary trees",
		Version: version,
		Flags:   getGlobalFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			closer, err := setupLogging(cmd.String("log-level"), cmd.String("log-file"))
			logCloser = closer
			return ctx, err
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			if logCloser == nil {
				return nil
			}
			slog.SetDefault(slog.New(&simpleHandler{level: slog.LevelError, writer: os.Stderr}))
			return logCloser.Close()
		},
		Commands: getCommands(),
	}
}
