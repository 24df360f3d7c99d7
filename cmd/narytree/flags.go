package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mholzen/narytree/pkg/repr"
	"github.com/mitchellh/go-homedir"
	"github.com/urfave/cli/v3"
)

func getGlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level: debug, info, warn, error",
			Sources: cli.EnvVars("NARYTREE_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "Write logs to this file instead of stderr",
		},
	}
}

func getReprFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "repr",
		Value:   repr.Default,
		Usage:   "Tree representation: " + strings.Join(repr.Names(), ", "),
		Sources: cli.EnvVars("NARYTREE_REPR"),
	}
}

func getIgnoreCaseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "ignore-case",
		Usage: "Match node labels case-insensitively",
	}
}

func getExposeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "expose",
		Value: "all",
		Usage: "Tools to expose: read, write, all, or comma-separated tool names",
	}
}

// openScript opens the script named by the first argument; "-" reads stdin
// and a leading ~ expands to the home directory.
func openScript(cmd *cli.Command) (io.ReadCloser, string, error) {
	if cmd.Args().Len() != 1 {
		return nil, "", fmt.Errorf("expected exactly one script argument (a file or '-')")
	}
	name := cmd.Args().First()
	if name == "-" {
		return io.NopCloser(cmd.Root().Reader), "stdin", nil
	}
	path, err := homedir.Expand(name)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("cannot open script: %w", err)
	}
	return f, name, nil
}
