package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mholzen/narytree/pkg/mcp"
	"github.com/mholzen/narytree/pkg/repr"
	"github.com/mholzen/narytree/pkg/script"
	"github.com/urfave/cli/v3"
)

func getCommands() []*cli.Command {
	return []*cli.Command{
		getRunCommand(),
		getCompareCommand(),
		getMcpCommand(),
		getServeCommand(),
		getVersionCommand(),
	}
}

func getRunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Execute a workbench script against a tree",
		UsageText: "narytree run [options] <file|->",
		Description: `Run builds a tree by executing one command per line.

Examples:
  narytree run build.tree
  echo "root A
add B A
preorder" | narytree run --repr=lcrs -`,
		Flags: []cli.Flag{
			getReprFlag(),
			getIgnoreCaseFlag(),
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report transform and sub changes without applying them",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, name, err := openScript(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			t, err := repr.New[string](cmd.String("repr"))
			if err != nil {
				return err
			}
			slog.Debug("running script", "script", name, "representation", t.Representation())

			in := script.New(t, cmd.Root().Writer, script.Options{
				IgnoreCase: cmd.Bool("ignore-case"),
				DryRun:     cmd.Bool("dry-run"),
			})
			return in.Run(r)
		},
	}
}

func getCompareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Run a script against every representation and check they agree",
		UsageText: "narytree compare [options] <file|->",
		Flags: []cli.Flag{
			getIgnoreCaseFlag(),
			&cli.StringSliceFlag{
				Name:  "repr",
				Usage: "Representations to compare (default: all)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, _, err := openScript(cmd)
			if err != nil {
				return err
			}
			defer r.Close()

			src, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("cannot read script: %w", err)
			}

			results, err := script.Compare(string(src), cmd.StringSlice("repr"), script.Options{IgnoreCase: cmd.Bool("ignore-case")})
			printResults(cmd.Root().Writer, results)
			return err
		},
	}
}

func printResults(w io.Writer, results []script.Result) {
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fmt.Fprintf(w, "%s: %d nodes, %d output lines, %s\n",
			r.Representation, r.Size, strings.Count(r.Output, "\n"), status)
	}
}

func getMcpCommand() *cli.Command {
	return &cli.Command{
		Name:      "mcp",
		Usage:     "Run as MCP server (stdio transport)",
		UsageText: "narytree mcp [options]",
		Description: `Start an MCP server holding named workbench trees.

Tool groups:
  read   tree_show, tree_list
  write  tree_new, tree_exec, tree_drop
  all    All available tools (default)

Examples:
  narytree mcp
  narytree mcp --repr=lcrs --expose=read,new,exec`,
		Flags: []cli.Flag{
			getReprFlag(),
			getIgnoreCaseFlag(),
			getExposeFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return mcp.RunServer(ctx, getServerConfig(cmd))
		},
	}
}

func getServeCommand() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Run as MCP server (streamable HTTP transport)",
		UsageText: "narytree serve [options]",
		Flags: []cli.Flag{
			getReprFlag(),
			getIgnoreCaseFlag(),
			getExposeFlag(),
			&cli.StringFlag{
				Name:  "addr",
				Value: ":8080",
				Usage: "Address to listen on (e.g., :8080 or localhost:8080)",
			},
			&cli.StringFlag{
				Name:  "endpoint-path",
				Value: "/mcp",
				Usage: "Path for the MCP endpoint",
			},
			&cli.BoolFlag{
				Name:  "cors",
				Usage: "Enable CORS for browser-based clients",
			},
			&cli.StringSliceFlag{
				Name:  "cors-origin",
				Usage: "Allowed CORS origins (if empty, allows all when --cors is enabled)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return mcp.RunHTTPServer(ctx, mcp.HTTPConfig{
				Config:         getServerConfig(cmd),
				Addr:           cmd.String("addr"),
				EndpointPath:   cmd.String("endpoint-path"),
				EnableCORS:     cmd.Bool("cors"),
				AllowedOrigins: cmd.StringSlice("cors-origin"),
			})
		},
	}
}

func getServerConfig(cmd *cli.Command) mcp.Config {
	return mcp.Config{
		Representation: cmd.String("repr"),
		IgnoreCase:     cmd.Bool("ignore-case"),
		Expose:         cmd.String("expose"),
		Version:        version,
	}
}

func getVersionCommand() *cli.Command {
	return &cli.Command{
		Name:      "version",
		Usage:     "Show version information",
		UsageText: "narytree version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			fmt.Fprintf(w, "narytree version %s\n", version)
			fmt.Fprintf(w, "commit: %s\n", commit)
			fmt.Fprintf(w, "built: %s\n", date)
			return nil
		},
	}
}
