package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mholzen/narytree/pkg/script"
)

// Config controls MCP server startup.
type Config struct {
	Representation string
	IgnoreCase     bool
	Expose         string
	Version        string
}

// RunServer starts the MCP stdio server with the requested tool set.
func RunServer(ctx context.Context, cfg Config) error {
	server, err := newServer(cfg, nil)
	if err != nil {
		return err
	}
	return mcpserver.ServeStdio(server, mcpserver.WithStdioContextFunc(func(_ context.Context) context.Context {
		return ctx
	}))
}

func newServer(cfg Config, hooks *mcpserver.Hooks) (*mcpserver.MCPServer, error) {
	expose := strings.TrimSpace(cfg.Expose)
	if expose == "" {
		expose = "all"
	}

	toolsToEnable, err := ParseExposeList(expose)
	if err != nil {
		return nil, err
	}

	workbench := NewWorkbench(cfg.Representation, script.Options{IgnoreCase: cfg.IgnoreCase})
	serverTools, err := NewToolBuilder(workbench).BuildTools(toolsToEnable)
	if err != nil {
		return nil, err
	}

	options := []mcpserver.ServerOption{
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	}
	if hooks != nil {
		options = append(options, mcpserver.WithHooks(hooks))
	}
	server := mcpserver.NewMCPServer("narytree", cfg.Version, options...)
	for _, tool := range serverTools {
		server.AddTool(tool.Tool, tool.Handler)
	}
	slog.Debug("mcp tools registered", "tools", strings.Join(toolsToEnable, ","))
	return server, nil
}

func loggingHooks() *mcpserver.Hooks {
	hooks := &mcpserver.Hooks{}
	hooks.AddBeforeAny(func(ctx context.Context, id any, method mcptypes.MCPMethod, message any) {
		msgJSON, _ := json.Marshal(message)
		slog.Debug("mcp request", "id", id, "method", method, "message", string(msgJSON))
	})
	hooks.AddOnError(func(ctx context.Context, id any, method mcptypes.MCPMethod, message any, err error) {
		slog.Debug("mcp error", "id", id, "method", method, "error", err)
	})
	return hooks
}

// ParseExposeList converts the --expose flag into a deduplicated, ordered tool list.
// Supports groups: all, read, write. Individual tools can be referenced either by
// their short name (e.g., "show") or full MCP name (e.g., "tree_show").
func ParseExposeList(raw string) ([]string, error) {
	var tokens []string
	for _, t := range strings.Split(raw, ",") {
		token := strings.TrimSpace(strings.ToLower(t))
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) == 0 {
		tokens = []string{"all"}
	}

	result := make([]string, 0, len(allTools))
	seen := make(map[string]struct{})
	addSet := func(names ...string) {
		for _, name := range names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			result = append(result, name)
		}
	}

	for _, token := range tokens {
		if group, ok := groupMap[token]; ok {
			addSet(group...)
			continue
		}
		if full, ok := aliasMap[token]; ok {
			addSet(full)
			continue
		}
		if strings.HasPrefix(token, "tree_") {
			if _, ok := aliasMap[strings.TrimPrefix(token, "tree_")]; ok {
				addSet(token)
				continue
			}
		}
		return nil, fmt.Errorf("unknown tool or group in --expose: %s", token)
	}
	return result, nil
}

var (
	allTools   = []string{ToolNew, ToolExec, ToolShow, ToolList, ToolDrop}
	readTools  = []string{ToolShow, ToolList}
	writeTools = []string{ToolNew, ToolExec, ToolDrop}

	groupMap = map[string][]string{
		"all":   allTools,
		"read":  readTools,
		"write": writeTools,
	}

	aliasMap = map[string]string{
		"new":  ToolNew,
		"exec": ToolExec,
		"show": ToolShow,
		"list": ToolList,
		"drop": ToolDrop,
	}
)
