package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mholzen/narytree/pkg/repr"
)

const (
	ToolNew  = "tree_new"
	ToolExec = "tree_exec"
	ToolShow = "tree_show"
	ToolList = "tree_list"
	ToolDrop = "tree_drop"
)

// ToolBuilder wires workbench operations into MCP tool handlers.
type ToolBuilder struct {
	workbench *Workbench
}

func NewToolBuilder(workbench *Workbench) ToolBuilder {
	return ToolBuilder{workbench: workbench}
}

// BuildTools constructs the requested tools in the order provided.
func (b ToolBuilder) BuildTools(toolNames []string) ([]mcpserver.ServerTool, error) {
	factories := map[string]func() mcpserver.ServerTool{
		ToolNew:  b.buildNewTool,
		ToolExec: b.buildExecTool,
		ToolShow: b.buildShowTool,
		ToolList: b.buildListTool,
		ToolDrop: b.buildDropTool,
	}

	var tools []mcpserver.ServerTool
	for _, name := range toolNames {
		factory, ok := factories[name]
		if !ok {
			return nil, fmt.Errorf("unknown tool: %s", name)
		}
		tools = append(tools, factory())
	}
	return tools, nil
}

func (b ToolBuilder) buildNewTool() mcpserver.ServerTool {
	return mcpserver.ServerTool{
		Tool: mcptypes.NewTool(
			ToolNew,
			mcptypes.WithDescription("Create an empty named tree"),
			mcptypes.WithString("name",
				mcptypes.Description("Tree name"),
				mcptypes.Required(),
			),
			mcptypes.WithString("representation",
				mcptypes.Description("Representation: "+strings.Join(repr.Names(), ", ")+" (default: server default)"),
			),
		),
		Handler: func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
			created, err := b.workbench.Create(req.GetString("name", ""), req.GetString("representation", ""))
			if err != nil {
				return mcptypes.NewToolResultErrorFromErr("cannot create tree", err), nil
			}
			slog.Info("tree created", "name", created.Name, "representation", created.Representation)
			return mcptypes.NewToolResultJSON(created)
		},
	}
}

func (b ToolBuilder) buildExecTool() mcpserver.ServerTool {
	return mcpserver.ServerTool{
		Tool: mcptypes.NewTool(
			ToolExec,
			mcptypes.WithDescription(`Run workbench commands against a tree, one per line.
Mutations: root <l>, add <l> <parent> [index], remove <l>, swap <a> <b>, replace <l> <new>, title <l>,
extract <l> <reg>, subtree <l> <reg>, attach <parent> <reg>,
transform <builtin> [l], sub <regexp> <replacement> [l], split <l> <separator>.
Queries: size, empty, preorder, postorder, breadth, outline, validate (optionally <l> or @reg), registers,
find <text> [l], grep <regexp> [l], children <l>, parent <l>, leaf <l>, depth <l>, height <l>.`),
			mcptypes.WithString("name",
				mcptypes.Description("Tree name"),
				mcptypes.Required(),
			),
			mcptypes.WithString("script",
				mcptypes.Description("Commands, one per line"),
				mcptypes.Required(),
			),
		),
		Handler: func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
			name := req.GetString("name", "")
			output, err := b.workbench.Exec(name, req.GetString("script", ""))
			if err != nil {
				return mcptypes.NewToolResultError(joinOutput(output, err)), nil
			}
			return mcptypes.NewToolResultText(output), nil
		},
	}
}

func (b ToolBuilder) buildShowTool() mcpserver.ServerTool {
	return mcpserver.ServerTool{
		Tool: mcptypes.NewTool(
			ToolShow,
			mcptypes.WithDescription("Show the nodes of a tree in traversal order"),
			mcptypes.WithString("name",
				mcptypes.Description("Tree name"),
				mcptypes.Required(),
			),
			mcptypes.WithString("order",
				mcptypes.Description("breadth, preorder, postorder or outline"),
				mcptypes.DefaultString("breadth"),
			),
		),
		Handler: func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
			output, err := b.workbench.Show(req.GetString("name", ""), req.GetString("order", "breadth"))
			if err != nil {
				return mcptypes.NewToolResultErrorFromErr("cannot show tree", err), nil
			}
			return mcptypes.NewToolResultText(output), nil
		},
	}
}

func (b ToolBuilder) buildListTool() mcpserver.ServerTool {
	return mcpserver.ServerTool{
		Tool: mcptypes.NewTool(
			ToolList,
			mcptypes.WithDescription("List workbench trees with their representation and size"),
		),
		Handler: func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
			return mcptypes.NewToolResultJSON(map[string]any{"trees": b.workbench.List()})
		},
	}
}

func (b ToolBuilder) buildDropTool() mcpserver.ServerTool {
	return mcpserver.ServerTool{
		Tool: mcptypes.NewTool(
			ToolDrop,
			mcptypes.WithDescription("Delete a named tree"),
			mcptypes.WithString("name",
				mcptypes.Description("Tree name"),
				mcptypes.Required(),
			),
		),
		Handler: func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
			name := req.GetString("name", "")
			if err := b.workbench.Drop(name); err != nil {
				return mcptypes.NewToolResultErrorFromErr("cannot drop tree", err), nil
			}
			return mcptypes.NewToolResultText(fmt.Sprintf("dropped %s", name)), nil
		},
	}
}

func joinOutput(output string, err error) string {
	if output == "" {
		return err.Error()
	}
	return output + err.Error()
}
