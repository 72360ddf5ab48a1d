package examplemcp

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ParamText      = "text"
	ParamMinPoints = "min_points"

	ToolEcho      = "echo"
	ToolFrontpage = "frontpage"
)

type providedTool struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

var toolsProvided = []providedTool{
	{
		mcp.NewTool(ToolEcho,
			mcp.WithDescription("echoes input"),
			mcp.WithString(ParamText, mcp.Required()),
		), doEcho,
	},
	{
		mcp.NewTool(ToolFrontpage,
			mcp.WithDescription("canned front page stories, filtered by minimum points"),
			mcp.WithNumber(ParamMinPoints),
		), doFrontpage,
	},
}

// ProvidedToolNames lists the demo server's tools, sorted, for assertions
// in end-to-end tests.
func ProvidedToolNames() []string {
	names := make([]string, len(toolsProvided))
	for idx, pt := range toolsProvided {
		names[idx] = pt.tool.GetName()
	}
	sort.Strings(names)
	return names
}

// RunDemoServer builds a streamable HTTP MCP server with the demo tools,
// for exercising the client end to end without a remote account.
func RunDemoServer(serverName string, uri string) http.Handler {
	s := server.NewMCPServer(serverName,
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	for _, pt := range toolsProvided {
		s.AddTool(pt.tool, pt.handler)
	}

	return server.NewStreamableHTTPServer(s, server.WithEndpointPath(uri))
}

// canned stories served by the frontpage tool
var demoStories = []map[string]any{
	{"title": "Show HN: A JSON-RPC client that survives reauth", "points": 120, "url": "https://example.com/a"},
	{"title": "The streamable HTTP transport, explained", "points": 87, "url": "https://example.com/b"},
	{"title": "Why your handshake needs an ack", "points": 35, "url": "https://example.com/c"},
}

func doEcho(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString(ParamText)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func doFrontpage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	minPoints := request.GetFloat(ParamMinPoints, 0)

	hits := []map[string]any{}
	for _, story := range demoStories {
		if float64(story["points"].(int)) >= minPoints {
			hits = append(hits, story)
		}
	}

	payload, err := json.Marshal(map[string]any{
		"data": map[string]any{
			"response": map[string]any{"hits": hits},
		},
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
