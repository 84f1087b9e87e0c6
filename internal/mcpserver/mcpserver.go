// Package mcpserver exposes the gateway operations as MCP tools over stdio,
// so agent clients can process text and inspect history without the HTTP
// surface.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/texthub/textproc-gateway/internal/backend"
	"github.com/texthub/textproc-gateway/internal/db"
	"github.com/texthub/textproc-gateway/internal/gateway"
)

// New builds an MCP server backed by the gateway orchestrator.
func New(gw *gateway.Gateway) *server.MCPServer {
	s := server.NewMCPServer(
		"textproc-gateway",
		gateway.Version,
		server.WithToolCapabilities(false),
	)

	processTool := mcp.NewTool("process_text",
		mcp.WithDescription("Send text to one of the processing services (translate, summary, analytics, improve, keywords) and persist the result."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to process"),
		),
		mcp.WithString("service",
			mcp.Required(),
			mcp.Description("Logical service name: translate, summary, analytics, improve or keywords"),
		),
		mcp.WithObject("options",
			mcp.Description("Optional per-service options, e.g. target_language, max_length, style, max_keywords"),
		),
	)
	s.AddTool(processTool, processHandler(gw))

	historyTool := mcp.NewTool("get_history",
		mcp.WithDescription("List the most recently processed text requests, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of records to return (default 10)"),
		),
	)
	s.AddTool(historyTool, historyHandler(gw))

	statsTool := mcp.NewTool("get_stats",
		mcp.WithDescription("Aggregate request counts per service."),
	)
	s.AddTool(statsTool, statsHandler(gw))

	return s
}

// ServeStdio runs the server on stdin/stdout until EOF.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func processHandler(gw *gateway.Gateway) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}
		service, err := request.RequireString("service")
		if err != nil {
			return mcp.NewToolResultError("service is required"), nil
		}

		var opts backend.Options
		if raw, ok := request.GetArguments()["options"].(map[string]any); ok {
			opts = backend.Options(raw)
		}

		rec, err := gw.Process(ctx, gateway.ProcessRequest{
			Text:    text,
			Service: service,
			Options: opts,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(rec)
	}
}

func historyHandler(gw *gateway.Gateway) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := db.DefaultHistoryLimit
		if v, ok := request.GetArguments()["limit"].(float64); ok {
			limit = int(v)
		}

		records, err := gw.History(ctx, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(records)
	}
}

func statsHandler(gw *gateway.Gateway) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := gw.Stats(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(stats)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to encode result"), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
