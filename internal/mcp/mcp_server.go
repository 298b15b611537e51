// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/flowlens/flowlens/internal/contract"
)

// NewMCPServer initializes and configures the flowlens MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, source contract.RecordSource) *server.MCPServer {
	s := server.NewMCPServer(
		"Flowlens Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		source:  source,
	}

	// --- 1. Tool: get_flow_snapshot ---
	s.AddTool(mcp.NewTool("get_flow_snapshot",
		mcp.WithDescription("Compute flow metrics (throughput, WIP, lead and cycle time distributions) for a scope and period."),
		mcp.WithString("scope", mcp.Description("Team or train name to analyze (defaults to all scopes).")),
		mcp.WithString("period", mcp.Description("Planning period label, e.g. 'PI-2026.3'.")),
		mcp.WithString("start", mcp.Description("Window start (RFC3339 or YYYY-MM-DD)."), mcp.Required()),
		mcp.WithString("end", mcp.Description("Window end (RFC3339 or YYYY-MM-DD)."), mcp.Required()),
	), h.handleGetFlowSnapshot)

	// --- 2. Tool: get_capacity_metrics ---
	s.AddTool(mcp.NewTool("get_capacity_metrics",
		mcp.WithDescription("Compute the Little's-Law capacity model, including historical baseline and planning accuracy."),
		mcp.WithString("scope", mcp.Description("Team or train name to analyze.")),
		mcp.WithString("period", mcp.Description("Planning period label."), mcp.Required()),
		mcp.WithNumber("period_days", mcp.Description("Planning period duration in days, e.g. 84 for a 12-week PI."), mcp.Required()),
		mcp.WithNumber("target_leadtime", mcp.Description("Target lead time in days for the optimal-WIP calculation.")),
	), h.handleGetCapacityMetrics)

	// --- 3. Tool: get_bottlenecks ---
	s.AddTool(mcp.NewTool("get_bottlenecks",
		mcp.WithDescription("Score workflow stages by congestion and rank the worst offenders."),
		mcp.WithString("scope", mcp.Description("Team or train name to analyze.")),
		mcp.WithString("period", mcp.Description("Planning period label.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of stages returned.")),
	), h.handleGetBottlenecks)

	// --- 4. Tool: get_stuck_items ---
	s.AddTool(mcp.NewTool("get_stuck_items",
		mcp.WithDescription("Find unresolved items stuck past a stage-duration threshold, with cross-stage grouping."),
		mcp.WithString("scope", mcp.Description("Team or train name to analyze.")),
		mcp.WithString("period", mcp.Description("Planning period label.")),
		mcp.WithNumber("threshold", mcp.Description("Stuck threshold in days (defaults to the configured threshold).")),
	), h.handleGetStuckItems)

	return s
}

// StartMCPServer starts the flowlens MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, source contract.RecordSource) error {
	s := NewMCPServer(baseCfg, source)
	return server.ServeStdio(s)
}
