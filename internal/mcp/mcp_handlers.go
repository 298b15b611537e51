package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flowlens/flowlens/core"
	"github.com/flowlens/flowlens/internal/contract"
	"github.com/flowlens/flowlens/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	source  contract.RecordSource
}

func (h *toolHandler) handleGetFlowSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("scope", ""); s != "" {
		cfg.Scope = s
	}
	if p := request.GetString("period", ""); p != "" {
		cfg.Period = p
	}

	start, err := contract.ParseTimeFlag(request.GetString("start", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid start: %v", err)), nil
	}
	end, err := contract.ParseTimeFlag(request.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid end: %v", err)), nil
	}
	cfg.Window = schema.TimeWindow{Start: start, End: end, Label: cfg.Period}

	snapshot, err := core.GetFlowSnapshot(ctx, cfg, h.source)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("flow analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(snapshot, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCapacityMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("scope", ""); s != "" {
		cfg.Scope = s
	}
	if p := request.GetString("period", ""); p != "" {
		cfg.Period = p
	}
	if d := request.GetFloat("period_days", 0); d > 0 {
		cfg.PeriodDays = d
	}
	if t := request.GetFloat("target_leadtime", 0); t > 0 {
		cfg.TargetLeadTimeDays = t
	}

	metrics, err := core.GetCapacityMetrics(ctx, cfg, h.source)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("capacity analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(metrics, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetBottlenecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("scope", ""); s != "" {
		cfg.Scope = s
	}
	if p := request.GetString("period", ""); p != "" {
		cfg.Period = p
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	scores, _, _, err := core.GetBottlenecks(ctx, cfg, h.source)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bottleneck analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(scores, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetStuckItems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("scope", ""); s != "" {
		cfg.Scope = s
	}
	if p := request.GetString("period", ""); p != "" {
		cfg.Period = p
	}
	if th := request.GetFloat("threshold", 0); th > 0 {
		cfg.StuckThresholdDays = th
	}

	_, stuck, multi, err := core.GetBottlenecks(ctx, cfg, h.source)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stuck-item scan failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(map[string]any{
		"stuck_items": stuck,
		"multi_stage": multi,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
