package mcp_test

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlens/flowlens/internal/contract"
	mcp_internal "github.com/flowlens/flowlens/internal/mcp"
	"github.com/flowlens/flowlens/schema"
)

// memorySource serves a fixed record slice for handler tests.
type memorySource struct {
	records []schema.LifecycleRecord
}

func (m *memorySource) FetchRecords(_ context.Context, _, _ string) ([]schema.LifecycleRecord, error) {
	return m.records, nil
}

func (m *memorySource) Close() error { return nil }

func baseConfig() *contract.Config {
	return &contract.Config{
		Period:             "PI-2026.3",
		PeriodDays:         84,
		StageOrder:         contract.DefaultStageOrder,
		ActiveStages:       contract.DefaultActiveStages,
		DoneStatuses:       contract.DefaultDoneStatuses,
		StuckThresholdDays: contract.DefaultStuckThresholdDays,
		TargetLeadTimeDays: contract.DefaultTargetLeadTime,
		LookbackPeriods:    contract.DefaultLookbackPeriods,
		MinSampleSize:      contract.DefaultMinSampleSize,
		SystemicMissPct:    contract.DefaultSystemicMissPct,
		Severity:           contract.DefaultSeverityThresholds,
		Workers:            2,
		ResultLimit:        contract.DefaultResultLimit,
		Precision:          1,
		Output:             schema.TextOut,
	}
}

func TestMCPServerHandlers(t *testing.T) {
	created := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	resolved := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	source := &memorySource{records: []schema.LifecycleRecord{
		{
			Key:        "FL-1",
			Type:       "Story",
			Status:     "In Progress",
			Team:       "Atlas",
			Period:     "PI-2026.3",
			CreatedAt:  created,
			StageDays:  map[string]float64{"In Progress": 15},
			Commitment: schema.Committed,
		},
		{
			Key:        "FL-2",
			Type:       "Story",
			Status:     "Done",
			Team:       "Atlas",
			Period:     "PI-2026.3",
			CreatedAt:  created,
			ResolvedAt: &resolved,
			StageDays:  map[string]float64{"In Progress": 10, "Testing": 9},
			Commitment: schema.Committed,
		},
	}}

	s := mcp_internal.NewMCPServer(baseConfig(), source)
	ctx := context.Background()

	t.Run("get_flow_snapshot invalid start", func(t *testing.T) {
		tool := s.GetTool("get_flow_snapshot")
		require.NotNil(t, tool, "Tool get_flow_snapshot should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_flow_snapshot",
				Arguments: map[string]any{
					"start": "not-a-date",
					"end":   "2026-08-01",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid start")
	})

	t.Run("get_flow_snapshot returns metrics", func(t *testing.T) {
		tool := s.GetTool("get_flow_snapshot")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_flow_snapshot",
				Arguments: map[string]any{
					"start": "2026-06-01",
					"end":   "2026-08-01",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)
		text := res.Content[0].(mcp.TextContent).Text
		assert.Contains(t, text, "\"completed_count\": 1")
		assert.Contains(t, text, "throughput_per_day")
	})

	t.Run("get_capacity_metrics insufficient data", func(t *testing.T) {
		tool := s.GetTool("get_capacity_metrics")
		require.NotNil(t, tool, "Tool get_capacity_metrics should exist")

		// One completed item against the default minimum of five.
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_capacity_metrics",
				Arguments: map[string]any{
					"period":      "PI-2026.3",
					"period_days": 84.0,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "insufficient data")
	})

	t.Run("get_stuck_items honors threshold", func(t *testing.T) {
		tool := s.GetTool("get_stuck_items")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_stuck_items",
				Arguments: map[string]any{
					"threshold": 14.0,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)
		text := res.Content[0].(mcp.TextContent).Text
		assert.Contains(t, text, "FL-1")
		assert.NotContains(t, text, "FL-2")
	})

	t.Run("get_bottlenecks ranks stages", func(t *testing.T) {
		tool := s.GetTool("get_bottlenecks")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "get_bottlenecks",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)
		text := res.Content[0].(mcp.TextContent).Text
		assert.Contains(t, text, "In Progress")
		assert.Contains(t, text, "Testing")
	})
}
