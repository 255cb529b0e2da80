// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides the generate_pipeline_graph tool for agents
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/nexus/service"
	"github.com/harperreed/nexus/viz"
)

type VizHandlers struct {
	crm *service.CRM
}

func NewVizHandlers(crm *service.CRM) *VizHandlers {
	return &VizHandlers{crm: crm}
}

type GeneratePipelineGraphInput struct{}

type GeneratePipelineGraphOutput struct {
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GeneratePipelineGraph(ctx context.Context, _ *mcp.CallToolRequest, _ GeneratePipelineGraphInput) (*mcp.CallToolResult, GeneratePipelineGraphOutput, error) {
	board, err := viz.LoadBoard(ctx, h.crm, time.Now())
	if err != nil {
		return nil, GeneratePipelineGraphOutput{}, err
	}

	dot, err := viz.GeneratePipelineGraph(ctx, board)
	if err != nil {
		return nil, GeneratePipelineGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	// Count nodes and edges for stats
	nodes := 0
	for _, col := range board.Columns {
		nodes += 1 + len(col.Cards)
	}

	return nil, GeneratePipelineGraphOutput{
		DOTSource: dot,
		NodeCount: nodes,
		EdgeCount: strings.Count(dot, "->"),
	}, nil
}
