// ABOUTME: Graphviz rendering of the pipeline board
// ABOUTME: Stages form a chain left to right with each deal hanging off its stage
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

var stageColors = map[string]string{
	"Lead":        "lightgrey",
	"Qualified":   "lightblue",
	"Proposal":    "lightyellow",
	"Negotiation": "orange",
	"Closed":      "lightgreen",
}

// GeneratePipelineGraph renders the board as DOT source.
func GeneratePipelineGraph(ctx context.Context, board *Board) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetLabel("Sales Pipeline")
	graph.SetRankDir(cgraph.LRRank)

	var prev *cgraph.Node
	for _, col := range board.Columns {
		stageNode, err := graph.CreateNodeByName(fmt.Sprintf("stage_%s", col.Stage))
		if err != nil {
			return "", fmt.Errorf("failed to create stage node: %w", err)
		}
		stageNode.SetLabel(fmt.Sprintf("%s\n%d deals\n%s", col.Stage, col.Count, FormatMoney(col.Value)))
		stageNode.SetShape("box")
		stageNode.SetStyle("filled")
		stageNode.SetFillColor(stageColors[string(col.Stage)])

		if prev != nil {
			edge, err := graph.CreateEdgeByName("next", prev, stageNode)
			if err != nil {
				return "", fmt.Errorf("failed to create stage edge: %w", err)
			}
			edge.SetStyle("bold")
		}
		prev = stageNode

		for _, card := range col.Cards {
			dealNode, err := graph.CreateNodeByName(fmt.Sprintf("deal_%d", card.DealID))
			if err != nil {
				return "", fmt.Errorf("failed to create deal node: %w", err)
			}
			dealNode.SetLabel(fmt.Sprintf("%s\n%s\n%s", card.Title, card.Company, FormatMoney(card.Value)))
			dealNode.SetShape("ellipse")

			edge, err := graph.CreateEdgeByName("in_stage", stageNode, dealNode)
			if err != nil {
				return "", fmt.Errorf("failed to create deal edge: %w", err)
			}
			edge.SetStyle("dotted")
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
