// ABOUTME: Visualization CLI commands
// ABOUTME: Handles the dashboard view and pipeline graph generation
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/harperreed/nexus/service"
	"github.com/harperreed/nexus/viz"
)

// DashboardCommand prints the pipeline dashboard.
func DashboardCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	_ = fs.Parse(args)

	stats, err := viz.GenerateDashboardStats(ctx, crm)
	if err != nil {
		return err
	}

	fmt.Print(viz.RenderDashboard(stats))
	return nil
}

// VizGraphPipelineCommand generates a deal pipeline graph.
func VizGraphPipelineCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("viz graph pipeline", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	board, err := viz.LoadBoard(ctx, crm, time.Now())
	if err != nil {
		return err
	}

	dot, err := viz.GeneratePipelineGraph(ctx, board)
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}

	fmt.Println(dot)
	return nil
}
