// ABOUTME: Activity feed and sales team CLI commands
// ABOUTME: Read-only listings of recent activity and sales reps
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
)

// ListActivitiesCommand prints the newest activity, optionally for one entity.
func ListActivitiesCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("list-activities", flag.ExitOnError)
	limit := fs.Int("limit", 0, "Maximum results (default 20, or 10 for one entity)")
	entityType := fs.String("type", "", "Entity type (contact, deal, lead)")
	entityID := fs.Int("id", 0, "Entity ID (requires --type)")
	_ = fs.Parse(args)

	var (
		activities []models.Activity
		err        error
	)
	switch {
	case *entityID > 0 && *entityType == "":
		return fmt.Errorf("--type is required with --id")
	case *entityID > 0:
		activities, err = crm.Activities.GetByEntityID(ctx, models.EntityType(*entityType), models.ID(*entityID), *limit)
	default:
		activities, err = crm.Activities.GetAll(ctx, *limit)
	}
	if err != nil {
		return fmt.Errorf("failed to list activities: %w", err)
	}

	if len(activities) == 0 {
		fmt.Println("No activity found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tTYPE\tENTITY\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "----\t----\t------\t-----------")
	for _, a := range activities {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s #%d\t%s\n",
			a.Timestamp.Format("2006-01-02 15:04"), a.Type, a.EntityType, a.EntityID, a.Description)
	}
	_ = w.Flush()
	return nil
}

// ListSalesRepsCommand prints the sales team.
func ListSalesRepsCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("list-reps", flag.ExitOnError)
	_ = fs.Parse(args)

	reps, err := crm.SalesReps.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sales reps: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tTITLE")
	_, _ = fmt.Fprintln(w, "--\t----\t-----")
	for _, r := range reps {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", r.ID, r.Name, dash(r.Title))
	}
	_ = w.Flush()
	return nil
}
