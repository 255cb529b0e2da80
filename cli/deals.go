// ABOUTME: Deal CLI commands
// ABOUTME: Human-friendly commands for managing deals and moving them through the pipeline
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
)

const dateLayout = "2006-01-02"

// AddDealCommand adds a new deal.
func AddDealCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("add-deal", flag.ExitOnError)
	title := fs.String("title", "", "Deal title (required)")
	contact := fs.Int("contact", 0, "Contact ID (required)")
	rep := fs.Int("rep", 0, "Sales rep ID")
	value := fs.Float64("value", 0, "Deal value in dollars (required)")
	stage := fs.String("stage", string(models.StageLead), "Stage (Lead, Qualified, Proposal, Negotiation, Closed)")
	closeDate := fs.String("close", "", "Expected close date (YYYY-MM-DD)")
	notes := fs.String("notes", "", "Notes")
	_ = fs.Parse(args)

	parsedStage, err := models.ParseStage(*stage)
	if err != nil {
		return err
	}

	draft := models.Deal{
		Title:     *title,
		ContactID: models.ID(*contact),
		Stage:     parsedStage,
		Value:     *value,
		Notes:     *notes,
	}
	if *rep > 0 {
		repID := models.ID(*rep)
		draft.SalesRepID = &repID
	}
	if *closeDate != "" {
		t, err := time.Parse(dateLayout, *closeDate)
		if err != nil {
			return fmt.Errorf("invalid close date (want YYYY-MM-DD): %w", err)
		}
		draft.ExpectedCloseDate = &t
	}
	if err := draft.Validate(); err != nil {
		return err
	}

	deal, err := crm.CreateDeal(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}

	fmt.Printf("✓ Deal created: %s (ID: %d)\n", deal.Title, deal.ID)
	fmt.Printf("  Stage: %s\n", deal.Stage)
	fmt.Printf("  Value: $%.2f\n", deal.Value)
	return nil
}

// ListDealsCommand lists deals with their contact and rep.
func ListDealsCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("list-deals", flag.ExitOnError)
	stage := fs.String("stage", "", "Filter by stage")
	contact := fs.Int("contact", 0, "Filter by contact ID")
	_ = fs.Parse(args)

	var filter models.Stage
	if *stage != "" {
		s, err := models.ParseStage(*stage)
		if err != nil {
			return err
		}
		filter = s
	}

	var (
		deals []models.Deal
		err   error
	)
	if *contact > 0 {
		deals, err = crm.Deals.GetByContactID(ctx, models.ID(*contact))
	} else {
		deals, err = crm.Deals.GetAll(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list deals: %w", err)
	}

	contacts, err := crm.Contacts.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}
	reps, err := crm.SalesReps.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sales reps: %w", err)
	}
	contactNames := make(map[models.ID]string, len(contacts))
	for _, c := range contacts {
		contactNames[c.ID] = c.Name
	}
	repNames := make(map[models.ID]string, len(reps))
	for _, r := range reps {
		repNames[r.ID] = r.Name
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tSTAGE\tVALUE\tCONTACT\tREP")
	_, _ = fmt.Fprintln(w, "--\t-----\t-----\t-----\t-------\t---")

	shown := 0
	for _, d := range deals {
		if filter != "" && d.Stage != filter {
			continue
		}
		contactName := contactNames[d.ContactID]
		if contactName == "" {
			contactName = fmt.Sprintf("unknown (#%d)", d.ContactID)
		}
		repName := "-"
		if d.SalesRepID != nil && repNames[*d.SalesRepID] != "" {
			repName = repNames[*d.SalesRepID]
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t$%.0f\t%s\t%s\n", d.ID, d.Title, d.Stage, d.Value, contactName, repName)
		shown++
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d deal(s)\n", shown)
	return nil
}

// UpdateDealCommand updates an existing deal. Only flags that are given are changed.
func UpdateDealCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("update-deal", flag.ExitOnError)
	title := fs.String("title", "", "Deal title")
	contact := fs.Int("contact", 0, "Contact ID")
	rep := fs.Int("rep", 0, "Sales rep ID (0 clears)")
	value := fs.Float64("value", 0, "Deal value in dollars")
	stage := fs.String("stage", "", "Stage")
	closeDate := fs.String("close", "", "Expected close date (YYYY-MM-DD)")
	notes := fs.String("notes", "", "Notes")
	_ = fs.Parse(args)

	id, err := idArg(fs, "deal")
	if err != nil {
		return err
	}

	set := setFlags(fs)
	var patch models.DealPatch
	if set["title"] {
		patch.Title = title
	}
	if set["contact"] {
		contactID := models.ID(*contact)
		patch.ContactID = &contactID
	}
	if set["rep"] {
		if *rep == 0 {
			patch.ClearSalesRep = true
		} else {
			repID := models.ID(*rep)
			patch.SalesRepID = &repID
		}
	}
	if set["value"] {
		patch.Value = value
	}
	if set["stage"] {
		s, err := models.ParseStage(*stage)
		if err != nil {
			return err
		}
		patch.Stage = &s
	}
	if set["close"] {
		t, err := time.Parse(dateLayout, *closeDate)
		if err != nil {
			return fmt.Errorf("invalid close date (want YYYY-MM-DD): %w", err)
		}
		patch.ExpectedCloseDate = &t
	}
	if set["notes"] {
		patch.Notes = notes
	}

	existing, err := crm.Deals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("deal not found: %d", id)
	}
	merged := existing.Clone()
	patch.Apply(&merged)
	if err := merged.Validate(); err != nil {
		return err
	}

	deal, err := crm.UpdateDeal(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update deal: %w", err)
	}

	fmt.Printf("✓ Deal updated: %s (ID: %d)\n", deal.Title, deal.ID)
	return nil
}

// MoveDealCommand moves a deal to another stage: move-deal <id> <stage>.
func MoveDealCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("move-deal", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := idArg(fs, "deal")
	if err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("target stage is required")
	}
	stage, err := models.ParseStage(fs.Arg(1))
	if err != nil {
		return err
	}

	deal, moved, err := crm.MoveDeal(ctx, id, stage)
	if err != nil {
		return fmt.Errorf("failed to move deal: %w", err)
	}
	if !moved {
		fmt.Printf("Deal %d is already in %s\n", deal.ID, deal.Stage)
		return nil
	}

	fmt.Printf("✓ Deal moved: %s → %s\n", deal.Title, deal.Stage)
	return nil
}

// DeleteDealCommand deletes a deal.
func DeleteDealCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("delete-deal", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := idArg(fs, "deal")
	if err != nil {
		return err
	}

	if err := crm.DeleteDeal(ctx, id); err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}

	fmt.Printf("✓ Deal deleted: %d\n", id)
	return nil
}
