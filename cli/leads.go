// ABOUTME: Lead CLI commands
// ABOUTME: Human-friendly commands for managing inbound leads
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

// AddLeadCommand adds a new lead.
func AddLeadCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("add-lead", flag.ExitOnError)
	name := fs.String("name", "", "Lead name (required)")
	email := fs.String("email", "", "Email address (required)")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name (required)")
	status := fs.String("status", string(models.LeadStatusNew), "Status (new, contacted, qualified, lost)")
	source := fs.String("source", "", "Lead source")
	value := fs.Float64("value", 0, "Estimated value in dollars")
	tags := fs.String("tags", "", "Comma-separated tags")
	notes := fs.String("notes", "", "Notes")
	_ = fs.Parse(args)

	draft := models.Lead{
		Name:    *name,
		Email:   *email,
		Phone:   *phone,
		Company: *company,
		Status:  models.LeadStatus(*status),
		Source:  *source,
		Value:   *value,
		Tags:    models.SplitTags(*tags),
		Notes:   *notes,
	}
	if err := draft.Validate(); err != nil {
		return err
	}

	lead, err := crm.CreateLead(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	fmt.Printf("✓ Lead created: %s at %s (ID: %d)\n", lead.Name, lead.Company, lead.ID)
	return nil
}

// ListLeadsCommand lists leads.
func ListLeadsCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("list-leads", flag.ExitOnError)
	status := fs.String("status", "", "Filter by status")
	_ = fs.Parse(args)

	leads, err := crm.Leads.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list leads: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCOMPANY\tEMAIL\tSTATUS\tSOURCE\tVALUE")
	_, _ = fmt.Fprintln(w, "--\t----\t-------\t-----\t------\t------\t-----")

	shown := 0
	for _, l := range leads {
		if *status != "" && string(l.Status) != *status {
			continue
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t$%.0f\n",
			l.ID, l.Name, l.Company, l.Email, l.Status, dash(l.Source), l.Value)
		shown++
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d lead(s)\n", shown)
	return nil
}

// UpdateLeadCommand updates an existing lead. Only flags that are given are changed.
func UpdateLeadCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("update-lead", flag.ExitOnError)
	name := fs.String("name", "", "Lead name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	status := fs.String("status", "", "Status")
	source := fs.String("source", "", "Lead source")
	value := fs.Float64("value", 0, "Estimated value")
	tags := fs.String("tags", "", "Comma-separated tags (replaces existing)")
	notes := fs.String("notes", "", "Notes")
	_ = fs.Parse(args)

	id, err := idArg(fs, "lead")
	if err != nil {
		return err
	}

	set := setFlags(fs)
	var patch models.LeadPatch
	if set["name"] {
		patch.Name = name
	}
	if set["email"] {
		patch.Email = email
	}
	if set["phone"] {
		patch.Phone = phone
	}
	if set["company"] {
		patch.Company = company
	}
	if set["status"] {
		s := models.LeadStatus(*status)
		patch.Status = &s
	}
	if set["source"] {
		patch.Source = source
	}
	if set["value"] {
		patch.Value = value
	}
	if set["tags"] {
		split := models.SplitTags(*tags)
		patch.Tags = &split
	}
	if set["notes"] {
		patch.Notes = notes
	}

	existing, err := crm.Leads.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("lead not found: %d", id)
	}
	merged := existing.Clone()
	patch.Apply(&merged)
	if err := merged.Validate(); err != nil {
		return err
	}

	lead, err := crm.UpdateLead(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}

	fmt.Printf("✓ Lead updated: %s (ID: %d)\n", lead.Name, lead.ID)
	return nil
}

// DeleteLeadCommand deletes a lead.
func DeleteLeadCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("delete-lead", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := idArg(fs, "lead")
	if err != nil {
		return err
	}

	if err := crm.DeleteLead(ctx, id); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	fmt.Printf("✓ Lead deleted: %d\n", id)
	return nil
}
