// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for managing contacts
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
)

// AddContactCommand adds a new contact.
func AddContactCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name (required)")
	email := fs.String("email", "", "Email address (required)")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	tags := fs.String("tags", "", "Comma-separated tags")
	notes := fs.String("notes", "", "Notes about the contact")
	_ = fs.Parse(args)

	draft := models.Contact{
		Name:    *name,
		Email:   *email,
		Phone:   *phone,
		Company: *company,
		Tags:    models.SplitTags(*tags),
		Notes:   *notes,
	}
	if err := draft.Validate(); err != nil {
		return err
	}

	contact, err := crm.CreateContact(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	fmt.Printf("✓ Contact created: %s (ID: %d)\n", contact.Name, contact.ID)
	fmt.Printf("  Email: %s\n", contact.Email)
	if contact.Phone != "" {
		fmt.Printf("  Phone: %s\n", contact.Phone)
	}
	if contact.Company != "" {
		fmt.Printf("  Company: %s\n", contact.Company)
	}

	return nil
}

// ListContactsCommand lists all contacts.
func ListContactsCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	contacts, err := crm.Contacts.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return nil
	}
	if *limit > 0 && len(contacts) > *limit {
		contacts = contacts[:*limit]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tCOMPANY\tTAGS")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t-----\t-------\t----")

	for _, c := range contacts {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, dash(c.Email), dash(c.Phone), dash(c.Company), dash(strings.Join(c.Tags, ", ")))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}

// ShowContactCommand prints a contact with its deals and recent activity.
func ShowContactCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("show-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := idArg(fs, "contact")
	if err != nil {
		return err
	}

	detail, err := crm.ContactDetail(ctx, id)
	if err != nil {
		return err
	}
	if detail == nil {
		return fmt.Errorf("contact not found: %d", id)
	}

	c := detail.Contact
	fmt.Printf("%s (ID: %d)\n", c.Name, c.ID)
	fmt.Printf("  Email:   %s\n", dash(c.Email))
	fmt.Printf("  Phone:   %s\n", dash(c.Phone))
	fmt.Printf("  Company: %s\n", dash(c.Company))
	if len(c.Tags) > 0 {
		fmt.Printf("  Tags:    %s\n", strings.Join(c.Tags, ", "))
	}
	if c.Notes != "" {
		fmt.Printf("  Notes:   %s\n", c.Notes)
	}

	fmt.Printf("\nDeals (%d)\n", len(detail.Deals))
	for _, d := range detail.Deals {
		fmt.Printf("  #%d %s  %s  $%.0f\n", d.ID, d.Title, d.Stage, d.Value)
	}

	fmt.Printf("\nRecent activity\n")
	for _, a := range detail.Activities {
		fmt.Printf("  %s  %s\n", a.Timestamp.Format("2006-01-02 15:04"), a.Description)
	}
	return nil
}

// UpdateContactCommand updates an existing contact. Only flags that are
// given are changed.
func UpdateContactCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("update-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	tags := fs.String("tags", "", "Comma-separated tags (replaces existing)")
	notes := fs.String("notes", "", "Notes about the contact")
	_ = fs.Parse(args)

	id, err := idArg(fs, "contact")
	if err != nil {
		return err
	}

	set := setFlags(fs)
	var patch models.ContactPatch
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
	if set["tags"] {
		split := models.SplitTags(*tags)
		patch.Tags = &split
	}
	if set["notes"] {
		patch.Notes = notes
	}

	existing, err := crm.Contacts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("contact not found: %d", id)
	}
	merged := existing.Clone()
	patch.Apply(&merged)
	if err := merged.Validate(); err != nil {
		return err
	}

	contact, err := crm.UpdateContact(ctx, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	fmt.Printf("✓ Contact updated: %s (ID: %d)\n", contact.Name, contact.ID)
	return nil
}

// DeleteContactCommand deletes a contact. Deals that reference it are kept.
func DeleteContactCommand(ctx context.Context, crm *service.CRM, args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := idArg(fs, "contact")
	if err != nil {
		return err
	}

	if err := crm.DeleteContact(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	fmt.Printf("✓ Contact deleted: %d\n", id)
	return nil
}

// idArg parses the first positional argument as a record id.
func idArg(fs *flag.FlagSet, what string) (models.ID, error) {
	if fs.NArg() < 1 {
		return 0, fmt.Errorf("%s ID is required", what)
	}
	id, err := models.ParseID(fs.Arg(0))
	if err != nil {
		return 0, fmt.Errorf("invalid %s ID: %w", what, err)
	}
	return id, nil
}

// setFlags reports which flags were given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
