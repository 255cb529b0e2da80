// ABOUTME: Detail views for a single contact, deal, or lead
// ABOUTME: Shows related deals and recent activity from the loaded snapshot
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/viz"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("DETAIL VIEW"))
	s.WriteString("\n\n")

	// Entity details
	switch m.entityType {
	case EntityContacts:
		s.WriteString(m.renderContactDetail())
	case EntityDeals:
		s.WriteString(m.renderDealDetail())
	case EntityLeads:
		s.WriteString(m.renderLeadDetail())
	}

	s.WriteString("\n\n")
	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func field(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fieldLabelStyle.Render(label+":") + " " + fieldValueStyle.Render(value) + "\n"
}

func findByID[T interface{ Identifier() models.ID }](records []T, id models.ID) (T, bool) {
	for _, r := range records {
		if r.Identifier() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

func (m Model) renderContactDetail() string {
	contact, ok := findByID(m.data.contacts, m.selectedID)
	if !ok {
		return fmt.Sprintf("Contact %d not found", m.selectedID)
	}

	var s strings.Builder
	s.WriteString(field("Name", contact.Name))
	s.WriteString(field("Email", contact.Email))
	s.WriteString(field("Phone", contact.Phone))
	s.WriteString(field("Company", contact.Company))
	s.WriteString(field("Tags", strings.Join(contact.Tags, ", ")))
	s.WriteString(field("Notes", contact.Notes))
	s.WriteString(field("Created", contact.CreatedAt.Format("2006-01-02 15:04")))
	s.WriteString(field("Updated", contact.UpdatedAt.Format("2006-01-02 15:04")))

	s.WriteString("\n")
	s.WriteString(columnHeaderStyle.Render("Deals"))
	s.WriteString("\n")
	found := false
	for _, d := range m.data.deals {
		if d.ContactID == contact.ID {
			found = true
			_, _ = fmt.Fprintf(&s, "  • %s (%s, %s)\n", d.Title, d.Stage, viz.FormatMoney(d.Value))
		}
	}
	if !found {
		s.WriteString(mutedStyle.Render("  No deals"))
		s.WriteString("\n")
	}

	s.WriteString(m.renderEntityActivity(models.EntityContact, contact.ID))
	return s.String()
}

func (m Model) renderDealDetail() string {
	deal, ok := findByID(m.data.deals, m.selectedID)
	if !ok {
		return fmt.Sprintf("Deal %d not found", m.selectedID)
	}

	contact := fmt.Sprintf("#%d", deal.ContactID)
	if c, ok := findByID(m.data.contacts, deal.ContactID); ok {
		contact = c.Name
		if c.Company != "" {
			contact += " (" + c.Company + ")"
		}
	}
	rep := ""
	if deal.SalesRepID != nil {
		rep = fmt.Sprintf("#%d", *deal.SalesRepID)
		if r, ok := findByID(m.data.reps, *deal.SalesRepID); ok {
			rep = r.Name
		}
	}
	closeDate := ""
	if deal.ExpectedCloseDate != nil {
		closeDate = deal.ExpectedCloseDate.Format("2006-01-02")
	}

	var s strings.Builder
	s.WriteString(field("Title", deal.Title))
	s.WriteString(field("Stage", string(deal.Stage)))
	s.WriteString(field("Value", viz.FormatMoney(deal.Value)))
	s.WriteString(field("Contact", contact))
	s.WriteString(field("Sales Rep", rep))
	s.WriteString(field("Expected Close", closeDate))
	s.WriteString(field("Notes", deal.Notes))
	s.WriteString(field("Updated", deal.UpdatedAt.Format("2006-01-02 15:04")))
	s.WriteString(m.renderEntityActivity(models.EntityDeal, deal.ID))
	return s.String()
}

func (m Model) renderLeadDetail() string {
	lead, ok := findByID(m.data.leads, m.selectedID)
	if !ok {
		return fmt.Sprintf("Lead %d not found", m.selectedID)
	}

	var s strings.Builder
	s.WriteString(field("Name", lead.Name))
	s.WriteString(field("Email", lead.Email))
	s.WriteString(field("Phone", lead.Phone))
	s.WriteString(field("Company", lead.Company))
	s.WriteString(field("Status", string(lead.Status)))
	s.WriteString(field("Source", lead.Source))
	s.WriteString(field("Value", viz.FormatMoney(lead.Value)))
	s.WriteString(field("Tags", strings.Join(lead.Tags, ", ")))
	s.WriteString(field("Notes", lead.Notes))
	return s.String()
}

// renderEntityActivity lists the loaded feed entries for one record. The
// feed snapshot only holds the newest entries, so older history is omitted.
func (m Model) renderEntityActivity(entityType models.EntityType, id models.ID) string {
	var s strings.Builder
	s.WriteString("\n")
	s.WriteString(columnHeaderStyle.Render("Recent Activity"))
	s.WriteString("\n")
	found := false
	for _, a := range m.data.activities {
		if a.EntityType == entityType && a.EntityID == id {
			found = true
			_, _ = fmt.Fprintf(&s, "  • %s  %s\n", a.Timestamp.Format("Jan 2 15:04"), a.Description)
		}
	}
	if !found {
		s.WriteString(mutedStyle.Render("  No recent activity"))
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Esc: Back",
		"d: Delete",
		"q: Quit",
	}
	if m.entityType == EntityDeals {
		help = append([]string{"[/]: Move stage"}, help...)
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.status = ""
	case "d":
		m.viewMode = ViewConfirmDelete
	case "[", "]":
		if m.entityType != EntityDeals {
			return m, nil
		}
		deal, ok := findByID(m.data.deals, m.selectedID)
		if !ok {
			return m, nil
		}
		stages := models.Stages()
		current := -1
		for i, stage := range stages {
			if stage == deal.Stage {
				current = i
			}
		}
		target := current + 1
		if msg.String() == "[" {
			target = current - 1
		}
		if current < 0 || target < 0 || target >= len(stages) {
			return m, nil
		}
		return m, m.moveDeal(deal.ID, stages[target])
	}

	return m, nil
}
