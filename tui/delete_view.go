// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Handles deletion of contacts, deals, and leads with confirmation dialog
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

// deleteTarget names the selected record for the dialog.
func (m Model) deleteTarget() (kind, name string) {
	switch m.entityType {
	case EntityContacts:
		if c, ok := findByID(m.data.contacts, m.selectedID); ok {
			return "contact", c.Name
		}
		return "contact", m.selectedID.String()
	case EntityDeals:
		if d, ok := findByID(m.data.deals, m.selectedID); ok {
			return "deal", d.Title
		}
		return "deal", m.selectedID.String()
	case EntityLeads:
		if l, ok := findByID(m.data.leads, m.selectedID); ok {
			return "lead", l.Name
		}
		return "lead", m.selectedID.String()
	}
	return "", ""
}

func (m Model) renderConfirmDeleteView() string {
	kind, name := m.deleteTarget()
	if kind == "" {
		return "Error: nothing selected"
	}

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := fmt.Sprintf("Are you sure you want to delete this %s?", kind)
	entityInfo := fmt.Sprintf("\n%s: %s\n", strings.ToUpper(kind), name)
	warning := "\nThis action cannot be undone!"

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	box := confirmBoxStyle.Render(content)

	// Center the box on screen
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, m.performDelete()
	case "n", "N", "esc":
		m.viewMode = ViewList
	}

	return m, nil
}

func (m Model) performDelete() tea.Cmd {
	ctx, crm, id := m.ctx, m.crm, m.selectedID
	kind, name := m.deleteTarget()
	return func() tea.Msg {
		var err error
		switch m.entityType {
		case EntityContacts:
			err = crm.DeleteContact(ctx, id)
		case EntityDeals:
			err = crm.DeleteDeal(ctx, id)
		case EntityLeads:
			err = crm.DeleteLead(ctx, id)
		default:
			err = fmt.Errorf("unknown entity type")
		}
		if err != nil {
			return errMsg{fmt.Errorf("failed to delete %s: %w", kind, err)}
		}
		return deletedMsg{what: name}
	}
}
