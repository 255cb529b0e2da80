// ABOUTME: Tabbed list view for contacts, deals, leads, and the activity feed
// ABOUTME: Hosts the board tab and routes list navigation keys
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/viz"
)

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("NEXUS CRM"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.entityType == EntityBoard {
		s.WriteString(m.renderBoard())
	} else {
		s.WriteString(m.renderTable())
	}
	s.WriteString("\n")

	if status := m.renderStatus(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}

	// Help
	if m.entityType == EntityBoard {
		s.WriteString(m.renderBoardHelp())
	} else {
		s.WriteString(m.renderListHelp())
	}

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string

	for i, tab := range tabNames {
		if EntityType(i) == m.entityType {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	var (
		columns []table.Column
		rows    []table.Row
	)

	switch m.entityType {
	case EntityContacts:
		columns = []table.Column{
			{Title: "ID", Width: 4},
			{Title: "Name", Width: 22},
			{Title: "Email", Width: 30},
			{Title: "Company", Width: 24},
			{Title: "Tags", Width: 20},
		}
		for _, c := range m.data.contacts {
			rows = append(rows, table.Row{c.ID.String(), c.Name, c.Email, c.Company, strings.Join(c.Tags, ", ")})
		}
	case EntityDeals:
		columns = []table.Column{
			{Title: "ID", Width: 4},
			{Title: "Title", Width: 30},
			{Title: "Stage", Width: 12},
			{Title: "Value", Width: 10},
			{Title: "Contact", Width: 22},
		}
		names := make(map[models.ID]string, len(m.data.contacts))
		for _, c := range m.data.contacts {
			names[c.ID] = c.Name
		}
		for _, d := range m.data.deals {
			contact, ok := names[d.ContactID]
			if !ok {
				contact = fmt.Sprintf("#%d", d.ContactID)
			}
			rows = append(rows, table.Row{d.ID.String(), d.Title, string(d.Stage), viz.FormatMoney(d.Value), contact})
		}
	case EntityLeads:
		columns = []table.Column{
			{Title: "ID", Width: 4},
			{Title: "Name", Width: 22},
			{Title: "Company", Width: 24},
			{Title: "Status", Width: 12},
			{Title: "Source", Width: 14},
		}
		for _, l := range m.data.leads {
			rows = append(rows, table.Row{l.ID.String(), l.Name, l.Company, string(l.Status), l.Source})
		}
	case EntityActivity:
		columns = []table.Column{
			{Title: "When", Width: 16},
			{Title: "Entity", Width: 12},
			{Title: "Description", Width: 50},
		}
		for _, a := range m.data.activities {
			rows = append(rows, table.Row{
				a.Timestamp.Format("2006-01-02 15:04"),
				fmt.Sprintf("%s #%d", a.EntityType, a.EntityID),
				a.Description,
			})
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 5)),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: View details",
		"d: Delete",
		"r: Refresh",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, ok := m.switchTab(msg.String()); ok {
		return next, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < m.rowCount()-1 {
			m.selectedRow++
		}
	case "enter":
		if id := m.getSelectedID(); id != 0 && m.entityType != EntityActivity {
			m.selectedID = id
			m.viewMode = ViewDetail
		}
	case "d":
		if id := m.getSelectedID(); id != 0 && m.entityType != EntityActivity {
			m.selectedID = id
			m.viewMode = ViewConfirmDelete
		}
	}

	return m, nil
}

func (m Model) getSelectedID() models.ID {
	switch m.entityType {
	case EntityContacts:
		if m.selectedRow < len(m.data.contacts) {
			return m.data.contacts[m.selectedRow].ID
		}
	case EntityDeals:
		if m.selectedRow < len(m.data.deals) {
			return m.data.deals[m.selectedRow].ID
		}
	case EntityLeads:
		if m.selectedRow < len(m.data.leads) {
			return m.data.leads[m.selectedRow].ID
		}
	case EntityActivity:
		if m.selectedRow < len(m.data.activities) {
			return m.data.activities[m.selectedRow].ID
		}
	}
	return 0
}
