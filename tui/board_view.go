// ABOUTME: Pipeline board view for the TUI
// ABOUTME: Renders one column per stage and moves deals between adjacent stages
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/viz"
)

const columnWidth = 24

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(columnWidth).
			Padding(0, 1)

	activeColumnStyle = columnStyle.
				BorderForeground(lipgloss.Color("170"))

	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("170"))

	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			MarginBottom(1)

	selectedCardStyle = cardStyle.
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func (m Model) renderBoard() string {
	board := m.data.board
	if board == nil {
		return "No deals loaded"
	}

	columns := make([]string, 0, len(board.Columns))
	for i, col := range board.Columns {
		var s strings.Builder
		s.WriteString(columnHeaderStyle.Render(string(col.Stage)))
		s.WriteString("\n")
		s.WriteString(mutedStyle.Render(fmt.Sprintf("%d deals · %s", col.Count, viz.FormatMoney(col.Value))))
		s.WriteString("\n\n")

		if len(col.Cards) == 0 {
			s.WriteString(mutedStyle.Render("(empty)"))
		}
		for j, card := range col.Cards {
			style := cardStyle
			if i == m.boardCol && j == m.boardRow {
				style = selectedCardStyle
			}
			s.WriteString(style.Render(renderCard(card)))
			s.WriteString("\n")
		}

		style := columnStyle
		if i == m.boardCol {
			style = activeColumnStyle
		}
		columns = append(columns, style.Render(s.String()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderCard(card viz.Card) string {
	lines := []string{
		truncate(card.Title, columnWidth-2),
		fmt.Sprintf("%s · %s", viz.FormatMoney(card.Value), truncate(card.Company, columnWidth-10)),
	}
	if card.SalesRep != "" {
		lines = append(lines, "Rep: "+card.SalesRep)
	}
	meta := fmt.Sprintf("%dd in stage", card.DaysInStage)
	if card.ExpectedCloseDate != nil {
		meta += " · " + card.ExpectedCloseDate.Format("Jan 2")
	}
	lines = append(lines, meta)
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (m Model) renderBoardHelp() string {
	help := []string{
		"←/→: Column",
		"↑/↓: Deal",
		"[/]: Move stage",
		"Enter: Details",
		"g: Graph",
		"Tab: Switch tabs",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, ok := m.switchTab(msg.String()); ok {
		return next, nil
	}
	if m.data.board == nil || len(m.data.board.Columns) == 0 {
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		if m.boardCol > 0 {
			m.boardCol--
			m.boardRow = 0
		}
	case "right", "l":
		if m.boardCol < len(m.data.board.Columns)-1 {
			m.boardCol++
			m.boardRow = 0
		}
	case "up", "k":
		if m.boardRow > 0 {
			m.boardRow--
		}
	case "down", "j":
		if m.boardRow < len(m.data.board.Columns[m.boardCol].Cards)-1 {
			m.boardRow++
		}
	case "[":
		return m, m.moveSelected(-1)
	case "]":
		return m, m.moveSelected(1)
	case "enter":
		if card, ok := m.selectedCard(); ok {
			m.selectedID = card.DealID
			m.entityType = EntityDeals
			m.viewMode = ViewDetail
		}
	case "g":
		return m, m.generateGraph()
	}

	return m, nil
}

func (m Model) selectedCard() (viz.Card, bool) {
	if m.data.board == nil || m.boardCol >= len(m.data.board.Columns) {
		return viz.Card{}, false
	}
	cards := m.data.board.Columns[m.boardCol].Cards
	if m.boardRow >= len(cards) {
		return viz.Card{}, false
	}
	return cards[m.boardRow], true
}

// moveSelected moves the selected deal one stage left or right. Moving past
// either end of the pipeline does nothing.
func (m Model) moveSelected(step int) tea.Cmd {
	card, ok := m.selectedCard()
	if !ok {
		return nil
	}
	stages := models.Stages()
	target := m.boardCol + step
	if target < 0 || target >= len(stages) {
		return nil
	}
	return m.moveDeal(card.DealID, stages[target])
}

func (m Model) moveDeal(id models.ID, stage models.Stage) tea.Cmd {
	ctx, crm := m.ctx, m.crm
	return func() tea.Msg {
		deal, moved, err := crm.MoveDeal(ctx, id, stage)
		if err != nil {
			return errMsg{fmt.Errorf("failed to move deal: %w", err)}
		}
		return dealMovedMsg{deal: deal, moved: moved}
	}
}
