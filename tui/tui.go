// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Interactive pipeline board and record browser over the CRM services
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
	"github.com/harperreed/nexus/viz"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewGraph
	ViewConfirmDelete
)

// EntityType represents the tab being viewed
type EntityType int

const (
	EntityBoard EntityType = iota
	EntityContacts
	EntityDeals
	EntityLeads
	EntityActivity
)

var tabNames = []string{"Board", "Contacts", "Deals", "Leads", "Activity"}

// snapshot is everything the views render from. It is reloaded after each
// mutation so the board reflects the stored state.
type snapshot struct {
	contacts   []models.Contact
	deals      []models.Deal
	leads      []models.Lead
	reps       []models.SalesRep
	activities []models.Activity
	board      *viz.Board
}

type dataLoadedMsg struct{ data snapshot }

type errMsg struct{ err error }

type dealMovedMsg struct {
	deal  *models.Deal
	moved bool
}

type deletedMsg struct{ what string }

type graphMsg struct{ dot string }

// Model is the main bubbletea model
type Model struct {
	ctx        context.Context
	crm        *service.CRM
	now        func() time.Time
	viewMode   ViewMode
	entityType EntityType

	data   snapshot
	loaded bool

	// List view state
	selectedRow int

	// Board state. followDeal keeps the cursor on a deal after it moves.
	boardCol   int
	boardRow   int
	followDeal models.ID

	// Detail and delete state
	selectedID models.ID

	graphDOT string
	status   string

	width  int
	height int
	err    error
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, crm *service.CRM) Model {
	return Model{
		ctx:        ctx,
		crm:        crm,
		now:        time.Now,
		viewMode:   ViewList,
		entityType: EntityBoard,
		width:      120,
		height:     30,
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadData()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case dataLoadedMsg:
		m.data = msg.data
		m.loaded = true
		m.err = nil
		m.clampSelection()
		return m, nil
	case errMsg:
		m.err = msg.err
		return m, nil
	case dealMovedMsg:
		if !msg.moved {
			m.status = fmt.Sprintf("Deal already in %s", msg.deal.Stage)
			return m, nil
		}
		m.status = fmt.Sprintf("✓ %s moved to %s", msg.deal.Title, msg.deal.Stage)
		m.followDeal = msg.deal.ID
		return m, m.loadData()
	case deletedMsg:
		m.status = fmt.Sprintf("✓ %s deleted", msg.what)
		m.viewMode = ViewList
		m.selectedID = 0
		return m, m.loadData()
	case graphMsg:
		m.graphDOT = msg.dot
		m.viewMode = ViewGraph
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.loaded && m.err == nil {
		return titleStyle.Render("NEXUS CRM") + "\n\nLoading...\n"
	}

	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		if m.viewMode == ViewList {
			m.status = ""
			return m, m.loadData()
		}
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		if m.entityType == EntityBoard {
			return m.handleBoardKeys(msg)
		}
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// switchTab handles tab navigation shared by the board and the lists.
func (m Model) switchTab(key string) (Model, bool) {
	switch key {
	case "tab":
		m.entityType = (m.entityType + 1) % EntityType(len(tabNames))
	case "shift+tab":
		m.entityType = (m.entityType + EntityType(len(tabNames)) - 1) % EntityType(len(tabNames))
	default:
		return m, false
	}
	m.selectedRow = 0
	m.status = ""
	return m, true
}

func (m Model) loadData() tea.Cmd {
	ctx, crm, now := m.ctx, m.crm, m.now
	return func() tea.Msg {
		var data snapshot
		var err error

		if data.contacts, err = crm.Contacts.GetAll(ctx); err != nil {
			return errMsg{fmt.Errorf("failed to fetch contacts: %w", err)}
		}
		if data.deals, err = crm.Deals.GetAll(ctx); err != nil {
			return errMsg{fmt.Errorf("failed to fetch deals: %w", err)}
		}
		if data.leads, err = crm.Leads.GetAll(ctx); err != nil {
			return errMsg{fmt.Errorf("failed to fetch leads: %w", err)}
		}
		if data.reps, err = crm.SalesReps.GetAll(ctx); err != nil {
			return errMsg{fmt.Errorf("failed to fetch sales reps: %w", err)}
		}
		if data.activities, err = crm.Activities.GetAll(ctx, service.DefaultFeedLimit); err != nil {
			return errMsg{fmt.Errorf("failed to fetch activities: %w", err)}
		}
		data.board = viz.BuildBoard(data.deals, data.contacts, data.reps, now())
		return dataLoadedMsg{data: data}
	}
}

func (m *Model) clampSelection() {
	if m.followDeal != 0 && m.data.board != nil {
		for c, col := range m.data.board.Columns {
			for r, card := range col.Cards {
				if card.DealID == m.followDeal {
					m.boardCol, m.boardRow = c, r
				}
			}
		}
		m.followDeal = 0
	}

	if n := m.rowCount(); m.selectedRow >= n {
		m.selectedRow = max(n-1, 0)
	}
	if m.data.board == nil || len(m.data.board.Columns) == 0 {
		return
	}
	m.boardCol = min(max(m.boardCol, 0), len(m.data.board.Columns)-1)
	if n := len(m.data.board.Columns[m.boardCol].Cards); m.boardRow >= n {
		m.boardRow = max(n-1, 0)
	}
}

func (m Model) rowCount() int {
	switch m.entityType {
	case EntityContacts:
		return len(m.data.contacts)
	case EntityDeals:
		return len(m.data.deals)
	case EntityLeads:
		return len(m.data.leads)
	case EntityActivity:
		return len(m.data.activities)
	}
	return 0
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)
