package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/nexus/kv"
	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
)

func setupModel(t *testing.T) (Model, *service.CRM) {
	t.Helper()
	crm, err := service.New(kv.NewTestStore(t), service.Options{})
	require.NoError(t, err)

	m := NewModel(context.Background(), crm)
	return drain(t, m, m.Init()), crm
}

// drain runs cmd and feeds its message back into the model until no
// command remains.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		next, nextCmd := m.Update(msg)
		m = next.(Model)
		cmd = nextCmd
	}
	return m
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return drain(t, next.(Model), cmd)
}

func TestBoardRendersStages(t *testing.T) {
	m, _ := setupModel(t)

	view := m.View()
	assert.Contains(t, view, "NEXUS CRM")
	for _, stage := range models.Stages() {
		assert.Contains(t, view, string(stage))
	}
	assert.Contains(t, view, "HealthFirst")
}

func TestBoardMoveDealToNextStage(t *testing.T) {
	m, crm := setupModel(t)
	ctx := context.Background()

	// Lead column, first card is deal 4.
	m = press(t, m, "]")

	deal, err := crm.Deals.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, models.StageQualified, deal.Stage)
	assert.Equal(t, 1, m.boardCol, "cursor follows the moved deal")
	assert.Contains(t, m.status, "moved to Qualified")

	m = press(t, m, "[")
	deal, err = crm.Deals.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, models.StageLead, deal.Stage)
	assert.Equal(t, 0, m.boardCol)
}

func TestBoardMovePastEndsDoesNothing(t *testing.T) {
	m, crm := setupModel(t)
	ctx := context.Background()

	before, err := crm.Activities.GetAll(ctx, 0)
	require.NoError(t, err)

	m = press(t, m, "[")
	for range 4 {
		m = press(t, m, "right")
	}
	require.Equal(t, 4, m.boardCol)
	m = press(t, m, "]")

	after, err := crm.Activities.GetAll(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}

func TestTabsAndDetail(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, "tab")
	require.Equal(t, EntityContacts, m.entityType)
	assert.Contains(t, m.View(), "Sarah Johnson")

	m = press(t, m, "enter")
	require.Equal(t, ViewDetail, m.viewMode)
	view := m.View()
	assert.Contains(t, view, "TechCorp Solutions")
	assert.Contains(t, view, "TechCorp Enterprise License")

	m = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, crm := setupModel(t)
	ctx := context.Background()

	m = press(t, m, "tab")
	m = press(t, m, "tab")
	require.Equal(t, EntityDeals, m.entityType)

	m = press(t, m, "d")
	require.Equal(t, ViewConfirmDelete, m.viewMode)
	assert.Contains(t, m.View(), "TechCorp Enterprise License")

	m = press(t, m, "n")
	deal, err := crm.Deals.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, deal)

	m = press(t, m, "d")
	m = press(t, m, "y")
	assert.Equal(t, ViewList, m.viewMode)
	assert.True(t, strings.HasPrefix(m.status, "✓"))

	deal, err = crm.Deals.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, deal)
	assert.Len(t, m.data.deals, 7)
}

func TestGraphView(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, "g")
	require.Equal(t, ViewGraph, m.viewMode)
	assert.Contains(t, m.View(), "stage_Lead")

	m = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
}
