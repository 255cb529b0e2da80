// ABOUTME: Tests for dashboard figures, the pipeline board, and graph rendering
// ABOUTME: Uses fixture data and hand-built deals with known stages and values
package viz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/nexus/kv"
	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func repID(id models.ID) *models.ID { return &id }

func sampleDeals() []models.Deal {
	return []models.Deal{
		{ID: 1, Title: "A", ContactID: 1, SalesRepID: repID(1), Stage: models.StageLead, Value: 1000, UpdatedAt: now.Add(-72 * time.Hour)},
		{ID: 2, Title: "B", ContactID: 2, Stage: models.StageQualified, Value: 2000, UpdatedAt: now},
		{ID: 3, Title: "C", ContactID: 99, SalesRepID: repID(42), Stage: models.StageClosed, Value: 4000, UpdatedAt: now},
	}
}

func TestComputeDashboardStats(t *testing.T) {
	contacts := []models.Contact{
		{ID: 1, Name: "Old", CreatedAt: now.Add(-10 * 24 * time.Hour)},
		{ID: 2, Name: "New", CreatedAt: now},
	}

	stats := ComputeDashboardStats(contacts, sampleDeals(), nil)

	assert.Equal(t, 2, stats.TotalContacts)
	assert.Equal(t, 3, stats.TotalDeals)
	assert.Equal(t, 2, stats.ActiveDeals)
	assert.Equal(t, 3000.0, stats.PipelineValue)
	assert.Equal(t, 33.3, stats.ConversionRate)

	require.Len(t, stats.PipelineByStage, len(models.Stages()))
	assert.Equal(t, models.StageLead, stats.PipelineByStage[0].Stage)
	assert.Equal(t, 1, stats.PipelineByStage[0].Count)
	assert.Equal(t, 0, stats.PipelineByStage[2].Count)
	assert.Equal(t, 4000.0, stats.PipelineByStage[4].Value)

	require.Len(t, stats.RecentContacts, 2)
	assert.Equal(t, "New", stats.RecentContacts[0].Name)
}

func TestComputeDashboardStatsEmpty(t *testing.T) {
	stats := ComputeDashboardStats(nil, nil, nil)

	assert.Zero(t, stats.ConversionRate)
	assert.Zero(t, stats.PipelineValue)
	assert.Len(t, stats.PipelineByStage, len(models.Stages()))
}

func TestGenerateDashboardStatsFromFixtures(t *testing.T) {
	crm, err := service.New(kv.NewTestStore(t), service.Options{})
	require.NoError(t, err)

	stats, err := GenerateDashboardStats(context.Background(), crm)
	require.NoError(t, err)

	assert.Equal(t, 8, stats.TotalContacts)
	assert.Equal(t, 6, stats.ActiveDeals)
	assert.Equal(t, 25.0, stats.ConversionRate)
	assert.Len(t, stats.RecentContacts, 5)
	assert.Len(t, stats.RecentActivity, 8)

	out := RenderDashboard(stats)
	assert.Contains(t, out, "NEXUS CRM DASHBOARD")
	assert.Contains(t, out, "Negotiation")
	assert.Contains(t, out, "25.0% conversion")
}

func TestBuildBoard(t *testing.T) {
	contacts := []models.Contact{
		{ID: 1, Name: "Sarah", Company: "TechCorp"},
		{ID: 2, Name: "Solo"},
	}
	reps := []models.SalesRep{{ID: 1, Name: "Alex Morgan"}}

	board := BuildBoard(sampleDeals(), contacts, reps, now)

	require.Len(t, board.Columns, 5)
	lead := board.Columns[0]
	assert.Equal(t, models.StageLead, lead.Stage)
	require.Len(t, lead.Cards, 1)
	assert.Equal(t, "TechCorp", lead.Cards[0].Company)
	assert.Equal(t, "Alex Morgan", lead.Cards[0].SalesRep)
	assert.Equal(t, 3, lead.Cards[0].DaysInStage)

	qualified := board.Columns[1]
	assert.Equal(t, NoCompany, qualified.Cards[0].Company)
	assert.Empty(t, qualified.Cards[0].SalesRep)

	closed := board.Columns[4]
	assert.Equal(t, NoCompany, closed.Cards[0].Company)
	assert.Empty(t, closed.Cards[0].SalesRep)
	assert.Equal(t, 1, closed.Count)
	assert.Equal(t, 4000.0, closed.Value)

	assert.Empty(t, board.Columns[2].Cards)
	assert.NotNil(t, board.Columns[2].Cards)
}

func TestDaysSinceNeverNegative(t *testing.T) {
	assert.Equal(t, 0, DaysSince(now.Add(time.Hour), now))
	assert.Equal(t, 2, DaysSince(now.Add(-50*time.Hour), now))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$950", FormatMoney(950))
	assert.Equal(t, "$125K", FormatMoney(125000))
	assert.Equal(t, "$2.1M", FormatMoney(2100000))
}

func TestGeneratePipelineGraph(t *testing.T) {
	board := BuildBoard(sampleDeals(), nil, nil, now)

	dot, err := GeneratePipelineGraph(context.Background(), board)
	require.NoError(t, err)
	assert.Contains(t, dot, "stage_Lead")
	assert.Contains(t, dot, "stage_Closed")
	assert.Contains(t, dot, "deal_3")
}
