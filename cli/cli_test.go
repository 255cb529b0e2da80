package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/nexus/kv"
	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
)

func setupTestCLI(t *testing.T) *service.CRM {
	t.Helper()
	crm, err := service.New(kv.NewTestStore(t), service.Options{})
	require.NoError(t, err)
	return crm
}

func TestAddAndUpdateContactCommands(t *testing.T) {
	crm := setupTestCLI(t)
	ctx := context.Background()

	err := AddContactCommand(ctx, crm, []string{"--name", "Jane Doe", "--email", "jane@example.com", "--tags", "vip, beta"})
	require.NoError(t, err)

	contact, err := crm.Contacts.GetByID(ctx, 9)
	require.NoError(t, err)
	require.NotNil(t, contact)
	assert.Equal(t, []string{"vip", "beta"}, contact.Tags)

	err = UpdateContactCommand(ctx, crm, []string{"--phone", "555-1234", "9"})
	require.NoError(t, err)

	updated, err := crm.Contacts.GetByID(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "555-1234", updated.Phone)
	assert.Equal(t, "Jane Doe", updated.Name)
	assert.Equal(t, []string{"vip", "beta"}, updated.Tags)
}

func TestAddContactCommandValidates(t *testing.T) {
	crm := setupTestCLI(t)

	err := AddContactCommand(context.Background(), crm, []string{"--name", "No Email"})
	require.Error(t, err)
}

func TestContactCommandsNeedID(t *testing.T) {
	crm := setupTestCLI(t)
	ctx := context.Background()

	require.Error(t, UpdateContactCommand(ctx, crm, []string{"--name", "x"}))
	require.Error(t, DeleteContactCommand(ctx, crm, []string{"abc"}))
	require.Error(t, ShowContactCommand(ctx, crm, []string{"999"}))
}

func TestListCommandsRun(t *testing.T) {
	crm := setupTestCLI(t)
	ctx := context.Background()

	require.NoError(t, ListContactsCommand(ctx, crm, []string{"--limit", "3"}))
	require.NoError(t, ShowContactCommand(ctx, crm, []string{"1"}))
	require.NoError(t, ListDealsCommand(ctx, crm, []string{"--stage", "Closed"}))
	require.NoError(t, ListLeadsCommand(ctx, crm, []string{"--status", "new"}))
	require.NoError(t, ListActivitiesCommand(ctx, crm, []string{"--limit", "5"}))
	require.NoError(t, ListActivitiesCommand(ctx, crm, []string{"--type", "deal", "--id", "1"}))
	require.NoError(t, ListSalesRepsCommand(ctx, crm, nil))
	require.NoError(t, DashboardCommand(ctx, crm, nil))

	require.Error(t, ListDealsCommand(ctx, crm, []string{"--stage", "Won"}))
	require.Error(t, ListActivitiesCommand(ctx, crm, []string{"--id", "1"}))
}

func TestDealCommands(t *testing.T) {
	crm := setupTestCLI(t)
	ctx := context.Background()

	err := AddDealCommand(ctx, crm, []string{"--title", "Pilot", "--contact", "1", "--value", "10000", "--close", "2024-06-30"})
	require.NoError(t, err)

	deal, err := crm.Deals.GetByID(ctx, 9)
	require.NoError(t, err)
	require.NotNil(t, deal)
	assert.Equal(t, models.StageLead, deal.Stage)
	require.NotNil(t, deal.ExpectedCloseDate)

	require.NoError(t, MoveDealCommand(ctx, crm, []string{"9", "Qualified"}))
	require.NoError(t, MoveDealCommand(ctx, crm, []string{"9", "Qualified"}))
	require.Error(t, MoveDealCommand(ctx, crm, []string{"9", "qualified"}))
	require.Error(t, MoveDealCommand(ctx, crm, []string{"9"}))

	moved, err := crm.Deals.GetByID(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, models.StageQualified, moved.Stage)
	assert.Equal(t, 10000.0, moved.Value)

	feed, err := crm.Activities.GetAll(ctx, 5)
	require.NoError(t, err)
	stageMoves := 0
	for _, a := range feed {
		if a.Type == models.ActivityDealStageUpdated && a.EntityID == 9 {
			stageMoves++
		}
	}
	assert.Equal(t, 1, stageMoves)

	require.NoError(t, UpdateDealCommand(ctx, crm, []string{"--rep", "0", "--notes", "cleared", "9"}))
	cleared, err := crm.Deals.GetByID(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, cleared.SalesRepID)
	assert.Equal(t, "cleared", cleared.Notes)

	require.NoError(t, DeleteDealCommand(ctx, crm, []string{"9"}))
	gone, err := crm.Deals.GetByID(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestLeadCommands(t *testing.T) {
	crm := setupTestCLI(t)
	ctx := context.Background()

	require.Error(t, AddLeadCommand(ctx, crm, []string{"--name", "Pat", "--email", "bad", "--company", "Acme"}))
	require.NoError(t, AddLeadCommand(ctx, crm, []string{"--name", "Pat", "--email", "pat@acme.com", "--company", "Acme"}))

	leads, err := crm.Leads.GetAll(ctx)
	require.NoError(t, err)
	last := leads[len(leads)-1]
	assert.Equal(t, "Acme", last.Company)

	require.NoError(t, UpdateLeadCommand(ctx, crm, []string{"--status", "contacted", last.ID.String()}))
	updated, err := crm.Leads.GetByID(ctx, last.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadStatusContacted, updated.Status)

	require.NoError(t, DeleteLeadCommand(ctx, crm, []string{last.ID.String()}))
}

func TestResetCommandNeedsConfirm(t *testing.T) {
	crm := setupTestCLI(t)
	ctx := context.Background()

	require.NoError(t, DeleteContactCommand(ctx, crm, []string{"1"}))

	require.Error(t, ResetCommand(ctx, crm, nil))
	gone, err := crm.Contacts.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, gone)

	require.NoError(t, ResetCommand(ctx, crm, []string{"--confirm"}))
	back, err := crm.Contacts.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, back)
}

func TestVizGraphPipelineCommandWritesFile(t *testing.T) {
	crm := setupTestCLI(t)
	out := filepath.Join(t.TempDir(), "pipeline.dot")

	require.NoError(t, VizGraphPipelineCommand(context.Background(), crm, []string{"--output", out}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "stage_Negotiation"))
}
