// ABOUTME: Tests for the CRM MCP tool handlers
// ABOUTME: Calls handlers directly and through an in-memory MCP session
package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/nexus/kv"
	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
)

func setupTestCRM(t *testing.T) *service.CRM {
	t.Helper()
	crm, err := service.New(kv.NewTestStore(t), service.Options{})
	require.NoError(t, err)
	return crm
}

func strPtr(s string) *string { return &s }

func TestCreateContactHandler(t *testing.T) {
	crm := setupTestCRM(t)
	h := NewContactHandlers(crm)
	ctx := context.Background()

	_, out, err := h.CreateContact(ctx, nil, CreateContactInput{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Company: "Acme",
		Tags:    []string{"vip"},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, out.ID)
	assert.Equal(t, "Acme", out.Company)
	assert.Equal(t, []string{"vip"}, out.Tags)

	feed, err := crm.Activities.GetAll(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Contact Jane Doe created", feed[0].Description)
}

func TestCreateContactRequiresNameAndEmail(t *testing.T) {
	h := NewContactHandlers(setupTestCRM(t))

	_, _, err := h.CreateContact(context.Background(), nil, CreateContactInput{Name: "No Email"})
	require.Error(t, err)

	var verrs models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "email")
}

func TestGetContactIncludesDealsAndActivity(t *testing.T) {
	h := NewContactHandlers(setupTestCRM(t))

	_, out, err := h.GetContact(context.Background(), nil, GetContactInput{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", out.Contact.Name)
	assert.Len(t, out.Deals, 1)
	assert.Len(t, out.Activities, 1)

	_, _, err = h.GetContact(context.Background(), nil, GetContactInput{ID: 999})
	require.Error(t, err)

	_, _, err = h.GetContact(context.Background(), nil, GetContactInput{})
	require.Error(t, err)
}

func TestUpdateContactKeepsOmittedFields(t *testing.T) {
	h := NewContactHandlers(setupTestCRM(t))
	ctx := context.Background()

	_, out, err := h.UpdateContact(ctx, nil, UpdateContactInput{ID: 1, Phone: strPtr("555-0000")})
	require.NoError(t, err)
	assert.Equal(t, "555-0000", out.Phone)
	assert.Equal(t, "Sarah Johnson", out.Name)

	_, _, err = h.UpdateContact(ctx, nil, UpdateContactInput{ID: 1, Email: strPtr("")})
	require.Error(t, err, "clearing a required field is rejected")

	_, _, err = h.UpdateContact(ctx, nil, UpdateContactInput{ID: 999, Phone: strPtr("1")})
	require.Error(t, err)
}

func TestDeleteContactHandler(t *testing.T) {
	crm := setupTestCRM(t)
	h := NewContactHandlers(crm)
	ctx := context.Background()

	_, out, err := h.DeleteContact(ctx, nil, DeleteContactInput{ID: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, out.ID)

	_, _, err = h.DeleteContact(ctx, nil, DeleteContactInput{ID: 3})
	require.NoError(t, err)

	_, list, err := h.ListContacts(ctx, nil, ListContactsInput{})
	require.NoError(t, err)
	assert.Len(t, list.Contacts, 7)
}

func TestDealHandlers(t *testing.T) {
	crm := setupTestCRM(t)
	h := NewDealHandlers(crm)
	ctx := context.Background()

	_, created, err := h.CreateDeal(ctx, nil, CreateDealInput{
		Title:             "Pilot",
		ContactID:         1,
		SalesRepID:        2,
		Value:             10000,
		ExpectedCloseDate: "2024-06-30",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lead", created.Stage)
	require.NotNil(t, created.SalesRepID)
	assert.Equal(t, 2, *created.SalesRepID)
	require.NotNil(t, created.ExpectedCloseDate)
	assert.Equal(t, "2024-06-30", *created.ExpectedCloseDate)

	_, moved, err := h.MoveDealStage(ctx, nil, MoveDealStageInput{ID: models.ID(created.ID), Stage: "Qualified"})
	require.NoError(t, err)
	assert.True(t, moved.Moved)
	assert.Equal(t, "Qualified", moved.Deal.Stage)
	assert.Equal(t, 10000.0, moved.Deal.Value)

	_, again, err := h.MoveDealStage(ctx, nil, MoveDealStageInput{ID: models.ID(created.ID), Stage: "Qualified"})
	require.NoError(t, err)
	assert.False(t, again.Moved)

	_, _, err = h.MoveDealStage(ctx, nil, MoveDealStageInput{ID: models.ID(created.ID), Stage: "Won"})
	require.Error(t, err)

	zero := models.ID(0)
	_, updated, err := h.UpdateDeal(ctx, nil, UpdateDealInput{ID: models.ID(created.ID), SalesRepID: &zero})
	require.NoError(t, err)
	assert.Nil(t, updated.SalesRepID)

	_, list, err := h.ListDeals(ctx, nil, ListDealsInput{Stage: "Qualified"})
	require.NoError(t, err)
	for _, d := range list.Deals {
		assert.Equal(t, "Qualified", d.Stage)
	}

	_, byContact, err := h.ListDeals(ctx, nil, ListDealsInput{ContactID: 1})
	require.NoError(t, err)
	assert.Len(t, byContact.Deals, 2)
}

func TestCreateDealValidation(t *testing.T) {
	h := NewDealHandlers(setupTestCRM(t))

	_, _, err := h.CreateDeal(context.Background(), nil, CreateDealInput{Title: "No value", ContactID: 1})
	require.Error(t, err)

	_, _, err = h.CreateDeal(context.Background(), nil, CreateDealInput{Title: "Bad date", ContactID: 1, Value: 1, ExpectedCloseDate: "soon"})
	require.Error(t, err)
}

func TestLeadHandlers(t *testing.T) {
	h := NewLeadHandlers(setupTestCRM(t))
	ctx := context.Background()

	_, _, err := h.CreateLead(ctx, nil, CreateLeadInput{Name: "Pat", Email: "not-an-email", Company: "Acme"})
	require.Error(t, err)

	_, lead, err := h.CreateLead(ctx, nil, CreateLeadInput{Name: "Pat", Email: "pat@acme.com", Company: "Acme", Value: 5000})
	require.NoError(t, err)
	assert.Equal(t, "new", lead.Status)

	_, updated, err := h.UpdateLead(ctx, nil, UpdateLeadInput{ID: models.ID(lead.ID), Status: strPtr("qualified")})
	require.NoError(t, err)
	assert.Equal(t, "qualified", updated.Status)
	assert.Equal(t, "Acme", updated.Company)

	_, qualified, err := h.ListLeads(ctx, nil, ListLeadsInput{Status: "qualified"})
	require.NoError(t, err)
	require.NotEmpty(t, qualified.Leads)
	for _, l := range qualified.Leads {
		assert.Equal(t, "qualified", l.Status)
	}

	_, _, err = h.DeleteLead(ctx, nil, DeleteLeadInput{ID: models.ID(lead.ID)})
	require.NoError(t, err)
	_, _, err = h.GetLead(ctx, nil, GetLeadInput{ID: models.ID(lead.ID)})
	require.Error(t, err)
}

func TestFeedHandlers(t *testing.T) {
	h := NewFeedHandlers(setupTestCRM(t))
	ctx := context.Background()

	_, reps, err := h.ListSalesReps(ctx, nil, ListSalesRepsInput{})
	require.NoError(t, err)
	assert.Len(t, reps.SalesReps, 4)

	_, feed, err := h.ListActivities(ctx, nil, ListActivitiesInput{Limit: 2})
	require.NoError(t, err)
	require.Len(t, feed.Activities, 2)
	assert.Equal(t, 8, feed.Activities[0].ID)
	assert.Equal(t, 7, feed.Activities[1].ID)

	_, dealFeed, err := h.ListActivities(ctx, nil, ListActivitiesInput{EntityType: "deal", EntityID: 1})
	require.NoError(t, err)
	assert.Len(t, dealFeed.Activities, 2)

	_, _, err = h.ListActivities(ctx, nil, ListActivitiesInput{EntityID: 1})
	require.Error(t, err)

	_, dash, err := h.GetDashboard(ctx, nil, GetDashboardInput{})
	require.NoError(t, err)
	assert.Equal(t, 8, dash.TotalContacts)
	assert.Equal(t, 6, dash.ActiveDeals)
	assert.Len(t, dash.Stages, 5)
}

func TestServerRegistersTools(t *testing.T) {
	server := NewServer(setupTestCRM(t), "test")

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = server.Run(ctx, serverT) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "nexus-test", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"list_contacts", "create_deal", "move_deal_stage", "list_leads", "list_sales_reps", "list_activities", "get_dashboard"} {
		assert.True(t, names[want], "missing tool %s", want)
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_deal",
		Arguments: map[string]any{"id": 1},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	var deal DealOutput
	require.NoError(t, json.Unmarshal([]byte(text.Text), &deal))
	assert.Equal(t, "TechCorp Enterprise License", deal.Title)
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t.Helper()
	return session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
}

func TestToolsAcceptStringIDs(t *testing.T) {
	session := connectTestSession(t)

	var deals []DealOutput
	for _, id := range []any{5, "5", " 5 "} {
		result, err := callTool(t, session, "get_deal", map[string]any{"id": id})
		require.NoError(t, err, "id %#v", id)
		require.False(t, result.IsError, "id %#v", id)

		text, ok := result.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		var deal DealOutput
		require.NoError(t, json.Unmarshal([]byte(text.Text), &deal))
		deals = append(deals, deal)
	}
	assert.Equal(t, 5, deals[0].ID)
	assert.Equal(t, deals[0], deals[1])
	assert.Equal(t, deals[0], deals[2])

	result, err := callTool(t, session, "list_deals", map[string]any{"contact_id": "1"})
	require.NoError(t, err)
	require.False(t, result.IsError)
	var byContact ListDealsOutput
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].(*mcp.TextContent).Text), &byContact))
	require.NotEmpty(t, byContact.Deals)
	for _, d := range byContact.Deals {
		assert.Equal(t, 1, d.ContactID)
	}

	result, err = callTool(t, session, "get_deal", map[string]any{"id": "five"})
	assert.True(t, err != nil || result.IsError, "non-numeric id must be rejected")
}

func connectTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	server := NewServer(setupTestCRM(t), "test")

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = server.Run(ctx, serverT) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "nexus-test", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestReadResources(t *testing.T) {
	session := connectTestSession(t)
	ctx := context.Background()

	result, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "crm://contacts/1"})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	var contact GetContactOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &contact))
	assert.Equal(t, "Sarah Johnson", contact.Contact.Name)
	require.NotEmpty(t, contact.Deals)
	assert.Equal(t, 1, contact.Deals[0].ID)

	result, err = session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "crm://pipeline"})
	require.NoError(t, err)
	var columns []pipelineColumn
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &columns))
	require.Len(t, columns, 5)
	assert.Equal(t, "Lead", columns[0].Stage)
	assert.Equal(t, 2, columns[0].Count)

	result, err = session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "crm://leads"})
	require.NoError(t, err)
	var leads []LeadOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &leads))
	assert.Len(t, leads, 5)

	_, err = session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "crm://deals/999"})
	require.Error(t, err)
}

func TestGetPrompts(t *testing.T) {
	session := connectTestSession(t)
	ctx := context.Background()

	prompts, err := session.ListPrompts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, prompts.Prompts, 3)

	result, err := session.GetPrompt(ctx, &mcp.GetPromptParams{
		Name:      "contact-summary",
		Arguments: map[string]string{"contact_id": "1"},
	})
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)
	text, ok := result.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Sarah Johnson")
	assert.Contains(t, text.Text, "TechCorp Enterprise License")

	result, err = session.GetPrompt(ctx, &mcp.GetPromptParams{Name: "pipeline-review"})
	require.NoError(t, err)
	text, ok = result.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Conversion rate: 25.0%")

	_, err = session.GetPrompt(ctx, &mcp.GetPromptParams{
		Name:      "lead-qualification",
		Arguments: map[string]string{"lead_id": "abc"},
	})
	require.Error(t, err)
}

func TestSearchCRM(t *testing.T) {
	h := NewQueryHandlers(setupTestCRM(t))
	ctx := context.Background()

	_, out, err := h.SearchCRM(ctx, nil, SearchCRMInput{Query: "techcorp"})
	require.NoError(t, err)
	require.Len(t, out.Contacts, 1)
	assert.Equal(t, "Sarah Johnson", out.Contacts[0].Name)
	require.Len(t, out.Deals, 1)
	assert.Equal(t, 1, out.Deals[0].ID)
	assert.Equal(t, 2, out.Count)

	_, dealsOnly, err := h.SearchCRM(ctx, nil, SearchCRMInput{Query: "techcorp", EntityType: "deal"})
	require.NoError(t, err)
	assert.Empty(t, dealsOnly.Contacts)
	assert.Len(t, dealsOnly.Deals, 1)

	_, _, err = h.SearchCRM(ctx, nil, SearchCRMInput{Query: "  "})
	require.Error(t, err)
	_, _, err = h.SearchCRM(ctx, nil, SearchCRMInput{Query: "x", EntityType: "company"})
	require.Error(t, err)
}

func TestGeneratePipelineGraph(t *testing.T) {
	h := NewVizHandlers(setupTestCRM(t))

	_, out, err := h.GeneratePipelineGraph(context.Background(), nil, GeneratePipelineGraphInput{})
	require.NoError(t, err)
	assert.Contains(t, out.DOTSource, "deal_1")
	assert.Equal(t, 13, out.NodeCount)
	assert.Positive(t, out.EdgeCount)
}
