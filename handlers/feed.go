// ABOUTME: Read-only MCP tool handlers for reps, the activity feed, and the dashboard
// ABOUTME: Implements list_sales_reps, list_activities, and get_dashboard tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
	"github.com/harperreed/nexus/viz"
)

type FeedHandlers struct {
	crm *service.CRM
}

func NewFeedHandlers(crm *service.CRM) *FeedHandlers {
	return &FeedHandlers{crm: crm}
}

type ListSalesRepsInput struct{}

type ListSalesRepsOutput struct {
	SalesReps []SalesRepOutput `json:"sales_reps"`
}

func (h *FeedHandlers) ListSalesReps(ctx context.Context, _ *mcp.CallToolRequest, _ ListSalesRepsInput) (*mcp.CallToolResult, ListSalesRepsOutput, error) {
	reps, err := h.crm.SalesReps.GetAll(ctx)
	if err != nil {
		return nil, ListSalesRepsOutput{}, fmt.Errorf("failed to list sales reps: %w", err)
	}

	result := make([]SalesRepOutput, len(reps))
	for i, r := range reps {
		result[i] = SalesRepOutput{ID: int(r.ID), Name: r.Name, Title: r.Title}
	}
	return nil, ListSalesRepsOutput{SalesReps: result}, nil
}

type ListActivitiesInput struct {
	EntityType string    `json:"entity_type,omitempty" jsonschema:"Restrict to one entity type: contact, deal, or lead"`
	EntityID   models.ID `json:"entity_id,omitempty" jsonschema:"Restrict to one entity (requires entity_type)"`
	Limit      int       `json:"limit,omitempty" jsonschema:"Maximum number of results (default 20, or 10 for one entity)"`
}

type ListActivitiesOutput struct {
	Activities []ActivityOutput `json:"activities"`
}

func (h *FeedHandlers) ListActivities(ctx context.Context, _ *mcp.CallToolRequest, input ListActivitiesInput) (*mcp.CallToolResult, ListActivitiesOutput, error) {
	var (
		activities []models.Activity
		err        error
	)
	switch {
	case input.EntityID > 0 && input.EntityType == "":
		return nil, ListActivitiesOutput{}, fmt.Errorf("entity_type is required with entity_id")
	case input.EntityID > 0:
		activities, err = h.crm.Activities.GetByEntityID(ctx, models.EntityType(input.EntityType), input.EntityID, input.Limit)
	default:
		activities, err = h.crm.Activities.GetAll(ctx, input.Limit)
	}
	if err != nil {
		return nil, ListActivitiesOutput{}, fmt.Errorf("failed to list activities: %w", err)
	}

	result := make([]ActivityOutput, len(activities))
	for i := range activities {
		result[i] = activityToOutput(&activities[i])
	}
	return nil, ListActivitiesOutput{Activities: result}, nil
}

type GetDashboardInput struct{}

type StageSummary struct {
	Stage string  `json:"stage"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

type DashboardOutput struct {
	TotalContacts  int              `json:"total_contacts"`
	ActiveDeals    int              `json:"active_deals"`
	PipelineValue  float64          `json:"pipeline_value"`
	ConversionRate float64          `json:"conversion_rate"`
	Stages         []StageSummary   `json:"stages"`
	RecentContacts []ContactOutput  `json:"recent_contacts"`
	RecentActivity []ActivityOutput `json:"recent_activity"`
}

func (h *FeedHandlers) GetDashboard(ctx context.Context, _ *mcp.CallToolRequest, _ GetDashboardInput) (*mcp.CallToolResult, DashboardOutput, error) {
	stats, err := viz.GenerateDashboardStats(ctx, h.crm)
	if err != nil {
		return nil, DashboardOutput{}, fmt.Errorf("failed to build dashboard: %w", err)
	}

	out := DashboardOutput{
		TotalContacts:  stats.TotalContacts,
		ActiveDeals:    stats.ActiveDeals,
		PipelineValue:  stats.PipelineValue,
		ConversionRate: stats.ConversionRate,
		Stages:         make([]StageSummary, len(stats.PipelineByStage)),
		RecentContacts: make([]ContactOutput, len(stats.RecentContacts)),
		RecentActivity: make([]ActivityOutput, len(stats.RecentActivity)),
	}
	for i, s := range stats.PipelineByStage {
		out.Stages[i] = StageSummary{Stage: string(s.Stage), Count: s.Count, Value: s.Value}
	}
	for i := range stats.RecentContacts {
		out.RecentContacts[i] = contactToOutput(&stats.RecentContacts[i])
	}
	for i := range stats.RecentActivity {
		out.RecentActivity[i] = activityToOutput(&stats.RecentActivity[i])
	}
	return nil, out, nil
}
