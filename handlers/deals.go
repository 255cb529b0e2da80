// ABOUTME: Deal MCP tool handlers
// ABOUTME: Implements deal CRUD tools plus move_deal_stage for pipeline moves
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
)

type DealHandlers struct {
	crm *service.CRM
}

func NewDealHandlers(crm *service.CRM) *DealHandlers {
	return &DealHandlers{crm: crm}
}

type ListDealsInput struct {
	ContactID models.ID `json:"contact_id,omitempty" jsonschema:"Only deals for this contact"`
	Stage     string    `json:"stage,omitempty" jsonschema:"Only deals in this stage (Lead, Qualified, Proposal, Negotiation, Closed)"`
}

type ListDealsOutput struct {
	Deals []DealOutput `json:"deals"`
}

func (h *DealHandlers) ListDeals(ctx context.Context, _ *mcp.CallToolRequest, input ListDealsInput) (*mcp.CallToolResult, ListDealsOutput, error) {
	var stage models.Stage
	if input.Stage != "" {
		s, err := models.ParseStage(input.Stage)
		if err != nil {
			return nil, ListDealsOutput{}, err
		}
		stage = s
	}

	var (
		deals []models.Deal
		err   error
	)
	if input.ContactID > 0 {
		deals, err = h.crm.Deals.GetByContactID(ctx, input.ContactID)
	} else {
		deals, err = h.crm.Deals.GetAll(ctx)
	}
	if err != nil {
		return nil, ListDealsOutput{}, fmt.Errorf("failed to list deals: %w", err)
	}

	result := []DealOutput{}
	for i := range deals {
		if stage != "" && deals[i].Stage != stage {
			continue
		}
		result = append(result, dealToOutput(&deals[i]))
	}
	return nil, ListDealsOutput{Deals: result}, nil
}

type GetDealInput struct {
	ID models.ID `json:"id" jsonschema:"Deal ID (required)"`
}

func (h *DealHandlers) GetDeal(ctx context.Context, _ *mcp.CallToolRequest, input GetDealInput) (*mcp.CallToolResult, DealOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, DealOutput{}, err
	}
	deal, err := h.crm.Deals.GetByID(ctx, id)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to get deal: %w", err)
	}
	if deal == nil {
		return nil, DealOutput{}, fmt.Errorf("deal %d not found", id)
	}
	return nil, dealToOutput(deal), nil
}

type CreateDealInput struct {
	Title             string    `json:"title" jsonschema:"Deal title (required)"`
	ContactID         models.ID `json:"contact_id" jsonschema:"Contact ID the deal belongs to (required)"`
	SalesRepID        models.ID `json:"sales_rep_id,omitempty" jsonschema:"Assigned sales rep ID"`
	Stage             string    `json:"stage,omitempty" jsonschema:"Pipeline stage (default Lead)"`
	Value             float64   `json:"value" jsonschema:"Deal value in dollars (required)"`
	ExpectedCloseDate string    `json:"expected_close_date,omitempty" jsonschema:"Expected close date (YYYY-MM-DD)"`
	Notes             string    `json:"notes,omitempty" jsonschema:"Additional notes"`
}

func (h *DealHandlers) CreateDeal(ctx context.Context, _ *mcp.CallToolRequest, input CreateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	closeDate, err := parseDate(input.ExpectedCloseDate)
	if err != nil {
		return nil, DealOutput{}, err
	}

	draft := models.Deal{
		Title:             input.Title,
		ContactID:         input.ContactID,
		Stage:             models.Stage(input.Stage),
		Value:             input.Value,
		ExpectedCloseDate: closeDate,
		Notes:             input.Notes,
	}
	if input.SalesRepID > 0 {
		rep := input.SalesRepID
		draft.SalesRepID = &rep
	}
	if err := draft.Validate(); err != nil {
		return nil, DealOutput{}, err
	}

	deal, err := h.crm.CreateDeal(ctx, draft)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to create deal: %w", err)
	}
	return nil, dealToOutput(deal), nil
}

type UpdateDealInput struct {
	ID                models.ID  `json:"id" jsonschema:"Deal ID (required)"`
	Title             *string    `json:"title,omitempty" jsonschema:"Updated title"`
	ContactID         *models.ID `json:"contact_id,omitempty" jsonschema:"Updated contact ID"`
	SalesRepID        *models.ID `json:"sales_rep_id,omitempty" jsonschema:"Updated sales rep ID (0 clears the rep)"`
	Stage             *string    `json:"stage,omitempty" jsonschema:"Updated stage"`
	Value             *float64   `json:"value,omitempty" jsonschema:"Updated value"`
	ExpectedCloseDate *string    `json:"expected_close_date,omitempty" jsonschema:"Updated expected close date (YYYY-MM-DD)"`
	Notes             *string    `json:"notes,omitempty" jsonschema:"Updated notes"`
}

func (h *DealHandlers) UpdateDeal(ctx context.Context, _ *mcp.CallToolRequest, input UpdateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, DealOutput{}, err
	}

	patch := models.DealPatch{
		Title:     input.Title,
		ContactID: input.ContactID,
		Value:     input.Value,
		Notes:     input.Notes,
	}
	if input.SalesRepID != nil {
		if *input.SalesRepID == 0 {
			patch.ClearSalesRep = true
		} else {
			patch.SalesRepID = input.SalesRepID
		}
	}
	if input.Stage != nil {
		stage, err := models.ParseStage(*input.Stage)
		if err != nil {
			return nil, DealOutput{}, err
		}
		patch.Stage = &stage
	}
	if input.ExpectedCloseDate != nil {
		closeDate, err := parseDate(*input.ExpectedCloseDate)
		if err != nil {
			return nil, DealOutput{}, err
		}
		patch.ExpectedCloseDate = closeDate
	}

	current, err := h.crm.Deals.GetByID(ctx, id)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to get deal: %w", err)
	}
	if current == nil {
		return nil, DealOutput{}, fmt.Errorf("deal %d not found", id)
	}
	merged := current.Clone()
	patch.Apply(&merged)
	if err := merged.Validate(); err != nil {
		return nil, DealOutput{}, err
	}

	deal, err := h.crm.UpdateDeal(ctx, id, patch)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to update deal: %w", err)
	}
	return nil, dealToOutput(deal), nil
}

type MoveDealStageInput struct {
	ID    models.ID `json:"id" jsonschema:"Deal ID (required)"`
	Stage string    `json:"stage" jsonschema:"Target stage: Lead, Qualified, Proposal, Negotiation, or Closed (required)"`
}

type MoveDealStageOutput struct {
	Deal  DealOutput `json:"deal"`
	Moved bool       `json:"moved"`
}

func (h *DealHandlers) MoveDealStage(ctx context.Context, _ *mcp.CallToolRequest, input MoveDealStageInput) (*mcp.CallToolResult, MoveDealStageOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, MoveDealStageOutput{}, err
	}
	stage, err := models.ParseStage(input.Stage)
	if err != nil {
		return nil, MoveDealStageOutput{}, err
	}

	deal, moved, err := h.crm.MoveDeal(ctx, id, stage)
	if err != nil {
		return nil, MoveDealStageOutput{}, fmt.Errorf("failed to move deal: %w", err)
	}
	return nil, MoveDealStageOutput{Deal: dealToOutput(deal), Moved: moved}, nil
}

type DeleteDealInput struct {
	ID models.ID `json:"id" jsonschema:"Deal ID (required)"`
}

func (h *DealHandlers) DeleteDeal(ctx context.Context, _ *mcp.CallToolRequest, input DeleteDealInput) (*mcp.CallToolResult, DeleteOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	if err := h.crm.DeleteDeal(ctx, id); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete deal: %w", err)
	}
	return nil, DeleteOutput{ID: int(id), Message: "deal deleted"}, nil
}
