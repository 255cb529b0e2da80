// ABOUTME: Lead MCP tool handlers
// ABOUTME: Implements list_leads, get_lead, create_lead, update_lead, and delete_lead tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
)

type LeadHandlers struct {
	crm *service.CRM
}

func NewLeadHandlers(crm *service.CRM) *LeadHandlers {
	return &LeadHandlers{crm: crm}
}

type ListLeadsInput struct {
	Status string `json:"status,omitempty" jsonschema:"Only leads with this status (new, contacted, qualified, lost)"`
}

type ListLeadsOutput struct {
	Leads []LeadOutput `json:"leads"`
}

func (h *LeadHandlers) ListLeads(ctx context.Context, _ *mcp.CallToolRequest, input ListLeadsInput) (*mcp.CallToolResult, ListLeadsOutput, error) {
	leads, err := h.crm.Leads.GetAll(ctx)
	if err != nil {
		return nil, ListLeadsOutput{}, fmt.Errorf("failed to list leads: %w", err)
	}

	result := []LeadOutput{}
	for i := range leads {
		if input.Status != "" && string(leads[i].Status) != input.Status {
			continue
		}
		result = append(result, leadToOutput(&leads[i]))
	}
	return nil, ListLeadsOutput{Leads: result}, nil
}

type GetLeadInput struct {
	ID models.ID `json:"id" jsonschema:"Lead ID (required)"`
}

func (h *LeadHandlers) GetLead(ctx context.Context, _ *mcp.CallToolRequest, input GetLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, LeadOutput{}, err
	}
	lead, err := h.crm.Leads.GetByID(ctx, id)
	if err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to get lead: %w", err)
	}
	if lead == nil {
		return nil, LeadOutput{}, fmt.Errorf("lead %d not found", id)
	}
	return nil, leadToOutput(lead), nil
}

type CreateLeadInput struct {
	Name    string   `json:"name" jsonschema:"Lead name (required)"`
	Email   string   `json:"email" jsonschema:"Lead email address (required)"`
	Phone   string   `json:"phone,omitempty" jsonschema:"Phone number"`
	Company string   `json:"company" jsonschema:"Company name (required)"`
	Status  string   `json:"status,omitempty" jsonschema:"Lead status (default new)"`
	Source  string   `json:"source,omitempty" jsonschema:"Where the lead came from"`
	Value   float64  `json:"value,omitempty" jsonschema:"Estimated value in dollars"`
	Tags    []string `json:"tags,omitempty" jsonschema:"Free-form tags"`
	Notes   string   `json:"notes,omitempty" jsonschema:"Additional notes"`
}

func (h *LeadHandlers) CreateLead(ctx context.Context, _ *mcp.CallToolRequest, input CreateLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	draft := models.Lead{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
		Status:  models.LeadStatus(input.Status),
		Source:  input.Source,
		Value:   input.Value,
		Tags:    input.Tags,
		Notes:   input.Notes,
	}
	if err := draft.Validate(); err != nil {
		return nil, LeadOutput{}, err
	}

	lead, err := h.crm.CreateLead(ctx, draft)
	if err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to create lead: %w", err)
	}
	return nil, leadToOutput(lead), nil
}

type UpdateLeadInput struct {
	ID      models.ID `json:"id" jsonschema:"Lead ID (required)"`
	Name    *string   `json:"name,omitempty" jsonschema:"Updated name"`
	Email   *string   `json:"email,omitempty" jsonschema:"Updated email"`
	Phone   *string   `json:"phone,omitempty" jsonschema:"Updated phone"`
	Company *string   `json:"company,omitempty" jsonschema:"Updated company"`
	Status  *string   `json:"status,omitempty" jsonschema:"Updated status"`
	Source  *string   `json:"source,omitempty" jsonschema:"Updated source"`
	Value   *float64  `json:"value,omitempty" jsonschema:"Updated value"`
	Tags    *[]string `json:"tags,omitempty" jsonschema:"Replacement tag list"`
	Notes   *string   `json:"notes,omitempty" jsonschema:"Updated notes"`
}

func (h *LeadHandlers) UpdateLead(ctx context.Context, _ *mcp.CallToolRequest, input UpdateLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, LeadOutput{}, err
	}

	patch := models.LeadPatch{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
		Source:  input.Source,
		Value:   input.Value,
		Tags:    input.Tags,
		Notes:   input.Notes,
	}
	if input.Status != nil {
		status := models.LeadStatus(*input.Status)
		patch.Status = &status
	}

	current, err := h.crm.Leads.GetByID(ctx, id)
	if err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to get lead: %w", err)
	}
	if current == nil {
		return nil, LeadOutput{}, fmt.Errorf("lead %d not found", id)
	}
	merged := current.Clone()
	patch.Apply(&merged)
	if err := merged.Validate(); err != nil {
		return nil, LeadOutput{}, err
	}

	lead, err := h.crm.UpdateLead(ctx, id, patch)
	if err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to update lead: %w", err)
	}
	return nil, leadToOutput(lead), nil
}

type DeleteLeadInput struct {
	ID models.ID `json:"id" jsonschema:"Lead ID (required)"`
}

func (h *LeadHandlers) DeleteLead(ctx context.Context, _ *mcp.CallToolRequest, input DeleteLeadInput) (*mcp.CallToolResult, DeleteOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	if err := h.crm.DeleteLead(ctx, id); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete lead: %w", err)
	}
	return nil, DeleteOutput{ID: int(id), Message: "lead deleted"}, nil
}
