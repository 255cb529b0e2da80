// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements list_contacts, get_contact, create_contact, update_contact, and delete_contact tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
)

type ContactHandlers struct {
	crm *service.CRM
}

func NewContactHandlers(crm *service.CRM) *ContactHandlers {
	return &ContactHandlers{crm: crm}
}

type ListContactsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of results (default all)"`
}

type ListContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *ContactHandlers) ListContacts(ctx context.Context, _ *mcp.CallToolRequest, input ListContactsInput) (*mcp.CallToolResult, ListContactsOutput, error) {
	contacts, err := h.crm.Contacts.GetAll(ctx)
	if err != nil {
		return nil, ListContactsOutput{}, fmt.Errorf("failed to list contacts: %w", err)
	}
	if input.Limit > 0 && len(contacts) > input.Limit {
		contacts = contacts[:input.Limit]
	}

	result := make([]ContactOutput, len(contacts))
	for i := range contacts {
		result[i] = contactToOutput(&contacts[i])
	}
	return nil, ListContactsOutput{Contacts: result}, nil
}

type GetContactInput struct {
	ID models.ID `json:"id" jsonschema:"Contact ID (required)"`
}

type GetContactOutput struct {
	Contact    ContactOutput    `json:"contact"`
	Deals      []DealOutput     `json:"deals"`
	Activities []ActivityOutput `json:"activities"`
}

func (h *ContactHandlers) GetContact(ctx context.Context, _ *mcp.CallToolRequest, input GetContactInput) (*mcp.CallToolResult, GetContactOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, GetContactOutput{}, err
	}

	detail, err := h.crm.ContactDetail(ctx, id)
	if err != nil {
		return nil, GetContactOutput{}, err
	}
	if detail == nil {
		return nil, GetContactOutput{}, fmt.Errorf("contact %d not found", id)
	}

	return nil, contactDetailToOutput(detail), nil
}

func contactDetailToOutput(detail *service.ContactDetail) GetContactOutput {
	out := GetContactOutput{
		Contact:    contactToOutput(&detail.Contact),
		Deals:      make([]DealOutput, len(detail.Deals)),
		Activities: make([]ActivityOutput, len(detail.Activities)),
	}
	for i := range detail.Deals {
		out.Deals[i] = dealToOutput(&detail.Deals[i])
	}
	for i := range detail.Activities {
		out.Activities[i] = activityToOutput(&detail.Activities[i])
	}
	return out
}

type CreateContactInput struct {
	Name    string   `json:"name" jsonschema:"Contact name (required)"`
	Email   string   `json:"email" jsonschema:"Contact email address (required)"`
	Phone   string   `json:"phone,omitempty" jsonschema:"Contact phone number"`
	Company string   `json:"company,omitempty" jsonschema:"Company the contact works for"`
	Tags    []string `json:"tags,omitempty" jsonschema:"Free-form tags"`
	Notes   string   `json:"notes,omitempty" jsonschema:"Additional notes about the contact"`
}

func (h *ContactHandlers) CreateContact(ctx context.Context, _ *mcp.CallToolRequest, input CreateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	draft := models.Contact{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
		Tags:    input.Tags,
		Notes:   input.Notes,
	}
	if err := draft.Validate(); err != nil {
		return nil, ContactOutput{}, err
	}

	contact, err := h.crm.CreateContact(ctx, draft)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return nil, contactToOutput(contact), nil
}

type UpdateContactInput struct {
	ID      models.ID `json:"id" jsonschema:"Contact ID (required)"`
	Name    *string   `json:"name,omitempty" jsonschema:"Updated contact name"`
	Email   *string   `json:"email,omitempty" jsonschema:"Updated email address"`
	Phone   *string   `json:"phone,omitempty" jsonschema:"Updated phone number"`
	Company *string   `json:"company,omitempty" jsonschema:"Updated company"`
	Tags    *[]string `json:"tags,omitempty" jsonschema:"Replacement tag list"`
	Notes   *string   `json:"notes,omitempty" jsonschema:"Updated notes"`
}

func (h *ContactHandlers) UpdateContact(ctx context.Context, _ *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, ContactOutput{}, err
	}

	patch := models.ContactPatch{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
		Tags:    input.Tags,
		Notes:   input.Notes,
	}

	current, err := h.crm.Contacts.GetByID(ctx, id)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if current == nil {
		return nil, ContactOutput{}, fmt.Errorf("contact %d not found", id)
	}
	merged := current.Clone()
	patch.Apply(&merged)
	if err := merged.Validate(); err != nil {
		return nil, ContactOutput{}, err
	}

	contact, err := h.crm.UpdateContact(ctx, id, patch)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}
	return nil, contactToOutput(contact), nil
}

type DeleteContactInput struct {
	ID models.ID `json:"id" jsonschema:"Contact ID (required)"`
}

func (h *ContactHandlers) DeleteContact(ctx context.Context, _ *mcp.CallToolRequest, input DeleteContactInput) (*mcp.CallToolResult, DeleteOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	if err := h.crm.DeleteContact(ctx, id); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil, DeleteOutput{ID: int(id), Message: "contact deleted"}, nil
}
