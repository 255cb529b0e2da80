// ABOUTME: Universal search tool handler
// ABOUTME: Case-insensitive text search across contacts, deals, and leads
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/nexus/service"
)

const defaultSearchLimit = 10

type QueryHandlers struct {
	crm *service.CRM
}

func NewQueryHandlers(crm *service.CRM) *QueryHandlers {
	return &QueryHandlers{crm: crm}
}

type SearchCRMInput struct {
	Query      string `json:"query" jsonschema:"Text to match against names, emails, companies, and deal titles (required)"`
	EntityType string `json:"entity_type,omitempty" jsonschema:"Restrict to one type: contact, deal, or lead"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum results per type (default 10)"`
}

type SearchCRMOutput struct {
	Query    string          `json:"query"`
	Contacts []ContactOutput `json:"contacts"`
	Deals    []DealOutput    `json:"deals"`
	Leads    []LeadOutput    `json:"leads"`
	Count    int             `json:"count"`
}

func (h *QueryHandlers) SearchCRM(ctx context.Context, _ *mcp.CallToolRequest, input SearchCRMInput) (*mcp.CallToolResult, SearchCRMOutput, error) {
	query := strings.ToLower(strings.TrimSpace(input.Query))
	if query == "" {
		return nil, SearchCRMOutput{}, fmt.Errorf("query is required")
	}
	if input.Limit <= 0 {
		input.Limit = defaultSearchLimit
	}

	want := func(entity string) bool { return input.EntityType == "" || input.EntityType == entity }
	switch input.EntityType {
	case "", "contact", "deal", "lead":
	default:
		return nil, SearchCRMOutput{}, fmt.Errorf("invalid entity_type: %s (valid: contact, deal, lead)", input.EntityType)
	}

	out := SearchCRMOutput{
		Query:    input.Query,
		Contacts: []ContactOutput{},
		Deals:    []DealOutput{},
		Leads:    []LeadOutput{},
	}

	if want("contact") {
		contacts, err := h.crm.Contacts.GetAll(ctx)
		if err != nil {
			return nil, SearchCRMOutput{}, fmt.Errorf("failed to search contacts: %w", err)
		}
		for i := range contacts {
			c := &contacts[i]
			if len(out.Contacts) < input.Limit && matches(query, c.Name, c.Email, c.Company, strings.Join(c.Tags, " ")) {
				out.Contacts = append(out.Contacts, contactToOutput(c))
			}
		}
	}

	if want("deal") {
		deals, err := h.crm.Deals.GetAll(ctx)
		if err != nil {
			return nil, SearchCRMOutput{}, fmt.Errorf("failed to search deals: %w", err)
		}
		for i := range deals {
			d := &deals[i]
			if len(out.Deals) < input.Limit && matches(query, d.Title, d.Notes) {
				out.Deals = append(out.Deals, dealToOutput(d))
			}
		}
	}

	if want("lead") {
		leads, err := h.crm.Leads.GetAll(ctx)
		if err != nil {
			return nil, SearchCRMOutput{}, fmt.Errorf("failed to search leads: %w", err)
		}
		for i := range leads {
			l := &leads[i]
			if len(out.Leads) < input.Limit && matches(query, l.Name, l.Email, l.Company) {
				out.Leads = append(out.Leads, leadToOutput(l))
			}
		}
	}

	out.Count = len(out.Contacts) + len(out.Deals) + len(out.Leads)
	return nil, out, nil
}

// matches reports whether any field contains the already lower-cased query.
func matches(query string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
