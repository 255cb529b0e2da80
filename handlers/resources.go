// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Provides read-only access to contacts, deals, leads, and the pipeline via URI
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
	"github.com/harperreed/nexus/viz"
)

const resourceScheme = "crm://"

type ResourceHandlers struct {
	crm *service.CRM
}

func NewResourceHandlers(crm *service.CRM) *ResourceHandlers {
	return &ResourceHandlers{crm: crm}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")

	var (
		payload any
		err     error
	)
	switch {
	case parts[0] == "contacts" && len(parts) == 1:
		payload, err = h.allContacts(ctx)
	case parts[0] == "contacts" && len(parts) == 2:
		payload, err = h.contact(ctx, uri, parts[1])
	case parts[0] == "deals" && len(parts) == 1:
		payload, err = h.allDeals(ctx)
	case parts[0] == "deals" && len(parts) == 2:
		payload, err = h.deal(ctx, uri, parts[1])
	case parts[0] == "leads" && len(parts) == 1:
		payload, err = h.allLeads(ctx)
	case parts[0] == "pipeline" && len(parts) == 1:
		payload, err = h.pipeline(ctx)
	default:
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", parts[0], err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

func (h *ResourceHandlers) allContacts(ctx context.Context) ([]ContactOutput, error) {
	contacts, err := h.crm.Contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}
	out := make([]ContactOutput, len(contacts))
	for i := range contacts {
		out[i] = contactToOutput(&contacts[i])
	}
	return out, nil
}

func (h *ResourceHandlers) contact(ctx context.Context, uri, idStr string) (*GetContactOutput, error) {
	id, err := parseResourceID(idStr)
	if err != nil {
		return nil, err
	}

	detail, err := h.crm.ContactDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}
	if detail == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	out := contactDetailToOutput(detail)
	return &out, nil
}

func (h *ResourceHandlers) allDeals(ctx context.Context) ([]DealOutput, error) {
	deals, err := h.crm.Deals.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}
	out := make([]DealOutput, len(deals))
	for i := range deals {
		out[i] = dealToOutput(&deals[i])
	}
	return out, nil
}

func (h *ResourceHandlers) deal(ctx context.Context, uri, idStr string) (any, error) {
	id, err := parseResourceID(idStr)
	if err != nil {
		return nil, err
	}

	deal, err := h.crm.Deals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deal: %w", err)
	}
	if deal == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	history, err := h.crm.Activities.GetByEntityID(ctx, models.EntityDeal, id, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deal activity: %w", err)
	}

	dealData := struct {
		DealOutput
		Activities []ActivityOutput `json:"activities"`
	}{
		DealOutput: dealToOutput(deal),
		Activities: make([]ActivityOutput, len(history)),
	}
	for i := range history {
		dealData.Activities[i] = activityToOutput(&history[i])
	}
	return dealData, nil
}

func (h *ResourceHandlers) allLeads(ctx context.Context) ([]LeadOutput, error) {
	leads, err := h.crm.Leads.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}
	out := make([]LeadOutput, len(leads))
	for i := range leads {
		out[i] = leadToOutput(&leads[i])
	}
	return out, nil
}

type pipelineCard struct {
	DealID            int     `json:"deal_id"`
	Title             string  `json:"title"`
	Value             float64 `json:"value"`
	Company           string  `json:"company"`
	SalesRep          string  `json:"sales_rep,omitempty"`
	DaysInStage       int     `json:"days_in_stage"`
	ExpectedCloseDate string  `json:"expected_close_date,omitempty"`
}

type pipelineColumn struct {
	Stage string         `json:"stage"`
	Count int            `json:"count"`
	Value float64        `json:"total_value"`
	Deals []pipelineCard `json:"deals"`
}

func (h *ResourceHandlers) pipeline(ctx context.Context) ([]pipelineColumn, error) {
	board, err := viz.LoadBoard(ctx, h.crm, time.Now())
	if err != nil {
		return nil, err
	}

	columns := make([]pipelineColumn, 0, len(board.Columns))
	for _, col := range board.Columns {
		pc := pipelineColumn{
			Stage: string(col.Stage),
			Count: col.Count,
			Value: col.Value,
			Deals: make([]pipelineCard, 0, len(col.Cards)),
		}
		for _, card := range col.Cards {
			c := pipelineCard{
				DealID:      int(card.DealID),
				Title:       card.Title,
				Value:       card.Value,
				Company:     card.Company,
				SalesRep:    card.SalesRep,
				DaysInStage: card.DaysInStage,
			}
			if card.ExpectedCloseDate != nil {
				c.ExpectedCloseDate = card.ExpectedCloseDate.Format(time.DateOnly)
			}
			pc.Deals = append(pc.Deals, c)
		}
		columns = append(columns, pc)
	}
	return columns, nil
}

func parseResourceID(s string) (models.ID, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid ID %q", s)
	}
	return models.ID(n), nil
}
