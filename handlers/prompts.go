// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Builds contact, pipeline, and lead prompts from live CRM data
package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
	"github.com/harperreed/nexus/viz"
)

type PromptHandlers struct {
	crm *service.CRM
}

func NewPromptHandlers(crm *service.CRM) *PromptHandlers {
	return &PromptHandlers{crm: crm}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "contact-summary":
		return h.getContactSummaryPrompt(ctx, arguments)
	case "pipeline-review":
		return h.getPipelineReviewPrompt(ctx)
	case "lead-qualification":
		return h.getLeadQualificationPrompt(ctx, arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func promptID(args map[string]string, key string) (models.ID, error) {
	raw, ok := args[key]
	if !ok || raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return models.ID(id), nil
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}

func (h *PromptHandlers) getContactSummaryPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	id, err := promptID(args, "contact_id")
	if err != nil {
		return nil, err
	}

	detail, err := h.crm.ContactDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}
	if detail == nil {
		return nil, fmt.Errorf("contact %d not found", id)
	}
	contact := detail.Contact

	var promptText strings.Builder
	promptText.WriteString("Please provide a comprehensive summary of this contact:\n\n")
	promptText.WriteString(fmt.Sprintf("Name: %s\n", contact.Name))
	if contact.Email != "" {
		promptText.WriteString(fmt.Sprintf("Email: %s\n", contact.Email))
	}
	if contact.Phone != "" {
		promptText.WriteString(fmt.Sprintf("Phone: %s\n", contact.Phone))
	}
	if contact.Company != "" {
		promptText.WriteString(fmt.Sprintf("Company: %s\n", contact.Company))
	}
	if len(contact.Tags) > 0 {
		promptText.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(contact.Tags, ", ")))
	}
	if contact.Notes != "" {
		promptText.WriteString(fmt.Sprintf("\nNotes: %s\n", contact.Notes))
	}

	if len(detail.Deals) > 0 {
		promptText.WriteString("\nDeals:\n")
		for _, d := range detail.Deals {
			promptText.WriteString(fmt.Sprintf("- %s: %s, %s\n", d.Title, d.Stage, viz.FormatMoney(d.Value)))
		}
	}
	if len(detail.Activities) > 0 {
		promptText.WriteString("\nRecent activity:\n")
		for _, a := range detail.Activities {
			promptText.WriteString(fmt.Sprintf("- %s %s\n", a.Timestamp.Format("2006-01-02"), a.Description))
		}
	}

	promptText.WriteString("\nPlease analyze this contact and provide:")
	promptText.WriteString("\n1. A brief summary of the relationship so far")
	promptText.WriteString("\n2. Recommendations for next steps on their open deals")
	promptText.WriteString("\n3. Any risks visible in the activity history")

	return userPrompt(fmt.Sprintf("Summary for contact: %s", contact.Name), promptText.String()), nil
}

func (h *PromptHandlers) getPipelineReviewPrompt(ctx context.Context) (*mcp.GetPromptResult, error) {
	stats, err := viz.GenerateDashboardStats(ctx, h.crm)
	if err != nil {
		return nil, err
	}

	var promptText strings.Builder
	promptText.WriteString("Please review the current sales pipeline:\n\n")
	promptText.WriteString(fmt.Sprintf("Active deals: %d of %d\n", stats.ActiveDeals, stats.TotalDeals))
	promptText.WriteString(fmt.Sprintf("Pipeline value: %s\n", viz.FormatMoney(stats.PipelineValue)))
	promptText.WriteString(fmt.Sprintf("Conversion rate: %.1f%%\n", stats.ConversionRate))

	promptText.WriteString("\nBy stage:\n")
	for _, s := range stats.PipelineByStage {
		promptText.WriteString(fmt.Sprintf("- %s: %d deals, %s\n", s.Stage, s.Count, viz.FormatMoney(s.Value)))
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Where deals are stalling")
	promptText.WriteString("\n2. Which stage needs attention this week")
	promptText.WriteString("\n3. A forecast of what is likely to close")

	return userPrompt("Pipeline review", promptText.String()), nil
}

func (h *PromptHandlers) getLeadQualificationPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	id, err := promptID(args, "lead_id")
	if err != nil {
		return nil, err
	}

	lead, err := h.crm.Leads.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lead: %w", err)
	}
	if lead == nil {
		return nil, fmt.Errorf("lead %d not found", id)
	}

	var promptText strings.Builder
	promptText.WriteString("Please assess whether this lead is worth qualifying:\n\n")
	promptText.WriteString(fmt.Sprintf("Name: %s\n", lead.Name))
	promptText.WriteString(fmt.Sprintf("Company: %s\n", lead.Company))
	promptText.WriteString(fmt.Sprintf("Status: %s\n", lead.Status))
	if lead.Source != "" {
		promptText.WriteString(fmt.Sprintf("Source: %s\n", lead.Source))
	}
	promptText.WriteString(fmt.Sprintf("Estimated value: %s\n", viz.FormatMoney(lead.Value)))
	if lead.Notes != "" {
		promptText.WriteString(fmt.Sprintf("\nNotes: %s\n", lead.Notes))
	}

	promptText.WriteString("\nPlease recommend the next status for this lead and the first outreach step.")

	return userPrompt(fmt.Sprintf("Qualification for lead: %s", lead.Name), promptText.String()), nil
}
