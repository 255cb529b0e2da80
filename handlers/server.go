// ABOUTME: MCP server assembly
// ABOUTME: Registers every CRM tool, resource, and prompt against a single service facade
package handlers

import (
	"fmt"
	"reflect"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
)

// idSchema lets agents send record ids as 5 or "5"; models.ID decodes both.
var idSchema = &jsonschema.Schema{
	Types:   []string{"integer", "string"},
	Pattern: `^\s*[0-9]+\s*$`,
}

// NewServer builds an MCP server exposing the CRM tools.
func NewServer(crm *service.CRM, version string) *mcp.Server {
	contacts := NewContactHandlers(crm)
	deals := NewDealHandlers(crm)
	leads := NewLeadHandlers(crm)
	feed := NewFeedHandlers(crm)
	query := NewQueryHandlers(crm)
	graphs := NewVizHandlers(crm)
	resources := NewResourceHandlers(crm)
	prompts := NewPromptHandlers(crm)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "nexus",
		Version: version,
	}, nil)

	addTool(server, &mcp.Tool{
		Name:        "list_contacts",
		Description: "List contacts in storage order",
	}, contacts.ListContacts)

	addTool(server, &mcp.Tool{
		Name:        "get_contact",
		Description: "Get a contact with its deals and recent activity",
	}, contacts.GetContact)

	addTool(server, &mcp.Tool{
		Name:        "create_contact",
		Description: "Add a new contact (name and email required)",
	}, contacts.CreateContact)

	addTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update fields of an existing contact; omitted fields are kept",
	}, contacts.UpdateContact)

	addTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact; deals referencing it are kept",
	}, contacts.DeleteContact)

	addTool(server, &mcp.Tool{
		Name:        "list_deals",
		Description: "List deals, optionally for one contact or one stage",
	}, deals.ListDeals)

	addTool(server, &mcp.Tool{
		Name:        "get_deal",
		Description: "Get a deal by ID",
	}, deals.GetDeal)

	addTool(server, &mcp.Tool{
		Name:        "create_deal",
		Description: "Create a deal for a contact (title, contact_id, and value required)",
	}, deals.CreateDeal)

	addTool(server, &mcp.Tool{
		Name:        "update_deal",
		Description: "Update fields of an existing deal; omitted fields are kept",
	}, deals.UpdateDeal)

	addTool(server, &mcp.Tool{
		Name:        "move_deal_stage",
		Description: "Move a deal to another pipeline stage and log the move",
	}, deals.MoveDealStage)

	addTool(server, &mcp.Tool{
		Name:        "delete_deal",
		Description: "Delete a deal",
	}, deals.DeleteDeal)

	addTool(server, &mcp.Tool{
		Name:        "list_leads",
		Description: "List leads, optionally filtered by status",
	}, leads.ListLeads)

	addTool(server, &mcp.Tool{
		Name:        "get_lead",
		Description: "Get a lead by ID",
	}, leads.GetLead)

	addTool(server, &mcp.Tool{
		Name:        "create_lead",
		Description: "Add a new lead (name, valid email, and company required)",
	}, leads.CreateLead)

	addTool(server, &mcp.Tool{
		Name:        "update_lead",
		Description: "Update fields of an existing lead; omitted fields are kept",
	}, leads.UpdateLead)

	addTool(server, &mcp.Tool{
		Name:        "delete_lead",
		Description: "Delete a lead",
	}, leads.DeleteLead)

	addTool(server, &mcp.Tool{
		Name:        "list_sales_reps",
		Description: "List the sales team",
	}, feed.ListSalesReps)

	addTool(server, &mcp.Tool{
		Name:        "list_activities",
		Description: "List recent activity, newest first, optionally for one entity",
	}, feed.ListActivities)

	addTool(server, &mcp.Tool{
		Name:        "get_dashboard",
		Description: "Pipeline totals, conversion rate, per-stage breakdown, and recent activity",
	}, feed.GetDashboard)

	addTool(server, &mcp.Tool{
		Name:        "search_crm",
		Description: "Search contacts, deals, and leads by text",
	}, query.SearchCRM)

	addTool(server, &mcp.Tool{
		Name:        "generate_pipeline_graph",
		Description: "Render the deal pipeline as Graphviz DOT source",
	}, graphs.GeneratePipelineGraph)

	registerResources(server, resources)
	registerPrompts(server, prompts)

	return server
}

func registerResources(server *mcp.Server, h *ResourceHandlers) {
	for _, r := range []*mcp.Resource{
		{URI: "crm://contacts", Name: "contacts", Description: "All contacts"},
		{URI: "crm://deals", Name: "deals", Description: "All deals"},
		{URI: "crm://leads", Name: "leads", Description: "All leads"},
		{URI: "crm://pipeline", Name: "pipeline", Description: "Deals grouped by stage with totals"},
	} {
		r.MIMEType = "application/json"
		server.AddResource(r, h.ReadResource)
	}

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "crm://contacts/{id}",
		Name:        "contact",
		Description: "A contact with its deals and recent activity",
		MIMEType:    "application/json",
	}, h.ReadResource)
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "crm://deals/{id}",
		Name:        "deal",
		Description: "A deal with its activity history",
		MIMEType:    "application/json",
	}, h.ReadResource)
}

func registerPrompts(server *mcp.Server, h *PromptHandlers) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "contact-summary",
		Description: "Summarize a contact, their deals, and recent activity",
		Arguments: []*mcp.PromptArgument{
			{Name: "contact_id", Description: "Contact ID", Required: true},
		},
	}, h.GetPrompt)
	server.AddPrompt(&mcp.Prompt{
		Name:        "pipeline-review",
		Description: "Review pipeline health from the dashboard figures",
	}, h.GetPrompt)
	server.AddPrompt(&mcp.Prompt{
		Name:        "lead-qualification",
		Description: "Assess a lead and suggest the next status",
		Arguments: []*mcp.PromptArgument{
			{Name: "lead_id", Description: "Lead ID", Required: true},
		},
	}, h.GetPrompt)
}

// addTool registers a tool with an input schema inferred from In, except
// that id fields accept numeric strings as well as integers.
func addTool[In, Out any](server *mcp.Server, tool *mcp.Tool, handler mcp.ToolHandlerFor[In, Out]) {
	schema, err := jsonschema.For[In](&jsonschema.ForOptions{
		TypeSchemas: map[reflect.Type]*jsonschema.Schema{
			reflect.TypeFor[models.ID](): idSchema,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("failed to infer input schema for %s: %v", tool.Name, err))
	}
	tool.InputSchema = schema
	mcp.AddTool(server, tool, handler)
}
