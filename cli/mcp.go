// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/nexus/handlers"
	"github.com/harperreed/nexus/service"
)

// MCPCommand starts the MCP server on stdio.
func MCPCommand(ctx context.Context, crm *service.CRM, version string, logger *log.Logger) error {
	logger.Info("starting nexus MCP server", "version", version)

	server := handlers.NewServer(crm, version)
	return server.Run(ctx, &mcp.StdioTransport{})
}
