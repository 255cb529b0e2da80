// ABOUTME: Entry point for the nexus CRM MCP server and CLI
// ABOUTME: Loads config, opens the store, and routes to MCP, TUI, or CLI commands
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/harperreed/nexus/cli"
	"github.com/harperreed/nexus/config"
	"github.com/harperreed/nexus/kv"
	"github.com/harperreed/nexus/service"
	"github.com/harperreed/nexus/tui"
)

const version = "0.1.0"

// errUsage marks a bad invocation; usage has already been printed.
var errUsage = errors.New("invalid usage")

type command func(ctx context.Context, crm *service.CRM, args []string) error

var crmCommands = map[string]command{
	"add-contact":     cli.AddContactCommand,
	"list-contacts":   cli.ListContactsCommand,
	"show-contact":    cli.ShowContactCommand,
	"update-contact":  cli.UpdateContactCommand,
	"delete-contact":  cli.DeleteContactCommand,
	"add-deal":        cli.AddDealCommand,
	"list-deals":      cli.ListDealsCommand,
	"update-deal":     cli.UpdateDealCommand,
	"move-deal":       cli.MoveDealCommand,
	"delete-deal":     cli.DeleteDealCommand,
	"add-lead":        cli.AddLeadCommand,
	"list-leads":      cli.ListLeadsCommand,
	"update-lead":     cli.UpdateLeadCommand,
	"delete-lead":     cli.DeleteLeadCommand,
	"list-activities": cli.ListActivitiesCommand,
	"list-reps":       cli.ListSalesRepsCommand,
}

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	configPath := flag.String("config", "", "Config file (default: ~/.local/share/nexus/config.json)")
	dataDir := flag.String("data-dir", "", "Data directory (default: ~/.local/share/nexus)")
	backend := flag.String("backend", "", "Storage backend: badger or sqlite")
	latency := flag.Bool("latency", false, "Simulate remote backend latency")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("nexus version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *latency {
		cfg.SimulateLatency = true
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "nexus",
		Level:           cfg.Level(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger, args)
	stop()

	if errors.Is(err, errUsage) {
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// run opens the store for the duration of one command so it is always
// closed, including when the command fails.
func run(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	store, err := kv.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Backend, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close store", "err", err)
		}
	}()

	crm, err := service.New(store, service.Options{
		Logger:          logger,
		SimulateLatency: cfg.SimulateLatency,
		PersistLeads:    cfg.PersistLeads,
	})
	if err != nil {
		return err
	}

	command, commandArgs := args[0], args[1:]
	if command != "mcp" {
		logger.Debug("opened store", "backend", cfg.Backend, "dir", cfg.DataDir)
	}

	switch command {
	case "mcp":
		return cli.MCPCommand(ctx, crm, version, logger)

	case "crm":
		if len(commandArgs) == 0 {
			fmt.Println("Error: crm requires a subcommand")
			printUsage()
			return errUsage
		}
		cmd, ok := crmCommands[commandArgs[0]]
		if !ok {
			fmt.Printf("Unknown crm command: %s\n\n", commandArgs[0])
			printUsage()
			return errUsage
		}
		return cmd(ctx, crm, commandArgs[1:])

	case "dashboard":
		return cli.DashboardCommand(ctx, crm, commandArgs)

	case "board":
		p := tea.NewProgram(tui.NewModel(ctx, crm), tea.WithAltScreen(), tea.WithContext(ctx))
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err

	case "viz":
		if len(commandArgs) < 2 || commandArgs[0] != "graph" || commandArgs[1] != "pipeline" {
			fmt.Println("Error: viz supports 'graph pipeline'")
			printUsage()
			return errUsage
		}
		return cli.VizGraphPipelineCommand(ctx, crm, commandArgs[2:])

	case "reset":
		return cli.ResetCommand(ctx, crm, commandArgs)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		return errUsage
	}
}

func printUsage() {
	fmt.Printf(`nexus v%s - Sales pipeline CRM

USAGE:
  nexus [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --config <path>        Config file (default: ~/.local/share/nexus/config.json)
  --data-dir <path>      Data directory (default: ~/.local/share/nexus)
  --backend <name>       Storage backend: badger (default) or sqlite
  --latency              Simulate remote backend latency

COMMANDS:
  mcp                    Start MCP server for Claude Desktop
  crm                    CRM management commands
  dashboard              Print the pipeline dashboard
  board                  Interactive pipeline board
  viz                    Visualization commands
  reset                  Discard stored data and reseed fixtures

CRM COMMANDS:
  nexus crm add-contact     Add a new contact
    --name <name>             Contact name (required)
    --email <email>           Email address (required)
    --phone <phone>           Phone number
    --company <company>       Company name
    --tags <a,b>              Comma separated tags
    --notes <notes>           Notes about contact

  nexus crm list-contacts   List contacts
    --limit <n>               Max results (default: 50)

  nexus crm show-contact <id>     Show a contact with deals and activity
  nexus crm update-contact [flags] <id>  Update an existing contact
    Note: flags must come before the contact ID
  nexus crm delete-contact <id>   Delete a contact

  nexus crm add-deal        Add a new deal
    --title <title>           Deal title (required)
    --contact <id>            Contact ID (required)
    --rep <id>                Sales rep ID
    --value <amount>          Deal value
    --stage <stage>           Lead, Qualified, Proposal, Negotiation, Closed (default: Lead)
    --close <YYYY-MM-DD>      Expected close date
    --notes <notes>           Notes

  nexus crm list-deals      List deals
    --stage <stage>           Filter by stage
    --contact <id>            Filter by contact

  nexus crm update-deal [flags] <id>  Update a deal (--rep 0 clears the rep)
  nexus crm move-deal <id> <stage>    Move a deal to another stage
  nexus crm delete-deal <id>          Delete a deal

  nexus crm add-lead        Add a new lead
  nexus crm list-leads      List leads
    --status <status>         new, contacted, qualified, lost
  nexus crm update-lead [flags] <id>  Update a lead
  nexus crm delete-lead <id>          Delete a lead

  nexus crm list-activities Show the activity feed
    --limit <n>               Max results (default: 20, or 10 for one entity)
    --type <type> --id <id>   Only activity for one contact, deal, or lead

  nexus crm list-reps       List sales reps

VIZ COMMANDS:
  nexus viz graph pipeline  Generate deal pipeline graph
    --output <file>           Output file (default: stdout)

EXAMPLES:
  # Start MCP server for Claude Desktop
  nexus mcp

  # Add a deal and move it along the pipeline
  nexus crm add-deal --title "Pilot" --contact 1 --value 12000
  nexus crm move-deal 9 Qualified

  # Open the board on the SQLite backend
  nexus --backend sqlite board

`, version)
}
