// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII dashboard for the sales pipeline overview
package viz

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
)

const (
	recentContactLimit  = 5
	recentActivityLimit = 10
)

type DashboardStats struct {
	TotalContacts int
	TotalDeals    int
	ActiveDeals   int

	// PipelineValue sums the value of deals not yet Closed.
	PipelineValue float64

	// ConversionRate is the percentage of deals that are Closed, to one decimal.
	ConversionRate float64

	PipelineByStage []PipelineStageStats
	RecentContacts  []models.Contact
	RecentActivity  []models.Activity
}

type PipelineStageStats struct {
	Stage models.Stage
	Count int
	Value float64
}

// GenerateDashboardStats loads contacts, deals, and recent activity concurrently.
func GenerateDashboardStats(ctx context.Context, crm *service.CRM) (*DashboardStats, error) {
	var (
		contacts   []models.Contact
		deals      []models.Deal
		activities []models.Activity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contacts, err = crm.Contacts.GetAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch contacts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		deals, err = crm.Deals.GetAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch deals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		activities, err = crm.Activities.GetAll(gctx, recentActivityLimit)
		if err != nil {
			return fmt.Errorf("failed to fetch activities: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ComputeDashboardStats(contacts, deals, activities), nil
}

// ComputeDashboardStats derives the dashboard figures from loaded collections.
func ComputeDashboardStats(contacts []models.Contact, deals []models.Deal, activities []models.Activity) *DashboardStats {
	stats := &DashboardStats{
		TotalContacts:  len(contacts),
		TotalDeals:     len(deals),
		RecentActivity: activities,
	}

	byStage := make(map[models.Stage]PipelineStageStats)
	closed := 0
	for _, deal := range deals {
		s := byStage[deal.Stage]
		s.Stage = deal.Stage
		s.Count++
		s.Value += deal.Value
		byStage[deal.Stage] = s

		if deal.Stage == models.StageClosed {
			closed++
			continue
		}
		stats.ActiveDeals++
		stats.PipelineValue += deal.Value
	}

	for _, stage := range models.Stages() {
		s := byStage[stage]
		s.Stage = stage
		stats.PipelineByStage = append(stats.PipelineByStage, s)
	}

	if len(deals) > 0 {
		rate := float64(closed) / float64(len(deals)) * 100
		stats.ConversionRate = math.Round(rate*10) / 10
	}

	recent := slices.Clone(contacts)
	slices.SortStableFunc(recent, func(a, b models.Contact) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(recent) > recentContactLimit {
		recent = recent[:recentContactLimit]
	}
	stats.RecentContacts = recent

	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  NEXUS CRM DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📇 %d contacts  💼 %d active deals  💰 %s pipeline  📈 %.1f%% conversion\n\n",
		stats.TotalContacts, stats.ActiveDeals, FormatMoney(stats.PipelineValue), stats.ConversionRate))

	out.WriteString("PIPELINE OVERVIEW\n")
	renderPipeline(&out, stats.PipelineByStage)
	out.WriteString("\n")

	if len(stats.RecentContacts) > 0 {
		out.WriteString("RECENT CONTACTS\n")
		for _, c := range stats.RecentContacts {
			company := c.Company
			if company == "" {
				company = "-"
			}
			out.WriteString(fmt.Sprintf("  %-22s %-24s %s\n", c.Name, company, c.CreatedAt.Format("2006-01-02")))
		}
		out.WriteString("\n")
	}

	if len(stats.RecentActivity) > 0 {
		out.WriteString("RECENT ACTIVITY\n")
		for _, a := range stats.RecentActivity {
			out.WriteString(fmt.Sprintf("  %s  %s\n", a.Timestamp.Format("2006-01-02 15:04"), a.Description))
		}
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, pipeline []PipelineStageStats) {
	// Find max count for scaling
	maxCount := 0
	for _, s := range pipeline {
		if s.Count > maxCount {
			maxCount = s.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, s := range pipeline {
		// Calculate bar length (0-10 blocks)
		barLength := (s.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		out.WriteString(fmt.Sprintf("  %-12s %s  %2d (%s)\n", s.Stage, bar, s.Count, FormatMoney(s.Value)))
	}
}

// FormatMoney renders a dollar value compactly, e.g. $125K or $2.1M.
func FormatMoney(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.0fK", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
