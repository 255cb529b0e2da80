// ABOUTME: Pipeline board model grouping deals into one column per stage
// ABOUTME: Resolves contact company and rep name for each card, tolerating dangling ids
package viz

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/service"
)

// NoCompany labels a card whose contact is unknown or has no company.
const NoCompany = "No company"

type Board struct {
	Columns []Column
}

type Column struct {
	Stage models.Stage
	Count int
	Value float64
	Cards []Card
}

type Card struct {
	DealID  models.ID
	Title   string
	Value   float64
	Company string
	// SalesRep is empty when the deal has no rep or the rep is unknown.
	SalesRep          string
	DaysInStage       int
	ExpectedCloseDate *time.Time
}

// BuildBoard lays deals out by stage, in pipeline order. Deals with an
// unrecognised stage are left off the board.
func BuildBoard(deals []models.Deal, contacts []models.Contact, reps []models.SalesRep, now time.Time) *Board {
	contactByID := make(map[models.ID]models.Contact, len(contacts))
	for _, c := range contacts {
		contactByID[c.ID] = c
	}
	repByID := make(map[models.ID]models.SalesRep, len(reps))
	for _, r := range reps {
		repByID[r.ID] = r
	}

	board := &Board{}
	index := make(map[models.Stage]int)
	for i, stage := range models.Stages() {
		board.Columns = append(board.Columns, Column{Stage: stage, Cards: []Card{}})
		index[stage] = i
	}

	for _, deal := range deals {
		i, ok := index[deal.Stage]
		if !ok {
			continue
		}

		card := Card{
			DealID:            deal.ID,
			Title:             deal.Title,
			Value:             deal.Value,
			Company:           NoCompany,
			DaysInStage:       DaysSince(deal.UpdatedAt, now),
			ExpectedCloseDate: deal.ExpectedCloseDate,
		}
		if c, ok := contactByID[deal.ContactID]; ok && c.Company != "" {
			card.Company = c.Company
		}
		if deal.SalesRepID != nil {
			if r, ok := repByID[*deal.SalesRepID]; ok {
				card.SalesRep = r.Name
			}
		}

		col := &board.Columns[i]
		col.Cards = append(col.Cards, card)
		col.Count++
		col.Value += deal.Value
	}

	return board
}

// DaysSince counts whole days from t to now, never negative.
func DaysSince(t, now time.Time) int {
	days := int(now.Sub(t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// LoadBoard reads deals, contacts, and reps and lays them out by stage.
func LoadBoard(ctx context.Context, crm *service.CRM, now time.Time) (*Board, error) {
	deals, err := crm.Deals.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}
	contacts, err := crm.Contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}
	reps, err := crm.SalesReps.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales reps: %w", err)
	}
	return BuildBoard(deals, contacts, reps, now), nil
}
