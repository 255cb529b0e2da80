// ABOUTME: Activity hooks fired after contact, deal, and lead mutations
// ABOUTME: Each hook appends one feed entry describing what changed
package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/harperreed/nexus/models"
)

// Recorder turns entity mutations into activity feed entries.
type Recorder struct {
	activities *ActivityService
	logger     *log.Logger
}

func NewRecorder(activities *ActivityService, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{activities: activities, logger: logger}
}

func (r *Recorder) ContactCreated(ctx context.Context, c models.Contact) {
	r.record(ctx, models.ActivityContactCreated, models.EntityContact, c.ID,
		fmt.Sprintf("Contact %s created", c.Name))
}

func (r *Recorder) ContactUpdated(ctx context.Context, c models.Contact) {
	r.record(ctx, models.ActivityContactUpdated, models.EntityContact, c.ID,
		fmt.Sprintf("Contact %s updated", c.Name))
}

func (r *Recorder) DealCreated(ctx context.Context, d models.Deal) {
	r.record(ctx, models.ActivityDealCreated, models.EntityDeal, d.ID,
		fmt.Sprintf("Deal '%s' created", d.Title))
}

func (r *Recorder) DealUpdated(ctx context.Context, d models.Deal) {
	r.record(ctx, models.ActivityDealUpdated, models.EntityDeal, d.ID,
		fmt.Sprintf("Deal '%s' updated", d.Title))
}

func (r *Recorder) DealStageUpdated(ctx context.Context, d models.Deal) {
	r.record(ctx, models.ActivityDealStageUpdated, models.EntityDeal, d.ID,
		fmt.Sprintf("Deal moved to %s stage", d.Stage))
}

func (r *Recorder) LeadCreated(ctx context.Context, l models.Lead) {
	r.record(ctx, models.ActivityLeadCreated, models.EntityLead, l.ID,
		fmt.Sprintf("Lead %s created", l.Name))
}

func (r *Recorder) LeadUpdated(ctx context.Context, l models.Lead) {
	r.record(ctx, models.ActivityLeadUpdated, models.EntityLead, l.ID,
		fmt.Sprintf("Lead %s updated", l.Name))
}

// record is best-effort: a failed append is logged and never reaches the caller.
func (r *Recorder) record(ctx context.Context, typ models.ActivityType, entity models.EntityType, id models.ID, description string) {
	_, err := r.activities.Create(ctx, models.Activity{
		Type:        typ,
		EntityType:  entity,
		EntityID:    id,
		Description: description,
	})
	if err != nil {
		r.logger.Warn("failed to record activity", "type", typ, "entity", entity, "id", id, "err", err)
	}
}
