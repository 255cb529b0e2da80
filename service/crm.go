// ABOUTME: CRM facade wiring every entity service to one key-value store
// ABOUTME: Mutations go through here so each save also lands in the activity feed
package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/harperreed/nexus/fixtures"
	"github.com/harperreed/nexus/kv"
	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/store"
)

// Options tunes how New builds the services.
type Options struct {
	Logger *log.Logger
	Clock  Clock
	// SimulateLatency applies the per-entity delays before each call.
	SimulateLatency bool
	// PersistLeads stores leads under their own key instead of in memory.
	PersistLeads bool
}

type CRM struct {
	Contacts   *ContactService
	Deals      *DealService
	SalesReps  *SalesRepService
	Activities *ActivityService
	Leads      *LeadService

	recorder *Recorder
	logger   *log.Logger
	store    kv.Store
	leads    store.Repository[models.Lead]
}

// New builds the services over s. Collections are seeded lazily on first read.
func New(s kv.Store, opts Options) (*CRM, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	latency := func(l Latency) Latency {
		if opts.SimulateLatency {
			return l
		}
		return Latency{}
	}

	contacts := store.NewCollection[models.Contact](s, store.KeyContacts, fixtures.Contacts, logger)
	deals := store.NewCollection[models.Deal](s, store.KeyDeals, fixtures.Deals, logger)
	reps := store.NewCollection[models.SalesRep](s, store.KeySalesReps, fixtures.SalesReps, logger)
	activities := store.NewCollection[models.Activity](s, store.KeyActivities, fixtures.Activities, logger)

	var leads store.Repository[models.Lead]
	if opts.PersistLeads {
		leads = store.NewCollection[models.Lead](s, store.KeyLeads, fixtures.Leads, logger)
	} else {
		mem, err := store.NewMemory[models.Lead](fixtures.Leads)
		if err != nil {
			return nil, fmt.Errorf("failed to seed leads: %w", err)
		}
		leads = mem
	}

	activitySvc := NewActivityService(activities, opts.Clock, latency(ActivityLatency))

	return &CRM{
		Contacts:   NewContactService(contacts, opts.Clock, latency(ContactLatency)),
		Deals:      NewDealService(deals, opts.Clock, latency(DealLatency)),
		SalesReps:  NewSalesRepService(reps, latency(SalesRepLatency)),
		Activities: activitySvc,
		Leads:      NewLeadService(leads, latency(LeadLatency)),
		recorder:   NewRecorder(activitySvc, logger),
		logger:     logger,
		store:      s,
		leads:      leads,
	}, nil
}

func (c *CRM) CreateContact(ctx context.Context, draft models.Contact) (*models.Contact, error) {
	contact, err := c.Contacts.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	c.recorder.ContactCreated(ctx, *contact)
	return contact, nil
}

func (c *CRM) UpdateContact(ctx context.Context, id models.ID, patch models.ContactPatch) (*models.Contact, error) {
	contact, err := c.Contacts.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	c.recorder.ContactUpdated(ctx, *contact)
	return contact, nil
}

func (c *CRM) DeleteContact(ctx context.Context, id models.ID) error {
	return c.Contacts.Delete(ctx, id)
}

func (c *CRM) CreateDeal(ctx context.Context, draft models.Deal) (*models.Deal, error) {
	deal, err := c.Deals.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	c.recorder.DealCreated(ctx, *deal)
	return deal, nil
}

func (c *CRM) UpdateDeal(ctx context.Context, id models.ID, patch models.DealPatch) (*models.Deal, error) {
	deal, err := c.Deals.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	c.recorder.DealUpdated(ctx, *deal)
	return deal, nil
}

// MoveDeal moves a deal to stage. Moving to the current stage writes nothing
// and records nothing; moved reports whether a write happened.
func (c *CRM) MoveDeal(ctx context.Context, id models.ID, stage models.Stage) (deal *models.Deal, moved bool, err error) {
	if !stage.Valid() {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}

	current, err := c.Deals.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if current == nil {
		return nil, false, fmt.Errorf("deal %d: %w", id, ErrNotFound)
	}
	if current.Stage == stage {
		return current, false, nil
	}

	deal, err = c.Deals.UpdateStage(ctx, id, stage)
	if err != nil {
		return nil, false, err
	}
	c.recorder.DealStageUpdated(ctx, *deal)
	return deal, true, nil
}

func (c *CRM) DeleteDeal(ctx context.Context, id models.ID) error {
	return c.Deals.Delete(ctx, id)
}

func (c *CRM) CreateLead(ctx context.Context, draft models.Lead) (*models.Lead, error) {
	lead, err := c.Leads.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	c.recorder.LeadCreated(ctx, *lead)
	return lead, nil
}

func (c *CRM) UpdateLead(ctx context.Context, id models.ID, patch models.LeadPatch) (*models.Lead, error) {
	lead, err := c.Leads.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	c.recorder.LeadUpdated(ctx, *lead)
	return lead, nil
}

func (c *CRM) DeleteLead(ctx context.Context, id models.ID) error {
	return c.Leads.Delete(ctx, id)
}

// ContactDetail is a contact with its deals and recent history.
type ContactDetail struct {
	Contact    models.Contact    `json:"contact"`
	Deals      []models.Deal     `json:"deals"`
	Activities []models.Activity `json:"activities"`
}

// ContactDetail loads the contact, its deals, and its activity concurrently.
// It returns nil when the contact does not exist.
func (c *CRM) ContactDetail(ctx context.Context, id models.ID) (*ContactDetail, error) {
	var (
		contact    *models.Contact
		deals      []models.Deal
		activities []models.Activity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contact, err = c.Contacts.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		deals, err = c.Deals.GetByContactID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = c.Activities.GetByEntityID(gctx, models.EntityContact, id, DefaultEntityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load contact %d: %w", id, err)
	}

	if contact == nil {
		return nil, nil
	}
	return &ContactDetail{Contact: *contact, Deals: deals, Activities: activities}, nil
}

// Reset drops every stored collection, including keys left by an earlier
// persist_leads setting, so the next read reseeds from fixtures.
func (c *CRM) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := kv.DeletePrefix(c.store, []byte(store.KeyPrefix))
	if err != nil {
		return fmt.Errorf("failed to reset collections: %w", err)
	}
	if err := c.leads.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset leads: %w", err)
	}
	c.logger.Info("reset all collections to fixtures", "keys", n)
	return nil
}
