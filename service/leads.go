// ABOUTME: Lead service, by default over a process-local collection
// ABOUTME: Same CRUD contract and failure convention as the persisted services
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/store"
)

type LeadService struct {
	repo    store.Repository[models.Lead]
	latency Latency
	mu      sync.Mutex
}

func NewLeadService(repo store.Repository[models.Lead], latency Latency) *LeadService {
	return &LeadService{repo: repo, latency: latency}
}

func (s *LeadService) GetAll(ctx context.Context) ([]models.Lead, error) {
	if err := wait(ctx, s.latency.List); err != nil {
		return nil, err
	}
	leads, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load leads: %w", err)
	}
	return leads, nil
}

// GetByID returns nil when no lead has the id.
func (s *LeadService) GetByID(ctx context.Context, id models.ID) (*models.Lead, error) {
	if err := wait(ctx, s.latency.Get); err != nil {
		return nil, err
	}
	leads, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load leads: %w", err)
	}

	i := indexOf(leads, id)
	if i == -1 {
		return nil, nil
	}
	lead := leads[i].Clone()
	return &lead, nil
}

// Create defaults an empty status to new.
func (s *LeadService) Create(ctx context.Context, draft models.Lead) (*models.Lead, error) {
	if err := wait(ctx, s.latency.Write); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load leads: %w", err)
	}

	lead := draft.Clone()
	lead.ID = nextID(leads)
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	if lead.Tags == nil {
		lead.Tags = []string{}
	}

	leads = append(leads, lead)
	if err := s.repo.Save(ctx, leads); err != nil {
		return nil, fmt.Errorf("failed to save leads: %w", err)
	}

	created := lead.Clone()
	return &created, nil
}

func (s *LeadService) Update(ctx context.Context, id models.ID, patch models.LeadPatch) (*models.Lead, error) {
	if err := wait(ctx, s.latency.Write); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load leads: %w", err)
	}

	i := indexOf(leads, id)
	if i == -1 {
		return nil, fmt.Errorf("lead %d: %w", id, ErrNotFound)
	}

	lead := leads[i]
	patch.Apply(&lead)
	lead.ID = id
	leads[i] = lead

	if err := s.repo.Save(ctx, leads); err != nil {
		return nil, fmt.Errorf("failed to save leads: %w", err)
	}

	updated := lead.Clone()
	return &updated, nil
}

// Delete succeeds whether or not the lead existed.
func (s *LeadService) Delete(ctx context.Context, id models.ID) error {
	if err := wait(ctx, s.latency.Delete); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load leads: %w", err)
	}
	if err := s.repo.Save(ctx, without(leads, id)); err != nil {
		return fmt.Errorf("failed to save leads: %w", err)
	}
	return nil
}
