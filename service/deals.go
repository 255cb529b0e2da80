// ABOUTME: Deal service over the persisted deals collection
// ABOUTME: Adds contact filtering and the narrow stage move used by the pipeline board
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/store"
)

type DealService struct {
	repo    store.Repository[models.Deal]
	clock   Clock
	latency Latency
	mu      sync.Mutex
}

func NewDealService(repo store.Repository[models.Deal], clock Clock, latency Latency) *DealService {
	return &DealService{repo: repo, clock: clock, latency: latency}
}

func (s *DealService) GetAll(ctx context.Context) ([]models.Deal, error) {
	if err := wait(ctx, s.latency.List); err != nil {
		return nil, err
	}
	deals, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deals: %w", err)
	}
	return deals, nil
}

// GetByID returns nil when no deal has the id.
func (s *DealService) GetByID(ctx context.Context, id models.ID) (*models.Deal, error) {
	if err := wait(ctx, s.latency.Get); err != nil {
		return nil, err
	}
	deals, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deals: %w", err)
	}

	i := indexOf(deals, id)
	if i == -1 {
		return nil, nil
	}
	deal := deals[i].Clone()
	return &deal, nil
}

// GetByContactID returns the contact's deals in storage order.
func (s *DealService) GetByContactID(ctx context.Context, contactID models.ID) ([]models.Deal, error) {
	if err := wait(ctx, s.latency.Get); err != nil {
		return nil, err
	}
	deals, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deals: %w", err)
	}

	matched := []models.Deal{}
	for _, d := range deals {
		if d.ContactID == contactID {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

// Create defaults an empty stage to Lead.
func (s *DealService) Create(ctx context.Context, draft models.Deal) (*models.Deal, error) {
	if draft.Stage == "" {
		draft.Stage = models.StageLead
	}
	if !draft.Stage.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStage, draft.Stage)
	}
	if err := wait(ctx, s.latency.Write); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deals, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deals: %w", err)
	}

	deal := draft.Clone()
	deal.ID = nextID(deals)
	now := s.clock.now()
	deal.CreatedAt = now
	deal.UpdatedAt = now

	deals = append(deals, deal)
	if err := s.repo.Save(ctx, deals); err != nil {
		return nil, fmt.Errorf("failed to save deals: %w", err)
	}

	created := deal.Clone()
	return &created, nil
}

func (s *DealService) Update(ctx context.Context, id models.ID, patch models.DealPatch) (*models.Deal, error) {
	if patch.Stage != nil && !patch.Stage.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStage, *patch.Stage)
	}
	if err := wait(ctx, s.latency.Write); err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, patch.Apply)
}

// UpdateStage changes only the stage and the update timestamp.
func (s *DealService) UpdateStage(ctx context.Context, id models.ID, stage models.Stage) (*models.Deal, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}
	if err := wait(ctx, s.latency.Stage); err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, func(d *models.Deal) {
		d.Stage = stage
	})
}

// Delete succeeds whether or not the deal existed.
func (s *DealService) Delete(ctx context.Context, id models.ID) error {
	if err := wait(ctx, s.latency.Delete); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deals, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load deals: %w", err)
	}
	if err := s.repo.Save(ctx, without(deals, id)); err != nil {
		return fmt.Errorf("failed to save deals: %w", err)
	}
	return nil
}

func (s *DealService) mutate(ctx context.Context, id models.ID, change func(*models.Deal)) (*models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deals, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deals: %w", err)
	}

	i := indexOf(deals, id)
	if i == -1 {
		return nil, fmt.Errorf("deal %d: %w", id, ErrNotFound)
	}

	deal := deals[i]
	change(&deal)
	deal.ID = id
	deal.UpdatedAt = s.clock.advance(deal.UpdatedAt)
	deals[i] = deal

	if err := s.repo.Save(ctx, deals); err != nil {
		return nil, fmt.Errorf("failed to save deals: %w", err)
	}

	updated := deal.Clone()
	return &updated, nil
}
