// ABOUTME: Sales rep lookups over the persisted reps collection
// ABOUTME: Reps are seeded from fixtures and only read at runtime
package service

import (
	"context"
	"fmt"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/store"
)

// SalesRepService is read-only; reps come from fixtures.
type SalesRepService struct {
	repo    store.Repository[models.SalesRep]
	latency Latency
}

func NewSalesRepService(repo store.Repository[models.SalesRep], latency Latency) *SalesRepService {
	return &SalesRepService{repo: repo, latency: latency}
}

func (s *SalesRepService) GetAll(ctx context.Context) ([]models.SalesRep, error) {
	if err := wait(ctx, s.latency.List); err != nil {
		return nil, err
	}
	reps, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales reps: %w", err)
	}
	return reps, nil
}

// GetByID returns nil when no rep has the id.
func (s *SalesRepService) GetByID(ctx context.Context, id models.ID) (*models.SalesRep, error) {
	if err := wait(ctx, s.latency.Get); err != nil {
		return nil, err
	}
	reps, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales reps: %w", err)
	}

	i := indexOf(reps, id)
	if i == -1 {
		return nil, nil
	}
	rep := reps[i]
	return &rep, nil
}
