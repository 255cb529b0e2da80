// ABOUTME: Activity feed service over the persisted activities collection
// ABOUTME: Append-only; reads come back newest first and truncated to a limit
package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/store"
)

// Default page sizes for the feed and for a single entity's history.
const (
	DefaultFeedLimit   = 20
	DefaultEntityLimit = 10
)

type ActivityService struct {
	repo    store.Repository[models.Activity]
	clock   Clock
	latency Latency
	mu      sync.Mutex
}

func NewActivityService(repo store.Repository[models.Activity], clock Clock, latency Latency) *ActivityService {
	return &ActivityService{repo: repo, clock: clock, latency: latency}
}

// GetAll returns the newest limit activities; limit <= 0 means DefaultFeedLimit.
func (s *ActivityService) GetAll(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if err := wait(ctx, s.latency.List); err != nil {
		return nil, err
	}

	activities, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}
	return newest(activities, limit), nil
}

// GetByEntityID returns the newest activities for one entity; limit <= 0 means DefaultEntityLimit.
func (s *ActivityService) GetByEntityID(ctx context.Context, entityType models.EntityType, entityID models.ID, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = DefaultEntityLimit
	}
	if err := wait(ctx, s.latency.List); err != nil {
		return nil, err
	}

	activities, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}

	matched := make([]models.Activity, 0)
	for _, a := range activities {
		if a.EntityType == entityType && a.EntityID == entityID {
			matched = append(matched, a)
		}
	}
	return newest(matched, limit), nil
}

// Create appends an activity stamped with the current time, kept strictly
// later than every stored activity so the feed order matches append order.
func (s *ActivityService) Create(ctx context.Context, draft models.Activity) (*models.Activity, error) {
	if err := wait(ctx, s.latency.Write); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	activities, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}

	var latest time.Time
	for _, a := range activities {
		if a.Timestamp.After(latest) {
			latest = a.Timestamp
		}
	}

	activity := draft
	activity.ID = nextID(activities)
	activity.Timestamp = s.clock.advance(latest)

	activities = append(activities, activity)
	if err := s.repo.Save(ctx, activities); err != nil {
		return nil, fmt.Errorf("failed to save activities: %w", err)
	}

	created := activity
	return &created, nil
}

// newest sorts by timestamp descending, keeping storage order for ties.
func newest(activities []models.Activity, limit int) []models.Activity {
	sorted := slices.Clone(activities)
	slices.SortStableFunc(sorted, func(a, b models.Activity) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
