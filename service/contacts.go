// ABOUTME: Contact service over the persisted contacts collection
// ABOUTME: CRUD with sequential ids and created/updated timestamps
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/harperreed/nexus/models"
	"github.com/harperreed/nexus/store"
)

type ContactService struct {
	repo    store.Repository[models.Contact]
	clock   Clock
	latency Latency
	mu      sync.Mutex
}

func NewContactService(repo store.Repository[models.Contact], clock Clock, latency Latency) *ContactService {
	return &ContactService{repo: repo, clock: clock, latency: latency}
}

// GetAll returns every contact in storage order.
func (s *ContactService) GetAll(ctx context.Context) ([]models.Contact, error) {
	if err := wait(ctx, s.latency.List); err != nil {
		return nil, err
	}
	contacts, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	return contacts, nil
}

// GetByID returns nil when no contact has the id.
func (s *ContactService) GetByID(ctx context.Context, id models.ID) (*models.Contact, error) {
	if err := wait(ctx, s.latency.Get); err != nil {
		return nil, err
	}
	contacts, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	i := indexOf(contacts, id)
	if i == -1 {
		return nil, nil
	}
	contact := contacts[i].Clone()
	return &contact, nil
}

func (s *ContactService) Create(ctx context.Context, draft models.Contact) (*models.Contact, error) {
	if err := wait(ctx, s.latency.Write); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	contact := draft.Clone()
	contact.ID = nextID(contacts)
	if contact.Tags == nil {
		contact.Tags = []string{}
	}
	now := s.clock.now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	contacts = append(contacts, contact)
	if err := s.repo.Save(ctx, contacts); err != nil {
		return nil, fmt.Errorf("failed to save contacts: %w", err)
	}

	created := contact.Clone()
	return &created, nil
}

// Update merges patch over the stored contact.
func (s *ContactService) Update(ctx context.Context, id models.ID, patch models.ContactPatch) (*models.Contact, error) {
	if err := wait(ctx, s.latency.Write); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	i := indexOf(contacts, id)
	if i == -1 {
		return nil, fmt.Errorf("contact %d: %w", id, ErrNotFound)
	}

	contact := contacts[i]
	patch.Apply(&contact)
	contact.ID = id
	contact.UpdatedAt = s.clock.advance(contact.UpdatedAt)
	contacts[i] = contact

	if err := s.repo.Save(ctx, contacts); err != nil {
		return nil, fmt.Errorf("failed to save contacts: %w", err)
	}

	updated := contact.Clone()
	return &updated, nil
}

// Delete succeeds whether or not the contact existed.
func (s *ContactService) Delete(ctx context.Context, id models.ID) error {
	if err := wait(ctx, s.latency.Delete); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contacts, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}
	if err := s.repo.Save(ctx, without(contacts, id)); err != nil {
		return fmt.Errorf("failed to save contacts: %w", err)
	}
	return nil
}
