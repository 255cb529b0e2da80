// ABOUTME: Persistence adapter mapping one entity collection to one storage key
// ABOUTME: Seeds from fixtures on first load and rewrites the whole collection on save
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/nexus/kv"
)

// Storage keys, one per persisted entity type.
const (
	KeyPrefix     = "nexus_crm_"
	KeyContacts   = KeyPrefix + "contacts"
	KeyDeals      = KeyPrefix + "deals"
	KeySalesReps  = KeyPrefix + "sales_reps"
	KeyActivities = KeyPrefix + "activities"
	KeyLeads      = KeyPrefix + "leads"
)

var (
	// ErrStorage marks any failure of the underlying store.
	ErrStorage = errors.New("storage failure")
	// ErrCorrupt marks stored bytes that no longer decode; it is also an ErrStorage.
	ErrCorrupt = fmt.Errorf("%w: corrupt collection", ErrStorage)
)

// Repository loads and saves a whole collection at once.
type Repository[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, records []T) error
	Reset(ctx context.Context) error
}

// SeedFunc produces the records written on first access.
type SeedFunc[T any] func() ([]T, error)

// Collection persists []T as a JSON array under a single key.
type Collection[T any] struct {
	kv     kv.Store
	key    []byte
	seed   SeedFunc[T]
	logger *log.Logger
}

func NewCollection[T any](store kv.Store, key string, seed SeedFunc[T], logger *log.Logger) *Collection[T] {
	if logger == nil {
		logger = log.Default()
	}
	return &Collection[T]{
		kv:     store,
		key:    []byte(key),
		seed:   seed,
		logger: logger.With("key", key),
	}
}

// Key returns the storage key this collection lives under.
func (c *Collection[T]) Key() string {
	return string(c.key)
}

// Load returns the stored collection, seeding it from fixtures if the key is absent.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := c.kv.Get(c.key)
	if errors.Is(err, kv.ErrNotFound) {
		return c.seedCollection(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrStorage, c.key, err)
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, c.key, err)
	}
	return records, nil
}

// Save overwrites the key with the full collection.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	if err := c.kv.Set(c.key, raw); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorage, c.key, err)
	}

	c.logger.Debug("saved collection", "records", len(records), "bytes", len(raw))
	return nil
}

// Reset drops the stored collection; the next Load reseeds it.
func (c *Collection[T]) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.kv.Delete(c.key); err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrStorage, c.key, err)
	}
	return nil
}

func (c *Collection[T]) seedCollection(ctx context.Context) ([]T, error) {
	var records []T
	if c.seed != nil {
		seeded, err := c.seed()
		if err != nil {
			return nil, fmt.Errorf("failed to load fixtures for %s: %w", c.key, err)
		}
		records = seeded
	}
	if records == nil {
		records = []T{}
	}

	if err := c.Save(ctx, records); err != nil {
		return nil, err
	}
	c.logger.Info("seeded collection from fixtures", "records", len(records))
	return records, nil
}
