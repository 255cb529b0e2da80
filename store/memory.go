// ABOUTME: Process-local Repository for collections that do not outlive the process
// ABOUTME: Holds the encoded collection so reads never alias the stored records
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory keeps a collection in process memory. It is seeded when built
// and again on Reset.
type Memory[T any] struct {
	mu   sync.Mutex
	raw  []byte
	seed SeedFunc[T]
}

func NewMemory[T any](seed SeedFunc[T]) (*Memory[T], error) {
	m := &Memory[T]{seed: seed}
	if err := m.reseed(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Memory[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	raw := m.raw
	m.mu.Unlock()

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: memory: %w", ErrCorrupt, err)
	}
	return records, nil
}

func (m *Memory[T]) Save(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}

	m.mu.Lock()
	m.raw = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory[T]) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.reseed()
}

func (m *Memory[T]) reseed() error {
	records := []T{}
	if m.seed != nil {
		seeded, err := m.seed()
		if err != nil {
			return fmt.Errorf("failed to load fixtures: %w", err)
		}
		if seeded != nil {
			records = seeded
		}
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}

	m.mu.Lock()
	m.raw = raw
	m.mu.Unlock()
	return nil
}
