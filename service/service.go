// ABOUTME: Shared plumbing for the entity services
// ABOUTME: Error values, clock, simulated latency, and identifier helpers
package service

import (
	"context"
	"errors"
	"time"

	"github.com/harperreed/nexus/models"
)

var (
	// ErrNotFound is returned when a write targets an id that does not exist.
	// Reads report a missing record as a nil result instead.
	ErrNotFound = errors.New("not found")
	// ErrInvalidStage is returned for a deal stage outside the pipeline.
	ErrInvalidStage = errors.New("invalid stage")
)

// Clock supplies timestamps. A nil Clock means time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}

// advance returns the current time, nudged past prev when the clock has not moved.
func (c Clock) advance(prev time.Time) time.Time {
	t := c.now()
	if !t.After(prev) {
		t = prev.Add(time.Millisecond)
	}
	return t
}

// Latency is the artificial delay applied before each kind of call.
type Latency struct {
	List   time.Duration
	Get    time.Duration
	Write  time.Duration
	Delete time.Duration
	Stage  time.Duration
}

// Delays that mimic a remote backend, per entity.
var (
	ContactLatency  = Latency{List: 300 * time.Millisecond, Get: 200 * time.Millisecond, Write: 300 * time.Millisecond, Delete: 300 * time.Millisecond}
	DealLatency     = Latency{List: 300 * time.Millisecond, Get: 200 * time.Millisecond, Write: 300 * time.Millisecond, Delete: 300 * time.Millisecond, Stage: 250 * time.Millisecond}
	SalesRepLatency = Latency{List: 200 * time.Millisecond, Get: 150 * time.Millisecond}
	ActivityLatency = Latency{List: 200 * time.Millisecond, Write: 200 * time.Millisecond}
	LeadLatency     = Latency{List: 300 * time.Millisecond, Get: 200 * time.Millisecond, Write: 400 * time.Millisecond, Delete: 300 * time.Millisecond}
)

// wait sleeps for d unless ctx ends first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type record interface {
	Identifier() models.ID
}

// nextID is one more than the largest id in the collection.
func nextID[T record](records []T) models.ID {
	var maxID models.ID
	for _, r := range records {
		if r.Identifier() > maxID {
			maxID = r.Identifier()
		}
	}
	return maxID + 1
}

func indexOf[T record](records []T, id models.ID) int {
	for i, r := range records {
		if r.Identifier() == id {
			return i
		}
	}
	return -1
}

// without returns the records whose id is not id.
func without[T record](records []T, id models.ID) []T {
	kept := make([]T, 0, len(records))
	for _, r := range records {
		if r.Identifier() != id {
			kept = append(kept, r)
		}
	}
	return kept
}
