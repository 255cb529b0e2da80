// ABOUTME: Test utilities for creating isolated stores
// ABOUTME: Uses in-memory BadgerDB so every test starts from an empty store

package kv

import "testing"

// NewTestStore returns an empty in-memory store closed at test cleanup.
func NewTestStore(t testing.TB) Store {
	t.Helper()

	s, err := OpenBadgerInMemory()
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("Warning: failed to close test store: %v", err)
		}
	})
	return s
}
