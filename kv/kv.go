// ABOUTME: Keyed local byte store that backs every persisted collection
// ABOUTME: Defines the Store contract and opens the configured backend
package kv

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Backend names accepted by Open.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Store is a synchronous key/value store. Set fully replaces the prior value.
type Store interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Close() error
}

// Open opens the named backend under dataDir.
func Open(backend, dataDir string) (Store, error) {
	switch backend {
	case "", BackendBadger:
		return OpenBadger(filepath.Join(dataDir, "badger"))
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, "nexus.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (valid: %s, %s)", backend, BackendBadger, BackendSQLite)
	}
}

// KeysWithPrefix returns all keys starting with the given prefix.
func KeysWithPrefix(s Store, prefix []byte) ([][]byte, error) {
	allKeys, err := s.Keys()
	if err != nil {
		return nil, err
	}

	var matched [][]byte
	for _, k := range allKeys {
		if bytes.HasPrefix(k, prefix) {
			matched = append(matched, k)
		}
	}
	return matched, nil
}

// DeletePrefix removes every key under prefix and reports how many went.
func DeletePrefix(s Store, prefix []byte) (int, error) {
	keys, err := KeysWithPrefix(s, prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list keys: %w", err)
	}
	for _, k := range keys {
		if err := s.Delete(k); err != nil {
			return 0, fmt.Errorf("failed to delete %s: %w", k, err)
		}
	}
	return len(keys), nil
}
