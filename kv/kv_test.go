// ABOUTME: Tests for the keyed store backends
// ABOUTME: Runs the same contract against Badger (memory and disk) and SQLite
package kv

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"badger-memory": func(t *testing.T) Store { return NewTestStore(t) },
		"badger-disk": func(t *testing.T) Store {
			s, err := OpenBadger(filepath.Join(t.TempDir(), "badger"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "nexus.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func TestStoreContract(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)

			_, err := s.Get([]byte("missing"))
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set([]byte("a"), []byte(`[1]`)))
			got, err := s.Get([]byte("a"))
			require.NoError(t, err)
			assert.Equal(t, []byte(`[1]`), got)

			require.NoError(t, s.Set([]byte("a"), []byte(`[1,2]`)))
			got, err = s.Get([]byte("a"))
			require.NoError(t, err)
			assert.Equal(t, []byte(`[1,2]`), got, "Set must replace, not merge")

			require.NoError(t, s.Delete([]byte("a")))
			_, err = s.Get([]byte("a"))
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, s.Delete([]byte("never-written")))
		})
	}
}

func TestKeysWithPrefix(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			require.NoError(t, s.Set([]byte("nexus_crm_contacts"), []byte(`[]`)))
			require.NoError(t, s.Set([]byte("nexus_crm_deals"), []byte(`[]`)))
			require.NoError(t, s.Set([]byte("other"), []byte(`x`)))

			keys, err := KeysWithPrefix(s, []byte("nexus_crm_"))
			require.NoError(t, err)

			var names []string
			for _, k := range keys {
				names = append(names, string(k))
			}
			sort.Strings(names)
			assert.Equal(t, []string{"nexus_crm_contacts", "nexus_crm_deals"}, names)

			n, err := DeletePrefix(s, []byte("nexus_crm_"))
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			all, err := s.Keys()
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, "other", string(all[0]))
		})
	}
}

func TestOpenPersistsAcrossReopen(t *testing.T) {
	for _, backend := range []string{BackendBadger, BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()

			s, err := Open(backend, dir)
			require.NoError(t, err)
			require.NoError(t, s.Set([]byte("k"), []byte("v")))
			require.NoError(t, s.Close())

			s, err = Open(backend, dir)
			require.NoError(t, err)
			defer s.Close()

			got, err := s.Get([]byte("k"))
			require.NoError(t, err)
			assert.Equal(t, "v", string(got))
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("etcd", t.TempDir())
	assert.Error(t, err)
}

func TestSQLiteUsesWAL(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nexus.db"))
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestBadgerClosedStore(t *testing.T) {
	s, err := OpenBadgerInMemory()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close is a no-op")

	_, err = s.Get([]byte("k"))
	assert.Error(t, err)
	assert.Error(t, s.Set([]byte("k"), []byte("v")))
}
