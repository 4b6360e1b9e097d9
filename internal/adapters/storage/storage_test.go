package storage

import (
	"io"
	"log/slog"
	"testing"

	"github.com/skybridge-ai/flowkit/internal/domain"
	"github.com/skybridge-ai/flowkit/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]ports.SessionStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	badgerStore, err := NewBadgerStore(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { badgerStore.Close() })

	memStore := NewMemoryStore()
	t.Cleanup(func() { memStore.Close() })

	return map[string]ports.SessionStore{
		"badger": badgerStore,
		"memory": memStore,
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, exists, err := store.Get("session:collected:text")
			require.NoError(t, err)
			assert.False(t, exists)

			require.NoError(t, store.Put("session:collected:text", []byte("hello")))

			value, exists, err := store.Get("session:collected:text")
			require.NoError(t, err)
			assert.True(t, exists)
			assert.Equal(t, []byte("hello"), value)

			require.NoError(t, store.Delete("session:collected:text"))
			_, exists, err = store.Get("session:collected:text")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestSessionStore_PrefixOperations(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(domain.CollectedKey("wf-1"), []byte(`{"text":"hi"}`)))
			require.NoError(t, store.Put(domain.CollectedKey("wf-2"), []byte(`{"channel":"#ops"}`)))
			require.NoError(t, store.Put(domain.DiscoveryKey("wf-1", "n1"), []byte(`{"slug":"X"}`)))

			collected, err := store.ListByPrefix(domain.CollectedPrefix)
			require.NoError(t, err)
			assert.Len(t, collected, 2)
			assert.Equal(t, []byte(`{"channel":"#ops"}`), collected[domain.CollectedKey("wf-2")])

			deleted, err := store.DeleteByPrefix(domain.CollectedPrefix)
			require.NoError(t, err)
			assert.Equal(t, 2, deleted)

			remaining, err := store.ListByPrefix("session:")
			require.NoError(t, err)
			assert.Len(t, remaining, 1)
		})
	}
}

func TestBadgerStore_SurvivesReopen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	store, err := NewBadgerStore(dir, logger)
	require.NoError(t, err)
	require.NoError(t, store.Put(domain.CollectedKey("wf-1"), []byte(`{"recipient":"a@b.com"}`)))
	require.NoError(t, store.Close())

	reopened, err := NewBadgerStore(dir, logger)
	require.NoError(t, err)
	defer reopened.Close()

	value, exists, err := reopened.Get(domain.CollectedKey("wf-1"))
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []byte("a@b.com"), value)
}

func TestSessionStore_CloseIsTerminal(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())
	assert.ErrorIs(t, store.Close(), domain.ErrClosed)
	assert.ErrorIs(t, store.Put("k", nil), domain.ErrClosed)
}
