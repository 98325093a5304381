package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func newBoltDB(t *testing.T) *bbolt.DB {
	t.Helper()
	bdb, err := bbolt.Open(filepath.Join(t.TempDir(), "db.bolt"), 0o600, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, bdb.Close())
	})
	return bdb
}

func TestDBStorageRoundTrip(t *testing.T) {
	st := NewDBStorage(newBoltDB(t), []byte("objects"))
	ctx := context.Background()

	_, err := st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Put(ctx, "a", []byte("hello")))
	got, err := st.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	require.NoError(t, st.Del(ctx, "a"))
	_, err = st.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedStorageServesFromCacheAfterFirstGet(t *testing.T) {
	ctx := context.Background()
	permanent := NewDBStorage(newBoltDB(t), []byte("permanent"))
	cache := NewDBStorage(newBoltDB(t), []byte("cache")).(ListStorage)

	require.NoError(t, permanent.Put(ctx, "a", []byte("hello")))

	cs, err := NewCachedStorage(cache, permanent, 1<<20)
	require.NoError(t, err)

	got, err := cs.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	// the value should now be mirrored into the cache bucket directly.
	cached, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), cached)
}

func TestCachedStoragePutThenGet(t *testing.T) {
	ctx := context.Background()
	permanent := NewDBStorage(newBoltDB(t), []byte("permanent"))
	cache := NewDBStorage(newBoltDB(t), []byte("cache")).(ListStorage)

	cs, err := NewCachedStorage(cache, permanent, 1<<20)
	require.NoError(t, err)

	require.NoError(t, cs.Put(ctx, "b", []byte("world")))
	got, err := cs.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), got)

	require.NoError(t, cs.Del(ctx, "b"))
	_, err = cs.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
}
