package memory

import (
	"context"
	"sync"
	"testing"

	"stoktakip/internal/kvstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "product:1", []byte(`{"id":"1"}`)))
	v, err := s.Get(ctx, "product:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(v))

	require.NoError(t, s.Delete(ctx, "product:1"))
	_, err = s.Get(ctx, "product:1")
	assert.ErrorIs(t, err, kvstore.ErrKeyNotFound)

	// Deleting a missing key is a no-op.
	assert.NoError(t, s.Delete(ctx, "product:1"))
}

func TestGetReturnsACopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("abc")))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	v[0] = 'X'

	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestSetVersioned(t *testing.T) {
	s := New()
	ctx := context.Background()

	// expected=0 means the key must not exist yet.
	require.NoError(t, s.SetVersioned(ctx, "product:1", []byte(`{"version":1}`), 0))
	assert.ErrorIs(t, s.SetVersioned(ctx, "product:1", []byte(`{"version":1}`), 0), kvstore.ErrVersionConflict)

	// A write against the stored version succeeds; a stale one conflicts.
	require.NoError(t, s.SetVersioned(ctx, "product:1", []byte(`{"version":2}`), 1))
	assert.ErrorIs(t, s.SetVersioned(ctx, "product:1", []byte(`{"version":2}`), 1), kvstore.ErrVersionConflict)
}

func TestSetVersionedConcurrentSingleWinner(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.SetVersioned(ctx, "k", []byte(`{"version":1}`), 0))

	const n = 10
	var wg sync.WaitGroup
	wins := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.SetVersioned(ctx, "k", []byte(`{"version":2}`), 1) == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count, "exactly one CAS against version 1 may succeed")
}

func TestScanFiltersByPrefix(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "product:1", []byte("p1")))
	require.NoError(t, s.Set(ctx, "product:2", []byte("p2")))
	require.NoError(t, s.Set(ctx, "sale:1", []byte("s1")))

	vals, err := s.Scan(ctx, "product:")
	require.NoError(t, err)
	assert.Len(t, vals, 2)

	vals, err = s.Scan(ctx, "customer:")
	require.NoError(t, err)
	assert.Empty(t, vals)
}

func TestDocVersion(t *testing.T) {
	v, err := kvstore.DocVersion([]byte(`{"id":"x","version":7}`))
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	// Documents without a version field report zero.
	v, err = kvstore.DocVersion([]byte(`{"id":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	_, err = kvstore.DocVersion([]byte(`not json`))
	assert.Error(t, err)
}
