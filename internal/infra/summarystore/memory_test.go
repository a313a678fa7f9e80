package summarystore

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/digestly/internal/domain/summary"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	res := summary.Result{Summary: "cached", Format: summary.FormatTLDR, SummaryLength: 6}
	require.NoError(t, store.Save(ctx, "key", res, 0))

	got, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, res, got)
}

func TestMemoryStore_BoundedSize(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < maxEntries+100; i++ {
		key := "key-" + strconv.Itoa(i)
		require.NoError(t, store.Save(ctx, key, summary.Result{Summary: key}, time.Hour))
	}

	store.mu.RLock()
	size := len(store.entries)
	store.mu.RUnlock()
	require.LessOrEqual(t, size, maxEntries)
}

func TestMemoryStore_EvictsExpiredFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "keep", summary.Result{Summary: "keep"}, time.Hour))
	for i := 0; i < maxEntries-1; i++ {
		require.NoError(t, store.Save(ctx, "stale-"+strconv.Itoa(i), summary.Result{}, time.Millisecond))
	}
	time.Sleep(5 * time.Millisecond)

	require.NoError(t, store.Save(ctx, "fresh", summary.Result{Summary: "fresh"}, time.Hour))

	_, ok, err := store.Get(ctx, "keep")
	require.NoError(t, err)
	require.True(t, ok, "unexpired entry must survive the sweep")
	_, ok, err = store.Get(ctx, "fresh")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "key", summary.Result{Summary: "stale"}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.False(t, ok)
}
