package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string
	Count int
}

func TestMemoryCache_RoundTripAndExpiry(t *testing.T) {
	mc := NewMemoryCache(WithMemoryCleanup(0))
	defer mc.Close()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", payload{Name: "a", Count: 2}, time.Minute))

	var got payload
	require.NoError(t, mc.Get(ctx, "k", &got))
	assert.Equal(t, payload{Name: "a", Count: 2}, got)

	ok, err := mc.Exists(ctx, "missing", "k")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, mc.Get(ctx, "k", &got), ErrCacheMiss)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2), WithMemoryCleanup(0))
	defer mc.Close()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { now = now.Add(time.Second); return now }
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", "1", 0))
	require.NoError(t, mc.Set(ctx, "b", "2", 0))
	var s string
	require.NoError(t, mc.Get(ctx, "a", &s)) // a is now newer than b
	require.NoError(t, mc.Set(ctx, "c", "3", 0))

	assert.ErrorIs(t, mc.Get(ctx, "b", &s), ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "a", &s))
	assert.Equal(t, "1", s)
	assert.Equal(t, 2, mc.Len())
}

func TestMemoryCache_StoresCopies(t *testing.T) {
	mc := NewMemoryCache(WithMemoryCleanup(0))
	defer mc.Close()
	ctx := context.Background()

	v := payload{Name: "a"}
	require.NoError(t, mc.Set(ctx, "k", &v, 0))
	v.Name = "changed"

	var got payload
	require.NoError(t, mc.Get(ctx, "k", &got))
	assert.Equal(t, "a", got.Name)
}

func TestLayeredCache_FillsL1FromL2(t *testing.T) {
	l2 := NewMemoryCache(WithMemoryCleanup(0))
	lc := NewLayeredCache(l2, 10, time.Minute)
	defer lc.Close()
	ctx := context.Background()

	require.NoError(t, l2.Set(ctx, "k", payload{Name: "remote"}, 0))
	var got payload
	require.NoError(t, lc.Get(ctx, "k", &got))
	assert.Equal(t, "remote", got.Name)
	assert.Equal(t, 1, lc.l1.Len())

	require.NoError(t, lc.Delete(ctx, "k"))
	assert.ErrorIs(t, lc.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestHashKey(t *testing.T) {
	assert.Equal(t, HashKey([]byte("x")), HashKey([]byte("x")))
	assert.NotEqual(t, HashKey([]byte("x")), HashKey([]byte("y")))
	assert.Len(t, HashKey(nil), 64)
	assert.Equal(t, "pipeline:AAPL", Key("pipeline", "", "AAPL"))

	a, err := Fingerprint(map[string]int{"lookahead": 3})
	require.NoError(t, err)
	b, err := Fingerprint(map[string]int{"lookahead": 3})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryCleanup(0))
	defer mc.Close()

	var got string
	ok, err := Lookup(ctx, mc, "absent", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mc.Set(ctx, "k", "v", 0))
	ok, err = Lookup(ctx, mc, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}
