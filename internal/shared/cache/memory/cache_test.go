package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetOrSet_LoadsOnceWithinTTL(t *testing.T) {
	c := NewCache()
	calls := 0
	load := func(context.Context) (any, error) {
		calls++
		return "value", nil
	}

	first, err := c.GetOrSet(context.Background(), "k", time.Minute, load)
	require.NoError(t, err)
	require.Equal(t, "value", first)

	second, err := c.GetOrSet(context.Background(), "k", time.Minute, load)
	require.NoError(t, err)
	require.Equal(t, "value", second)
	require.Equal(t, 1, calls)
}

func TestGetOrSet_ReloadsAfterExpiry(t *testing.T) {
	now := time.Now()
	c := NewCache().WithClock(func() time.Time { return now })

	calls := 0
	load := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	_, err := c.GetOrSet(context.Background(), "k", time.Minute, load)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	value, err := c.GetOrSet(context.Background(), "k", time.Minute, load)
	require.NoError(t, err)
	require.Equal(t, 2, value)
	require.Equal(t, 2, calls)
}

func TestGetOrSet_LoaderErrorNotCached(t *testing.T) {
	c := NewCache()
	calls := 0
	failing := func(context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, context.DeadlineExceeded
		}
		return "ok", nil
	}

	_, err := c.GetOrSet(context.Background(), "k", time.Minute, failing)
	require.Error(t, err)

	value, err := c.GetOrSet(context.Background(), "k", time.Minute, failing)
	require.NoError(t, err)
	require.Equal(t, "ok", value)
}

func TestGetOrSet_DeletionDuringLoadNotOverwritten(t *testing.T) {
	c := NewCache()
	load := func(context.Context) (any, error) {
		// Invalidation lands after the miss but before the store.
		require.NoError(t, c.DelMany(context.Background(), "k"))
		return "stale", nil
	}

	value, err := c.GetOrSet(context.Background(), "k", time.Minute, load)
	require.NoError(t, err)
	require.Equal(t, "stale", value)
	require.Equal(t, 0, c.Len())

	fresh, err := c.GetOrSet(context.Background(), "k", time.Minute, func(context.Context) (any, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	require.Equal(t, "fresh", fresh)
}

func TestDelMany(t *testing.T) {
	c := NewCache()
	for _, key := range []string{"a", "b", "c"} {
		_, err := c.GetOrSet(context.Background(), key, time.Minute, func(context.Context) (any, error) {
			return key, nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, c.DelMany(context.Background(), "a", "b", "missing"))
	require.Equal(t, 1, c.Len())

	calls := 0
	_, err := c.GetOrSet(context.Background(), "a", time.Minute, func(context.Context) (any, error) {
		calls++
		return "reloaded", nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}
