package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCounter(t *testing.T) (*UnreadCounter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewUnreadCounter(client), mr
}

func TestUnreadCounter_CacheAside(t *testing.T) {
	counter, mr := newTestCounter(t)
	ctx := context.Background()

	loads := 0
	load := func(context.Context) (int64, error) {
		loads++
		return 3, nil
	}

	n, err := counter.GetOrLoad(ctx, 42, load)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = counter.GetOrLoad(ctx, 42, load)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, 1, loads)
	assert.True(t, mr.Exists("unread:42"))

	counter.Invalidate(ctx, 42, 43)
	assert.False(t, mr.Exists("unread:42"))

	_, err = counter.GetOrLoad(ctx, 42, load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}

func TestUnreadCounter_InvalidateDuringLoadDropsStaleValue(t *testing.T) {
	counter, mr := newTestCounter(t)
	ctx := context.Background()

	// the database moves from 0 to 1 unread while the first read is loading
	dbCount := int64(0)
	n, err := counter.GetOrLoad(ctx, 7, func(context.Context) (int64, error) {
		loaded := dbCount
		dbCount = 1
		counter.Invalidate(ctx, 7)
		return loaded, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.False(t, mr.Exists("unread:7"))

	n, err = counter.GetOrLoad(ctx, 7, func(context.Context) (int64, error) { return dbCount, nil })
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// with no write in between the value is cached again
	cached, ok := counter.Get(ctx, 7)
	require.True(t, ok)
	assert.Equal(t, int64(1), cached)
}

func TestUnreadCounter_LoadErrorIsNotCached(t *testing.T) {
	counter, mr := newTestCounter(t)

	_, err := counter.GetOrLoad(context.Background(), 1, func(context.Context) (int64, error) {
		return 0, errors.New("db down")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists("unread:1"))
}

func TestUnreadCounter_DisabledIsNoop(t *testing.T) {
	for name, counter := range map[string]*UnreadCounter{
		"nil receiver": nil,
		"nil client":   NewUnreadCounter(nil),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			counter.Invalidate(ctx, 1)
			_, ok := counter.Get(ctx, 1)
			assert.False(t, ok)

			n, err := counter.GetOrLoad(ctx, 1, func(context.Context) (int64, error) { return 9, nil })
			require.NoError(t, err)
			assert.Equal(t, int64(9), n)
		})
	}
}
