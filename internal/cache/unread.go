package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	unreadTTL = 10 * time.Minute
	// a version outlives any count stored under it
	versionTTL = 2 * unreadTTL
)

// UnreadCounter caches each user's unread-notification count. The database stays the
// source of truth: entries are dropped on every write and refilled on the next read.
// Each user also has a version that Invalidate bumps, so a count loaded before an
// invalidation is never written back after it.
// A nil *UnreadCounter, or one without a client, does nothing.
type UnreadCounter struct {
	client *redis.Client
}

// NewUnreadCounter wraps client, which may be nil
func NewUnreadCounter(client *redis.Client) *UnreadCounter {
	return &UnreadCounter{client: client}
}

func unreadKey(userID uint) string {
	return fmt.Sprintf("unread:%d", userID)
}

func versionKey(userID uint) string {
	return fmt.Sprintf("unread:%d:v", userID)
}

func (c *UnreadCounter) enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached count and whether there was one
func (c *UnreadCounter) Get(ctx context.Context, userID uint) (int64, bool) {
	if !c.enabled() {
		return 0, false
	}
	n, err := c.client.Get(ctx, unreadKey(userID)).Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

// Invalidate drops the cached counts of userIDs and bumps their versions
func (c *UnreadCounter) Invalidate(ctx context.Context, userIDs ...uint) {
	if !c.enabled() || len(userIDs) == 0 {
		return
	}
	_, _ = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range userIDs {
			pipe.Incr(ctx, versionKey(id))
			pipe.Expire(ctx, versionKey(id), versionTTL)
			pipe.Del(ctx, unreadKey(id))
		}
		return nil
	})
}

func (c *UnreadCounter) version(ctx context.Context, userID uint) string {
	v, _ := c.client.Get(ctx, versionKey(userID)).Result()
	return v
}

// setIfCurrent stores count only while the user's version is still the one read before loading
func (c *UnreadCounter) setIfCurrent(ctx context.Context, userID uint, version string, count int64) {
	vkey := versionKey(userID)
	_ = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vkey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, unreadKey(userID), count, unreadTTL)
			return nil
		})
		return err
	}, vkey)
}

// GetOrLoad is the cache-aside read: cached value if present, otherwise load and store.
// The loaded value is dropped when an Invalidate lands while it was being loaded.
func (c *UnreadCounter) GetOrLoad(ctx context.Context, userID uint, load func(ctx context.Context) (int64, error)) (int64, error) {
	if n, ok := c.Get(ctx, userID); ok {
		return n, nil
	}
	var version string
	if c.enabled() {
		version = c.version(ctx, userID)
	}
	n, err := load(ctx)
	if err != nil {
		return 0, err
	}
	if c.enabled() {
		c.setIfCurrent(ctx, userID, version, n)
	}
	return n, nil
}
