package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	invalidateChunk = 500
	maxFillAttempts = 3
)

// UnreadCache keeps per-user unread counts. Every invalidation bumps a per-user
// generation key; a fill only commits if the generation did not move while the
// count was being loaded.
type UnreadCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUnreadCache(client *redis.Client, ttl time.Duration) *UnreadCache {
	return &UnreadCache{client: client, ttl: ttl}
}

func unreadKey(userID string) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

func generationKey(userID string) string {
	return fmt.Sprintf("notifications:unread-gen:%s", userID)
}

func (c *UnreadCache) Get(ctx context.Context, userID string) (int64, bool, error) {
	count, err := c.client.Get(ctx, unreadKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

// GetOrLoad returns the cached count, or calls load and caches its result. A fill
// racing an Invalidate is discarded and the count reloaded.
func (c *UnreadCache) GetOrLoad(ctx context.Context, userID string, load func(context.Context) (int64, error)) (int64, error) {
	key := unreadKey(userID)

	for attempt := 0; attempt < maxFillAttempts; attempt++ {
		var count int64
		err := c.client.Watch(ctx, func(tx *redis.Tx) error {
			cached, err := tx.Get(ctx, key).Int64()
			if err == nil {
				count = cached
				return nil
			}
			if !errors.Is(err, redis.Nil) {
				return err
			}

			loaded, err := load(ctx)
			if err != nil {
				return err
			}
			count = loaded

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, loaded, c.ttl)
				return nil
			})
			return err
		}, generationKey(userID))

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return count, err
	}

	// Invalidations kept winning; answer from the source without caching.
	return load(ctx)
}

func (c *UnreadCache) Invalidate(ctx context.Context, userIDs ...string) error {
	for start := 0; start < len(userIDs); start += invalidateChunk {
		end := min(start+invalidateChunk, len(userIDs))
		keys := make([]string, 0, end-start)

		_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, id := range userIDs[start:end] {
				keys = append(keys, unreadKey(id))
				pipe.Incr(ctx, generationKey(id))
				pipe.Expire(ctx, generationKey(id), c.ttl)
			}
			pipe.Del(ctx, keys...)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
