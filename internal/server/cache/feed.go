// Package cache keeps rendered view data in Redis. Each view has a
// generation counter; cached data is stored under the generation it was
// read at, and invalidating a view bumps its generation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/learnfeed/internal/server/models"
	"github.com/dmitrijs2005/learnfeed/internal/server/views"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "learnfeed:view:"

func genKey(view views.View) string {
	return keyPrefix + string(view) + ":gen"
}

func dataKey(view views.View, gen int64) string {
	return keyPrefix + string(view) + ":" + strconv.FormatInt(gen, 10)
}

// FeedCache stores the feed listing as JSON. A listing written under a
// generation that has since been bumped is never served.
type FeedCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewFeedCache(rdb redis.Cmdable, ttl time.Duration) *FeedCache {
	return &FeedCache{rdb: rdb, ttl: ttl}
}

func (c *FeedCache) generation(ctx context.Context, view views.View) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(view)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

// GetFeed returns the cached feed and the generation it looked under. A miss
// is ok=false with a nil error; gen is still valid for a following SetFeed.
func (c *FeedCache) GetFeed(ctx context.Context) (posts []*models.Post, gen int64, ok bool, err error) {
	gen, err = c.generation(ctx, views.Feed)
	if err != nil {
		return nil, 0, false, err
	}

	data, err := c.rdb.Get(ctx, dataKey(views.Feed, gen)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gen, false, nil
		}
		return nil, 0, false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, 0, false, fmt.Errorf("decode cached feed: %w", err)
	}
	return posts, gen, true, nil
}

// SetFeed stores posts under gen, the generation GetFeed reported before the
// store was queried.
func (c *FeedCache) SetFeed(ctx context.Context, gen int64, posts []*models.Post) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	if err := c.rdb.Set(ctx, dataKey(views.Feed, gen), string(data), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate bumps the view's generation; older entries expire on their TTL.
func (c *FeedCache) Invalidate(ctx context.Context, view views.View) error {
	if err := c.rdb.Incr(ctx, genKey(view)).Err(); err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	return nil
}
