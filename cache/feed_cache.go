// Package cache keeps computed reader feeds in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"newsdesk/config"
	"newsdesk/models"

	"github.com/redis/go-redis/v9"
)

const generationKey = "feed:generation"

// FeedCache stores feeds under a key scoped by the global generation and the
// reader's own generation. Bumping either orphans the affected feeds at once;
// orphans expire by TTL. A feed is written under the version read before it
// was built, so a feed built across a bump lands on an orphaned key.
type FeedCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *FeedCache {
	return &FeedCache{rdb: rdb, ttl: ttl}
}

// Connect opens a client for cfg and checks it with PING.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	const op = "cache.Connect"
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rdb, nil
}

func userGenerationKey(userID uint) string {
	return fmt.Sprintf("feed:generation:user:%d", userID)
}

// version reads both generations in one round trip. Missing counters are 0.
func (c *FeedCache) version(ctx context.Context, userID uint) (models.FeedVersion, error) {
	vals, err := c.rdb.MGet(ctx, generationKey, userGenerationKey(userID)).Result()
	if err != nil {
		return models.FeedVersion{}, err
	}
	var v models.FeedVersion
	if v.Global, err = counter(vals[0]); err != nil {
		return models.FeedVersion{}, err
	}
	if v.User, err = counter(vals[1]); err != nil {
		return models.FeedVersion{}, err
	}
	return v, nil
}

func counter(val interface{}) (int64, error) {
	switch v := val.(type) {
	case nil:
		return 0, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected generation value %T", val)
	}
}

func feedKey(v models.FeedVersion, kind models.FeedKind, userID uint) string {
	return fmt.Sprintf("feed:v%d.%d:%s:%d", v.Global, v.User, kind, userID)
}

// Get returns the cached feed and the version it was looked up under. The
// version is valid on a miss too and must be passed to Set.
func (c *FeedCache) Get(ctx context.Context, kind models.FeedKind, userID uint) ([]models.ArticleResponse, models.FeedVersion, bool, error) {
	const op = "cache.FeedCache.Get"
	v, err := c.version(ctx, userID)
	if err != nil {
		return nil, v, false, fmt.Errorf("%s: %w", op, err)
	}

	raw, err := c.rdb.Get(ctx, feedKey(v, kind, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, v, false, nil
	}
	if err != nil {
		return nil, v, false, fmt.Errorf("%s: %w", op, err)
	}

	var items []models.ArticleResponse
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, v, false, fmt.Errorf("%s: %w", op, err)
	}
	return items, v, true, nil
}

// Set stores items under the version returned by the Get that preceded the
// build.
func (c *FeedCache) Set(ctx context.Context, v models.FeedVersion, kind models.FeedKind, userID uint, items []models.ArticleResponse) error {
	const op = "cache.FeedCache.Set"
	if items == nil {
		items = []models.ArticleResponse{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.rdb.Set(ctx, feedKey(v, kind, userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// InvalidateUser moves the user to a new generation, orphaning their feeds
// including any still being built.
func (c *FeedCache) InvalidateUser(ctx context.Context, userID uint) error {
	if err := c.rdb.Incr(ctx, userGenerationKey(userID)).Err(); err != nil {
		return fmt.Errorf("cache.FeedCache.InvalidateUser: %w", err)
	}
	return nil
}

func (c *FeedCache) BumpGeneration(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("cache.FeedCache.BumpGeneration: %w", err)
	}
	return nil
}
