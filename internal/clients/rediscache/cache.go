package rediscache

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
)

// ViewCache caches rendered list views and drops them whenever a mutation
// touches the underlying data, the way the original app revalidated its
// pages. Disabled deployments pass a nil ViewCache around; every method is
// nil-safe.
type ViewCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Invalidate(ctx context.Context, keys ...string)
	Close() error
}

type viewCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func New(log *logger.Logger) (ViewCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &viewCache{
		log: log.With("client", "RedisViewCache"),
		rdb: rdb,
		ttl: 5 * time.Minute,
	}, nil
}

func (c *viewCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *viewCache) Set(ctx context.Context, key string, value []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", "key", key, "error", err)
	}
}

func (c *viewCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Cache invalidation failed", "keys", keys, "error", err)
	}
}

func (c *viewCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
