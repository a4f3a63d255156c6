package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"farmacia/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return rdb, nil
}

const dashboardVersionKey = "dashboard:version"

// DashboardCache stores computed dashboards per (days, calendar day).
// Invalidation bumps a version counter so stale entries are never read and
// simply expire with their TTL.
type DashboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDashboardCache(rdb *redis.Client, ttl time.Duration) *DashboardCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &DashboardCache{rdb: rdb, ttl: ttl}
}

func (c *DashboardCache) key(ctx context.Context, dias int, dia string) (string, error) {
	version, err := c.rdb.Get(ctx, dashboardVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("dashboard:v%d:%s:%d", version, dia, dias), nil
}

// Get returns the cached dashboard and the versioned key it looked under.
// The key is returned on a miss too so Set stores under the version that was
// current before computing; an invalidation in between orphans the entry.
func (c *DashboardCache) Get(ctx context.Context, dias int, dia string) (*dto.Dashboard, string, bool) {
	key, err := c.key(ctx, dias, dia)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard cache: version lookup failed")
		return nil, "", false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("dashboard cache: get failed")
		}
		return nil, key, false
	}
	var d dto.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dashboard cache: corrupt entry")
		return nil, key, false
	}
	return &d, key, true
}

func (c *DashboardCache) Set(ctx context.Context, key string, d *dto.Dashboard) {
	raw, err := json.Marshal(d)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dashboard cache: set failed")
	}
}

// Invalidate discards every cached dashboard.
func (c *DashboardCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, dashboardVersionKey).Err(); err != nil {
		log.Warn().Err(err).Msg("dashboard cache: invalidate failed")
	}
}
