// internal/cache/cache.go
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"pump-selector/internal/common/logger"
	"pump-selector/internal/common/metrics"
	"pump-selector/internal/models"

	"github.com/redis/go-redis/v9"
)

// RankingCache is a cache-aside layer over ranking results. Keys embed the
// catalog snapshot version, so a refresh implicitly invalidates every entry
// computed against the previous snapshot. Cache failures degrade to a miss;
// they never fail a ranking call.
type RankingCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// New creates a ranking cache with the given TTL.
func New(client *redis.Client, ttl time.Duration, log logger.Logger) *RankingCache {
	return &RankingCache{
		client: client,
		ttl:    ttl,
		log:    log.WithFields(map[string]interface{}{"component": "ranking-cache"}),
	}
}

// Key derives the deterministic cache key for a requirement against one
// catalog snapshot. Identical requirements hash identically; any field
// change, including the diagnostics flag, produces a distinct key.
func Key(snapshotVersion string, req models.Requirement) string {
	payload := fmt.Sprintf("%s|%g|%g|%g|%g|%s|%d|%t",
		snapshotVersion,
		req.FlowM3Hr, req.HeadM, req.NPSHAvailableM, req.MaxPowerKw,
		req.PumpType, req.EffectiveMaxResults(), req.IncludeExclusions,
	)
	return fmt.Sprintf("selection:ranking:%x", sha256.Sum256([]byte(payload)))
}

// Get returns the cached ranking result for the key, or ok=false on a miss
// or any cache failure.
func (c *RankingCache) Get(ctx context.Context, key string) (*models.RankingResult, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}

	var result models.RankingResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		c.log.Warn("cache entry corrupt, dropping", map[string]interface{}{"key": key, "error": err.Error()})
		c.client.Del(ctx, key)
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return &result, true
}

// Put stores a ranking result under the key. Failures are logged and
// swallowed.
func (c *RankingCache) Put(ctx context.Context, key string, result *models.RankingResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.log.Warn("cache marshal failed", map[string]interface{}{"key": key, "error": err.Error()})
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
