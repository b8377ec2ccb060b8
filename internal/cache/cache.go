package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache is an optional idempotency layer: a repeat request for the same
// document URL inside the TTL window reuses the already-uploaded report key
// instead of re-running the pipeline. Cache failures are never fatal; the
// pipeline just runs again.
type ReportCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func New(addr string, ttl time.Duration, logger *slog.Logger) *ReportCache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ReportCache{
		rdb:    redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		logger: logger,
	}
}

// CacheKey derives the redis key for a document URL.
func CacheKey(fileURL string) string {
	sum := sha256.Sum256([]byte(fileURL))
	return "leasescan:report:" + hex.EncodeToString(sum[:])
}

// Lookup returns the stored report object key for fileURL, if any.
func (c *ReportCache) Lookup(ctx context.Context, fileURL string) (string, bool) {
	if c == nil {
		return "", false
	}
	key, err := c.rdb.Get(ctx, CacheKey(fileURL)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache.lookup_error", "error", err)
		}
		return "", false
	}
	return key, true
}

// Store records the uploaded report object key for fileURL.
func (c *ReportCache) Store(ctx context.Context, fileURL, reportKey string) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, CacheKey(fileURL), reportKey, c.ttl).Err(); err != nil {
		c.logger.Warn("cache.store_error", "error", err)
	}
}

// Close releases the redis connection.
func (c *ReportCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
