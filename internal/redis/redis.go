// Package redis caches derived schedule values so the portal does not rescan
// rules on every request. The cache is best-effort: misses and errors both
// fall through to recomputation.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

// nextScheduledTTL bounds staleness if an invalidation is ever lost.
const nextScheduledTTL = 24 * time.Hour

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// Enabled reports whether a client was configured. All helpers are no-ops
// when it was not.
func Enabled() bool {
	return Rdb != nil
}

func nextScheduledKey(workerID int) string {
	return fmt.Sprintf("worker:%d:next_scheduled", workerID)
}

// GetNextScheduled returns the cached next scheduled date for the worker, or
// "" on a miss.
func GetNextScheduled(ctx context.Context, workerID int) string {
	if !Enabled() {
		return ""
	}
	val, err := Rdb.Get(ctx, nextScheduledKey(workerID)).Result()
	if err != nil {
		return ""
	}
	return val
}

func SetNextScheduled(ctx context.Context, workerID int, dateStr string) {
	if !Enabled() {
		return
	}
	if err := Rdb.Set(ctx, nextScheduledKey(workerID), dateStr, nextScheduledTTL).Err(); err != nil {
		log.Warn().Err(err).Int("worker_id", workerID).Msg("failed to cache next scheduled date")
	}
}

// InvalidateNextScheduled drops the cached value after a rule mutation.
func InvalidateNextScheduled(ctx context.Context, workerID int) {
	if !Enabled() {
		return
	}
	if err := Rdb.Del(ctx, nextScheduledKey(workerID)).Err(); err != nil {
		log.Warn().Err(err).Int("worker_id", workerID).Msg("failed to invalidate next scheduled date")
	}
}
