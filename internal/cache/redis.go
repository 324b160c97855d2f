package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"farm-backend/internal/config"
)

// Report cache keys.
const (
	ReportSummaryKey     = "reports:summary"
	FarmerOutstandingKey = "reports:farmers:outstanding"
	ReportPrefix         = "reports:*"
	SettingsPrefix       = "settings:*"
)

// ReportTTL is how long a cached report stays valid without a write.
const ReportTTL = 5 * time.Minute

var client *redis.Client

// Init connects to Redis. On failure the client stays nil and every cache
// call below becomes a no-op, so the service runs without Redis.
func Init(cfg *config.Config) error {
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// Close releases the connection, if any.
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateReportCaches clears every cached report.
// Called after any write to purchases, sales, godown sales, expenses or mortality.
func InvalidateReportCaches(ctx context.Context) {
	InvalidatePattern(ctx, ReportPrefix)
}

// InvalidateSettingCaches clears cached settings and the reports derived from them.
func InvalidateSettingCaches(ctx context.Context) {
	InvalidatePattern(ctx, SettingsPrefix)
	InvalidateReportCaches(ctx)
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

// Enabled reports whether a Redis connection was established.
func Enabled() bool {
	return client != nil
}
