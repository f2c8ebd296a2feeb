package gateway

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"

	"github.com/opsboard/userdash/internal/model"
)

// Cache stores the last successfully fetched user collection so a later
// failed fetch can serve recent data instead of the demo dataset.
// Implementations are best-effort: callers treat every error as a miss.
type Cache interface {
	// Fetch returns the cached snapshot, or a nil slice and nil error
	// when no snapshot exists.
	Fetch(ctx context.Context) ([]model.User, error)
	// Store replaces the cached snapshot.
	Store(ctx context.Context, users []model.User) error
}

// snapshotKey holds the whole collection as a single JSON document.
const snapshotKey = "userdash:users"

// Compile-time interface check.
var _ Cache = (*RedisCache)(nil)

// RedisCache is a Cache backed by one Redis key. The entire snapshot is
// replaced on every write; with at most a few hundred users the blob
// stays small and per-user keys would buy nothing.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to a Redis instance at the provided address. A
// ping is performed to verify connectivity.
func NewRedisCache(addr string, password string, tls *tls.Config) (*RedisCache, error) {
	opts := &redis.Options{
		Addr:     addr,
		Password: password, // empty string means no auth
		DB:       0,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	}
	if tls != nil {
		opts.TLSConfig = tls
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisCache{client: client}, nil
}

// Fetch reads the snapshot blob. A missing key is a miss, not an error.
func (c *RedisCache) Fetch(ctx context.Context) ([]model.User, error) {
	data, err := c.client.Get(ctx, snapshotKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var users []model.User
	if err := json.Unmarshal([]byte(data), &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return users, nil
}

// Store writes the snapshot as one JSON blob, replacing any previous
// value.
func (c *RedisCache) Store(ctx context.Context, users []model.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
