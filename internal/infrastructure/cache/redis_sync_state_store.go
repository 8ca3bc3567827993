package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSyncStateStore implements SyncStateStore using Redis
// This is suitable for distributed deployments where multiple instances
// need to agree on the last completed sync run
type RedisSyncStateStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSyncStateStore creates a new Redis-based sync state store
func NewRedisSyncStateStore(cfg RedisConfig) (*RedisSyncStateStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSyncStateStore{
		client:    client,
		keyPrefix: "sync:last:",
	}, nil
}

// NewRedisSyncStateStoreWithClient creates a store with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisSyncStateStoreWithClient(client *redis.Client, keyPrefix string) *RedisSyncStateStore {
	if keyPrefix == "" {
		keyPrefix = "sync:last:"
	}
	return &RedisSyncStateStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// SetLastSync records a successful run of the given sync kind.
func (s *RedisSyncStateStore) SetLastSync(ctx context.Context, kind string, at time.Time) error {
	key := s.keyPrefix + kind
	if err := s.client.Set(ctx, key, at.UTC().Format(time.RFC3339), 0).Err(); err != nil {
		return fmt.Errorf("failed to record last sync: %w", err)
	}
	return nil
}

// LastSync returns the recorded run time, or a zero time when none exists.
func (s *RedisSyncStateStore) LastSync(ctx context.Context, kind string) (time.Time, error) {
	key := s.keyPrefix + kind
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to read last sync: %w", err)
	}

	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse last sync value: %w", err)
	}
	return at, nil
}

// Close closes the Redis client
func (s *RedisSyncStateStore) Close() error {
	return s.client.Close()
}
