package infrastructure

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yourusername/streamfetch-go/internal/domain"
)

// RedisSlotStore keeps slots as plain Redis string keys
type RedisSlotStore struct {
	rdb     *redis.Client
	timeout time.Duration
}

// NewRedisSlotStore wraps an existing client. Every call is bounded by timeout.
func NewRedisSlotStore(rdb *redis.Client, timeout time.Duration) *RedisSlotStore {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &RedisSlotStore{rdb: rdb, timeout: timeout}
}

// NewRedisSlotStoreFromConfig dials Redis using the storage configuration
func NewRedisSlotStoreFromConfig(cfg *domain.StorageConfig) *RedisSlotStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewRedisSlotStore(rdb, cfg.RedisTimeout)
}

// Get returns the value stored under key
func (s *RedisSlotStore) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	value, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrSlotNotFound
	}
	return value, err
}

// Put replaces the value stored under key, without expiry
func (s *RedisSlotStore) Put(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.rdb.Set(ctx, key, value, 0).Err()
}

// Ping checks the Redis connection
func (s *RedisSlotStore) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return s.rdb.Ping(ctx).Err()
}

// Close closes the underlying client
func (s *RedisSlotStore) Close() error {
	return s.rdb.Close()
}
