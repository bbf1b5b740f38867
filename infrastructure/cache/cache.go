package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/redis/go-redis/v9"

	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
)

// ErrCacheMiss is returned by stores when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// IStore is a byte-oriented key/value store with per-key TTL.
type IStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// NewCache connects to Redis and verifies the connection.
func NewCache(ctx context.Context, addr, username, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	logger.GetLogger().WithField("addr", addr).Info("Redis connected")
	return client, nil
}

// RedisStore stores entries in Redis.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore wraps a Redis client; prefix namespaces every key.
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read redis key: %w", err)
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write redis key: %w", err)
	}
	return nil
}

// MemcachedStore stores entries in memcached.
type MemcachedStore struct {
	client *memcache.Client
	prefix string
}

// NewMemcachedStore creates a store over the given memcached servers.
func NewMemcachedStore(servers []string, prefix string) *MemcachedStore {
	return &MemcachedStore{client: memcache.New(servers...), prefix: prefix}
}

func (s *MemcachedStore) Get(_ context.Context, key string) ([]byte, error) {
	item, err := s.client.Get(s.prefix + key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read memcached key: %w", err)
	}
	return item.Value, nil
}

func (s *MemcachedStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.client.Set(&memcache.Item{
		Key:        s.prefix + key,
		Value:      value,
		Expiration: int32(ttl / time.Second),
	})
	if err != nil {
		return fmt.Errorf("failed to write memcached key: %w", err)
	}
	return nil
}

// Ping checks that every memcached server answers.
func (s *MemcachedStore) Ping(_ context.Context) error {
	return s.client.Ping()
}
