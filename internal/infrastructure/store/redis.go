// Package store provides device-scoped durable key-value storage: the
// gateway's stand-in for the web client's local storage.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eventura/client-gateway/internal/core/ports"
)

const defaultPingTimeout = 5 * time.Second

// deviceTTL bounds how long an idle device's state is retained. Every
// write renews it, so active devices never expire.
const deviceTTL = 30 * 24 * time.Hour

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a
// ping. A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

var _ ports.DeviceStore = (*RedisStore)(nil)

// RedisStore is a ports.DeviceStore backed by Redis.
// Key format: device:<device_id>:<key>
type RedisStore struct {
	client   *redis.Client
	deviceID string
}

// NewRedisStore scopes a store to one device.
func NewRedisStore(client *redis.Client, deviceID string) *RedisStore {
	return &RedisStore{client: client, deviceID: deviceID}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("device store get: %w", err)
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, deviceTTL).Err(); err != nil {
		return fmt.Errorf("device store set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = s.key(k)
	}
	if err := s.client.Del(ctx, scoped...).Err(); err != nil {
		return fmt.Errorf("device store delete: %w", err)
	}
	return nil
}

func (s *RedisStore) key(k string) string {
	return fmt.Sprintf("device:%s:%s", s.deviceID, k)
}
