package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisBlacklistPrefix = "ats:revoked:"

// RedisBlacklistStore shares revoked token ids between API instances through Redis.
// Entries expire together with the token they revoke.
type RedisBlacklistStore struct {
	client *redis.Client
}

// NewRedisBlacklistStore wraps an existing client.
func NewRedisBlacklistStore(client *redis.Client) *RedisBlacklistStore {
	return &RedisBlacklistStore{client: client}
}

// DialRedisBlacklistStore connects to addr and checks the connection.
func DialRedisBlacklistStore(ctx context.Context, addr string, password string) (*RedisBlacklistStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewRedisBlacklistStore(client), nil
}

func (s *RedisBlacklistStore) key(jti string) string {
	return redisBlacklistPrefix + jti
}

// IsBlacklisted implements JwtBlacklistStore.
func (s *RedisBlacklistStore) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read revocation: %w", err)
	}
	return n > 0, nil
}

// AddToBlacklist implements JwtBlacklistStore.
func (s *RedisBlacklistStore) AddToBlacklist(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store revocation: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisBlacklistStore) Close() error {
	return s.client.Close()
}

// BlacklistStoreCloser is a JwtBlacklistStore holding resources that must be released.
type BlacklistStoreCloser interface {
	JwtBlacklistStore
	Close() error
}

// NewBlacklistStore returns a Redis backed store when redisAddr is set, otherwise an in-memory one.
func NewBlacklistStore(ctx context.Context, redisAddr string, redisPassword string) (BlacklistStoreCloser, error) {
	if redisAddr == "" {
		return NewInMemoryBlacklistStore(), nil
	}
	return DialRedisBlacklistStore(ctx, redisAddr, redisPassword)
}
