package session

import (
	"context"
	"fmt"
	"time"

	"github.com/dferraz/mercado-backend/config"
	"github.com/dferraz/mercado-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "session:revoked:"

// RedisStore is a Store backed by Redis. Revocations expire together
// with the token they belong to, Redis handles the TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	logger.Info("Initializing Redis session store", map[string]interface{}{
		"addr": cfg.Addr,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr,
		})
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis session store ready")
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	logger.Debug("Revoking session", map[string]interface{}{
		"ttl": ttl.String(),
	})

	key := revokedKeyPrefix + sessionID
	if err := s.client.Set(ctx, key, "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to revoke session", err)
		return err
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	key := revokedKeyPrefix + sessionID
	val, err := s.client.Get(ctx, key).Result()

	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check session revocation", err)
		return false, err
	}

	return val == "revoked", nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	logger.Info("Closing Redis connection")
	return s.client.Close()
}
