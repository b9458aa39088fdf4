package rdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/notetube/notetube/internal/config"
)

type Service struct {
	Client *redis.Client
}

// New produces a new Redis service
func New(cfg *config.Config) (*Service, error) {

	if cfg == nil {
		return nil, errors.New("unable to create Redis service with nil config")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
		DB:       0, // use default DB
	})

	return &Service{rdb}, nil
}

// Get a string value by key
func (rs *Service) Get(ctx context.Context, key string) (string, error) {
	return rs.Client.Get(ctx, key).Result()
}

// Set a string value with a TTL
func (rs *Service) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return rs.Client.Set(ctx, key, value, ttl).Err()
}

// Delete one or more keys
func (rs *Service) Delete(ctx context.Context, keys ...string) error {
	return rs.Client.Del(ctx, keys...).Err()
}

// Health checks if the Redis client is healthy
func (rs *Service) Health(ctx context.Context) map[string]any {

	start := time.Now()

	// Test connectivity
	ping, err := rs.Client.Ping(ctx).Result()
	if err != nil {
		return map[string]any{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}

	// Get key count
	keyCount, _ := rs.Client.DBSize(ctx).Result()

	// Get server time (useful for checking if server is responsive)
	serverTime, _ := rs.Client.Time(ctx).Result()

	return map[string]any{
		"status":      "healthy",
		"ping":        ping,
		"response_ms": time.Since(start).Milliseconds(),
		"total_keys":  keyCount,
		"server_time": serverTime.Unix(),
	}
}
