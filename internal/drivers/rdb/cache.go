package rdb

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetCachedData is a generic read-through cache wrapper. On a cache miss
// it executes the callable, stores the result and returns it. Cache
// failures never fail the call, they fall through to the callable.
// The cached type needs to implement encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler if it's not a primitive.
func GetCachedData[T any](
	ctx context.Context,
	rdb *Service,
	cacheKey string,
	cacheTimeout time.Duration,
	callable func() (T, error), // Function to call if cache miss
) (T, error) {

	var zero, data T

	// Try to get the value from the Redis cache
	err := rdb.Client.Get(ctx, cacheKey).Scan(&data)
	if err == nil {
		return data, nil
	}

	if err != redis.Nil {
		log.Printf(
			"Error getting data from Redis for key '%s': %v",
			cacheKey, err,
		)
	}

	// If not in cache or error, execute the function
	data, err = callable()
	if err != nil {
		return zero, err
	}

	// Cache the data for later use
	if err = rdb.Client.Set(ctx, cacheKey, data, cacheTimeout).Err(); err != nil {
		// Don't return an error if unable to set redis cache
		log.Printf("Error setting cache in Redis for key '%s': %v", cacheKey, err)
	}

	return data, nil
}
