package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/quickcar/quickcar-backend/internal/matching"
	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// SetListingLocation stores a listing's live position in Redis
func SetListingLocation(ctx context.Context, quickCarID uint, lat, lng float64) error {
	locationData := map[string]interface{}{
		"lat":     lat,
		"lng":     lng,
		"updated": time.Now().Unix(),
	}

	data, err := json.Marshal(locationData)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("quickcar:location:%d", quickCarID)
	return RedisClient.Set(ctx, key, data, time.Hour).Err()
}

// GetListingLocation retrieves a listing's live position from Redis
func GetListingLocation(ctx context.Context, quickCarID uint) (lat, lng float64, err error) {
	key := fmt.Sprintf("quickcar:location:%d", quickCarID)
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	var locationData map[string]interface{}
	if err := json.Unmarshal([]byte(data), &locationData); err != nil {
		return 0, 0, err
	}

	lat, _ = locationData["lat"].(float64)
	lng, _ = locationData["lng"].(float64)

	return lat, lng, nil
}

// CacheNearbyCandidates stores the nearby-driver result for a query point
func CacheNearbyCandidates(ctx context.Context, lat, lng float64, candidates []matching.Candidate) error {
	key := fmt.Sprintf("nearby:quickcars:%.6f:%.6f", lat, lng)
	data, err := json.Marshal(candidates)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, key, data, 5*time.Minute).Err()
}

// GetCachedNearbyCandidates retrieves a cached nearby-driver result
func GetCachedNearbyCandidates(ctx context.Context, lat, lng float64) ([]matching.Candidate, error) {
	key := fmt.Sprintf("nearby:quickcars:%.6f:%.6f", lat, lng)
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var candidates []matching.Candidate
	if err := json.Unmarshal([]byte(data), &candidates); err != nil {
		return nil, err
	}

	return candidates, nil
}
