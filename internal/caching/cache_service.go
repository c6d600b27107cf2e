package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"notagest/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = redis.Nil

type CacheService interface {
	// Profile caching
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	SetProfile(ctx context.Context, profile *models.Profile, ttl time.Duration) error
	DeleteProfile(ctx context.Context, userID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as bare host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func profileKey(userID uuid.UUID) string {
	return fmt.Sprintf("notagest:profile:%s", userID.String())
}

func (r *redisCacheService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	data, err := r.client.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{}
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *redisCacheService) SetProfile(ctx context.Context, profile *models.Profile, ttl time.Duration) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, profileKey(profile.UserID), data, ttl).Err()
}

func (r *redisCacheService) DeleteProfile(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, profileKey(userID)).Err()
}

// IsRateLimited only reads the counter; callers decide which attempts
// count against the limit via IncrementRateLimit.
func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("notagest:ratelimit:%s", key)
	count, err := r.client.Get(ctx, cacheKey).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return true, err
	}
	return count >= int64(limit), nil
}

func (r *redisCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	cacheKey := fmt.Sprintf("notagest:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return err
	}

	// Set expiry on first increment
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
