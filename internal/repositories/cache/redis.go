// Package cache wraps the Redis client used for user lookups, KYC
// status caching, and the shared rate-limit counters.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"prequity/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// CacheService provides typed cache operations with a default TTL.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{client: client, ttl: defaultTTL}
}

// Client exposes the underlying Redis client for collaborators that
// need raw access (the shared rate-limit store).
func (s *CacheService) Client() *redis.Client { return s.client }

func (s *CacheService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	val, err := s.client.Get(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, userKey(user.ID), data, s.ttl).Err()
}

func (s *CacheService) InvalidateUser(ctx context.Context, userID uint) error {
	return s.client.Del(ctx, userKey(userID)).Err()
}

func (s *CacheService) GetKYCStatus(ctx context.Context, userID uint) (*models.KYCStatusResponse, error) {
	val, err := s.client.Get(ctx, kycStatusKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	var status models.KYCStatusResponse
	if err := json.Unmarshal([]byte(val), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *CacheService) CacheKYCStatus(ctx context.Context, userID uint, status *models.KYCStatusResponse) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	// Status changes on every upload and review action, so keep the
	// window short rather than invalidating from every writer.
	return s.client.Set(ctx, kycStatusKey(userID), data, time.Minute).Err()
}

func (s *CacheService) InvalidateKYCStatus(ctx context.Context, userID uint) error {
	return s.client.Del(ctx, kycStatusKey(userID)).Err()
}

// HealthCheck pings Redis.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *CacheService) Close() error {
	return s.client.Close()
}

func userKey(userID uint) string {
	return fmt.Sprintf("user:id:%d", userID)
}

func kycStatusKey(userID uint) string {
	return fmt.Sprintf("kyc:status:%d", userID)
}
