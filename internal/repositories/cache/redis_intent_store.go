// Package cache holds short-lived key/value stores backed by redis or process memory.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SscSPs/trakmymedia/internal/apperrors"
	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portsrepo "github.com/SscSPs/trakmymedia/internal/core/ports/repositories"
	"github.com/SscSPs/trakmymedia/internal/utils"
)

const intentNamespace = "tmm:intent"

// RedisIntentStore keeps navigation intents in redis, keyed by the hash of the intent id.
type RedisIntentStore struct {
	client redis.UniversalClient
}

var _ portsrepo.IntentStore = (*RedisIntentStore)(nil)

func NewRedisIntentStore(client redis.UniversalClient) *RedisIntentStore {
	return &RedisIntentStore{client: client}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func intentKey(intentID string) string {
	return intentNamespace + ":" + utils.HashOpaqueToken(intentID)
}

func (s *RedisIntentStore) Save(ctx context.Context, intent domain.NavigationIntent, ttl time.Duration) error {
	payload, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("failed to encode intent: %w", err)
	}
	if err := s.client.Set(ctx, intentKey(intent.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store intent: %w", err)
	}
	return nil
}

func (s *RedisIntentStore) Consume(ctx context.Context, intentID string) (*domain.NavigationIntent, error) {
	payload, err := s.client.GetDel(ctx, intentKey(intentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to consume intent: %w", err)
	}
	var intent domain.NavigationIntent
	if err := json.Unmarshal(payload, &intent); err != nil {
		return nil, fmt.Errorf("failed to decode intent: %w", err)
	}
	return &intent, nil
}
