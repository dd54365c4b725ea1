package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"interview-orchestrator/internal/config"
	"interview-orchestrator/internal/models"
)

const redisKeyPrefix = "pipeline:"

type redisStore struct {
	client *redis.Client
}

// NewRedisClient creates the shared Redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// NewRedisStore returns a store keeping each pipeline snapshot under
// "pipeline:<id>". Entries do not expire; sessions are retained until
// externally purged.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, id string) (*models.Pipeline, bool, error) {
	value, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load pipeline %s: %w", id, err)
	}

	var pipeline models.Pipeline
	if err := json.Unmarshal(value, &pipeline); err != nil {
		return nil, false, fmt.Errorf("failed to decode pipeline %s: %w", id, err)
	}
	return &pipeline, true, nil
}

func (s *redisStore) Put(ctx context.Context, id string, pipeline *models.Pipeline) error {
	value, err := json.Marshal(pipeline)
	if err != nil {
		return fmt.Errorf("failed to encode pipeline %s: %w", id, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+id, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to store pipeline %s: %w", id, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete pipeline %s: %w", id, err)
	}
	return nil
}
