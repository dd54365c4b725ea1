package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"interview-orchestrator/internal/models"
)

// memoryStore keeps JSON-encoded snapshots so callers never share a live
// pipeline value with the store, matching the durable backends.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns a non-durable in-process store, used in tests and
// for local development without Postgres or Redis.
func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string][]byte)}
}

func (s *memoryStore) Get(ctx context.Context, id string) (*models.Pipeline, bool, error) {
	s.mu.RLock()
	value, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	var pipeline models.Pipeline
	if err := json.Unmarshal(value, &pipeline); err != nil {
		return nil, false, fmt.Errorf("failed to decode pipeline %s: %w", id, err)
	}
	return &pipeline, true, nil
}

func (s *memoryStore) Put(ctx context.Context, id string, pipeline *models.Pipeline) error {
	value, err := json.Marshal(pipeline)
	if err != nil {
		return fmt.Errorf("failed to encode pipeline %s: %w", id, err)
	}

	s.mu.Lock()
	s.data[id] = value
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
	return nil
}
