// Package storage provides the durable key-value store for pipeline state.
// One key per session id; the whole pipeline snapshot is the value.
package storage

import (
	"context"

	"interview-orchestrator/internal/models"
)

type Store interface {
	// Get returns the pipeline stored under id. found is false when no
	// pipeline exists under that key; that is not an error.
	Get(ctx context.Context, id string) (pipeline *models.Pipeline, found bool, err error)
	// Put writes the full pipeline snapshot under id, replacing any
	// previous value.
	Put(ctx context.Context, id string, pipeline *models.Pipeline) error
	// Delete removes the pipeline stored under id. Deleting an absent key
	// is a no-op.
	Delete(ctx context.Context, id string) error
}
