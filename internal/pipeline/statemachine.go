// Package pipeline owns the per-session state machine. Every mutation runs
// as a serialized load-mutate-persist cycle against the durable store, so
// concurrent calls on the same session queue instead of racing while calls
// on different sessions proceed in parallel.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"interview-orchestrator/internal/apperrors"
	"interview-orchestrator/internal/models"
	"interview-orchestrator/internal/storage"
)

type StateMachine struct {
	store  storage.Store
	locks  *lockRegistry
	logger *zap.Logger
}

func NewStateMachine(store storage.Store, logger *zap.Logger) *StateMachine {
	return &StateMachine{
		store:  store,
		locks:  newLockRegistry(),
		logger: logger,
	}
}

// Start creates and persists a new pipeline in phase "analysis" with
// status "pending" and returns its id. Ids are never reused.
func (m *StateMachine) Start(ctx context.Context, jobTitle, company, jd string) (*models.Pipeline, error) {
	if jobTitle == "" {
		return nil, apperrors.NewValidation("job_title is required")
	}
	if jd == "" {
		return nil, apperrors.NewValidation("jd is required")
	}

	pipeline := &models.Pipeline{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UnixMilli(),
		JobTitle:     jobTitle,
		Company:      company,
		JD:           jd,
		Status:       models.StatusPending,
		CurrentPhase: models.PhaseAnalysis,
		Notes:        []models.Note{},
	}

	lock := m.locks.forID(pipeline.ID)
	lock.Lock()
	defer lock.Unlock()

	if err := m.store.Put(ctx, pipeline.ID, pipeline); err != nil {
		return nil, apperrors.NewStore("failed to persist new pipeline", err)
	}

	m.logger.Info("pipeline started",
		zap.String("pipeline_id", pipeline.ID),
		zap.String("job_title", jobTitle))
	return pipeline, nil
}

// GetStatus returns the current persisted snapshot for id.
func (m *StateMachine) GetStatus(ctx context.Context, id string) (*models.Pipeline, error) {
	lock := m.locks.forID(id)
	lock.Lock()
	defer lock.Unlock()

	return m.load(ctx, id)
}

// RecordNote appends note to the pipeline's ordered note list and persists
// the updated snapshot. The first note moves a pending pipeline to
// in_progress. Concurrent calls on the same id queue; none are lost.
func (m *StateMachine) RecordNote(ctx context.Context, id string, note models.Note) error {
	lock := m.locks.forID(id)
	lock.Lock()
	defer lock.Unlock()

	pipeline, err := m.load(ctx, id)
	if err != nil {
		return err
	}

	pipeline.Notes = append(pipeline.Notes, note)
	if pipeline.Status == models.StatusPending {
		pipeline.Status = models.StatusInProgress
	}

	if err := m.store.Put(ctx, id, pipeline); err != nil {
		return apperrors.NewStore("failed to persist note", err)
	}

	m.logger.Debug("note recorded",
		zap.String("pipeline_id", id),
		zap.String("kind", string(note.Kind)),
		zap.Int("note_count", len(pipeline.Notes)))
	return nil
}

// AdvancePhase sets the current phase label. The vocabulary is
// caller-defined; only emptiness is rejected.
func (m *StateMachine) AdvancePhase(ctx context.Context, id, phase string) error {
	if phase == "" {
		return apperrors.NewValidation("phase is required")
	}

	lock := m.locks.forID(id)
	lock.Lock()
	defer lock.Unlock()

	pipeline, err := m.load(ctx, id)
	if err != nil {
		return err
	}

	pipeline.CurrentPhase = phase
	if err := m.store.Put(ctx, id, pipeline); err != nil {
		return apperrors.NewStore("failed to persist phase", err)
	}
	return nil
}

// Complete marks the session concluded. Status never regresses, so a
// completed pipeline stays complete.
func (m *StateMachine) Complete(ctx context.Context, id string) (*models.Pipeline, error) {
	lock := m.locks.forID(id)
	lock.Lock()
	defer lock.Unlock()

	pipeline, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if pipeline.Status != models.StatusComplete {
		pipeline.Status = models.StatusComplete
		if err := m.store.Put(ctx, id, pipeline); err != nil {
			return nil, apperrors.NewStore("failed to persist completion", err)
		}
	}
	return pipeline, nil
}

// load must be called with the id's lock held.
func (m *StateMachine) load(ctx context.Context, id string) (*models.Pipeline, error) {
	pipeline, found, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewStore("failed to load pipeline", err)
	}
	if !found {
		return nil, apperrors.NewNotFound("pipeline %s not found", id)
	}
	return pipeline, nil
}
