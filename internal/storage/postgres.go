package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"interview-orchestrator/internal/models"
)

// PipelineRecord is the row shape for one stored pipeline snapshot.
type PipelineRecord struct {
	Key       string    `gorm:"primaryKey;type:text"`
	Value     string    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (PipelineRecord) TableName() string {
	return "pipeline_states"
}

type postgresStore struct {
	db *gorm.DB
}

// NewPostgresStore migrates the pipeline_states table and returns a store
// backed by it.
func NewPostgresStore(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&PipelineRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate pipeline_states: %w", err)
	}
	return &postgresStore{db: db}, nil
}

func (s *postgresStore) Get(ctx context.Context, id string) (*models.Pipeline, bool, error) {
	var record PipelineRecord
	err := s.db.WithContext(ctx).Where("key = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load pipeline %s: %w", id, err)
	}

	var pipeline models.Pipeline
	if err := json.Unmarshal([]byte(record.Value), &pipeline); err != nil {
		return nil, false, fmt.Errorf("failed to decode pipeline %s: %w", id, err)
	}
	return &pipeline, true, nil
}

func (s *postgresStore) Put(ctx context.Context, id string, pipeline *models.Pipeline) error {
	value, err := json.Marshal(pipeline)
	if err != nil {
		return fmt.Errorf("failed to encode pipeline %s: %w", id, err)
	}

	record := PipelineRecord{
		Key:       id,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to store pipeline %s: %w", id, err)
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&PipelineRecord{}, "key = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete pipeline %s: %w", id, err)
	}
	return nil
}
