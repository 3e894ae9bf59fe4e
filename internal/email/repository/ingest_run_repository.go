package repository

import (
	"ava-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ingestRunRepository implements IngestRunRepository interface
type ingestRunRepository struct {
	db *gorm.DB
}

// NewIngestRunRepository creates a new instance of ingestRunRepository
func NewIngestRunRepository(db *gorm.DB) IngestRunRepository {
	return &ingestRunRepository{
		db: db,
	}
}

// Record persists the accounting of one finished ingest batch
func (r *ingestRunRepository) Record(run *domain.IngestRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	return r.db.Create(run).Error
}

// Recent returns the most recent runs, newest first
func (r *ingestRunRepository) Recent(limit int) ([]domain.IngestRun, error) {
	var runs []domain.IngestRun
	err := r.db.Order("started_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
