package repository

import "ava-backend/internal/email/domain"

// IngestRunRepository defines the interface for ingest accounting operations
type IngestRunRepository interface {
	// Record persists the accounting of one finished ingest batch
	Record(run *domain.IngestRun) error
	// Recent returns the most recent runs, newest first
	Recent(limit int) ([]domain.IngestRun, error)
}
