package domain

import "time"

// IngestRun records the accounting of one bulk ingest: how many records made
// it into the store and how many were dropped (embedding or storage failure).
type IngestRun struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Source     string    `json:"source" gorm:"not null"` // "api", "raw", "seed"
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// TableName specifies the table name for GORM
func (IngestRun) TableName() string {
	return "ingest_runs"
}
