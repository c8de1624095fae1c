package schema

import (
	"time"

	"gorm.io/datatypes"
)

// RunStatus represents the status of a reconciliation run
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// ReconciliationRun represents the reconciliation_runs table - one audit row per batch run
type ReconciliationRun struct {
	// ID is the time ordered run id
	ID         string     `gorm:"column:id;primaryKey;type:text"`
	Status     RunStatus  `gorm:"column:status;not null;type:text"`
	StartedAt  time.Time  `gorm:"column:started_at;not null"`
	FinishedAt *time.Time `gorm:"column:finished_at"`
	// Summary holds linkage ratios, normalization warnings and row counts
	Summary datatypes.JSON `gorm:"column:summary"`
	// Error is set when the run failed
	Error     *string   `gorm:"column:error;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for the ReconciliationRun model
func (ReconciliationRun) TableName() string {
	return "reconciliation_runs"
}
