package store

import (
	"context"
	"time"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
	"github.com/cecilvega/kverse-sub000/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// AutoMigrate creates or updates every raw, curated and audit table
	AutoMigrate(ctx context.Context) error

	// LoadInputs reads every raw and master table a run consumes
	LoadInputs(ctx context.Context) (*pipeline.Inputs, error)
	// LoadTraceInputs reads the part pivot and its overrides
	LoadTraceInputs(ctx context.Context) ([]domain.PartPivotRow, []domain.PartOverride, error)
	// ReplaceRawInputs replaces the content of every raw and master table in a single transaction
	ReplaceRawInputs(ctx context.Context, in *pipeline.Inputs) error

	// SaveRun replaces the curated tables with the outputs of a run and records the run in a single transaction
	SaveRun(ctx context.Context, out *pipeline.Outputs) error
	// RecordFailedRun records a run that did not produce curated tables
	RecordFailedRun(ctx context.Context, runID string, startedAt, finishedAt time.Time, runErr error) error
	// LoadRunOutputs reads back the curated tables of a run. Returns ErrRunNotFound unless the run is the latest successful one.
	LoadRunOutputs(ctx context.Context, runID string) (*pipeline.Outputs, error)
	// GetRun retrieves a run by its ID
	GetRun(ctx context.Context, runID string) (*schema.ReconciliationRun, error)
	// GetLatestRun retrieves the most recent run
	GetLatestRun(ctx context.Context) (*schema.ReconciliationRun, error)

	// GetComponentHistory retrieves the linked change-outs of a component serial
	GetComponentHistory(ctx context.Context, componentSerial string) ([]domain.ComponentHistory, error)
	// GetComponentReparations retrieves the repairs of a component serial ordered by reception
	GetComponentReparations(ctx context.Context, componentSerial string) ([]domain.ComponentReparation, error)
	// GetPartLifecycle retrieves the lifecycle events of a part of interest ordered by recency rank
	GetPartLifecycle(ctx context.Context, partSerial string) ([]domain.PartLifecycleEvent, error)
	// GetFleetBounds retrieves the fleet bounds of every part type
	GetFleetBounds(ctx context.Context) ([]domain.FleetBound, error)
}
