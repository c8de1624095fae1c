// Package pipeline composes the reconciliation stages into one batch run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cecilvega/kverse-sub000/internal/adapter"
	"github.com/cecilvega/kverse-sub000/internal/changeout"
	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/fleet"
	"github.com/cecilvega/kverse-sub000/internal/lifecycle"
	"github.com/cecilvega/kverse-sub000/internal/linker"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/metrics"
	"github.com/cecilvega/kverse-sub000/internal/normalize"
	"github.com/cecilvega/kverse-sub000/internal/override"
	"github.com/cecilvega/kverse-sub000/internal/registry"
	"github.com/cecilvega/kverse-sub000/internal/reparation"
)

// Inputs are the raw and master tables a run consumes
type Inputs struct {
	Changeouts    []domain.Changeout
	ServiceOrders []domain.ServiceOrder
	Components    []domain.Component
	Equipments    []domain.Equipment
	PartPivot     []domain.PartPivotRow
	Overrides     []domain.PartOverride
	RepairCosts   []domain.RepairCost
}

// Options tunes every stage of a run
type Options struct {
	Changeout      changeout.Options
	Linker         linker.Options
	Reparation     reparation.Options
	Fleet          fleet.Config
	TracerPoolSize int
}

// DefaultOptions returns the production options for a site
func DefaultOptions(site string) Options {
	return Options{
		Changeout:      changeout.DefaultOptions(),
		Linker:         linker.DefaultOptions(),
		Reparation:     reparation.DefaultOptions(site),
		Fleet:          fleet.DefaultConfig(),
		TracerPoolSize: lifecycle.DEFAULT_WORKER_POOL_SIZE,
	}
}

// RunSummary describes a finished run
type RunSummary struct {
	RunID         string           `json:"run_id"`
	StartedAt     time.Time        `json:"started_at"`
	FinishedAt    time.Time        `json:"finished_at"`
	Linkage       linker.Stats     `json:"linkage"`
	Normalization normalize.Report `json:"normalization"`
	RowCounts     map[string]int   `json:"row_counts"`
}

// Outputs are the curated tables of a run
type Outputs struct {
	ComponentHistory     []domain.ComponentHistory
	ComponentReparations []domain.ComponentReparation
	PartLifecycleEvents  []domain.PartLifecycleEvent
	Fleet                fleet.Result
	Summary              RunSummary
}

// Runner runs one reconciliation batch under a caller chosen run id
//
//go:generate mockgen -source=pipeline.go -destination=../mocks/pipeline.go -package=mocks -mock_names=Runner=MockRunner
type Runner interface {
	NewRunID() string
	RunWithID(ctx context.Context, runID string, in Inputs) (*Outputs, error)
}

// Pipeline runs the reconciliation stages in order
type Pipeline struct {
	components registry.ComponentRegistry
	clock      adapter.Clock
	opts       Options
}

// New creates a pipeline
func New(components registry.ComponentRegistry, clock adapter.Clock, opts Options) *Pipeline {
	return &Pipeline{components: components, clock: clock, opts: opts}
}

// NewRunID returns a new time ordered run id
func (p *Pipeline) NewRunID() string {
	return ulid.MustNewDefault(p.clock.Now()).String()
}

// Run executes every stage under a new run id
func (p *Pipeline) Run(ctx context.Context, in Inputs) (*Outputs, error) {
	return p.RunWithID(ctx, p.NewRunID(), in)
}

// RunWithID executes every stage. A data integrity error aborts the run and is returned wrapped.
func (p *Pipeline) RunWithID(ctx context.Context, runID string, in Inputs) (*Outputs, error) {
	startedAt := p.clock.Now()
	ctx = logger.WithRun(ctx, runID)

	logger.InfoCtx(ctx, "Starting reconciliation run",
		zap.Int("changeouts", len(in.Changeouts)),
		zap.Int("service_orders", len(in.ServiceOrders)),
		zap.Int("pivot_rows", len(in.PartPivot)),
	)

	stage := p.clock.Now()
	filtered := changeout.Filter(in.Changeouts, in.Components, in.Equipments, p.opts.Changeout)
	metrics.ObserveStage("changeout_filter", stage)

	stage = p.clock.Now()
	linked := linker.Link(filtered, in.ServiceOrders, p.opts.Linker)
	metrics.ObserveStage("link", stage)
	metrics.RecordLinkage(linked.Stats.Direct, linked.Stats.Asof, linked.Stats.Unmatched)
	logger.InfoCtx(ctx, "Linked change-outs to service orders",
		zap.Int("total", linked.Stats.Total),
		zap.Float64("direct_pct", 100*linked.Stats.DirectRatio()),
		zap.Float64("asof_pct", 100*linked.Stats.AsofRatio()),
		zap.Float64("unmatched_pct", 100*linked.Stats.UnmatchedRatio()),
	)

	stage = p.clock.Now()
	reparations, report := reparation.Build(in.ServiceOrders, p.components, p.opts.Reparation)
	metrics.ObserveStage("reparation", stage)
	metrics.RecordNormalizationWarnings("unparseable_hours", report.UnparseableHours)
	metrics.RecordNormalizationWarnings("invalid_serial", report.InvalidSerials)
	if report.Total() > 0 {
		logger.WarnCtx(ctx, "Absorbed normalization warnings",
			zap.Int("unparseable_hours", report.UnparseableHours),
			zap.Int("invalid_serials", report.InvalidSerials),
		)
	}

	stage = p.clock.Now()
	pivot, err := override.Apply(in.PartPivot, in.Overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to apply part overrides: %w", err)
	}
	metrics.ObserveStage("override", stage)

	stage = p.clock.Now()
	events, err := lifecycle.NewTracer(pivot).TraceFleet(ctx, p.opts.TracerPoolSize)
	if err != nil {
		var integrityErr *domain.DataIntegrityError
		if errors.As(err, &integrityErr) {
			metrics.RecordIntegrityError(string(integrityErr.Kind))
			logger.ErrorCtx(ctx, err,
				zap.String("kind", string(integrityErr.Kind)),
				zap.String("part_of_interest", integrityErr.PartOfInterest),
				zap.String("component_serial", integrityErr.ComponentSerial),
				zap.Int64("service_order", integrityErr.ServiceOrder),
			)
		}
		return nil, fmt.Errorf("failed to trace part lifecycles: %w", err)
	}
	metrics.ObserveStage("lifecycle", stage)

	stage = p.clock.Now()
	fleetResult := fleet.Aggregate(events, in.RepairCosts, p.opts.Fleet)
	metrics.ObserveStage("fleet", stage)

	out := &Outputs{
		ComponentHistory:     linked.History,
		ComponentReparations: reparations,
		PartLifecycleEvents:  events,
		Fleet:                fleetResult,
	}
	out.Summary = RunSummary{
		RunID:         runID,
		StartedAt:     startedAt,
		FinishedAt:    p.clock.Now(),
		Linkage:       linked.Stats,
		Normalization: report,
		RowCounts:     out.RowCounts(),
	}

	logger.InfoCtx(ctx, "Finished reconciliation run",
		zap.Any("row_counts", out.Summary.RowCounts),
	)

	return out, nil
}

// RowCounts returns the number of rows of every curated table
func (o *Outputs) RowCounts() map[string]int {
	return map[string]int{
		domain.TABLE_COMPONENT_HISTORY:       len(o.ComponentHistory),
		domain.TABLE_COMPONENT_REPARATIONS:   len(o.ComponentReparations),
		domain.TABLE_PART_LIFECYCLE_EVENTS:   len(o.PartLifecycleEvents),
		domain.TABLE_FLEET_PART_STATES:       len(o.Fleet.Parts),
		domain.TABLE_FLEET_COMPONENT_SUMMARY: len(o.Fleet.Components),
		domain.TABLE_FLEET_BOUNDS:            len(o.Fleet.Bounds),
	}
}

// TraceOne applies the overrides and traces a single starting report
func TraceOne(pivot []domain.PartPivotRow, overrides []domain.PartOverride, report domain.StartingReport) ([]domain.PartLifecycleEvent, error) {
	patched, err := override.Apply(pivot, overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to apply part overrides: %w", err)
	}
	return lifecycle.NewTracer(patched).Trace(report)
}
