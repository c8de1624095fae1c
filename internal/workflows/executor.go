package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"github.com/cecilvega/kverse-sub000/internal/adapter"
	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/messaging"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
	"github.com/cecilvega/kverse-sub000/internal/storage"
	"github.com/cecilvega/kverse-sub000/internal/store"
)

const (
	// ERROR_TYPE_DATA_INTEGRITY marks a run halted by contradictory input tables
	ERROR_TYPE_DATA_INTEGRITY = "DataIntegrityError"
	// ERROR_TYPE_INVALID_OVERRIDE marks a run halted by an override that cannot be applied
	ERROR_TYPE_INVALID_OVERRIDE = "InvalidOverrideError"
	// ERROR_TYPE_RUN_NOT_FOUND marks a publish of a run whose curated tables are gone
	ERROR_TYPE_RUN_NOT_FOUND = "RunNotFoundError"
)

// Executor defines the reconciliation activities. The methods are plain functions of a context,
// so the CLI calls them directly and the worker registers them as Temporal activities.
//
//go:generate mockgen -source=executor.go -destination=../mocks/executor.go -package=mocks -mock_names=Executor=MockExecutor
type Executor interface {
	// ReconcileAndPersist loads the raw tables, runs every stage and replaces the curated tables.
	// A failed run is recorded before its error is returned. An empty runID gets a new one.
	ReconcileAndPersist(ctx context.Context, runID string) (*pipeline.RunSummary, error)

	// PublishCuratedTables uploads the curated tables of a run to the enabled targets
	PublishCuratedTables(ctx context.Context, runID string) ([]storage.PublishedObject, error)

	// NotifyTablesPublished announces every published object on the message bus
	NotifyTablesPublished(ctx context.Context, runID string, objects []storage.PublishedObject) error
}

type executor struct {
	store            store.Store
	runner           pipeline.Runner
	publisher        storage.TablePublisher
	notifier         messaging.Publisher
	clock            adapter.Clock
	temporalActivity adapter.Activity
}

// NewExecutor creates a new executor instance. A nil publisher or notifier disables that step.
func NewExecutor(
	store store.Store,
	runner pipeline.Runner,
	publisher storage.TablePublisher,
	notifier messaging.Publisher,
	clock adapter.Clock,
	temporalActivity adapter.Activity,
) Executor {
	return &executor{
		store:            store,
		runner:           runner,
		publisher:        publisher,
		notifier:         notifier,
		clock:            clock,
		temporalActivity: temporalActivity,
	}
}

func (e *executor) ReconcileAndPersist(ctx context.Context, runID string) (*pipeline.RunSummary, error) {
	if runID == "" {
		runID = e.runner.NewRunID()
	}
	startedAt := e.clock.Now()

	info := e.temporalActivity.GetInfo(ctx)
	logger.InfoCtx(ctx, "Reconciling raw tables",
		zap.String("run_id", runID),
		zap.Int32("attempt", info.Attempt),
	)

	in, err := e.store.LoadInputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inputs: %w", err)
	}

	out, err := e.runner.RunWithID(ctx, runID, *in)
	if err != nil {
		if recordErr := e.store.RecordFailedRun(ctx, runID, startedAt, e.clock.Now(), err); recordErr != nil {
			logger.ErrorCtx(ctx, recordErr, zap.String("run_id", runID))
		}
		return nil, nonRetryable(err)
	}

	if err := e.store.SaveRun(ctx, out); err != nil {
		return nil, fmt.Errorf("failed to save run %s: %w", runID, err)
	}

	return &out.Summary, nil
}

func (e *executor) PublishCuratedTables(ctx context.Context, runID string) ([]storage.PublishedObject, error) {
	if e.publisher == nil {
		logger.InfoCtx(ctx, "Publisher not configured, skipping publish", zap.String("run_id", runID))
		return nil, nil
	}

	out, err := e.store.LoadRunOutputs(ctx, runID)
	if err != nil {
		return nil, nonRetryable(err)
	}

	published, err := e.publisher.Publish(ctx, out)
	if err != nil {
		return nil, fmt.Errorf("failed to publish run %s: %w", runID, err)
	}
	return published, nil
}

func (e *executor) NotifyTablesPublished(ctx context.Context, runID string, objects []storage.PublishedObject) error {
	if e.notifier == nil {
		logger.InfoCtx(ctx, "Notifier not configured, skipping notifications", zap.String("run_id", runID))
		return nil
	}

	publishedAt := e.clock.Now()
	for _, obj := range objects {
		event := &domain.TablePublishedEvent{
			RunID:       runID,
			Table:       obj.Table,
			Target:      string(obj.Target),
			Bucket:      obj.Bucket,
			Key:         obj.Key,
			Rows:        obj.Rows,
			PublishedAt: publishedAt,
		}
		if err := e.notifier.PublishTablePublished(ctx, event); err != nil {
			return fmt.Errorf("failed to notify %s/%s: %w", obj.Bucket, obj.Key, err)
		}
	}

	logger.InfoCtx(ctx, "Notified published tables",
		zap.String("run_id", runID),
		zap.Int("objects", len(objects)),
	)
	return nil
}

// nonRetryable marks errors that a retry cannot fix. Other errors pass through unchanged.
func nonRetryable(err error) error {
	var integrityErr *domain.DataIntegrityError
	switch {
	case errors.As(err, &integrityErr):
		return temporal.NewNonRetryableApplicationError(err.Error(), ERROR_TYPE_DATA_INTEGRITY, err)
	case errors.Is(err, domain.ErrInvalidOverride):
		return temporal.NewNonRetryableApplicationError(err.Error(), ERROR_TYPE_INVALID_OVERRIDE, err)
	case errors.Is(err, domain.ErrRunNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ERROR_TYPE_RUN_NOT_FOUND, err)
	default:
		return err
	}
}
