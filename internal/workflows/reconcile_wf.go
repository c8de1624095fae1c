package workflows

import (
	"fmt"

	"github.com/oklog/ulid/v2"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
	"github.com/cecilvega/kverse-sub000/internal/storage"
)

// ReconcileWorkflow rebuilds the curated tables from the raw tables in the database.
// Reconcile and persist is the only mandatory step: a failed publish fails the workflow,
// a failed notification is logged and reported in the result.
func (w *workerCore) ReconcileWorkflow(ctx workflow.Context, req ReconcileRequest) (*ReconcileResult, error) {
	logger.InfoWf(ctx, "Starting reconciliation workflow",
		zap.Bool("publish", req.Publish),
		zap.Bool("notify", req.Notify),
	)

	result := &ReconcileResult{
		WorkflowID:    w.temporalWorkflow.GetExecutionID(ctx),
		WorkflowRunID: w.temporalWorkflow.GetRunID(ctx),
	}

	// One run id for every attempt, so a failed attempt and its retry share the audit row
	var runID string
	encoded := workflow.SideEffect(ctx, func(ctx workflow.Context) interface{} {
		return ulid.Make().String()
	})
	if err := encoded.Get(&runID); err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	// Step 1: reconcile and replace the curated tables
	reconcileCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: w.config.ReconcileTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: w.config.MaxAttempts,
		},
	})
	var summary *pipeline.RunSummary
	err := workflow.ExecuteActivity(reconcileCtx, w.executor.ReconcileAndPersist, runID).Get(ctx, &summary)
	if err != nil {
		logger.ErrorWf(ctx, fmt.Errorf("failed to reconcile: %w", err), zap.String("run_id", runID))
		return nil, err
	}
	result.Summary = *summary

	if !req.Publish {
		logger.InfoWf(ctx, "Reconciliation workflow completed", zap.String("run_id", runID))
		return result, nil
	}

	// Step 2: publish the curated tables
	publishCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: w.config.PublishTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: w.config.MaxAttempts,
		},
	})
	var published []storage.PublishedObject
	err = workflow.ExecuteActivity(publishCtx, w.executor.PublishCuratedTables, runID).Get(ctx, &published)
	if err != nil {
		logger.ErrorWf(ctx, fmt.Errorf("failed to publish curated tables: %w", err), zap.String("run_id", runID))
		return nil, err
	}
	result.Published = published

	if !req.Notify || len(published) == 0 {
		logger.InfoWf(ctx, "Reconciliation workflow completed",
			zap.String("run_id", runID),
			zap.Int("published", len(published)),
		)
		return result, nil
	}

	// Step 3: announce the published objects
	notifyCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: w.config.NotifyTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: w.config.MaxAttempts,
		},
	})
	err = workflow.ExecuteActivity(notifyCtx, w.executor.NotifyTablesPublished, runID, published).Get(ctx, nil)
	if err != nil {
		// The tables are already published, consumers can still poll latest objects
		logger.WarnWf(ctx, "Failed to notify published tables",
			zap.String("run_id", runID),
			zap.Error(err),
		)
		return result, nil
	}
	result.Notified = true

	logger.InfoWf(ctx, "Reconciliation workflow completed",
		zap.String("run_id", runID),
		zap.Int("published", len(published)),
	)
	return result, nil
}
