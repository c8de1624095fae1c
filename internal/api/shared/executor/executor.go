package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/cecilvega/kverse-sub000/internal/api/shared/dto"
	apierrors "github.com/cecilvega/kverse-sub000/internal/api/shared/errors"
	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
	"github.com/cecilvega/kverse-sub000/internal/providers/temporal"
	"github.com/cecilvega/kverse-sub000/internal/store"
	"github.com/cecilvega/kverse-sub000/internal/store/schema"
	"github.com/cecilvega/kverse-sub000/internal/workflows"
)

// RECONCILE_WORKFLOW_EXECUTION_TIMEOUT bounds a whole reconcile, publish and notify workflow
const RECONCILE_WORKFLOW_EXECUTION_TIMEOUT = 2 * time.Hour

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// GetComponentHistory retrieves the linked change-outs of a component serial
	GetComponentHistory(ctx context.Context, componentSerial string) (*dto.ComponentHistoryResponse, error)

	// GetComponentReparations retrieves the repairs of a component serial
	GetComponentReparations(ctx context.Context, componentSerial string) (*dto.ComponentReparationsResponse, error)

	// GetPartLifecycle retrieves the stored lifecycle of a part of interest
	GetPartLifecycle(ctx context.Context, partSerial string) (*dto.PartLifecycleResponse, error)

	// GetFleetBounds retrieves the fleet bounds of the latest run
	GetFleetBounds(ctx context.Context) (*dto.FleetBoundsResponse, error)

	// TracePart applies the overrides and traces one starting report against the current pivot
	TracePart(ctx context.Context, report domain.StartingReport) (*dto.PartLifecycleResponse, error)

	// TriggerReconciliation starts a reconciliation workflow
	TriggerReconciliation(ctx context.Context, req dto.TriggerReconciliationRequest) (*dto.TriggerReconciliationResponse, error)

	// GetWorkflowStatus retrieves the status of a reconciliation workflow execution
	GetWorkflowStatus(ctx context.Context, workflowID, runID string) (*dto.WorkflowStatusResponse, error)

	// GetRun retrieves the audit record of a run. An empty runID returns the latest run.
	GetRun(ctx context.Context, runID string) (*dto.RunResponse, error)
}

type executor struct {
	store                 store.Store
	orchestrator          temporal.TemporalOrchestrator
	orchestratorTaskQueue string
}

func NewExecutor(store store.Store, orchestrator temporal.TemporalOrchestrator, orchestratorTaskQueue string) Executor {
	return &executor{store: store, orchestrator: orchestrator, orchestratorTaskQueue: orchestratorTaskQueue}
}

func (e *executor) GetComponentHistory(ctx context.Context, componentSerial string) (*dto.ComponentHistoryResponse, error) {
	history, err := e.store.GetComponentHistory(ctx, componentSerial)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get component history: %v", err))
	}
	if len(history) == 0 {
		return nil, nil
	}
	return &dto.ComponentHistoryResponse{ComponentSerial: componentSerial, History: history}, nil
}

func (e *executor) GetComponentReparations(ctx context.Context, componentSerial string) (*dto.ComponentReparationsResponse, error) {
	reparations, err := e.store.GetComponentReparations(ctx, componentSerial)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get component reparations: %v", err))
	}
	if len(reparations) == 0 {
		return nil, nil
	}
	return &dto.ComponentReparationsResponse{ComponentSerial: componentSerial, Reparations: reparations}, nil
}

func (e *executor) GetPartLifecycle(ctx context.Context, partSerial string) (*dto.PartLifecycleResponse, error) {
	events, err := e.store.GetPartLifecycle(ctx, partSerial)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get part lifecycle: %v", err))
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &dto.PartLifecycleResponse{PartOfInterest: partSerial, Events: events}, nil
}

func (e *executor) GetFleetBounds(ctx context.Context) (*dto.FleetBoundsResponse, error) {
	bounds, err := e.store.GetFleetBounds(ctx)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get fleet bounds: %v", err))
	}
	return &dto.FleetBoundsResponse{Bounds: bounds}, nil
}

func (e *executor) TracePart(ctx context.Context, report domain.StartingReport) (*dto.PartLifecycleResponse, error) {
	pivot, overrides, err := e.store.LoadTraceInputs(ctx)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to load part pivot: %v", err))
	}

	events, err := pipeline.TraceOne(pivot, overrides, report)
	if err != nil {
		var integrityErr *domain.DataIntegrityError
		switch {
		case errors.Is(err, domain.ErrStartingReportEmpty):
			return nil, apierrors.NewNotFoundError("Starting report matches no pivot rows")
		case errors.As(err, &integrityErr):
			return nil, apierrors.NewDataIntegrityError("Part history is inconsistent", integrityErr.Error())
		case errors.Is(err, domain.ErrInvalidOverride):
			return nil, apierrors.NewDataIntegrityError("Part overrides cannot be applied", err.Error())
		default:
			return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to trace part: %v", err))
		}
	}

	partOfInterest := ""
	if len(events) > 0 {
		partOfInterest = events[0].PartOfInterest
	}
	return &dto.PartLifecycleResponse{PartOfInterest: partOfInterest, Events: events}, nil
}

func (e *executor) TriggerReconciliation(ctx context.Context, req dto.TriggerReconciliationRequest) (*dto.TriggerReconciliationResponse, error) {
	w := workflows.NewWorkerCore(nil, workflows.WorkerCoreConfig{}, nil)

	options := client.StartWorkflowOptions{
		ID:                       workflows.RECONCILE_WORKFLOW_ID_PREFIX + uuid.NewString(),
		TaskQueue:                e.orchestratorTaskQueue,
		WorkflowExecutionTimeout: RECONCILE_WORKFLOW_EXECUTION_TIMEOUT,
	}
	wfRun, err := e.orchestrator.ExecuteWorkflow(ctx, options, w.ReconcileWorkflow, workflows.ReconcileRequest{
		Publish: req.Publish,
		Notify:  req.Notify,
	})
	if err != nil {
		return nil, apierrors.NewServiceError(fmt.Sprintf("Failed to trigger reconciliation: %v", err))
	}

	return &dto.TriggerReconciliationResponse{
		WorkflowID: wfRun.GetID(),
		RunID:      wfRun.GetRunID(),
	}, nil
}

func (e *executor) GetWorkflowStatus(ctx context.Context, workflowID, runID string) (*dto.WorkflowStatusResponse, error) {
	resp, err := e.orchestrator.DescribeWorkflowExecution(ctx, workflowID, runID)
	if err != nil {
		var notFound *serviceerror.NotFound
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, apierrors.NewServiceError(fmt.Sprintf("Failed to describe workflow: %v", err))
	}

	info := resp.GetWorkflowExecutionInfo()
	status := &dto.WorkflowStatusResponse{
		WorkflowID: workflowID,
		RunID:      runID,
		Status:     info.GetStatus().String(),
	}
	if info.GetStartTime() != nil {
		startTime := info.GetStartTime().AsTime()
		status.StartTime = &startTime
	}
	if info.GetCloseTime() != nil {
		closeTime := info.GetCloseTime().AsTime()
		status.CloseTime = &closeTime
	}
	if info.GetExecutionDuration() != nil {
		ms := uint64(info.GetExecutionDuration().AsDuration().Milliseconds())
		status.ExecutionTime = &ms
	}

	return status, nil
}

func (e *executor) GetRun(ctx context.Context, runID string) (*dto.RunResponse, error) {
	var (
		run *schema.ReconciliationRun
		err error
	)
	if runID == "" {
		run, err = e.store.GetLatestRun(ctx)
	} else {
		run, err = e.store.GetRun(ctx, runID)
	}
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get run: %v", err))
	}
	if run == nil {
		return nil, nil
	}
	return dto.MapRunToDTO(run), nil
}
