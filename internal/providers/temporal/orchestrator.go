package temporal

import (
	"context"

	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
)

// TemporalOrchestrator is the subset of the Temporal client the API uses to start and inspect reconciliation runs
//
//go:generate mockgen -source=orchestrator.go -destination=../../mocks/temporal_orchestrator.go -package=mocks -mock_names=TemporalOrchestrator=MockTemporalOrchestrator
type TemporalOrchestrator interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
	DescribeWorkflowExecution(ctx context.Context, workflowID, runID string) (*workflowservice.DescribeWorkflowExecutionResponse, error)
}
