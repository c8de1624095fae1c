package workflows

import (
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/cecilvega/kverse-sub000/internal/adapter"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
	"github.com/cecilvega/kverse-sub000/internal/storage"
)

const (
	DEFAULT_RECONCILE_TIMEOUT     = 30 * time.Minute
	DEFAULT_PUBLISH_TIMEOUT       = 15 * time.Minute
	DEFAULT_NOTIFY_TIMEOUT        = 2 * time.Minute
	DEFAULT_ACTIVITY_MAX_ATTEMPTS = 3
	RECONCILE_WORKFLOW_ID_PREFIX  = "reconcile-"
)

// WorkerCore defines the reconciliation workflows
//
//go:generate mockgen -source=worker.go -destination=../mocks/worker_core.go -package=mocks -mock_names=WorkerCore=MockWorkerCore
type WorkerCore interface {
	// ReconcileWorkflow rebuilds the curated tables, then optionally publishes and announces them
	ReconcileWorkflow(ctx workflow.Context, req ReconcileRequest) (*ReconcileResult, error)
}

// ReconcileRequest are the inputs of a reconciliation workflow
type ReconcileRequest struct {
	// Publish uploads the curated tables after they are saved
	Publish bool `json:"publish"`
	// Notify announces every published object on the message bus
	Notify bool `json:"notify"`
}

// ReconcileResult is returned by a finished reconciliation workflow
type ReconcileResult struct {
	WorkflowID    string                    `json:"workflow_id"`
	WorkflowRunID string                    `json:"workflow_run_id"`
	Summary       pipeline.RunSummary       `json:"summary"`
	Published     []storage.PublishedObject `json:"published,omitempty"`
	Notified      bool                      `json:"notified"`
}

type WorkerCoreConfig struct {
	// ReconcileTimeout bounds a single reconcile and persist attempt
	ReconcileTimeout time.Duration
	// PublishTimeout bounds a single publish attempt
	PublishTimeout time.Duration
	// NotifyTimeout bounds a single notify attempt
	NotifyTimeout time.Duration
	// MaxAttempts is the retry budget of every activity
	MaxAttempts int32
}

// DefaultWorkerCoreConfig returns the production timeouts
func DefaultWorkerCoreConfig() WorkerCoreConfig {
	return WorkerCoreConfig{
		ReconcileTimeout: DEFAULT_RECONCILE_TIMEOUT,
		PublishTimeout:   DEFAULT_PUBLISH_TIMEOUT,
		NotifyTimeout:    DEFAULT_NOTIFY_TIMEOUT,
		MaxAttempts:      DEFAULT_ACTIVITY_MAX_ATTEMPTS,
	}
}

// workerCore is the concrete implementation of WorkerCore
type workerCore struct {
	config           WorkerCoreConfig
	executor         Executor
	temporalWorkflow adapter.Workflow
}

// NewWorkerCore creates a new worker core instance
func NewWorkerCore(executor Executor, config WorkerCoreConfig, temporalWorkflow adapter.Workflow) WorkerCore {
	return &workerCore{
		executor:         executor,
		config:           config,
		temporalWorkflow: temporalWorkflow,
	}
}
