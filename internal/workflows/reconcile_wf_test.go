package workflows_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/mocks"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
	"github.com/cecilvega/kverse-sub000/internal/storage"
	"github.com/cecilvega/kverse-sub000/internal/workflows"
)

// ReconcileWorkflowTestSuite is the test suite for the reconciliation workflow
type ReconcileWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite

	env              *testsuite.TestWorkflowEnvironment
	ctrl             *gomock.Controller
	executor         *mocks.MockExecutor
	temporalWorkflow *mocks.MockWorkflow
	workerCore       workflows.WorkerCore
}

// SetupTest is called before each test
func (s *ReconcileWorkflowTestSuite) SetupTest() {
	_ = logger.Initialize(logger.Config{
		Debug: true,
	})

	s.env = s.NewTestWorkflowEnvironment()
	s.ctrl = gomock.NewController(s.T())
	s.executor = mocks.NewMockExecutor(s.ctrl)
	s.temporalWorkflow = mocks.NewMockWorkflow(s.ctrl)
	s.workerCore = workflows.NewWorkerCore(s.executor, workflows.DefaultWorkerCoreConfig(), s.temporalWorkflow)

	s.temporalWorkflow.EXPECT().GetExecutionID(gomock.Any()).Return("reconcile-test").AnyTimes()
	s.temporalWorkflow.EXPECT().GetRunID(gomock.Any()).Return("wf-run-1").AnyTimes()
}

// TearDownTest is called after each test
func (s *ReconcileWorkflowTestSuite) TearDownTest() {
	s.env.AssertExpectations(s.T())
	s.ctrl.Finish()
}

// TestReconcileWorkflowTestSuite runs the test suite
func TestReconcileWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(ReconcileWorkflowTestSuite))
}

func testObjects() []storage.PublishedObject {
	return []storage.PublishedObject{
		{Table: domain.TABLE_FLEET_BOUNDS, Target: storage.TargetLake, Bucket: "lake", Key: "curated/fleet_bounds/latest.parquet", Rows: 2},
	}
}

// reconcileReturnsSummary echoes the run id chosen by the workflow
func reconcileReturnsSummary(ctx context.Context, runID string) (*pipeline.RunSummary, error) {
	return &pipeline.RunSummary{RunID: runID, RowCounts: map[string]int{domain.TABLE_FLEET_BOUNDS: 2}}, nil
}

func (s *ReconcileWorkflowTestSuite) TestReconcileWorkflow_ReconcileOnly() {
	s.env.OnActivity(s.executor.ReconcileAndPersist, mock.Anything, mock.Anything).Return(reconcileReturnsSummary)

	s.env.ExecuteWorkflow(s.workerCore.ReconcileWorkflow, workflows.ReconcileRequest{})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result workflows.ReconcileResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal("reconcile-test", result.WorkflowID)
	s.Equal("wf-run-1", result.WorkflowRunID)
	s.NotEmpty(result.Summary.RunID)
	s.Equal(2, result.Summary.RowCounts[domain.TABLE_FLEET_BOUNDS])
	s.Empty(result.Published)
	s.False(result.Notified)
}

func (s *ReconcileWorkflowTestSuite) TestReconcileWorkflow_PublishAndNotify() {
	var reconciledRunID string
	s.env.OnActivity(s.executor.ReconcileAndPersist, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, runID string) (*pipeline.RunSummary, error) {
			reconciledRunID = runID
			return &pipeline.RunSummary{RunID: runID}, nil
		})
	s.env.OnActivity(s.executor.PublishCuratedTables, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, runID string) ([]storage.PublishedObject, error) {
			s.Equal(reconciledRunID, runID)
			return testObjects(), nil
		})
	s.env.OnActivity(s.executor.NotifyTablesPublished, mock.Anything, mock.Anything, testObjects()).Return(nil)

	s.env.ExecuteWorkflow(s.workerCore.ReconcileWorkflow, workflows.ReconcileRequest{Publish: true, Notify: true})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result workflows.ReconcileResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.NotEmpty(reconciledRunID)
	s.Equal(reconciledRunID, result.Summary.RunID)
	s.Equal(testObjects(), result.Published)
	s.True(result.Notified)
}

func (s *ReconcileWorkflowTestSuite) TestReconcileWorkflow_PublishWithoutNotify() {
	s.env.OnActivity(s.executor.ReconcileAndPersist, mock.Anything, mock.Anything).Return(reconcileReturnsSummary)
	s.env.OnActivity(s.executor.PublishCuratedTables, mock.Anything, mock.Anything).Return(testObjects(), nil)

	s.env.ExecuteWorkflow(s.workerCore.ReconcileWorkflow, workflows.ReconcileRequest{Publish: true})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result workflows.ReconcileResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Len(result.Published, 1)
	s.False(result.Notified)
}

func (s *ReconcileWorkflowTestSuite) TestReconcileWorkflow_NothingPublishedSkipsNotify() {
	s.env.OnActivity(s.executor.ReconcileAndPersist, mock.Anything, mock.Anything).Return(reconcileReturnsSummary)
	s.env.OnActivity(s.executor.PublishCuratedTables, mock.Anything, mock.Anything).Return([]storage.PublishedObject{}, nil)

	s.env.ExecuteWorkflow(s.workerCore.ReconcileWorkflow, workflows.ReconcileRequest{Publish: true, Notify: true})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result workflows.ReconcileResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.False(result.Notified)
}

func (s *ReconcileWorkflowTestSuite) TestReconcileWorkflow_IntegrityErrorIsNotRetried() {
	var attempts int
	s.env.OnActivity(s.executor.ReconcileAndPersist, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, runID string) (*pipeline.RunSummary, error) {
			attempts++
			cause := &domain.DataIntegrityError{Kind: domain.IntegrityMissingPairedArrival, PartOfInterest: "P101"}
			return nil, temporal.NewNonRetryableApplicationError(cause.Error(), workflows.ERROR_TYPE_DATA_INTEGRITY, cause)
		})

	s.env.ExecuteWorkflow(s.workerCore.ReconcileWorkflow, workflows.ReconcileRequest{Publish: true, Notify: true})

	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Error(err)
	s.Equal(1, attempts)

	var appErr *temporal.ApplicationError
	s.True(errors.As(err, &appErr))
	s.Equal(workflows.ERROR_TYPE_DATA_INTEGRITY, appErr.Type())
}

func (s *ReconcileWorkflowTestSuite) TestReconcileWorkflow_ReconcileRetriesTransientErrors() {
	var attempts int
	s.env.OnActivity(s.executor.ReconcileAndPersist, mock.Anything, mock.Anything).Return(
		func(ctx context.Context, runID string) (*pipeline.RunSummary, error) {
			attempts++
			return nil, errors.New("connection reset by peer")
		})

	s.env.ExecuteWorkflow(s.workerCore.ReconcileWorkflow, workflows.ReconcileRequest{})

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
	s.Equal(workflows.DEFAULT_ACTIVITY_MAX_ATTEMPTS, attempts)
}

func (s *ReconcileWorkflowTestSuite) TestReconcileWorkflow_PublishError() {
	s.env.OnActivity(s.executor.ReconcileAndPersist, mock.Anything, mock.Anything).Return(reconcileReturnsSummary)
	s.env.OnActivity(s.executor.PublishCuratedTables, mock.Anything, mock.Anything).Return(
		nil, temporal.NewNonRetryableApplicationError("access denied", "AccessDenied", nil))

	s.env.ExecuteWorkflow(s.workerCore.ReconcileWorkflow, workflows.ReconcileRequest{Publish: true, Notify: true})

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
}

func (s *ReconcileWorkflowTestSuite) TestReconcileWorkflow_NotifyErrorDoesNotFailWorkflow() {
	s.env.OnActivity(s.executor.ReconcileAndPersist, mock.Anything, mock.Anything).Return(reconcileReturnsSummary)
	s.env.OnActivity(s.executor.PublishCuratedTables, mock.Anything, mock.Anything).Return(testObjects(), nil)
	s.env.OnActivity(s.executor.NotifyTablesPublished, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("nats: no responders"))

	s.env.ExecuteWorkflow(s.workerCore.ReconcileWorkflow, workflows.ReconcileRequest{Publish: true, Notify: true})

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result workflows.ReconcileResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Len(result.Published, 1)
	s.False(result.Notified)
}
