package workflows_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/mocks"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
	"github.com/cecilvega/kverse-sub000/internal/storage"
	"github.com/cecilvega/kverse-sub000/internal/workflows"
)

// testExecutorMocks contains all the mocks needed for testing the executor
type testExecutorMocks struct {
	ctrl             *gomock.Controller
	store            *mocks.MockStore
	runner           *mocks.MockRunner
	publisher        *mocks.MockTablePublisher
	notifier         *mocks.MockPublisher
	clock            *mocks.MockClock
	temporalActivity *mocks.MockActivity
	executor         workflows.Executor
}

// setupTestExecutor creates all the mocks and executor for testing
func setupTestExecutor(t *testing.T) *testExecutorMocks {
	err := logger.Initialize(logger.Config{
		Debug: true,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	ctrl := gomock.NewController(t)

	tm := &testExecutorMocks{
		ctrl:             ctrl,
		store:            mocks.NewMockStore(ctrl),
		runner:           mocks.NewMockRunner(ctrl),
		publisher:        mocks.NewMockTablePublisher(ctrl),
		notifier:         mocks.NewMockPublisher(ctrl),
		clock:            mocks.NewMockClock(ctrl),
		temporalActivity: mocks.NewMockActivity(ctrl),
	}
	tm.executor = workflows.NewExecutor(tm.store, tm.runner, tm.publisher, tm.notifier, tm.clock, tm.temporalActivity)

	return tm
}

var testNow = time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)

func testRunOutputs(runID string) *pipeline.Outputs {
	return &pipeline.Outputs{
		PartLifecycleEvents: []domain.PartLifecycleEvent{
			{PartOfInterest: "P101", ComponentSerial: "MOTOR_A", ServiceOrder: 4, CycleEvent: domain.CycleEventArrival, Status: domain.StatusRepairedInPlace},
		},
		Summary: pipeline.RunSummary{RunID: runID, StartedAt: testNow, FinishedAt: testNow.Add(time.Minute)},
	}
}

// ====================================================================================
// ReconcileAndPersist Tests
// ====================================================================================

func TestReconcileAndPersist_Success(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	in := &pipeline.Inputs{Changeouts: []domain.Changeout{{EquipmentName: "TK17"}}}
	out := testRunOutputs("RUN1")

	tm.clock.EXPECT().Now().Return(testNow)
	tm.temporalActivity.EXPECT().GetInfo(ctx).Return(activity.Info{Attempt: 1})
	tm.store.EXPECT().LoadInputs(ctx).Return(in, nil)
	tm.runner.EXPECT().RunWithID(ctx, "RUN1", *in).Return(out, nil)
	tm.store.EXPECT().SaveRun(ctx, out).Return(nil)

	summary, err := tm.executor.ReconcileAndPersist(ctx, "RUN1")

	require.NoError(t, err)
	assert.Equal(t, "RUN1", summary.RunID)
}

func TestReconcileAndPersist_GeneratesRunID(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	in := &pipeline.Inputs{}

	tm.runner.EXPECT().NewRunID().Return("GENERATED")
	tm.clock.EXPECT().Now().Return(testNow)
	tm.temporalActivity.EXPECT().GetInfo(ctx).Return(activity.Info{})
	tm.store.EXPECT().LoadInputs(ctx).Return(in, nil)
	tm.runner.EXPECT().RunWithID(ctx, "GENERATED", *in).Return(testRunOutputs("GENERATED"), nil)
	tm.store.EXPECT().SaveRun(ctx, gomock.Any()).Return(nil)

	summary, err := tm.executor.ReconcileAndPersist(ctx, "")

	require.NoError(t, err)
	assert.Equal(t, "GENERATED", summary.RunID)
}

func TestReconcileAndPersist_LoadInputsError(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.clock.EXPECT().Now().Return(testNow)
	tm.temporalActivity.EXPECT().GetInfo(ctx).Return(activity.Info{})
	tm.store.EXPECT().LoadInputs(ctx).Return(nil, errors.New("connection refused"))

	summary, err := tm.executor.ReconcileAndPersist(ctx, "RUN1")

	assert.Nil(t, summary)
	assert.ErrorContains(t, err, "failed to load inputs")

	var appErr *temporal.ApplicationError
	assert.False(t, errors.As(err, &appErr))
}

func TestReconcileAndPersist_IntegrityErrorIsRecordedAndNotRetried(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	in := &pipeline.Inputs{}
	integrityErr := &domain.DataIntegrityError{
		Kind:            domain.IntegrityCrossBodyInPlaceRepair,
		PartOfInterest:  "P101",
		ComponentSerial: "MOTOR_A",
	}
	runErr := fmt.Errorf("failed to trace part lifecycles: %w", integrityErr)
	finishedAt := testNow.Add(time.Second)

	gomock.InOrder(
		tm.clock.EXPECT().Now().Return(testNow),
		tm.clock.EXPECT().Now().Return(finishedAt),
	)
	tm.temporalActivity.EXPECT().GetInfo(ctx).Return(activity.Info{Attempt: 1})
	tm.store.EXPECT().LoadInputs(ctx).Return(in, nil)
	tm.runner.EXPECT().RunWithID(ctx, "RUN1", *in).Return(nil, runErr)
	tm.store.EXPECT().RecordFailedRun(ctx, "RUN1", testNow, finishedAt, runErr).Return(nil)

	summary, err := tm.executor.ReconcileAndPersist(ctx, "RUN1")

	assert.Nil(t, summary)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCrossBodyInPlaceRepair)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.True(t, appErr.NonRetryable())
	assert.Equal(t, workflows.ERROR_TYPE_DATA_INTEGRITY, appErr.Type())
}

func TestReconcileAndPersist_InvalidOverrideIsNotRetried(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	in := &pipeline.Inputs{}
	runErr := fmt.Errorf("failed to apply part overrides: %w", domain.ErrInvalidOverride)

	tm.clock.EXPECT().Now().Return(testNow).Times(2)
	tm.temporalActivity.EXPECT().GetInfo(ctx).Return(activity.Info{})
	tm.store.EXPECT().LoadInputs(ctx).Return(in, nil)
	tm.runner.EXPECT().RunWithID(ctx, "RUN1", *in).Return(nil, runErr)
	// a failure to record the run does not hide the run error
	tm.store.EXPECT().RecordFailedRun(ctx, "RUN1", testNow, testNow, runErr).Return(errors.New("database error"))

	_, err := tm.executor.ReconcileAndPersist(ctx, "RUN1")

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, workflows.ERROR_TYPE_INVALID_OVERRIDE, appErr.Type())
	assert.ErrorIs(t, err, domain.ErrInvalidOverride)
}

func TestReconcileAndPersist_SaveRunError(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	in := &pipeline.Inputs{}
	out := testRunOutputs("RUN1")

	tm.clock.EXPECT().Now().Return(testNow)
	tm.temporalActivity.EXPECT().GetInfo(ctx).Return(activity.Info{})
	tm.store.EXPECT().LoadInputs(ctx).Return(in, nil)
	tm.runner.EXPECT().RunWithID(ctx, "RUN1", *in).Return(out, nil)
	tm.store.EXPECT().SaveRun(ctx, out).Return(errors.New("deadlock detected"))

	_, err := tm.executor.ReconcileAndPersist(ctx, "RUN1")

	assert.ErrorContains(t, err, "failed to save run RUN1")
	var appErr *temporal.ApplicationError
	assert.False(t, errors.As(err, &appErr))
}

// ====================================================================================
// PublishCuratedTables Tests
// ====================================================================================

func TestPublishCuratedTables_Success(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	out := testRunOutputs("RUN1")
	objects := []storage.PublishedObject{
		{Table: domain.TABLE_PART_LIFECYCLE_EVENTS, Target: storage.TargetLake, Bucket: "lake", Key: "curated/part_lifecycle_events/latest.parquet", Rows: 1},
	}

	tm.store.EXPECT().LoadRunOutputs(ctx, "RUN1").Return(out, nil)
	tm.publisher.EXPECT().Publish(ctx, out).Return(objects, nil)

	published, err := tm.executor.PublishCuratedTables(ctx, "RUN1")

	require.NoError(t, err)
	assert.Equal(t, objects, published)
}

func TestPublishCuratedTables_RunNotFound(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.store.EXPECT().LoadRunOutputs(ctx, "RUN0").Return(nil, fmt.Errorf("%w: RUN0", domain.ErrRunNotFound))

	_, err := tm.executor.PublishCuratedTables(ctx, "RUN0")

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.True(t, appErr.NonRetryable())
	assert.Equal(t, workflows.ERROR_TYPE_RUN_NOT_FOUND, appErr.Type())
}

func TestPublishCuratedTables_PublishError(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	out := testRunOutputs("RUN1")
	tm.store.EXPECT().LoadRunOutputs(ctx, "RUN1").Return(out, nil)
	tm.publisher.EXPECT().Publish(ctx, out).Return(nil, errors.New("access denied"))

	_, err := tm.executor.PublishCuratedTables(ctx, "RUN1")

	assert.ErrorContains(t, err, "failed to publish run RUN1")
}

func TestPublishCuratedTables_NoPublisher(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	executor := workflows.NewExecutor(tm.store, tm.runner, nil, nil, tm.clock, tm.temporalActivity)

	published, err := executor.PublishCuratedTables(context.Background(), "RUN1")

	assert.NoError(t, err)
	assert.Empty(t, published)
}

// ====================================================================================
// NotifyTablesPublished Tests
// ====================================================================================

func TestNotifyTablesPublished_Success(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	objects := []storage.PublishedObject{
		{Table: domain.TABLE_FLEET_BOUNDS, Target: storage.TargetLake, Bucket: "lake", Key: "curated/fleet_bounds/latest.parquet", Rows: 3},
		{Table: domain.TABLE_FLEET_BOUNDS, Target: storage.TargetCollaboration, Bucket: "collab", Key: "reconciliation/fleet_bounds.csv", Rows: 3},
	}

	tm.clock.EXPECT().Now().Return(testNow)
	tm.notifier.EXPECT().PublishTablePublished(ctx, &domain.TablePublishedEvent{
		RunID: "RUN1", Table: domain.TABLE_FLEET_BOUNDS, Target: "lake", Bucket: "lake",
		Key: "curated/fleet_bounds/latest.parquet", Rows: 3, PublishedAt: testNow,
	}).Return(nil)
	tm.notifier.EXPECT().PublishTablePublished(ctx, &domain.TablePublishedEvent{
		RunID: "RUN1", Table: domain.TABLE_FLEET_BOUNDS, Target: "collaboration", Bucket: "collab",
		Key: "reconciliation/fleet_bounds.csv", Rows: 3, PublishedAt: testNow,
	}).Return(nil)

	err := tm.executor.NotifyTablesPublished(ctx, "RUN1", objects)

	assert.NoError(t, err)
}

func TestNotifyTablesPublished_PublishError(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	objects := []storage.PublishedObject{
		{Table: domain.TABLE_FLEET_BOUNDS, Target: storage.TargetLake, Bucket: "lake", Key: "a"},
		{Table: domain.TABLE_FLEET_BOUNDS, Target: storage.TargetLake, Bucket: "lake", Key: "b"},
	}

	tm.clock.EXPECT().Now().Return(testNow)
	// stops at the first failure
	tm.notifier.EXPECT().PublishTablePublished(ctx, gomock.Any()).Return(errors.New("nats: timeout"))

	err := tm.executor.NotifyTablesPublished(ctx, "RUN1", objects)

	assert.ErrorContains(t, err, "failed to notify lake/a")
}

func TestNotifyTablesPublished_NoNotifier(t *testing.T) {
	tm := setupTestExecutor(t)
	defer tm.ctrl.Finish()

	executor := workflows.NewExecutor(tm.store, tm.runner, tm.publisher, nil, tm.clock, tm.temporalActivity)

	err := executor.NotifyTablesPublished(context.Background(), "RUN1", []storage.PublishedObject{{Table: "x"}})

	assert.NoError(t, err)
}
