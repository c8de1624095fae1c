package storage_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/fleet"
	"github.com/cecilvega/kverse-sub000/internal/mocks"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
	"github.com/cecilvega/kverse-sub000/internal/storage"
)

func testOutputs() *pipeline.Outputs {
	return &pipeline.Outputs{
		Fleet: fleet.Result{
			Bounds: []domain.FleetBound{{SubcomponentTag: "5A30", PartName: "sun_gear", Samples: 4, LowerBoundHours: 20_000, UpperBoundHours: 48_000}},
		},
		Summary: pipeline.RunSummary{
			RunID:     "01JH0000000000000000000000",
			StartedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}
}

func fastRetry(maxRetries uint64) storage.RetryPolicy {
	return storage.RetryPolicy{MaxRetries: maxRetries, InitialInterval: time.Millisecond, MaxElapsed: time.Second}
}

type recorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *recorder) put(_ context.Context, key string, data []byte, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	return nil
}

func TestLakeKeys(t *testing.T) {
	partition, latest := storage.LakeKeys("curated", domain.TABLE_FLEET_BOUNDS, "RUN1", time.Date(2025, 1, 2, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "curated/fleet_bounds/dt=2025-01-02/RUN1.parquet", partition)
	assert.Equal(t, "curated/fleet_bounds/latest.parquet", latest)

	assert.Equal(t, "reconciliation/component_history.csv", storage.CollaborationKey("reconciliation", domain.TABLE_COMPONENT_HISTORY))
}

func TestPublisher_Publish(t *testing.T) {
	tests := []struct {
		name          string
		withLake      bool
		withCollab    bool
		expectObjects int
	}{
		{name: "both targets", withLake: true, withCollab: true, expectObjects: 3 * len(domain.CuratedTables)},
		{name: "lake only", withLake: true, expectObjects: 2 * len(domain.CuratedTables)},
		{name: "collaboration only", withCollab: true, expectObjects: len(domain.CuratedTables)},
		{name: "no targets", expectObjects: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			var lakeStore, collabStore storage.ObjectStore
			lakeKeys := &recorder{}
			collabKeys := &recorder{}

			if tt.withLake {
				m := mocks.NewMockObjectStore(ctrl)
				m.EXPECT().Bucket().Return("lake").AnyTimes()
				m.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), "application/vnd.apache.parquet").
					DoAndReturn(lakeKeys.put).Times(2 * len(domain.CuratedTables))
				lakeStore = m
			}
			if tt.withCollab {
				m := mocks.NewMockObjectStore(ctrl)
				m.EXPECT().Bucket().Return("collab").AnyTimes()
				m.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), "text/csv").
					DoAndReturn(collabKeys.put).Times(len(domain.CuratedTables))
				collabStore = m
			}

			publisher := storage.NewPublisher(lakeStore, "curated", collabStore, "reconciliation", fastRetry(1))
			published, err := publisher.Publish(context.Background(), testOutputs())
			require.NoError(t, err)
			assert.Len(t, published, tt.expectObjects)

			if tt.withLake {
				assert.Contains(t, lakeKeys.keys, "curated/fleet_bounds/dt=2025-01-02/01JH0000000000000000000000.parquet")
				assert.Contains(t, lakeKeys.keys, "curated/component_history/latest.parquet")
			}
			if tt.withCollab {
				assert.Contains(t, collabKeys.keys, "reconciliation/fleet_bounds.csv")
			}

			for _, obj := range published {
				assert.Positive(t, obj.Bytes)
				if obj.Table == domain.TABLE_FLEET_BOUNDS {
					assert.Equal(t, int64(1), obj.Rows)
				}
			}
		})
	}
}

func TestPublisher_RetriesTransientFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var calls int
	m := mocks.NewMockObjectStore(ctrl)
	m.EXPECT().Bucket().Return("collab").AnyTimes()
	m.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, _ []byte, _ string) error {
			calls++
			if calls == 1 {
				return errors.New("connection reset")
			}
			return nil
		}).Times(len(domain.CuratedTables) + 1)

	publisher := storage.NewPublisher(nil, "", m, "reconciliation", fastRetry(3))
	published, err := publisher.Publish(context.Background(), testOutputs())
	require.NoError(t, err)
	assert.Len(t, published, len(domain.CuratedTables))
}

func TestPublisher_GivesUpAfterMaxRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := mocks.NewMockObjectStore(ctrl)
	m.EXPECT().Bucket().Return("lake").AnyTimes()
	m.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("access denied")).Times(3)

	publisher := storage.NewPublisher(m, "curated", nil, "", fastRetry(2))
	published, err := publisher.Publish(context.Background(), testOutputs())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "after 3 attempts"))
	assert.Empty(t, published)
}
