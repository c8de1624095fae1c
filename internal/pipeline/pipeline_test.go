package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/mocks"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
	"github.com/cecilvega/kverse-sub000/internal/registry"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func fixture() pipeline.Inputs {
	return pipeline.Inputs{
		Components: []domain.Component{{ComponentName: "mando_final", SubcomponentName: "mando_final", SubcomponentTag: "5A30"}},
		Equipments: []domain.Equipment{{SiteName: "MEL", EquipmentName: "TK17", EquipmentModel: "930E"}},
		Changeouts: []domain.Changeout{
			{EquipmentName: "TK17", ComponentName: "mando_final", SubcomponentName: "mando_final", PositionName: ptr("izquierdo"), ChangeoutDate: date(2024, 8, 1), CustomerWorkOrder: 42, SAPEquipmentName: 17, ComponentSerial: "MOTOR_A"},
			{EquipmentName: "TK17", ComponentName: "mando_final", SubcomponentName: "mando_final", PositionName: ptr("derecho"), ChangeoutDate: date(2024, 6, 1), CustomerWorkOrder: domain.UNKNOWN_ID, SAPEquipmentName: 17, ComponentSerial: "MOTOR_B"},
		},
		ServiceOrders: []domain.ServiceOrder{
			{ServiceOrder: 4, ReceptionDate: date(2024, 8, 10), CustomerWorkOrder: 42, SAPEquipmentName: 17, ComponentSerial: "MOTOR_A", MainComponent: "Mando Final", SiteName: "MEL", ComponentHours: ptr("20.000")},
			{ServiceOrder: 3, ReceptionDate: date(2024, 7, 5), CustomerWorkOrder: 77, SAPEquipmentName: 17, ComponentSerial: "MOTOR_B", MainComponent: "Mando Final", SiteName: "MEL", ComponentHours: ptr("N/A")},
		},
		PartPivot: []domain.PartPivotRow{
			{ComponentSerial: "MOTOR_B", ServiceOrder: 2, ReceptionDate: date(2023, 5, 20), SubcomponentTag: "5A30", PartName: "sun_gear", SubpartName: "sun_gear", InitialPartSerial: ptr("P101"), FinalPartSerial: ptr("P101"), ComponentHours: ptr(12_000.0)},
			{ComponentSerial: "MOTOR_B", ServiceOrder: 3, ReceptionDate: date(2024, 7, 5), SubcomponentTag: "5A30", PartName: "sun_gear", SubpartName: "sun_gear", InitialPartSerial: ptr("P101"), FinalPartSerial: ptr("P303"), ComponentHours: ptr(9_000.0)},
			{ComponentSerial: "MOTOR_A", ServiceOrder: 4, ReceptionDate: date(2024, 8, 10), SubcomponentTag: "5A30", PartName: "sun_gear", SubpartName: "sun_gear", InitialPartSerial: ptr("P202"), FinalPartSerial: ptr("P999")},
		},
		Overrides: []domain.PartOverride{
			// the workshop typed the wrong final serial on MOTOR_A
			{ComponentSerial: ptr("MOTOR_A"), ServiceOrder: ptr(int64(4)), FinalPartSerial: ptr("P101")},
		},
	}
}

func newPipeline(t *testing.T) *pipeline.Pipeline {
	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(date(2025, 1, 1)).AnyTimes()

	reg, err := registry.NewComponentRegistry([]registry.ComponentMapping{
		{MainComponent: "Mando Final", SubcomponentTag: "5A30", ComponentName: "mando_final", SubcomponentName: "mando_final"},
	})
	require.NoError(t, err)

	return pipeline.New(reg, clock, pipeline.DefaultOptions("MEL"))
}

func TestPipeline_Run(t *testing.T) {
	out, err := newPipeline(t).Run(context.Background(), fixture())
	require.NoError(t, err)

	require.Len(t, out.ComponentHistory, 2)
	merges := map[string]domain.MergeStrategy{}
	for _, h := range out.ComponentHistory {
		merges[h.ComponentSerial] = h.ResoMerge
	}
	assert.Equal(t, domain.MergeDirect, merges["MOTOR_A"])
	assert.Equal(t, domain.MergeAsof, merges["MOTOR_B"])

	require.Len(t, out.ComponentReparations, 2)
	assert.Equal(t, 1, out.Summary.Normalization.UnparseableHours)
	assert.Equal(t, 0, out.Summary.Normalization.InvalidSerials)

	// P101 traced from MOTOR_A back through MOTOR_B thanks to the override
	var p101 []domain.PartLifecycleEvent
	for _, e := range out.PartLifecycleEvents {
		if e.PartOfInterest == "P101" {
			p101 = append(p101, e)
		}
	}
	require.Len(t, p101, 6)
	assert.Equal(t, domain.COMMENT_BIRTH, p101[5].Comment)

	assert.NotEmpty(t, out.Fleet.Bounds)
	assert.NotEmpty(t, out.Summary.RunID)
	assert.Equal(t, date(2025, 1, 1), out.Summary.StartedAt)
	assert.Equal(t, len(out.PartLifecycleEvents), out.Summary.RowCounts[domain.TABLE_PART_LIFECYCLE_EVENTS])
	assert.Equal(t, 2, out.Summary.Linkage.Total)
}

func TestPipeline_RunWithID_ScopesLogsToRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	t.Cleanup(logger.Replace(zap.New(core)))

	_, err := newPipeline(t).RunWithID(context.Background(), "01J9RUN", fixture())
	require.NoError(t, err)

	require.NotZero(t, logs.Len())
	for _, entry := range logs.AllUntimed() {
		assert.Equal(t, "01J9RUN", entry.ContextMap()["run_id"], entry.Message)
	}
}

func TestPipeline_Run_IntegrityError(t *testing.T) {
	in := fixture()
	in.PartPivot = append(in.PartPivot, domain.PartPivotRow{
		ComponentSerial: "MOTOR_C", ServiceOrder: 1, ReceptionDate: date(2022, 1, 1), PartName: "sun_gear", SubpartName: "sun_gear", FinalPartSerial: ptr("P101"),
	})
	// MOTOR_B repaired P101 in place at SO 2 but its earlier history is only in MOTOR_C
	_, err := newPipeline(t).Run(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrCrossBodyInPlaceRepair)
}

func TestPipeline_Run_InvalidOverride(t *testing.T) {
	in := fixture()
	in.Overrides = []domain.PartOverride{{FinalPartSerial: ptr("P1")}}

	_, err := newPipeline(t).Run(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidOverride)
}

func TestTraceOne(t *testing.T) {
	in := fixture()
	events, err := pipeline.TraceOne(in.PartPivot, in.Overrides, domain.StartingReport{ComponentSerial: "MOTOR_A", ServiceOrder: 4, PartName: "sun_gear"})
	require.NoError(t, err)
	require.Len(t, events, 6)
	assert.Equal(t, "P101", events[0].PartOfInterest)
}
