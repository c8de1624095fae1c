package lake_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/fleet"
	"github.com/cecilvega/kverse-sub000/internal/lake"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
)

func ptr[T any](v T) *T {
	return &v
}

func outputs() *pipeline.Outputs {
	reception := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)
	return &pipeline.Outputs{
		ComponentHistory: []domain.ComponentHistory{
			{
				Changeout:    domain.Changeout{EquipmentName: "TK17", ComponentSerial: "MOTOR_A", PositionName: ptr("izquierdo"), ChangeoutDate: reception.AddDate(0, 0, -9)},
				ServiceOrder: &domain.ServiceOrder{ServiceOrder: 4, ReceptionDate: reception, SiteName: "MEL"},
				ResoMerge:    domain.MergeDirect,
			},
			{
				Changeout: domain.Changeout{EquipmentName: "TK17", ComponentSerial: "MOTOR_B", ChangeoutDate: reception},
			},
		},
		PartLifecycleEvents: []domain.PartLifecycleEvent{
			{PartOfInterest: "P101", ComponentSerial: "MOTOR_A", ServiceOrder: 4, ReceptionDate: reception, CycleEvent: domain.CycleEventDeparture, Status: domain.StatusPartSwap, FinalPartSerial: ptr("P101")},
		},
		Fleet: fleet.Result{
			Bounds: []domain.FleetBound{{SubcomponentTag: "5A30", PartName: "sun_gear", Samples: 4, P50: 30_000, LowerBoundHours: 20_000, UpperBoundHours: 48_000}},
		},
	}
}

func TestBuildTables(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tables := lake.BuildTables(mem, outputs())
	defer lake.ReleaseAll(tables)

	require.Len(t, tables, len(domain.CuratedTables))
	for i, tbl := range tables {
		assert.Equal(t, domain.CuratedTables[i], tbl.Name)
	}

	history := tables[0].Record
	assert.Equal(t, int64(2), history.NumRows())

	idx := history.Schema().FieldIndices("service_order")
	require.Len(t, idx, 1)
	so := history.Column(idx[0]).(*array.Int64)
	assert.Equal(t, int64(4), so.Value(0))
	assert.True(t, so.IsNull(1))

	idx = history.Schema().FieldIndices("position_name")
	require.Len(t, idx, 1)
	position := history.Column(idx[0]).(*array.String)
	assert.Equal(t, "izquierdo", position.Value(0))
	assert.True(t, position.IsNull(1))

	idx = history.Schema().FieldIndices("reso_merge")
	require.Len(t, idx, 1)
	assert.True(t, history.Schema().Field(idx[0]).Nullable)
	merge := history.Column(idx[0]).(*array.String)
	assert.Equal(t, "direct", merge.Value(0))
	assert.True(t, merge.IsNull(1))

	idx = history.Schema().FieldIndices("changeout_date")
	require.Len(t, idx, 1)
	dates := history.Column(idx[0]).(*array.Timestamp)
	assert.Equal(t, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), dates.Value(0).ToTime(arrow.Microsecond))

	// empty tables keep their schema
	assert.Equal(t, int64(0), tables[1].Record.NumRows())
	assert.Positive(t, tables[1].Record.NumCols())
}

func TestParquetRoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tables := lake.BuildTables(mem, outputs())
	defer lake.ReleaseAll(tables)

	bounds := tables[5]
	data, err := lake.Encode(lake.FormatParquet, bounds.Record)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	tbl, err := lake.ReadParquet(context.Background(), data, nil)
	require.NoError(t, err)
	defer tbl.Release()

	assert.Equal(t, int64(1), tbl.NumRows())
	assert.Equal(t, bounds.Record.NumCols(), int64(tbl.NumCols()))

	idx := tbl.Schema().FieldIndices("upper_bound_hours")
	require.Len(t, idx, 1)
	upper := tbl.Column(idx[0]).Data().Chunk(0).(*array.Float64)
	assert.Equal(t, 48_000.0, upper.Value(0))
}

func TestEncodeCSV(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tables := lake.BuildTables(mem, outputs())
	defer lake.ReleaseAll(tables)

	data, err := lake.Encode(lake.FormatCSV, tables[2].Record)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "part_of_interest,component_serial,service_order"))
	assert.True(t, strings.HasPrefix(lines[1], "P101,MOTOR_A,4,"))
	assert.Contains(t, lines[1], "DEPARTURE")
}

func TestEncodeUnsupportedFormat(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tables := lake.BuildTables(mem, outputs())
	defer lake.ReleaseAll(tables)

	_, err := lake.Encode(lake.Format("xlsx"), tables[0].Record)
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, ".parquet", lake.FormatParquet.Extension())
	assert.Equal(t, "text/csv", lake.FormatCSV.ContentType())
}
