package changeout_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecilvega/kverse-sub000/internal/changeout"
	"github.com/cecilvega/kverse-sub000/internal/domain"
)

func TestFilter(t *testing.T) {
	left := "izquierdo"
	right := "derecho"
	date := func(m, d int) time.Time { return time.Date(2024, time.Month(m), d, 0, 0, 0, 0, time.UTC) }

	components := []domain.Component{
		{ComponentName: "mando_final", SubcomponentName: "mando_final"},
		{ComponentName: "motor", SubcomponentName: "motor"},
		{ComponentName: "cilindro", SubcomponentName: "radiador"},
	}
	equipments := []domain.Equipment{
		{SiteName: "MEL", EquipmentName: "TK101", EquipmentModel: "930E"},
		{SiteName: "MEL", EquipmentName: "TK102", EquipmentModel: "960E"},
	}
	raw := []domain.Changeout{
		{CCIndex: 1, EquipmentName: "TK102", ComponentName: "mando_final", SubcomponentName: "mando_final", PositionName: &left, ChangeoutDate: date(3, 1), SAPEquipmentName: 20},
		{CCIndex: 2, EquipmentName: "TK101", ComponentName: "mando_final", SubcomponentName: "mando_final", PositionName: &right, ChangeoutDate: date(5, 1), SAPEquipmentName: 10},
		{CCIndex: 3, EquipmentName: "TK101", ComponentName: "mando_final", SubcomponentName: "mando_final", PositionName: &left, ChangeoutDate: date(2, 1), SAPEquipmentName: 10},
		// untracked component
		{CCIndex: 4, EquipmentName: "TK101", ComponentName: "suspension", SubcomponentName: "suspension", PositionName: &left, ChangeoutDate: date(2, 2), SAPEquipmentName: 10},
		// excluded subcomponents
		{CCIndex: 5, EquipmentName: "TK101", ComponentName: "motor", SubcomponentName: "motor", PositionName: &left, ChangeoutDate: date(2, 3), SAPEquipmentName: 10},
		{CCIndex: 6, EquipmentName: "TK101", ComponentName: "cilindro", SubcomponentName: "radiador", PositionName: &left, ChangeoutDate: date(2, 4), SAPEquipmentName: 10},
		// null position
		{CCIndex: 7, EquipmentName: "TK101", ComponentName: "mando_final", SubcomponentName: "mando_final", ChangeoutDate: date(2, 5), SAPEquipmentName: 10},
		// unknown equipment
		{CCIndex: 8, EquipmentName: "TK999", ComponentName: "mando_final", SubcomponentName: "mando_final", PositionName: &left, ChangeoutDate: date(2, 6), SAPEquipmentName: 99},
		// duplicate key of CCIndex 2, keeps the later row
		{CCIndex: 9, EquipmentName: "TK101", ComponentName: "mando_final", SubcomponentName: "mando_final", PositionName: &right, ChangeoutDate: date(5, 1), SAPEquipmentName: 10, EquipmentModel: "930E-5"},
	}

	out := changeout.Filter(raw, components, equipments, changeout.DefaultOptions())

	require.Len(t, out, 3)
	assert.Equal(t, []int64{3, 9, 1}, indexes(out))
	assert.Equal(t, "930E", out[0].EquipmentModel)
	assert.Equal(t, "930E-5", out[1].EquipmentModel)
	assert.Equal(t, "960E", out[2].EquipmentModel)
}

func TestFilter_Empty(t *testing.T) {
	assert.Empty(t, changeout.Filter(nil, nil, nil, changeout.DefaultOptions()))
}

func indexes(rows []domain.Changeout) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.CCIndex)
	}
	return out
}
