// Package changeout selects the field change-outs the reconciliation tracks.
package changeout

import (
	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/table"
)

// Options tunes the change-out filter
type Options struct {
	// ExcludedSubcomponents are dropped even when the component is tracked
	ExcludedSubcomponents []string
}

// DefaultOptions returns the filter options used in production
func DefaultOptions() Options {
	return Options{ExcludedSubcomponents: domain.DefaultExcludedSubcomponents}
}

type componentKey struct {
	componentName    string
	subcomponentName string
}

// Filter keeps the change-outs of tracked components on known equipment.
// The result holds one row per change-out key, sorted by (sap_equipment_name, changeout_date).
func Filter(raw []domain.Changeout, components []domain.Component, equipments []domain.Equipment, opts Options) []domain.Changeout {
	excluded := make(map[string]struct{}, len(opts.ExcludedSubcomponents))
	for _, s := range opts.ExcludedSubcomponents {
		excluded[s] = struct{}{}
	}

	rows := table.SemiJoin(raw, components,
		func(c domain.Changeout) componentKey { return componentKey{c.ComponentName, c.SubcomponentName} },
		func(c domain.Component) componentKey { return componentKey{c.ComponentName, c.SubcomponentName} },
	)

	rows = table.Filter(rows, func(c domain.Changeout) bool {
		if c.PositionName == nil {
			return false
		}
		_, drop := excluded[c.SubcomponentName]
		return !drop
	})

	// Equipment join also fills the model when the change-out lacks it
	models := make(map[string]string, len(equipments))
	for _, e := range equipments {
		models[e.EquipmentName] = e.EquipmentModel
	}
	rows = table.SemiJoin(rows, equipments,
		func(c domain.Changeout) string { return c.EquipmentName },
		func(e domain.Equipment) string { return e.EquipmentName },
	)

	out := make([]domain.Changeout, 0, len(rows))
	for _, c := range rows {
		if c.EquipmentModel == "" {
			c.EquipmentModel = models[c.EquipmentName]
		}
		out = append(out, c)
	}

	out = table.UniqueKeepLast(out, domain.Changeout.Key)
	return table.SortStable(out, func(a, b domain.Changeout) int {
		if a.SAPEquipmentName != b.SAPEquipmentName {
			if a.SAPEquipmentName < b.SAPEquipmentName {
				return -1
			}
			return 1
		}
		return a.ChangeoutDate.Compare(b.ChangeoutDate)
	})
}
