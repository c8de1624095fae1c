// Package reparation numbers the workshop visits of every component serial.
package reparation

import (
	"strings"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/linker"
	"github.com/cecilvega/kverse-sub000/internal/normalize"
	"github.com/cecilvega/kverse-sub000/internal/registry"
	"github.com/cecilvega/kverse-sub000/internal/table"
)

// Options selects the service orders that take part in the repair sequence
type Options struct {
	// SiteName keeps only service orders of this site. Empty keeps every site.
	SiteName string
	// FactoryWarranty is the warranty label of units repaired by the manufacturer
	FactoryWarranty string
}

// DefaultOptions returns the builder options for a site
func DefaultOptions(site string) Options {
	return Options{SiteName: site, FactoryWarranty: domain.FACTORY_WARRANTY}
}

type partitionKey struct {
	componentSerial string
	subcomponentTag string
}

// Build produces the component_reparations table and the normalization warnings absorbed on the way
func Build(serviceOrders []domain.ServiceOrder, components registry.ComponentRegistry, opts Options) ([]domain.ComponentReparation, normalize.Report) {
	var report normalize.Report

	rows := make([]domain.ComponentReparation, 0, len(serviceOrders))
	for _, so := range linker.CanonicalizeServiceOrders(serviceOrders) {
		if opts.SiteName != "" && so.SiteName != opts.SiteName {
			continue
		}
		if so.WarrantyType == opts.FactoryWarranty {
			continue
		}
		mapping, ok := components.Lookup(so.MainComponent)
		if !ok {
			continue
		}
		if !normalize.IsValidComponentSerial(so.ComponentSerial) {
			report.InvalidSerials++
			continue
		}

		var hours *float64
		if so.ComponentHours != nil {
			var warn bool
			hours, warn = normalize.ParseComponentHours(*so.ComponentHours)
			if warn {
				report.UnparseableHours++
			}
		}

		rows = append(rows, domain.ComponentReparation{
			ComponentSerial:  strings.TrimSpace(so.ComponentSerial),
			ServiceOrder:     so.ServiceOrder,
			SubcomponentTag:  mapping.SubcomponentTag,
			ComponentName:    mapping.ComponentName,
			SubcomponentName: mapping.SubcomponentName,
			MainComponent:    so.MainComponent,
			ReceptionDate:    so.ReceptionDate,
			SAPEquipmentName: so.SAPEquipmentName,
			EquipmentModel:   so.EquipmentModel,
			SiteName:         so.SiteName,
			ComponentHours:   hours,
		})
	}

	rows = table.SortStable(rows, func(a, b domain.ComponentReparation) int {
		if c := strings.Compare(a.ComponentSerial, b.ComponentSerial); c != 0 {
			return c
		}
		return a.ReceptionDate.Compare(b.ReceptionDate)
	})

	positions := make(map[partitionKey][]int)
	for i, r := range rows {
		k := partitionKey{r.ComponentSerial, r.SubcomponentTag}
		positions[k] = append(positions[k], i)
	}
	for _, indexes := range positions {
		cumulative := 0.0
		for n, i := range indexes {
			if h := rows[i].ComponentHours; h != nil {
				cumulative += *h
			}
			rows[i].RepairCount = n + 1
			rows[i].RepairRecencyRank = len(indexes) - 1 - n
			rows[i].CumulativeComponentHours = cumulative
		}
	}

	return rows, report
}
