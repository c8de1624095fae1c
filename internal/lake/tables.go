package lake

import (
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
)

// Table is one curated table as an Arrow record
type Table struct {
	Name   string
	Record arrow.Record
}

// Release releases the record of the table
func (t Table) Release() {
	if t.Record != nil {
		t.Record.Release()
	}
}

// ReleaseAll releases every table
func ReleaseAll(tables []Table) {
	for _, t := range tables {
		t.Release()
	}
}

var componentHistoryColumns = []column[domain.ComponentHistory]{
	int64Column("cc_index", func(h domain.ComponentHistory) int64 { return h.CCIndex }),
	stringColumn("equipment_name", func(h domain.ComponentHistory) string { return h.EquipmentName }),
	stringColumn("component_name", func(h domain.ComponentHistory) string { return h.ComponentName }),
	stringColumn("subcomponent_name", func(h domain.ComponentHistory) string { return h.SubcomponentName }),
	nullableStringColumn("position_name", func(h domain.ComponentHistory) *string { return h.PositionName }),
	timestampColumn("changeout_date", func(h domain.ComponentHistory) time.Time { return h.ChangeoutDate }),
	int64Column("customer_work_order", func(h domain.ComponentHistory) int64 { return h.CustomerWorkOrder }),
	int64Column("sap_equipment_name", func(h domain.ComponentHistory) int64 { return h.SAPEquipmentName }),
	stringColumn("component_serial", func(h domain.ComponentHistory) string { return h.ComponentSerial }),
	stringColumn("installed_component_serial", func(h domain.ComponentHistory) string { return h.InstalledComponentSerial }),
	nullableFloat64Column("component_hours", func(h domain.ComponentHistory) *float64 { return h.ComponentHours }),
	nullableFloat64Column("component_usage", func(h domain.ComponentHistory) *float64 { return h.ComponentUsage }),
	stringColumn("equipment_model", func(h domain.ComponentHistory) string { return h.EquipmentModel }),
	nullableInt64Column("service_order", func(h domain.ComponentHistory) *int64 {
		if h.ServiceOrder == nil {
			return nil
		}
		return &h.ServiceOrder.ServiceOrder
	}),
	nullableTimestampColumn("reception_date", func(h domain.ComponentHistory) *time.Time {
		if h.ServiceOrder == nil {
			return nil
		}
		return &h.ServiceOrder.ReceptionDate
	}),
	nullableStringColumn("warranty_type", func(h domain.ComponentHistory) *string {
		if h.ServiceOrder == nil {
			return nil
		}
		return &h.ServiceOrder.WarrantyType
	}),
	nullableStringColumn("site_name", func(h domain.ComponentHistory) *string {
		if h.ServiceOrder == nil {
			return nil
		}
		return &h.ServiceOrder.SiteName
	}),
	nullableTimestampColumn("load_final_report_date", func(h domain.ComponentHistory) *time.Time {
		if h.ServiceOrder == nil {
			return nil
		}
		return h.ServiceOrder.LoadFinalReportDate
	}),
	nullableStringColumn("reso_merge", func(h domain.ComponentHistory) *string { return h.ResoMerge.Nullable() }),
}

var componentReparationColumns = []column[domain.ComponentReparation]{
	stringColumn("component_serial", func(r domain.ComponentReparation) string { return r.ComponentSerial }),
	int64Column("service_order", func(r domain.ComponentReparation) int64 { return r.ServiceOrder }),
	stringColumn("subcomponent_tag", func(r domain.ComponentReparation) string { return r.SubcomponentTag }),
	stringColumn("component_name", func(r domain.ComponentReparation) string { return r.ComponentName }),
	stringColumn("subcomponent_name", func(r domain.ComponentReparation) string { return r.SubcomponentName }),
	stringColumn("main_component", func(r domain.ComponentReparation) string { return r.MainComponent }),
	timestampColumn("reception_date", func(r domain.ComponentReparation) time.Time { return r.ReceptionDate }),
	int64Column("sap_equipment_name", func(r domain.ComponentReparation) int64 { return r.SAPEquipmentName }),
	stringColumn("equipment_model", func(r domain.ComponentReparation) string { return r.EquipmentModel }),
	stringColumn("site_name", func(r domain.ComponentReparation) string { return r.SiteName }),
	nullableFloat64Column("component_hours", func(r domain.ComponentReparation) *float64 { return r.ComponentHours }),
	intColumn("repair_count", func(r domain.ComponentReparation) int { return r.RepairCount }),
	intColumn("repair_recency_rank", func(r domain.ComponentReparation) int { return r.RepairRecencyRank }),
	float64Column("cumulative_component_hours", func(r domain.ComponentReparation) float64 { return r.CumulativeComponentHours }),
}

var partLifecycleEventColumns = []column[domain.PartLifecycleEvent]{
	stringColumn("part_of_interest", func(e domain.PartLifecycleEvent) string { return e.PartOfInterest }),
	stringColumn("component_serial", func(e domain.PartLifecycleEvent) string { return e.ComponentSerial }),
	int64Column("service_order", func(e domain.PartLifecycleEvent) int64 { return e.ServiceOrder }),
	timestampColumn("reception_date", func(e domain.PartLifecycleEvent) time.Time { return e.ReceptionDate }),
	stringColumn("subcomponent_tag", func(e domain.PartLifecycleEvent) string { return e.SubcomponentTag }),
	stringColumn("part_name", func(e domain.PartLifecycleEvent) string { return e.PartName }),
	stringColumn("subpart_name", func(e domain.PartLifecycleEvent) string { return e.SubpartName }),
	nullableStringColumn("initial_part_serial", func(e domain.PartLifecycleEvent) *string { return e.InitialPartSerial }),
	nullableStringColumn("final_part_serial", func(e domain.PartLifecycleEvent) *string { return e.FinalPartSerial }),
	nullableFloat64Column("component_hours", func(e domain.PartLifecycleEvent) *float64 { return e.ComponentHours }),
	intColumn("recency_repair_rank", func(e domain.PartLifecycleEvent) int { return e.RecencyRepairRank }),
	stringColumn("cycle_event", func(e domain.PartLifecycleEvent) string { return string(e.CycleEvent) }),
	stringColumn("status", func(e domain.PartLifecycleEvent) string { return string(e.Status) }),
	stringColumn("comment", func(e domain.PartLifecycleEvent) string { return e.Comment }),
}

var fleetPartStateColumns = []column[domain.FleetPartState]{
	stringColumn("part_of_interest", func(p domain.FleetPartState) string { return p.PartOfInterest }),
	stringColumn("component_serial", func(p domain.FleetPartState) string { return p.ComponentSerial }),
	int64Column("service_order", func(p domain.FleetPartState) int64 { return p.ServiceOrder }),
	stringColumn("subcomponent_tag", func(p domain.FleetPartState) string { return p.SubcomponentTag }),
	stringColumn("part_name", func(p domain.FleetPartState) string { return p.PartName }),
	stringColumn("subpart_name", func(p domain.FleetPartState) string { return p.SubpartName }),
	float64Column("lifecycle_hours", func(p domain.FleetPartState) float64 { return p.LifecycleHours }),
	intColumn("repair_count", func(p domain.FleetPartState) int { return p.RepairCount }),
	stringColumn("risk", func(p domain.FleetPartState) string { return string(p.Risk) }),
}

var fleetComponentSummaryColumns = []column[domain.FleetComponentSummary]{
	stringColumn("component_serial", func(c domain.FleetComponentSummary) string { return c.ComponentSerial }),
	stringColumn("subcomponent_tag", func(c domain.FleetComponentSummary) string { return c.SubcomponentTag }),
	stringColumn("part_name", func(c domain.FleetComponentSummary) string { return c.PartName }),
	float64Column("mean_lifecycle_hours", func(c domain.FleetComponentSummary) float64 { return c.MeanLifecycleHours }),
	float64Column("min_lifecycle_hours", func(c domain.FleetComponentSummary) float64 { return c.MinLifecycleHours }),
	float64Column("max_lifecycle_hours", func(c domain.FleetComponentSummary) float64 { return c.MaxLifecycleHours }),
	float64Column("mean_repair_count", func(c domain.FleetComponentSummary) float64 { return c.MeanRepairCount }),
	intColumn("subpart_count", func(c domain.FleetComponentSummary) int { return c.SubpartCount }),
}

var fleetBoundColumns = []column[domain.FleetBound]{
	stringColumn("subcomponent_tag", func(b domain.FleetBound) string { return b.SubcomponentTag }),
	stringColumn("part_name", func(b domain.FleetBound) string { return b.PartName }),
	intColumn("samples", func(b domain.FleetBound) int { return b.Samples }),
	float64Column("p25", func(b domain.FleetBound) float64 { return b.P25 }),
	float64Column("p50", func(b domain.FleetBound) float64 { return b.P50 }),
	float64Column("p75", func(b domain.FleetBound) float64 { return b.P75 }),
	float64Column("mean", func(b domain.FleetBound) float64 { return b.Mean }),
	float64Column("std", func(b domain.FleetBound) float64 { return b.Std }),
	float64Column("lower_bound_hours", func(b domain.FleetBound) float64 { return b.LowerBoundHours }),
	float64Column("upper_bound_hours", func(b domain.FleetBound) float64 { return b.UpperBoundHours }),
	boolColumn("cost_adjusted", func(b domain.FleetBound) bool { return b.CostAdjusted }),
}

// BuildTables converts the curated outputs of a run into one record per table, in publication order.
// The caller must release the returned tables.
func BuildTables(mem memory.Allocator, out *pipeline.Outputs) []Table {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	return []Table{
		{Name: domain.TABLE_COMPONENT_HISTORY, Record: buildRecord(mem, componentHistoryColumns, out.ComponentHistory)},
		{Name: domain.TABLE_COMPONENT_REPARATIONS, Record: buildRecord(mem, componentReparationColumns, out.ComponentReparations)},
		{Name: domain.TABLE_PART_LIFECYCLE_EVENTS, Record: buildRecord(mem, partLifecycleEventColumns, out.PartLifecycleEvents)},
		{Name: domain.TABLE_FLEET_PART_STATES, Record: buildRecord(mem, fleetPartStateColumns, out.Fleet.Parts)},
		{Name: domain.TABLE_FLEET_COMPONENT_SUMMARY, Record: buildRecord(mem, fleetComponentSummaryColumns, out.Fleet.Components)},
		{Name: domain.TABLE_FLEET_BOUNDS, Record: buildRecord(mem, fleetBoundColumns, out.Fleet.Bounds)},
	}
}
