package schema

import (
	"time"

	"github.com/cecilvega/kverse-sub000/internal/domain"
)

// ComponentHistory represents the component_history curated table - change-outs with their linked service order
type ComponentHistory struct {
	ID                       int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RunID                    string    `gorm:"column:run_id;not null;type:text;index"`
	CCIndex                  int64     `gorm:"column:cc_index;not null"`
	EquipmentName            string    `gorm:"column:equipment_name;not null;type:text"`
	ComponentName            string    `gorm:"column:component_name;not null;type:text"`
	SubcomponentName         string    `gorm:"column:subcomponent_name;not null;type:text"`
	PositionName             *string   `gorm:"column:position_name;type:text"`
	ChangeoutDate            time.Time `gorm:"column:changeout_date;not null"`
	CustomerWorkOrder        int64     `gorm:"column:customer_work_order;not null"`
	SAPEquipmentName         int64     `gorm:"column:sap_equipment_name;not null"`
	ComponentSerial          string    `gorm:"column:component_serial;type:text;index"`
	InstalledComponentSerial string    `gorm:"column:installed_component_serial;type:text"`
	ComponentHours           *float64  `gorm:"column:component_hours"`
	ComponentUsage           *float64  `gorm:"column:component_usage"`
	EquipmentModel           string    `gorm:"column:equipment_model;type:text"`

	// Linked service order, all nil when the change-out is unmatched
	ServiceOrder          *int64     `gorm:"column:service_order"`
	ReceptionDate         *time.Time `gorm:"column:reception_date"`
	SOCustomerWorkOrder   *int64     `gorm:"column:so_customer_work_order"`
	SOSAPEquipmentName    *int64     `gorm:"column:so_sap_equipment_name"`
	SOComponentSerial     *string    `gorm:"column:so_component_serial;type:text"`
	MainComponent         *string    `gorm:"column:main_component;type:text"`
	WarrantyType          *string    `gorm:"column:warranty_type;type:text"`
	SiteName              *string    `gorm:"column:site_name;type:text"`
	SOEquipmentModel      *string    `gorm:"column:so_equipment_model;type:text"`
	OpeningDate           *time.Time `gorm:"column:opening_date"`
	LoadPreliminaryReport *time.Time `gorm:"column:load_preliminary_report_date"`
	LatestQuotation       *time.Time `gorm:"column:latest_quotation_publication"`
	ApprovalDate          *time.Time `gorm:"column:approval_date"`
	LoadFinalReportDate   *time.Time `gorm:"column:load_final_report_date"`
	ResoClosingDate       *time.Time `gorm:"column:reso_closing_date"`
	ComponentStatus       *string    `gorm:"column:component_status;type:text"`
	ServiceOrderHoursRaw  *string    `gorm:"column:service_order_component_hours;type:text"`
	ResoMerge             *string    `gorm:"column:reso_merge;type:text"`
}

// TableName specifies the table name for the ComponentHistory model
func (ComponentHistory) TableName() string {
	return domain.TABLE_COMPONENT_HISTORY
}

// NewComponentHistory maps a linked change-out of a run to its row
func NewComponentHistory(runID string, h domain.ComponentHistory) ComponentHistory {
	row := ComponentHistory{
		RunID:                    runID,
		CCIndex:                  h.CCIndex,
		EquipmentName:            h.EquipmentName,
		ComponentName:            h.ComponentName,
		SubcomponentName:         h.SubcomponentName,
		PositionName:             h.PositionName,
		ChangeoutDate:            h.ChangeoutDate,
		CustomerWorkOrder:        h.CustomerWorkOrder,
		SAPEquipmentName:         h.SAPEquipmentName,
		ComponentSerial:          h.ComponentSerial,
		InstalledComponentSerial: h.InstalledComponentSerial,
		ComponentHours:           h.ComponentHours,
		ComponentUsage:           h.ComponentUsage,
		EquipmentModel:           h.EquipmentModel,
		ResoMerge:                h.ResoMerge.Nullable(),
	}
	if so := h.ServiceOrder; so != nil {
		row.ServiceOrder = &so.ServiceOrder
		row.ReceptionDate = &so.ReceptionDate
		row.SOCustomerWorkOrder = &so.CustomerWorkOrder
		row.SOSAPEquipmentName = &so.SAPEquipmentName
		row.SOComponentSerial = &so.ComponentSerial
		row.MainComponent = &so.MainComponent
		row.WarrantyType = &so.WarrantyType
		row.SiteName = &so.SiteName
		row.SOEquipmentModel = &so.EquipmentModel
		row.OpeningDate = so.OpeningDate
		row.LoadPreliminaryReport = so.LoadPreliminaryReportDate
		row.LatestQuotation = so.LatestQuotationPublication
		row.ApprovalDate = so.ApprovalDate
		row.LoadFinalReportDate = so.LoadFinalReportDate
		row.ResoClosingDate = so.ResoClosingDate
		row.ComponentStatus = &so.ComponentStatus
		row.ServiceOrderHoursRaw = so.ComponentHours
	}
	return row
}

func (h ComponentHistory) ToDomain() domain.ComponentHistory {
	out := domain.ComponentHistory{
		Changeout: domain.Changeout{
			CCIndex:                  h.CCIndex,
			EquipmentName:            h.EquipmentName,
			ComponentName:            h.ComponentName,
			SubcomponentName:         h.SubcomponentName,
			PositionName:             h.PositionName,
			ChangeoutDate:            h.ChangeoutDate.UTC(),
			CustomerWorkOrder:        h.CustomerWorkOrder,
			SAPEquipmentName:         h.SAPEquipmentName,
			ComponentSerial:          h.ComponentSerial,
			InstalledComponentSerial: h.InstalledComponentSerial,
			ComponentHours:           h.ComponentHours,
			ComponentUsage:           h.ComponentUsage,
			EquipmentModel:           h.EquipmentModel,
		},
		ResoMerge: domain.MergeStrategy(deref(h.ResoMerge)),
	}
	if h.ServiceOrder != nil {
		out.ServiceOrder = &domain.ServiceOrder{
			ServiceOrder:               *h.ServiceOrder,
			ReceptionDate:              deref(utcPtr(h.ReceptionDate)),
			CustomerWorkOrder:          deref(h.SOCustomerWorkOrder),
			SAPEquipmentName:           deref(h.SOSAPEquipmentName),
			ComponentSerial:            deref(h.SOComponentSerial),
			MainComponent:              deref(h.MainComponent),
			WarrantyType:               deref(h.WarrantyType),
			SiteName:                   deref(h.SiteName),
			EquipmentModel:             deref(h.SOEquipmentModel),
			OpeningDate:                utcPtr(h.OpeningDate),
			LoadPreliminaryReportDate:  utcPtr(h.LoadPreliminaryReport),
			LatestQuotationPublication: utcPtr(h.LatestQuotation),
			ApprovalDate:               utcPtr(h.ApprovalDate),
			LoadFinalReportDate:        utcPtr(h.LoadFinalReportDate),
			ResoClosingDate:            utcPtr(h.ResoClosingDate),
			ComponentStatus:            deref(h.ComponentStatus),
			ComponentHours:             h.ServiceOrderHoursRaw,
		}
	}
	return out
}

// ComponentReparation represents the component_reparations curated table
type ComponentReparation struct {
	ID                       int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RunID                    string    `gorm:"column:run_id;not null;type:text;index"`
	ComponentSerial          string    `gorm:"column:component_serial;not null;type:text;index"`
	ServiceOrder             int64     `gorm:"column:service_order;not null"`
	SubcomponentTag          string    `gorm:"column:subcomponent_tag;not null;type:text"`
	ComponentName            string    `gorm:"column:component_name;not null;type:text"`
	SubcomponentName         string    `gorm:"column:subcomponent_name;not null;type:text"`
	MainComponent            string    `gorm:"column:main_component;type:text"`
	ReceptionDate            time.Time `gorm:"column:reception_date;not null"`
	SAPEquipmentName         int64     `gorm:"column:sap_equipment_name"`
	EquipmentModel           string    `gorm:"column:equipment_model;type:text"`
	SiteName                 string    `gorm:"column:site_name;type:text"`
	ComponentHours           *float64  `gorm:"column:component_hours"`
	RepairCount              int       `gorm:"column:repair_count;not null"`
	RepairRecencyRank        int       `gorm:"column:repair_recency_rank;not null"`
	CumulativeComponentHours float64   `gorm:"column:cumulative_component_hours;not null"`
}

// TableName specifies the table name for the ComponentReparation model
func (ComponentReparation) TableName() string {
	return domain.TABLE_COMPONENT_REPARATIONS
}

// NewComponentReparation maps a repair of a run to its row
func NewComponentReparation(runID string, r domain.ComponentReparation) ComponentReparation {
	return ComponentReparation{
		RunID:                    runID,
		ComponentSerial:          r.ComponentSerial,
		ServiceOrder:             r.ServiceOrder,
		SubcomponentTag:          r.SubcomponentTag,
		ComponentName:            r.ComponentName,
		SubcomponentName:         r.SubcomponentName,
		MainComponent:            r.MainComponent,
		ReceptionDate:            r.ReceptionDate,
		SAPEquipmentName:         r.SAPEquipmentName,
		EquipmentModel:           r.EquipmentModel,
		SiteName:                 r.SiteName,
		ComponentHours:           r.ComponentHours,
		RepairCount:              r.RepairCount,
		RepairRecencyRank:        r.RepairRecencyRank,
		CumulativeComponentHours: r.CumulativeComponentHours,
	}
}

func (r ComponentReparation) ToDomain() domain.ComponentReparation {
	return domain.ComponentReparation{
		ComponentSerial:          r.ComponentSerial,
		ServiceOrder:             r.ServiceOrder,
		SubcomponentTag:          r.SubcomponentTag,
		ComponentName:            r.ComponentName,
		SubcomponentName:         r.SubcomponentName,
		MainComponent:            r.MainComponent,
		ReceptionDate:            r.ReceptionDate.UTC(),
		SAPEquipmentName:         r.SAPEquipmentName,
		EquipmentModel:           r.EquipmentModel,
		SiteName:                 r.SiteName,
		ComponentHours:           r.ComponentHours,
		RepairCount:              r.RepairCount,
		RepairRecencyRank:        r.RepairRecencyRank,
		CumulativeComponentHours: r.CumulativeComponentHours,
	}
}

// PartLifecycleEvent represents the part_lifecycle_events curated table
type PartLifecycleEvent struct {
	ID                int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RunID             string    `gorm:"column:run_id;not null;type:text;index"`
	PartOfInterest    string    `gorm:"column:part_of_interest;not null;type:text;index"`
	ComponentSerial   string    `gorm:"column:component_serial;not null;type:text"`
	ServiceOrder      int64     `gorm:"column:service_order;not null"`
	ReceptionDate     time.Time `gorm:"column:reception_date;not null"`
	SubcomponentTag   string    `gorm:"column:subcomponent_tag;not null;type:text"`
	PartName          string    `gorm:"column:part_name;not null;type:text"`
	SubpartName       string    `gorm:"column:subpart_name;not null;type:text"`
	InitialPartSerial *string   `gorm:"column:initial_part_serial;type:text"`
	FinalPartSerial   *string   `gorm:"column:final_part_serial;type:text"`
	ComponentHours    *float64  `gorm:"column:component_hours"`
	RecencyRepairRank int       `gorm:"column:recency_repair_rank;not null"`
	CycleEvent        string    `gorm:"column:cycle_event;not null;type:text"`
	Status            string    `gorm:"column:status;not null;type:text"`
	Comment           string    `gorm:"column:comment;type:text"`
}

// TableName specifies the table name for the PartLifecycleEvent model
func (PartLifecycleEvent) TableName() string {
	return domain.TABLE_PART_LIFECYCLE_EVENTS
}

// NewPartLifecycleEvent maps a lifecycle event of a run to its row
func NewPartLifecycleEvent(runID string, e domain.PartLifecycleEvent) PartLifecycleEvent {
	return PartLifecycleEvent{
		RunID:             runID,
		PartOfInterest:    e.PartOfInterest,
		ComponentSerial:   e.ComponentSerial,
		ServiceOrder:      e.ServiceOrder,
		ReceptionDate:     e.ReceptionDate,
		SubcomponentTag:   e.SubcomponentTag,
		PartName:          e.PartName,
		SubpartName:       e.SubpartName,
		InitialPartSerial: e.InitialPartSerial,
		FinalPartSerial:   e.FinalPartSerial,
		ComponentHours:    e.ComponentHours,
		RecencyRepairRank: e.RecencyRepairRank,
		CycleEvent:        string(e.CycleEvent),
		Status:            string(e.Status),
		Comment:           e.Comment,
	}
}

func (e PartLifecycleEvent) ToDomain() domain.PartLifecycleEvent {
	return domain.PartLifecycleEvent{
		PartOfInterest:    e.PartOfInterest,
		ComponentSerial:   e.ComponentSerial,
		ServiceOrder:      e.ServiceOrder,
		ReceptionDate:     e.ReceptionDate.UTC(),
		SubcomponentTag:   e.SubcomponentTag,
		PartName:          e.PartName,
		SubpartName:       e.SubpartName,
		InitialPartSerial: e.InitialPartSerial,
		FinalPartSerial:   e.FinalPartSerial,
		ComponentHours:    e.ComponentHours,
		RecencyRepairRank: e.RecencyRepairRank,
		CycleEvent:        domain.CycleEvent(e.CycleEvent),
		Status:            domain.LifecycleStatus(e.Status),
		Comment:           e.Comment,
	}
}

// FleetPartState represents the fleet_part_states curated table
type FleetPartState struct {
	ID              int64   `gorm:"column:id;primaryKey;autoIncrement"`
	RunID           string  `gorm:"column:run_id;not null;type:text;index"`
	PartOfInterest  string  `gorm:"column:part_of_interest;not null;type:text"`
	ComponentSerial string  `gorm:"column:component_serial;not null;type:text"`
	ServiceOrder    int64   `gorm:"column:service_order;not null"`
	SubcomponentTag string  `gorm:"column:subcomponent_tag;not null;type:text"`
	PartName        string  `gorm:"column:part_name;not null;type:text"`
	SubpartName     string  `gorm:"column:subpart_name;not null;type:text"`
	LifecycleHours  float64 `gorm:"column:lifecycle_hours;not null"`
	RepairCount     int     `gorm:"column:repair_count;not null"`
	Risk            string  `gorm:"column:risk;not null;type:text"`
}

// TableName specifies the table name for the FleetPartState model
func (FleetPartState) TableName() string {
	return domain.TABLE_FLEET_PART_STATES
}

// NewFleetPartState maps a part state of a run to its row
func NewFleetPartState(runID string, p domain.FleetPartState) FleetPartState {
	return FleetPartState{
		RunID:           runID,
		PartOfInterest:  p.PartOfInterest,
		ComponentSerial: p.ComponentSerial,
		ServiceOrder:    p.ServiceOrder,
		SubcomponentTag: p.SubcomponentTag,
		PartName:        p.PartName,
		SubpartName:     p.SubpartName,
		LifecycleHours:  p.LifecycleHours,
		RepairCount:     p.RepairCount,
		Risk:            string(p.Risk),
	}
}

func (p FleetPartState) ToDomain() domain.FleetPartState {
	return domain.FleetPartState{
		PartOfInterest:  p.PartOfInterest,
		ComponentSerial: p.ComponentSerial,
		ServiceOrder:    p.ServiceOrder,
		SubcomponentTag: p.SubcomponentTag,
		PartName:        p.PartName,
		SubpartName:     p.SubpartName,
		LifecycleHours:  p.LifecycleHours,
		RepairCount:     p.RepairCount,
		Risk:            domain.RiskFlag(p.Risk),
	}
}

// FleetComponentSummary represents the fleet_component_summaries curated table
type FleetComponentSummary struct {
	ID                 int64   `gorm:"column:id;primaryKey;autoIncrement"`
	RunID              string  `gorm:"column:run_id;not null;type:text;index"`
	ComponentSerial    string  `gorm:"column:component_serial;not null;type:text"`
	SubcomponentTag    string  `gorm:"column:subcomponent_tag;not null;type:text"`
	PartName           string  `gorm:"column:part_name;not null;type:text"`
	MeanLifecycleHours float64 `gorm:"column:mean_lifecycle_hours;not null"`
	MinLifecycleHours  float64 `gorm:"column:min_lifecycle_hours;not null"`
	MaxLifecycleHours  float64 `gorm:"column:max_lifecycle_hours;not null"`
	MeanRepairCount    float64 `gorm:"column:mean_repair_count;not null"`
	SubpartCount       int     `gorm:"column:subpart_count;not null"`
}

// TableName specifies the table name for the FleetComponentSummary model
func (FleetComponentSummary) TableName() string {
	return domain.TABLE_FLEET_COMPONENT_SUMMARY
}

// NewFleetComponentSummary maps a component summary of a run to its row
func NewFleetComponentSummary(runID string, c domain.FleetComponentSummary) FleetComponentSummary {
	return FleetComponentSummary{
		RunID:              runID,
		ComponentSerial:    c.ComponentSerial,
		SubcomponentTag:    c.SubcomponentTag,
		PartName:           c.PartName,
		MeanLifecycleHours: c.MeanLifecycleHours,
		MinLifecycleHours:  c.MinLifecycleHours,
		MaxLifecycleHours:  c.MaxLifecycleHours,
		MeanRepairCount:    c.MeanRepairCount,
		SubpartCount:       c.SubpartCount,
	}
}

func (c FleetComponentSummary) ToDomain() domain.FleetComponentSummary {
	return domain.FleetComponentSummary{
		ComponentSerial:    c.ComponentSerial,
		SubcomponentTag:    c.SubcomponentTag,
		PartName:           c.PartName,
		MeanLifecycleHours: c.MeanLifecycleHours,
		MinLifecycleHours:  c.MinLifecycleHours,
		MaxLifecycleHours:  c.MaxLifecycleHours,
		MeanRepairCount:    c.MeanRepairCount,
		SubpartCount:       c.SubpartCount,
	}
}

// FleetBound represents the fleet_bounds curated table
type FleetBound struct {
	ID              int64   `gorm:"column:id;primaryKey;autoIncrement"`
	RunID           string  `gorm:"column:run_id;not null;type:text;index"`
	SubcomponentTag string  `gorm:"column:subcomponent_tag;not null;type:text"`
	PartName        string  `gorm:"column:part_name;not null;type:text"`
	Samples         int     `gorm:"column:samples;not null"`
	P25             float64 `gorm:"column:p25;not null"`
	P50             float64 `gorm:"column:p50;not null"`
	P75             float64 `gorm:"column:p75;not null"`
	Mean            float64 `gorm:"column:mean;not null"`
	Std             float64 `gorm:"column:std;not null"`
	LowerBoundHours float64 `gorm:"column:lower_bound_hours;not null"`
	UpperBoundHours float64 `gorm:"column:upper_bound_hours;not null"`
	CostAdjusted    bool    `gorm:"column:cost_adjusted;not null"`
}

// TableName specifies the table name for the FleetBound model
func (FleetBound) TableName() string {
	return domain.TABLE_FLEET_BOUNDS
}

// NewFleetBound maps a fleet bound of a run to its row
func NewFleetBound(runID string, b domain.FleetBound) FleetBound {
	return FleetBound{
		RunID:           runID,
		SubcomponentTag: b.SubcomponentTag,
		PartName:        b.PartName,
		Samples:         b.Samples,
		P25:             b.P25,
		P50:             b.P50,
		P75:             b.P75,
		Mean:            b.Mean,
		Std:             b.Std,
		LowerBoundHours: b.LowerBoundHours,
		UpperBoundHours: b.UpperBoundHours,
		CostAdjusted:    b.CostAdjusted,
	}
}

func (b FleetBound) ToDomain() domain.FleetBound {
	return domain.FleetBound{
		SubcomponentTag: b.SubcomponentTag,
		PartName:        b.PartName,
		Samples:         b.Samples,
		P25:             b.P25,
		P50:             b.P50,
		P75:             b.P75,
		Mean:            b.Mean,
		Std:             b.Std,
		LowerBoundHours: b.LowerBoundHours,
		UpperBoundHours: b.UpperBoundHours,
		CostAdjusted:    b.CostAdjusted,
	}
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
