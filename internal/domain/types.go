package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// MergeStrategy names the linkage strategy that matched a change-out to a service order
type MergeStrategy string

const (
	MergeDirect MergeStrategy = "direct"
	MergeAsof   MergeStrategy = "asof"
	MergeNone   MergeStrategy = ""
)

// Nullable returns nil for an unmatched change-out
func (m MergeStrategy) Nullable() *string {
	if m == MergeNone {
		return nil
	}
	s := string(m)
	return &s
}

// MarshalJSON encodes an unmatched change-out as null
func (m MergeStrategy) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Nullable())
}

// CycleEvent is the face of a workshop visit seen from a traced part
type CycleEvent string

const (
	CycleEventArrival   CycleEvent = "ARRIVAL"
	CycleEventDeparture CycleEvent = "DEPARTURE"
)

// LifecycleStatus is the published status of a lifecycle cycle
type LifecycleStatus string

const (
	StatusRepairedInPlace LifecycleStatus = "REPAIRED_IN_PLACE"
	StatusPartSwap        LifecycleStatus = "PART_SWAP"
	StatusRetrofit        LifecycleStatus = "RETROFIT"
)

// CycleKind classifies one workshop visit of a traced part
type CycleKind int

const (
	// CycleInPlace means the part arrived and departed inside the same body
	CycleInPlace CycleKind = iota
	// CycleSwapIn means the part was installed during the visit
	CycleSwapIn
	// CycleSwapOut means the part arrived with the body and was removed during the visit
	CycleSwapOut
	// CycleRetrofit means the visit replaced the part by a factory retrofit
	CycleRetrofit
)

// Status maps a cycle kind to its published status
func (k CycleKind) Status() LifecycleStatus {
	switch k {
	case CycleInPlace:
		return StatusRepairedInPlace
	case CycleRetrofit:
		return StatusRetrofit
	default:
		return StatusPartSwap
	}
}

// ArrivedWithBody reports whether the part was already mounted in the body when it reached the workshop
func (k CycleKind) ArrivedWithBody() bool {
	return k == CycleInPlace || k == CycleSwapOut
}

func (k CycleKind) String() string {
	switch k {
	case CycleInPlace:
		return "in_place"
	case CycleSwapIn:
		return "swap_in"
	case CycleSwapOut:
		return "swap_out"
	case CycleRetrofit:
		return "retrofit"
	default:
		return fmt.Sprintf("cycle_kind(%d)", int(k))
	}
}

// RiskFlag is the fleet risk classification of a part installation
type RiskFlag string

const (
	RiskNormal    RiskFlag = "NORMAL"
	RiskLowHours  RiskFlag = "HIGH_RISK_LOW_HOURS"
	RiskHighHours RiskFlag = "HIGH_RISK_HIGH_HOURS"
)

// Equipment is a row of the equipments master table
type Equipment struct {
	SiteName       string `json:"site_name"`
	EquipmentName  string `json:"equipment_name"`
	EquipmentModel string `json:"equipment_model"`
}

// Component is a row of the components master table
type Component struct {
	ComponentName    string   `json:"component_name"`
	SubcomponentName string   `json:"subcomponent_name"`
	SubcomponentTag  string   `json:"subcomponent_tag"`
	TBOHours         *float64 `json:"tbo_hours"`
}

// Changeout is a field change-out event. PositionName is nil only in raw rows.
type Changeout struct {
	CCIndex                  int64     `json:"cc_index"`
	EquipmentName            string    `json:"equipment_name"`
	ComponentName            string    `json:"component_name"`
	SubcomponentName         string    `json:"subcomponent_name"`
	PositionName             *string   `json:"position_name"`
	ChangeoutDate            time.Time `json:"changeout_date"`
	CustomerWorkOrder        int64     `json:"customer_work_order"`
	SAPEquipmentName         int64     `json:"sap_equipment_name"`
	ComponentSerial          string    `json:"component_serial"`
	InstalledComponentSerial string    `json:"installed_component_serial"`
	ComponentHours           *float64  `json:"component_hours"`
	ComponentUsage           *float64  `json:"component_usage"`
	EquipmentModel           string    `json:"equipment_model"`
}

// ChangeoutKey identifies a change-out uniquely
type ChangeoutKey struct {
	EquipmentName    string
	ComponentName    string
	SubcomponentName string
	PositionName     string
	PositionIsNull   bool
	ChangeoutDate    time.Time
}

// Key returns the natural key of the change-out. A nil position compares equal to another nil position.
func (c Changeout) Key() ChangeoutKey {
	key := ChangeoutKey{
		EquipmentName:    c.EquipmentName,
		ComponentName:    c.ComponentName,
		SubcomponentName: c.SubcomponentName,
		ChangeoutDate:    c.ChangeoutDate.UTC(),
	}
	if c.PositionName == nil {
		key.PositionIsNull = true
	} else {
		key.PositionName = *c.PositionName
	}
	return key
}

// Position returns the position name or an empty string
func (c Changeout) Position() string {
	if c.PositionName == nil {
		return ""
	}
	return *c.PositionName
}

// ServiceOrder is a workshop record for a received component
type ServiceOrder struct {
	ServiceOrder               int64      `json:"service_order"`
	ReceptionDate              time.Time  `json:"reception_date"`
	CustomerWorkOrder          int64      `json:"customer_work_order"`
	SAPEquipmentName           int64      `json:"sap_equipment_name"`
	ComponentSerial            string     `json:"component_serial"`
	MainComponent              string     `json:"main_component"`
	WarrantyType               string     `json:"warranty_type"`
	SiteName                   string     `json:"site_name"`
	EquipmentModel             string     `json:"equipment_model"`
	OpeningDate                *time.Time `json:"opening_date"`
	LoadPreliminaryReportDate  *time.Time `json:"load_preliminary_report_date"`
	LatestQuotationPublication *time.Time `json:"latest_quotation_publication"`
	ApprovalDate               *time.Time `json:"approval_date"`
	LoadFinalReportDate        *time.Time `json:"load_final_report_date"`
	ResoClosingDate            *time.Time `json:"reso_closing_date"`
	ComponentStatus            string     `json:"component_status"`
	ComponentHours             *string    `json:"component_hours"`
}

// ComponentHistory links one change-out to at most one service order
type ComponentHistory struct {
	Changeout
	ServiceOrder *ServiceOrder `json:"service_order"`
	ResoMerge    MergeStrategy `json:"reso_merge"`
}

// ComponentReparation is one repair of a component serial
type ComponentReparation struct {
	ComponentSerial          string    `json:"component_serial"`
	ServiceOrder             int64     `json:"service_order"`
	SubcomponentTag          string    `json:"subcomponent_tag"`
	ComponentName            string    `json:"component_name"`
	SubcomponentName         string    `json:"subcomponent_name"`
	MainComponent            string    `json:"main_component"`
	ReceptionDate            time.Time `json:"reception_date"`
	SAPEquipmentName         int64     `json:"sap_equipment_name"`
	EquipmentModel           string    `json:"equipment_model"`
	SiteName                 string    `json:"site_name"`
	ComponentHours           *float64  `json:"component_hours"`
	RepairCount              int       `json:"repair_count"`
	RepairRecencyRank        int       `json:"repair_recency_rank"`
	CumulativeComponentHours float64   `json:"cumulative_component_hours"`
}

// PartPivotRow is one workshop visit for one subpart slot
type PartPivotRow struct {
	ComponentSerial   string    `json:"component_serial"`
	ServiceOrder      int64     `json:"service_order"`
	ReceptionDate     time.Time `json:"reception_date"`
	SubcomponentTag   string    `json:"subcomponent_tag"`
	PartName          string    `json:"part_name"`
	SubpartName       string    `json:"subpart_name"`
	InitialPartSerial *string   `json:"initial_part_serial"`
	FinalPartSerial   *string   `json:"final_part_serial"`
	ComponentHours    *float64  `json:"component_hours"`
	Retrofit          bool      `json:"retrofit"`
}

// Initial returns the arriving part serial or an empty string
func (r PartPivotRow) Initial() string {
	if r.InitialPartSerial == nil {
		return ""
	}
	return *r.InitialPartSerial
}

// Final returns the departing part serial or an empty string
func (r PartPivotRow) Final() string {
	if r.FinalPartSerial == nil {
		return ""
	}
	return *r.FinalPartSerial
}

// PartOverride is a manual correction of the part pivot. Nil fields are left untouched.
type PartOverride struct {
	ComponentSerial   *string    `json:"component_serial"`
	ServiceOrder      *int64     `json:"service_order"`
	SubpartName       *string    `json:"subpart_name"`
	PartName          *string    `json:"part_name"`
	ReceptionDate     *time.Time `json:"reception_date"`
	SubcomponentTag   *string    `json:"subcomponent_tag"`
	InitialPartSerial *string    `json:"initial_part_serial"`
	FinalPartSerial   *string    `json:"final_part_serial"`
	ComponentHours    *float64   `json:"component_hours"`
	Retrofit          *bool      `json:"retrofit"`
}

// PartLifecycleEvent is one arrival or departure of a traced part
type PartLifecycleEvent struct {
	PartOfInterest    string          `json:"part_of_interest"`
	ComponentSerial   string          `json:"component_serial"`
	ServiceOrder      int64           `json:"service_order"`
	ReceptionDate     time.Time       `json:"reception_date"`
	SubcomponentTag   string          `json:"subcomponent_tag"`
	PartName          string          `json:"part_name"`
	SubpartName       string          `json:"subpart_name"`
	InitialPartSerial *string         `json:"initial_part_serial"`
	FinalPartSerial   *string         `json:"final_part_serial"`
	ComponentHours    *float64        `json:"component_hours"`
	RecencyRepairRank int             `json:"recency_repair_rank"`
	CycleEvent        CycleEvent      `json:"cycle_event"`
	Status            LifecycleStatus `json:"status"`
	Comment           string          `json:"comment"`
}

// StartingReport selects the rows of the pivot a trace starts from
type StartingReport struct {
	ComponentSerial string `json:"component_serial" binding:"required"`
	ServiceOrder    int64  `json:"service_order" binding:"required"`
	PartName        string `json:"part_name" binding:"required"`
}

// RepairCost is a row of the companion cost table
type RepairCost struct {
	SubcomponentTag string  `json:"subcomponent_tag"`
	MeanRepairCost  float64 `json:"mean_repair_cost"`
}

// FleetPartState is the current state of one traced part installation
type FleetPartState struct {
	PartOfInterest  string   `json:"part_of_interest"`
	ComponentSerial string   `json:"component_serial"`
	ServiceOrder    int64    `json:"service_order"`
	SubcomponentTag string   `json:"subcomponent_tag"`
	PartName        string   `json:"part_name"`
	SubpartName     string   `json:"subpart_name"`
	LifecycleHours  float64  `json:"lifecycle_hours"`
	RepairCount     int      `json:"repair_count"`
	Risk            RiskFlag `json:"risk"`
}

// FleetComponentSummary aggregates the parts currently mounted in one component body
type FleetComponentSummary struct {
	ComponentSerial    string  `json:"component_serial"`
	SubcomponentTag    string  `json:"subcomponent_tag"`
	PartName           string  `json:"part_name"`
	MeanLifecycleHours float64 `json:"mean_lifecycle_hours"`
	MinLifecycleHours  float64 `json:"min_lifecycle_hours"`
	MaxLifecycleHours  float64 `json:"max_lifecycle_hours"`
	MeanRepairCount    float64 `json:"mean_repair_count"`
	SubpartCount       int     `json:"subpart_count"`
}

// FleetBound is the fleet-wide lifecycle distribution and control bounds of one part type
type FleetBound struct {
	SubcomponentTag string  `json:"subcomponent_tag"`
	PartName        string  `json:"part_name"`
	Samples         int     `json:"samples"`
	P25             float64 `json:"p25"`
	P50             float64 `json:"p50"`
	P75             float64 `json:"p75"`
	Mean            float64 `json:"mean"`
	Std             float64 `json:"std"`
	LowerBoundHours float64 `json:"lower_bound_hours"`
	UpperBoundHours float64 `json:"upper_bound_hours"`
	CostAdjusted    bool    `json:"cost_adjusted"`
}
