package schema

import (
	"time"

	"github.com/cecilvega/kverse-sub000/internal/domain"
)

// Changeout represents the raw_changeouts table - field change-out events as exported by the mine site
type Changeout struct {
	// ID is the internal database primary key
	ID                       int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CCIndex                  int64     `gorm:"column:cc_index;not null"`
	EquipmentName            string    `gorm:"column:equipment_name;not null;type:text"`
	ComponentName            string    `gorm:"column:component_name;not null;type:text"`
	SubcomponentName         string    `gorm:"column:subcomponent_name;not null;type:text"`
	PositionName             *string   `gorm:"column:position_name;type:text"`
	ChangeoutDate            time.Time `gorm:"column:changeout_date;not null"`
	CustomerWorkOrder        int64     `gorm:"column:customer_work_order;not null"`
	SAPEquipmentName         int64     `gorm:"column:sap_equipment_name;not null"`
	ComponentSerial          string    `gorm:"column:component_serial;type:text"`
	InstalledComponentSerial string    `gorm:"column:installed_component_serial;type:text"`
	ComponentHours           *float64  `gorm:"column:component_hours"`
	ComponentUsage           *float64  `gorm:"column:component_usage"`
	EquipmentModel           string    `gorm:"column:equipment_model;type:text"`
}

// TableName specifies the table name for the Changeout model
func (Changeout) TableName() string {
	return "raw_changeouts"
}

// NewChangeout maps a domain change-out to its row
func NewChangeout(c domain.Changeout) Changeout {
	return Changeout{
		CCIndex:                  c.CCIndex,
		EquipmentName:            c.EquipmentName,
		ComponentName:            c.ComponentName,
		SubcomponentName:         c.SubcomponentName,
		PositionName:             c.PositionName,
		ChangeoutDate:            c.ChangeoutDate,
		CustomerWorkOrder:        c.CustomerWorkOrder,
		SAPEquipmentName:         c.SAPEquipmentName,
		ComponentSerial:          c.ComponentSerial,
		InstalledComponentSerial: c.InstalledComponentSerial,
		ComponentHours:           c.ComponentHours,
		ComponentUsage:           c.ComponentUsage,
		EquipmentModel:           c.EquipmentModel,
	}
}

func (c Changeout) ToDomain() domain.Changeout {
	return domain.Changeout{
		CCIndex:                  c.CCIndex,
		EquipmentName:            c.EquipmentName,
		ComponentName:            c.ComponentName,
		SubcomponentName:         c.SubcomponentName,
		PositionName:             c.PositionName,
		ChangeoutDate:            c.ChangeoutDate.UTC(),
		CustomerWorkOrder:        c.CustomerWorkOrder,
		SAPEquipmentName:         c.SAPEquipmentName,
		ComponentSerial:          c.ComponentSerial,
		InstalledComponentSerial: c.InstalledComponentSerial,
		ComponentHours:           c.ComponentHours,
		ComponentUsage:           c.ComponentUsage,
		EquipmentModel:           c.EquipmentModel,
	}
}

// ServiceOrder represents the raw_service_orders table - workshop records, possibly with several rows per order
type ServiceOrder struct {
	ID                         int64      `gorm:"column:id;primaryKey;autoIncrement"`
	ServiceOrder               int64      `gorm:"column:service_order;not null;index"`
	ReceptionDate              time.Time  `gorm:"column:reception_date;not null"`
	CustomerWorkOrder          int64      `gorm:"column:customer_work_order;not null"`
	SAPEquipmentName           int64      `gorm:"column:sap_equipment_name;not null"`
	ComponentSerial            string     `gorm:"column:component_serial;type:text;index"`
	MainComponent              string     `gorm:"column:main_component;type:text"`
	WarrantyType               string     `gorm:"column:warranty_type;type:text"`
	SiteName                   string     `gorm:"column:site_name;type:text"`
	EquipmentModel             string     `gorm:"column:equipment_model;type:text"`
	OpeningDate                *time.Time `gorm:"column:opening_date"`
	LoadPreliminaryReportDate  *time.Time `gorm:"column:load_preliminary_report_date"`
	LatestQuotationPublication *time.Time `gorm:"column:latest_quotation_publication"`
	ApprovalDate               *time.Time `gorm:"column:approval_date"`
	LoadFinalReportDate        *time.Time `gorm:"column:load_final_report_date"`
	ResoClosingDate            *time.Time `gorm:"column:reso_closing_date"`
	ComponentStatus            string     `gorm:"column:component_status;type:text"`
	// ComponentHours is kept as typed by the workshop
	ComponentHours *string `gorm:"column:component_hours;type:text"`
}

// TableName specifies the table name for the ServiceOrder model
func (ServiceOrder) TableName() string {
	return "raw_service_orders"
}

// NewServiceOrder maps a domain service order to its row
func NewServiceOrder(so domain.ServiceOrder) ServiceOrder {
	return ServiceOrder{
		ServiceOrder:               so.ServiceOrder,
		ReceptionDate:              so.ReceptionDate,
		CustomerWorkOrder:          so.CustomerWorkOrder,
		SAPEquipmentName:           so.SAPEquipmentName,
		ComponentSerial:            so.ComponentSerial,
		MainComponent:              so.MainComponent,
		WarrantyType:               so.WarrantyType,
		SiteName:                   so.SiteName,
		EquipmentModel:             so.EquipmentModel,
		OpeningDate:                so.OpeningDate,
		LoadPreliminaryReportDate:  so.LoadPreliminaryReportDate,
		LatestQuotationPublication: so.LatestQuotationPublication,
		ApprovalDate:               so.ApprovalDate,
		LoadFinalReportDate:        so.LoadFinalReportDate,
		ResoClosingDate:            so.ResoClosingDate,
		ComponentStatus:            so.ComponentStatus,
		ComponentHours:             so.ComponentHours,
	}
}

func (so ServiceOrder) ToDomain() domain.ServiceOrder {
	return domain.ServiceOrder{
		ServiceOrder:               so.ServiceOrder,
		ReceptionDate:              so.ReceptionDate.UTC(),
		CustomerWorkOrder:          so.CustomerWorkOrder,
		SAPEquipmentName:           so.SAPEquipmentName,
		ComponentSerial:            so.ComponentSerial,
		MainComponent:              so.MainComponent,
		WarrantyType:               so.WarrantyType,
		SiteName:                   so.SiteName,
		EquipmentModel:             so.EquipmentModel,
		OpeningDate:                utcPtr(so.OpeningDate),
		LoadPreliminaryReportDate:  utcPtr(so.LoadPreliminaryReportDate),
		LatestQuotationPublication: utcPtr(so.LatestQuotationPublication),
		ApprovalDate:               utcPtr(so.ApprovalDate),
		LoadFinalReportDate:        utcPtr(so.LoadFinalReportDate),
		ResoClosingDate:            utcPtr(so.ResoClosingDate),
		ComponentStatus:            so.ComponentStatus,
		ComponentHours:             so.ComponentHours,
	}
}

// Component represents the components master table
type Component struct {
	ComponentName    string   `gorm:"column:component_name;primaryKey;type:text"`
	SubcomponentName string   `gorm:"column:subcomponent_name;primaryKey;type:text"`
	SubcomponentTag  string   `gorm:"column:subcomponent_tag;not null;type:text"`
	TBOHours         *float64 `gorm:"column:tbo_hours"`
}

// TableName specifies the table name for the Component model
func (Component) TableName() string {
	return "components"
}

// Equipment represents the equipments master table
type Equipment struct {
	EquipmentName  string `gorm:"column:equipment_name;primaryKey;type:text"`
	SiteName       string `gorm:"column:site_name;not null;type:text"`
	EquipmentModel string `gorm:"column:equipment_model;type:text"`
}

// TableName specifies the table name for the Equipment model
func (Equipment) TableName() string {
	return "equipments"
}

// PartPivot represents the part_pivot table - one workshop visit per subpart slot
type PartPivot struct {
	ID                int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ComponentSerial   string    `gorm:"column:component_serial;not null;type:text;index:idx_part_pivot_visit,priority:1"`
	ServiceOrder      int64     `gorm:"column:service_order;not null;index:idx_part_pivot_visit,priority:2"`
	ReceptionDate     time.Time `gorm:"column:reception_date;not null"`
	SubcomponentTag   string    `gorm:"column:subcomponent_tag;not null;type:text"`
	PartName          string    `gorm:"column:part_name;not null;type:text"`
	SubpartName       string    `gorm:"column:subpart_name;not null;type:text"`
	InitialPartSerial *string   `gorm:"column:initial_part_serial;type:text"`
	FinalPartSerial   *string   `gorm:"column:final_part_serial;type:text"`
	ComponentHours    *float64  `gorm:"column:component_hours"`
	Retrofit          bool      `gorm:"column:retrofit;not null;default:false"`
}

// TableName specifies the table name for the PartPivot model
func (PartPivot) TableName() string {
	return "part_pivot"
}

// NewPartPivot maps a domain pivot row to its row
func NewPartPivot(r domain.PartPivotRow) PartPivot {
	return PartPivot{
		ComponentSerial:   r.ComponentSerial,
		ServiceOrder:      r.ServiceOrder,
		ReceptionDate:     r.ReceptionDate,
		SubcomponentTag:   r.SubcomponentTag,
		PartName:          r.PartName,
		SubpartName:       r.SubpartName,
		InitialPartSerial: r.InitialPartSerial,
		FinalPartSerial:   r.FinalPartSerial,
		ComponentHours:    r.ComponentHours,
		Retrofit:          r.Retrofit,
	}
}

func (r PartPivot) ToDomain() domain.PartPivotRow {
	return domain.PartPivotRow{
		ComponentSerial:   r.ComponentSerial,
		ServiceOrder:      r.ServiceOrder,
		ReceptionDate:     r.ReceptionDate.UTC(),
		SubcomponentTag:   r.SubcomponentTag,
		PartName:          r.PartName,
		SubpartName:       r.SubpartName,
		InitialPartSerial: r.InitialPartSerial,
		FinalPartSerial:   r.FinalPartSerial,
		ComponentHours:    r.ComponentHours,
		Retrofit:          r.Retrofit,
	}
}

// PartOverride represents the part_overrides table - manual corrections of the part pivot
type PartOverride struct {
	ID                int64      `gorm:"column:id;primaryKey;autoIncrement"`
	ComponentSerial   *string    `gorm:"column:component_serial;type:text"`
	ServiceOrder      *int64     `gorm:"column:service_order"`
	SubpartName       *string    `gorm:"column:subpart_name;type:text"`
	PartName          *string    `gorm:"column:part_name;type:text"`
	ReceptionDate     *time.Time `gorm:"column:reception_date"`
	SubcomponentTag   *string    `gorm:"column:subcomponent_tag;type:text"`
	InitialPartSerial *string    `gorm:"column:initial_part_serial;type:text"`
	FinalPartSerial   *string    `gorm:"column:final_part_serial;type:text"`
	ComponentHours    *float64   `gorm:"column:component_hours"`
	Retrofit          *bool      `gorm:"column:retrofit"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for the PartOverride model
func (PartOverride) TableName() string {
	return "part_overrides"
}

// NewPartOverride maps a domain override to its row
func NewPartOverride(o domain.PartOverride) PartOverride {
	return PartOverride{
		ComponentSerial:   o.ComponentSerial,
		ServiceOrder:      o.ServiceOrder,
		SubpartName:       o.SubpartName,
		PartName:          o.PartName,
		ReceptionDate:     o.ReceptionDate,
		SubcomponentTag:   o.SubcomponentTag,
		InitialPartSerial: o.InitialPartSerial,
		FinalPartSerial:   o.FinalPartSerial,
		ComponentHours:    o.ComponentHours,
		Retrofit:          o.Retrofit,
	}
}

func (o PartOverride) ToDomain() domain.PartOverride {
	return domain.PartOverride{
		ComponentSerial:   o.ComponentSerial,
		ServiceOrder:      o.ServiceOrder,
		SubpartName:       o.SubpartName,
		PartName:          o.PartName,
		ReceptionDate:     utcPtr(o.ReceptionDate),
		SubcomponentTag:   o.SubcomponentTag,
		InitialPartSerial: o.InitialPartSerial,
		FinalPartSerial:   o.FinalPartSerial,
		ComponentHours:    o.ComponentHours,
		Retrofit:          o.Retrofit,
	}
}

// RepairCost represents the repair_costs companion table
type RepairCost struct {
	SubcomponentTag string  `gorm:"column:subcomponent_tag;primaryKey;type:text"`
	MeanRepairCost  float64 `gorm:"column:mean_repair_cost;not null"`
}

// TableName specifies the table name for the RepairCost model
func (RepairCost) TableName() string {
	return "repair_costs"
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
