package domain

import "time"

const (
	// Linkage constants
	UNKNOWN_ID          int64         = -1
	ASOF_TOLERANCE      time.Duration = 70 * 24 * time.Hour
	FACTORY_WARRANTY    string        = "Factory Warranty"
	LOW_SPEED_GEAR_PART string        = "low_speed_gear"

	// Fleet bound constants
	LOWER_BOUND_FLOOR_HOURS = 10_000.0
	BOUND_STD_FACTOR        = 1.5
	UPPER_BOUND_P75_FACTOR  = 1.2
	UPPER_BOUND_MEAN_FACTOR = 1.8
	COST_BOUND_MULTIPLIER   = 1.1

	// Lifecycle comments
	COMMENT_RETROFIT_STOP = "history trace ends here"
	COMMENT_BIRTH         = "first known cycle (birth)"
)

// DefaultExcludedSubcomponents are subcomponents whose change-outs are never tracked
var DefaultExcludedSubcomponents = []string{"motor", "radiador", "subframe"}

// DefaultCostThresholds are the mean repair cost thresholds per subcomponent tag
// above which the lower fleet bound is adjusted
var DefaultCostThresholds = map[string]float64{
	"0980": 180_000,
	"5A30": 60_000,
}

// Curated table names
const (
	TABLE_COMPONENT_HISTORY       = "component_history"
	TABLE_COMPONENT_REPARATIONS   = "component_reparations"
	TABLE_PART_LIFECYCLE_EVENTS   = "part_lifecycle_events"
	TABLE_FLEET_PART_STATES       = "fleet_part_states"
	TABLE_FLEET_COMPONENT_SUMMARY = "fleet_component_summaries"
	TABLE_FLEET_BOUNDS            = "fleet_bounds"
)

// CuratedTables lists the curated tables in publication order
var CuratedTables = []string{
	TABLE_COMPONENT_HISTORY,
	TABLE_COMPONENT_REPARATIONS,
	TABLE_PART_LIFECYCLE_EVENTS,
	TABLE_FLEET_PART_STATES,
	TABLE_FLEET_COMPONENT_SUMMARY,
	TABLE_FLEET_BOUNDS,
}
