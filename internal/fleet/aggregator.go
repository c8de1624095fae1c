// Package fleet turns traced part lifecycles into fleet-wide control bounds.
package fleet

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/table"
)

// Config holds the bound constants
type Config struct {
	LowerBoundFloorHours float64
	BoundStdFactor       float64
	UpperBoundP75Factor  float64
	UpperBoundMeanFactor float64
	// CostThresholds maps a subcomponent tag to the mean repair cost above which its lower bound is raised
	CostThresholds map[string]float64
	CostMultiplier float64
}

// DefaultConfig returns the bound constants used in production
func DefaultConfig() Config {
	return Config{
		LowerBoundFloorHours: domain.LOWER_BOUND_FLOOR_HOURS,
		BoundStdFactor:       domain.BOUND_STD_FACTOR,
		UpperBoundP75Factor:  domain.UPPER_BOUND_P75_FACTOR,
		UpperBoundMeanFactor: domain.UPPER_BOUND_MEAN_FACTOR,
		CostThresholds:       domain.DefaultCostThresholds,
		CostMultiplier:       domain.COST_BOUND_MULTIPLIER,
	}
}

// Result holds the three fleet tables
type Result struct {
	Parts      []domain.FleetPartState
	Components []domain.FleetComponentSummary
	Bounds     []domain.FleetBound
}

type componentKey struct {
	componentSerial string
	subcomponentTag string
	partName        string
}

type boundKey struct {
	subcomponentTag string
	partName        string
}

// Aggregate computes current part states, per-component summaries and fleet bounds, and flags every part
func Aggregate(events []domain.PartLifecycleEvent, costs []domain.RepairCost, cfg Config) Result {
	parts := currentParts(events)

	componentKeys, byComponent := table.GroupBy(parts, func(p domain.FleetPartState) componentKey {
		return componentKey{p.ComponentSerial, p.SubcomponentTag, p.PartName}
	})
	components := make([]domain.FleetComponentSummary, 0, len(componentKeys))
	for _, k := range componentKeys {
		group := byComponent[k]
		hours := make([]float64, 0, len(group))
		repairs := make([]float64, 0, len(group))
		for _, p := range group {
			hours = append(hours, p.LifecycleHours)
			repairs = append(repairs, float64(p.RepairCount))
		}
		components = append(components, domain.FleetComponentSummary{
			ComponentSerial:    k.componentSerial,
			SubcomponentTag:    k.subcomponentTag,
			PartName:           k.partName,
			MeanLifecycleHours: mean(hours),
			MinLifecycleHours:  slices.Min(hours),
			MaxLifecycleHours:  slices.Max(hours),
			MeanRepairCount:    mean(repairs),
			SubpartCount:       len(group),
		})
	}

	meanCosts := make(map[string]float64, len(costs))
	for _, c := range costs {
		meanCosts[c.SubcomponentTag] = c.MeanRepairCost
	}

	boundKeys, byBound := table.GroupBy(components, func(c domain.FleetComponentSummary) boundKey {
		return boundKey{c.SubcomponentTag, c.PartName}
	})
	bounds := make([]domain.FleetBound, 0, len(boundKeys))
	index := make(map[boundKey]domain.FleetBound, len(boundKeys))
	for _, k := range boundKeys {
		samples := make([]float64, 0, len(byBound[k]))
		for _, c := range byBound[k] {
			samples = append(samples, c.MeanLifecycleHours)
		}
		b := computeBound(k, samples, meanCosts, cfg)
		bounds = append(bounds, b)
		index[k] = b
	}

	for i, p := range parts {
		b := index[boundKey{p.SubcomponentTag, p.PartName}]
		switch {
		case p.LifecycleHours < b.LowerBoundHours:
			parts[i].Risk = domain.RiskLowHours
		case p.LifecycleHours > b.UpperBoundHours:
			parts[i].Risk = domain.RiskHighHours
		default:
			parts[i].Risk = domain.RiskNormal
		}
	}

	return Result{
		Parts:      parts,
		Components: table.SortStable(components, compareComponents),
		Bounds: table.SortStable(bounds, func(a, b domain.FleetBound) int {
			if c := strings.Compare(a.SubcomponentTag, b.SubcomponentTag); c != 0 {
				return c
			}
			return strings.Compare(a.PartName, b.PartName)
		}),
	}
}

func computeBound(k boundKey, samples []float64, meanCosts map[string]float64, cfg Config) domain.FleetBound {
	b := domain.FleetBound{
		SubcomponentTag: k.subcomponentTag,
		PartName:        k.partName,
		Samples:         len(samples),
		P25:             quantile(samples, 0.25),
		P50:             quantile(samples, 0.50),
		P75:             quantile(samples, 0.75),
		Mean:            mean(samples),
		Std:             stddev(samples),
	}

	b.LowerBoundHours = math.Max(b.P25, math.Max(b.Mean-cfg.BoundStdFactor*b.Std, cfg.LowerBoundFloorHours))
	b.UpperBoundHours = math.Min(cfg.UpperBoundP75Factor*b.P75, math.Min(b.Mean+cfg.BoundStdFactor*b.Std, cfg.UpperBoundMeanFactor*b.Mean))

	if threshold, ok := cfg.CostThresholds[k.subcomponentTag]; ok && cfg.CostMultiplier > 0 {
		if cost, ok := meanCosts[k.subcomponentTag]; ok && cost > threshold {
			b.LowerBoundHours *= cfg.CostMultiplier
			b.CostAdjusted = true
		}
	}

	if b.LowerBoundHours > b.UpperBoundHours {
		b.UpperBoundHours = b.LowerBoundHours
	}
	return b
}

// currentParts keeps, for every part of interest, the trace whose current visit is the most recent
func currentParts(events []domain.PartLifecycleEvent) []domain.FleetPartState {
	type trace struct {
		head   domain.PartLifecycleEvent
		hours  float64
		cycles int
	}

	var traces []trace
	for _, e := range events {
		if e.CycleEvent == domain.CycleEventDeparture && e.RecencyRepairRank == 0 {
			traces = append(traces, trace{head: e})
		}
		if len(traces) == 0 {
			continue
		}
		t := &traces[len(traces)-1]
		if e.CycleEvent == domain.CycleEventDeparture {
			t.cycles++
		}
		if e.CycleEvent == domain.CycleEventArrival && e.InitialPartSerial != nil && *e.InitialPartSerial == e.PartOfInterest && e.ComponentHours != nil {
			t.hours += *e.ComponentHours
		}
	}

	traces = table.SortStable(traces, func(a, b trace) int {
		return a.head.ReceptionDate.Compare(b.head.ReceptionDate)
	})
	traces = table.UniqueKeepLast(traces, func(t trace) string { return t.head.PartOfInterest })

	parts := make([]domain.FleetPartState, 0, len(traces))
	for _, t := range traces {
		parts = append(parts, domain.FleetPartState{
			PartOfInterest:  t.head.PartOfInterest,
			ComponentSerial: t.head.ComponentSerial,
			ServiceOrder:    t.head.ServiceOrder,
			SubcomponentTag: t.head.SubcomponentTag,
			PartName:        t.head.PartName,
			SubpartName:     t.head.SubpartName,
			LifecycleHours:  t.hours,
			RepairCount:     t.cycles,
		})
	}

	return table.SortStable(parts, func(a, b domain.FleetPartState) int {
		if c := strings.Compare(a.ComponentSerial, b.ComponentSerial); c != 0 {
			return c
		}
		if c := strings.Compare(a.PartName, b.PartName); c != 0 {
			return c
		}
		if c := strings.Compare(a.SubpartName, b.SubpartName); c != 0 {
			return c
		}
		return strings.Compare(a.PartOfInterest, b.PartOfInterest)
	})
}

func compareComponents(a, b domain.FleetComponentSummary) int {
	if c := strings.Compare(a.SubcomponentTag, b.SubcomponentTag); c != 0 {
		return c
	}
	if c := strings.Compare(a.PartName, b.PartName); c != 0 {
		return c
	}
	return cmp.Compare(a.ComponentSerial, b.ComponentSerial)
}
