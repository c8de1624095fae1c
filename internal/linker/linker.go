// Package linker pairs field change-outs with the workshop service orders that received the removed component.
package linker

import (
	"cmp"
	"strings"
	"time"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/table"
)

// Options tunes the linkage
type Options struct {
	// Tolerance bounds how long after removal a service order may be received to be matched by date
	Tolerance time.Duration
}

// DefaultOptions returns the linkage options used in production
func DefaultOptions() Options {
	return Options{Tolerance: domain.ASOF_TOLERANCE}
}

// Stats summarizes how the change-outs were linked
type Stats struct {
	Total     int `json:"total"`
	Direct    int `json:"direct"`
	Asof      int `json:"asof"`
	Unmatched int `json:"unmatched"`
}

// DirectRatio returns the share of change-outs matched on the work order
func (s Stats) DirectRatio() float64 { return ratio(s.Direct, s.Total) }

// AsofRatio returns the share of change-outs matched by date
func (s Stats) AsofRatio() float64 { return ratio(s.Asof, s.Total) }

// UnmatchedRatio returns the share of change-outs left without a service order
func (s Stats) UnmatchedRatio() float64 { return ratio(s.Unmatched, s.Total) }

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// Result is the component history table with its linkage stats
type Result struct {
	History []domain.ComponentHistory
	Stats   Stats
}

// CanonicalizeServiceOrders keeps the latest received row of every service order, sorted by service order
func CanonicalizeServiceOrders(sos []domain.ServiceOrder) []domain.ServiceOrder {
	sorted := table.SortStable(sos, func(a, b domain.ServiceOrder) int {
		if c := cmp.Compare(a.ServiceOrder, b.ServiceOrder); c != 0 {
			return c
		}
		return a.ReceptionDate.Compare(b.ReceptionDate)
	})
	return table.UniqueKeepLast(sorted, func(so domain.ServiceOrder) int64 { return so.ServiceOrder })
}

type directKey struct {
	customerWorkOrder int64
	sapEquipmentName  int64
	componentSerial   string
}

type claimKey struct {
	serviceOrder      int64
	customerWorkOrder int64
}

type indexedChangeout struct {
	index int
	domain.Changeout
}

// Link joins every change-out to at most one service order.
// Work-order matches win; the remaining change-outs take the first service order of the same serial
// received after the removal and within the tolerance.
func Link(changeouts []domain.Changeout, serviceOrders []domain.ServiceOrder, opts Options) Result {
	canonical := CanonicalizeServiceOrders(serviceOrders)

	rows := make([]indexedChangeout, len(changeouts))
	for i, c := range changeouts {
		rows[i] = indexedChangeout{index: i, Changeout: c}
	}
	matches := make([]*domain.ServiceOrder, len(changeouts))
	strategies := make([]domain.MergeStrategy, len(changeouts))

	// Phase A: work order match
	eligible := table.Filter(canonical, func(so domain.ServiceOrder) bool {
		return so.CustomerWorkOrder != domain.UNKNOWN_ID && so.SAPEquipmentName != domain.UNKNOWN_ID
	})
	joined := table.LeftJoin(rows, eligible,
		func(c indexedChangeout) directKey {
			return directKey{c.CustomerWorkOrder, c.SAPEquipmentName, c.ComponentSerial}
		},
		func(so domain.ServiceOrder) directKey {
			return directKey{so.CustomerWorkOrder, so.SAPEquipmentName, so.ComponentSerial}
		},
	)
	var direct []domain.ServiceOrder
	for _, j := range joined {
		if !j.Matched() || !j.Left.ChangeoutDate.Before(j.Right.ReceptionDate) {
			continue
		}
		// eligible is ordered by service order, so the last valid candidate is the largest
		matches[j.Left.index] = j.Right
		strategies[j.Left.index] = domain.MergeDirect
	}
	for _, so := range matches {
		if so != nil {
			direct = append(direct, *so)
		}
	}

	// Phase B: date match on the remaining service orders
	available := table.AntiJoin(canonical, direct,
		func(so domain.ServiceOrder) claimKey { return claimKey{so.ServiceOrder, so.CustomerWorkOrder} },
		func(so domain.ServiceOrder) claimKey { return claimKey{so.ServiceOrder, so.CustomerWorkOrder} },
	)
	pending := table.Filter(rows, func(c indexedChangeout) bool { return matches[c.index] == nil })
	pending = table.SortStable(pending, func(a, b indexedChangeout) int {
		if c := cmp.Compare(a.SAPEquipmentName, b.SAPEquipmentName); c != 0 {
			return c
		}
		return a.ChangeoutDate.Compare(b.ChangeoutDate)
	})
	asof := table.AsofForward(pending, available,
		func(c indexedChangeout) string { return c.ComponentSerial },
		func(so domain.ServiceOrder) string { return so.ComponentSerial },
		func(c indexedChangeout) time.Time { return c.ChangeoutDate },
		func(so domain.ServiceOrder) time.Time { return so.ReceptionDate },
		table.AsofOptions{Tolerance: opts.Tolerance, Strict: true},
	)

	// A service order is claimed once, by the change-out removed closest to its reception
	claims := make(map[int64]table.Joined[indexedChangeout, domain.ServiceOrder])
	for _, j := range asof {
		if !j.Matched() {
			continue
		}
		current, claimed := claims[j.Right.ServiceOrder]
		if !claimed || !j.Left.ChangeoutDate.Before(current.Left.ChangeoutDate) {
			claims[j.Right.ServiceOrder] = j
		}
	}
	for _, j := range claims {
		matches[j.Left.index] = j.Right
		strategies[j.Left.index] = domain.MergeAsof
	}

	history := make([]domain.ComponentHistory, len(changeouts))
	for i, c := range changeouts {
		history[i] = domain.ComponentHistory{Changeout: c, ServiceOrder: matches[i], ResoMerge: strategies[i]}
	}
	history = table.SortStable(history, compareHistory)
	history = table.UniqueKeepLast(history, func(h domain.ComponentHistory) domain.ChangeoutKey { return h.Key() })

	return Result{History: history, Stats: summarize(history)}
}

func compareHistory(a, b domain.ComponentHistory) int {
	if c := a.ChangeoutDate.Compare(b.ChangeoutDate); c != 0 {
		return c
	}
	if c := strings.Compare(a.EquipmentName, b.EquipmentName); c != 0 {
		return c
	}
	if c := strings.Compare(a.ComponentName, b.ComponentName); c != 0 {
		return c
	}
	if c := strings.Compare(a.SubcomponentName, b.SubcomponentName); c != 0 {
		return c
	}
	return strings.Compare(a.Position(), b.Position())
}

func summarize(history []domain.ComponentHistory) Stats {
	stats := Stats{Total: len(history)}
	for _, h := range history {
		switch h.ResoMerge {
		case domain.MergeDirect:
			stats.Direct++
		case domain.MergeAsof:
			stats.Asof++
		default:
			stats.Unmatched++
		}
	}
	return stats
}
