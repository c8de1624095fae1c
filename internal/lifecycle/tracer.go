// Package lifecycle reconstructs the history of internal parts as they move between component bodies.
package lifecycle

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/cecilvega/kverse-sub000/internal/domain"
)

type visitKey struct {
	componentSerial string
	serviceOrder    int64
	partName        string
	subpartName     string
}

func visitOf(r domain.PartPivotRow) visitKey {
	return visitKey{r.ComponentSerial, r.ServiceOrder, r.PartName, r.SubpartName}
}

// Tracer walks part histories backwards over an immutable pivot snapshot.
// A Tracer is safe for concurrent use.
type Tracer struct {
	rows []domain.PartPivotRow
	// visit -> rows recorded for that workshop visit and subpart slot
	byVisit map[visitKey][]int
	// part serial -> rows where the part arrived or departed
	bySerial map[string][]int
}

// NewTracer indexes a copy of the pivot
func NewTracer(pivot []domain.PartPivotRow) *Tracer {
	t := &Tracer{
		rows:     slices.Clone(pivot),
		byVisit:  make(map[visitKey][]int, len(pivot)),
		bySerial: make(map[string][]int),
	}

	for i, r := range t.rows {
		k := visitOf(r)
		t.byVisit[k] = append(t.byVisit[k], i)

		if initial := r.Initial(); initial != "" {
			t.bySerial[initial] = append(t.bySerial[initial], i)
		}
		if final := r.Final(); final != "" && final != r.Initial() {
			t.bySerial[final] = append(t.bySerial[final], i)
		}
	}

	return t
}

// Rows returns the number of pivot rows in the snapshot
func (t *Tracer) Rows() int {
	return len(t.rows)
}

// Trace returns the lifecycle events of every part that departed in the starting report
func (t *Tracer) Trace(report domain.StartingReport) ([]domain.PartLifecycleEvent, error) {
	var starts []int
	for i, r := range t.rows {
		if r.ComponentSerial == report.ComponentSerial && r.ServiceOrder == report.ServiceOrder && r.PartName == report.PartName {
			starts = append(starts, i)
		}
	}
	if len(starts) == 0 {
		return nil, fmt.Errorf("%s/%d/%s: %w", report.ComponentSerial, report.ServiceOrder, report.PartName, domain.ErrStartingReportEmpty)
	}
	slices.SortStableFunc(starts, func(a, b int) int {
		return strings.Compare(t.rows[a].SubpartName, t.rows[b].SubpartName)
	})

	var events []domain.PartLifecycleEvent
	seen := make(map[string]struct{})
	for _, i := range starts {
		part := t.rows[i].Final()
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}

		partEvents, err := t.tracePart(part, i)
		if err != nil {
			return nil, err
		}
		events = append(events, partEvents...)
	}

	return events, nil
}

// tracePart walks one part of interest back from the row where it departed
func (t *Tracer) tracePart(part string, start int) ([]domain.PartLifecycleEvent, error) {
	partName := t.rows[start].PartName
	current := start

	var events []domain.PartLifecycleEvent
	for recency := 0; ; recency++ {
		arrival, err := t.pairedArrival(part, current)
		if err != nil {
			return nil, err
		}
		row := t.rows[arrival]

		kind := classify(row, part)
		if kind == domain.CycleRetrofit {
			ev := newEvent(part, row, recency, domain.CycleEventDeparture, kind)
			ev.Comment = domain.COMMENT_RETROFIT_STOP
			events = append(events, ev)
			break
		}

		events = append(events,
			newEvent(part, row, recency, domain.CycleEventDeparture, kind),
			newEvent(part, row, recency, domain.CycleEventArrival, kind),
		)

		previous, found, err := t.previousDeparture(part, partName, row, kind)
		if err != nil {
			return nil, err
		}
		if !found {
			events[len(events)-1].Comment = domain.COMMENT_BIRTH
			break
		}
		current = previous
	}

	return events, nil
}

// pairedArrival finds the single row recorded for the same visit and subpart slot as the departure
func (t *Tracer) pairedArrival(part string, departure int) (int, error) {
	row := t.rows[departure]
	visit := t.byVisit[visitOf(row)]
	if len(visit) != 1 {
		return 0, &domain.DataIntegrityError{
			Kind:            domain.IntegrityMissingPairedArrival,
			PartOfInterest:  part,
			ComponentSerial: row.ComponentSerial,
			ServiceOrder:    row.ServiceOrder,
			PartName:        row.PartName,
			SubpartName:     row.SubpartName,
			Detail:          fmt.Sprintf("expected one arrival row for the visit, found %d", len(visit)),
		}
	}
	return visit[0], nil
}

// previousDeparture finds the visit the part went through before the arrival.
// A part that arrived with its body must have its prior visit in that same body. Only another body
// that released the part contradicts that; a removal elsewhere with no release is a birth.
func (t *Tracer) previousDeparture(part, partName string, arrival domain.PartPivotRow, kind domain.CycleKind) (int, bool, error) {
	var candidates, sameBody []int
	for _, i := range t.bySerial[part] {
		r := t.rows[i]
		if r.PartName != partName || !r.ReceptionDate.Before(arrival.ReceptionDate) {
			continue
		}
		candidates = append(candidates, i)
		if r.ComponentSerial == arrival.ComponentSerial {
			sameBody = append(sameBody, i)
		}
	}

	if !kind.ArrivedWithBody() {
		i, ok := t.latest(candidates)
		return i, ok, nil
	}

	if len(sameBody) == 0 {
		var released []int
		for _, i := range candidates {
			if final := t.rows[i].FinalPartSerial; final != nil && *final == part {
				released = append(released, i)
			}
		}
		j, ok := t.latest(released)
		if !ok {
			return 0, false, nil
		}
		other := t.rows[j]
		return 0, false, &domain.DataIntegrityError{
			Kind:            domain.IntegrityCrossBodyInPlaceRepair,
			PartOfInterest:  part,
			ComponentSerial: arrival.ComponentSerial,
			ServiceOrder:    arrival.ServiceOrder,
			PartName:        arrival.PartName,
			SubpartName:     arrival.SubpartName,
			Detail:          fmt.Sprintf("prior history only in body %s (service order %d)", other.ComponentSerial, other.ServiceOrder),
		}
	}

	i, ok := t.latest(sameBody)
	return i, ok, nil
}

// latest picks the most recent row; ties go to the larger service order, then subpart name
func (t *Tracer) latest(indexes []int) (int, bool) {
	if len(indexes) == 0 {
		return 0, false
	}
	return slices.MaxFunc(indexes, func(a, b int) int {
		ra, rb := t.rows[a], t.rows[b]
		if c := ra.ReceptionDate.Compare(rb.ReceptionDate); c != 0 {
			return c
		}
		if c := cmp.Compare(ra.ServiceOrder, rb.ServiceOrder); c != 0 {
			return c
		}
		return strings.Compare(ra.SubpartName, rb.SubpartName)
	}), true
}

// classify computes the kind of a cycle once from its arrival row
func classify(arrival domain.PartPivotRow, part string) domain.CycleKind {
	if arrival.PartName == domain.LOW_SPEED_GEAR_PART && arrival.Retrofit {
		return domain.CycleRetrofit
	}

	arrived := arrival.Initial() == part
	departed := arrival.Final() == part
	switch {
	case arrived && departed:
		return domain.CycleInPlace
	case arrived:
		return domain.CycleSwapOut
	default:
		return domain.CycleSwapIn
	}
}

func newEvent(part string, row domain.PartPivotRow, recency int, event domain.CycleEvent, kind domain.CycleKind) domain.PartLifecycleEvent {
	return domain.PartLifecycleEvent{
		PartOfInterest:    part,
		ComponentSerial:   row.ComponentSerial,
		ServiceOrder:      row.ServiceOrder,
		ReceptionDate:     row.ReceptionDate,
		SubcomponentTag:   row.SubcomponentTag,
		PartName:          row.PartName,
		SubpartName:       row.SubpartName,
		InitialPartSerial: row.InitialPartSerial,
		FinalPartSerial:   row.FinalPartSerial,
		ComponentHours:    row.ComponentHours,
		RecencyRepairRank: recency,
		CycleEvent:        event,
		Status:            kind.Status(),
	}
}
