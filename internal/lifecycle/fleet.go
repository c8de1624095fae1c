package lifecycle

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/table"
)

// DEFAULT_WORKER_POOL_SIZE is used when TraceFleet is given a non-positive pool size
const DEFAULT_WORKER_POOL_SIZE = 4

type bodyPart struct {
	componentSerial string
	partName        string
}

// StartingReports returns the most recent visit of every (component_serial, part_name) in the snapshot,
// sorted by component serial then part name
func (t *Tracer) StartingReports() []domain.StartingReport {
	latest := table.SortStable(t.rows, func(a, b domain.PartPivotRow) int {
		if c := a.ReceptionDate.Compare(b.ReceptionDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ServiceOrder, b.ServiceOrder)
	})
	latest = table.UniqueKeepLast(latest, func(r domain.PartPivotRow) bodyPart {
		return bodyPart{r.ComponentSerial, r.PartName}
	})

	reports := make([]domain.StartingReport, 0, len(latest))
	for _, r := range latest {
		reports = append(reports, domain.StartingReport{
			ComponentSerial: r.ComponentSerial,
			ServiceOrder:    r.ServiceOrder,
			PartName:        r.PartName,
		})
	}
	return table.SortStable(reports, func(a, b domain.StartingReport) int {
		if c := strings.Compare(a.ComponentSerial, b.ComponentSerial); c != 0 {
			return c
		}
		return strings.Compare(a.PartName, b.PartName)
	})
}

// TraceFleet traces every starting report of the snapshot on a worker pool.
// Events keep the order of the starting reports. The first integrity error aborts the run.
// A part traced from more than one report keeps only the trace of its most recent departure.
func (t *Tracer) TraceFleet(ctx context.Context, poolSize int) ([]domain.PartLifecycleEvent, error) {
	if poolSize <= 0 {
		poolSize = DEFAULT_WORKER_POOL_SIZE
	}

	reports := t.StartingReports()
	logger.InfoCtx(ctx, "Tracing fleet part lifecycles",
		zap.Int("starting_reports", len(reports)),
		zap.Int("pivot_rows", len(t.rows)),
		zap.Int("worker_pool_size", poolSize),
	)

	pool := pond.NewResultPool[[]domain.PartLifecycleEvent](poolSize, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	for _, report := range reports {
		group.SubmitErr(func() ([]domain.PartLifecycleEvent, error) {
			events, err := t.Trace(report)
			if err != nil {
				return nil, fmt.Errorf("failed to trace %s/%d/%s: %w", report.ComponentSerial, report.ServiceOrder, report.PartName, err)
			}
			return events, nil
		})
	}

	results, err := group.Wait()
	if err != nil {
		return nil, err
	}

	return dedupeTraces(ctx, reports, results), nil
}

// partTrace is the events of one part of interest traced from one starting report
type partTrace struct {
	report int
	events []domain.PartLifecycleEvent
}

// dedupeTraces drops the traces of parts already traced from a report with a more recent departure.
// Ties keep the first report.
func dedupeTraces(ctx context.Context, reports []domain.StartingReport, results [][]domain.PartLifecycleEvent) []domain.PartLifecycleEvent {
	var traces []partTrace
	for i, events := range results {
		for start := 0; start < len(events); {
			end := start + 1
			for end < len(events) && events[end].PartOfInterest == events[start].PartOfInterest {
				end++
			}
			traces = append(traces, partTrace{report: i, events: events[start:end]})
			start = end
		}
	}

	winner := make(map[string]int, len(traces))
	for i, tr := range traces {
		part := tr.events[0].PartOfInterest
		w, ok := winner[part]
		if !ok || tr.events[0].ReceptionDate.After(traces[w].events[0].ReceptionDate) {
			winner[part] = i
		}
	}

	var events []domain.PartLifecycleEvent
	for i, tr := range traces {
		part := tr.events[0].PartOfInterest
		if w := winner[part]; w != i {
			kept, dropped := reports[traces[w].report], reports[tr.report]
			logger.WarnCtx(ctx, "Part traced from several starting reports, keeping the most recent departure",
				zap.String("part_of_interest", part),
				zap.String("kept_component_serial", kept.ComponentSerial),
				zap.Int64("kept_service_order", kept.ServiceOrder),
				zap.String("dropped_component_serial", dropped.ComponentSerial),
				zap.Int64("dropped_service_order", dropped.ServiceOrder),
			)
			continue
		}
		events = append(events, tr.events...)
	}
	return events
}
