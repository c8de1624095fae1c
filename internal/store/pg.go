package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
	"github.com/cecilvega/kverse-sub000/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	// Set defaults if not provided
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// calculateSafeBatchSize computes the batch size for bulk inserts that stays under
// PostgreSQL's limit of 65535 parameters per query.
//
// Each record consumes one parameter per inserted column. A fixed headroom is kept
// for batch-level overhead such as ON CONFLICT clauses.
//
// Example with headroom of 1000:
//   - FleetBound: 12 columns → (65,535 - 1,000) / 12 = 5,377 records/batch
//   - ComponentHistory: 33 columns → (65,535 - 1,000) / 33 = 1,955 records/batch
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000

	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return max(totalRecords, 1)
	}

	return safeBatchSize
}

// createInBatches inserts rows in parameter safe batches
func createInBatches[T any](tx *gorm.DB, rows []T, fieldsPerRecord int) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, calculateSafeBatchSize(len(rows), fieldsPerRecord)).Error
}

// deleteAll removes every row of the model's table
func deleteAll(tx *gorm.DB, model any) error {
	return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error
}

// AutoMigrate creates or updates every raw, curated and audit table
func (s *pgStore) AutoMigrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&schema.Changeout{},
		&schema.ServiceOrder{},
		&schema.Component{},
		&schema.Equipment{},
		&schema.PartPivot{},
		&schema.PartOverride{},
		&schema.RepairCost{},
		&schema.ComponentHistory{},
		&schema.ComponentReparation{},
		&schema.PartLifecycleEvent{},
		&schema.FleetPartState{},
		&schema.FleetComponentSummary{},
		&schema.FleetBound{},
		&schema.ReconciliationRun{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// LoadInputs reads every raw and master table a run consumes
func (s *pgStore) LoadInputs(ctx context.Context) (*pipeline.Inputs, error) {
	db := s.db.WithContext(ctx)

	var changeouts []schema.Changeout
	if err := db.Order("id").Find(&changeouts).Error; err != nil {
		return nil, fmt.Errorf("failed to load changeouts: %w", err)
	}

	var serviceOrders []schema.ServiceOrder
	if err := db.Order("id").Find(&serviceOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to load service orders: %w", err)
	}

	var components []schema.Component
	if err := db.Order("component_name, subcomponent_name").Find(&components).Error; err != nil {
		return nil, fmt.Errorf("failed to load components: %w", err)
	}

	var equipments []schema.Equipment
	if err := db.Order("equipment_name").Find(&equipments).Error; err != nil {
		return nil, fmt.Errorf("failed to load equipments: %w", err)
	}

	var costs []schema.RepairCost
	if err := db.Order("subcomponent_tag").Find(&costs).Error; err != nil {
		return nil, fmt.Errorf("failed to load repair costs: %w", err)
	}

	pivot, overrides, err := s.LoadTraceInputs(ctx)
	if err != nil {
		return nil, err
	}

	in := &pipeline.Inputs{
		Changeouts:    make([]domain.Changeout, 0, len(changeouts)),
		ServiceOrders: make([]domain.ServiceOrder, 0, len(serviceOrders)),
		Components:    make([]domain.Component, 0, len(components)),
		Equipments:    make([]domain.Equipment, 0, len(equipments)),
		PartPivot:     pivot,
		Overrides:     overrides,
		RepairCosts:   make([]domain.RepairCost, 0, len(costs)),
	}
	for _, c := range changeouts {
		in.Changeouts = append(in.Changeouts, c.ToDomain())
	}
	for _, so := range serviceOrders {
		in.ServiceOrders = append(in.ServiceOrders, so.ToDomain())
	}
	for _, c := range components {
		in.Components = append(in.Components, domain.Component{
			ComponentName:    c.ComponentName,
			SubcomponentName: c.SubcomponentName,
			SubcomponentTag:  c.SubcomponentTag,
			TBOHours:         c.TBOHours,
		})
	}
	for _, e := range equipments {
		in.Equipments = append(in.Equipments, domain.Equipment{
			SiteName:       e.SiteName,
			EquipmentName:  e.EquipmentName,
			EquipmentModel: e.EquipmentModel,
		})
	}
	for _, c := range costs {
		in.RepairCosts = append(in.RepairCosts, domain.RepairCost{
			SubcomponentTag: c.SubcomponentTag,
			MeanRepairCost:  c.MeanRepairCost,
		})
	}

	logger.InfoCtx(ctx, "Loaded reconciliation inputs",
		zap.Int("changeouts", len(in.Changeouts)),
		zap.Int("service_orders", len(in.ServiceOrders)),
		zap.Int("pivot_rows", len(in.PartPivot)),
		zap.Int("overrides", len(in.Overrides)),
	)

	return in, nil
}

// LoadTraceInputs reads the part pivot and its overrides in insertion order
func (s *pgStore) LoadTraceInputs(ctx context.Context) ([]domain.PartPivotRow, []domain.PartOverride, error) {
	db := s.db.WithContext(ctx)

	var pivot []schema.PartPivot
	if err := db.Order("id").Find(&pivot).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load part pivot: %w", err)
	}

	// Overrides are applied in order, later rows win
	var overrides []schema.PartOverride
	if err := db.Order("id").Find(&overrides).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load part overrides: %w", err)
	}

	rows := make([]domain.PartPivotRow, 0, len(pivot))
	for _, r := range pivot {
		rows = append(rows, r.ToDomain())
	}
	patches := make([]domain.PartOverride, 0, len(overrides))
	for _, o := range overrides {
		patches = append(patches, o.ToDomain())
	}
	return rows, patches, nil
}

// ReplaceRawInputs replaces the content of every raw and master table in a single transaction
func (s *pgStore) ReplaceRawInputs(ctx context.Context, in *pipeline.Inputs) error {
	if in == nil {
		return fmt.Errorf("%w: nil inputs", domain.ErrInvalidInput)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&schema.Changeout{},
			&schema.ServiceOrder{},
			&schema.Component{},
			&schema.Equipment{},
			&schema.PartPivot{},
			&schema.PartOverride{},
			&schema.RepairCost{},
		} {
			if err := deleteAll(tx, model); err != nil {
				return fmt.Errorf("failed to clear raw table: %w", err)
			}
		}

		changeouts := make([]schema.Changeout, 0, len(in.Changeouts))
		for _, c := range in.Changeouts {
			changeouts = append(changeouts, schema.NewChangeout(c))
		}
		if err := createInBatches(tx, changeouts, 13); err != nil {
			return fmt.Errorf("failed to insert changeouts: %w", err)
		}

		serviceOrders := make([]schema.ServiceOrder, 0, len(in.ServiceOrders))
		for _, so := range in.ServiceOrders {
			serviceOrders = append(serviceOrders, schema.NewServiceOrder(so))
		}
		if err := createInBatches(tx, serviceOrders, 17); err != nil {
			return fmt.Errorf("failed to insert service orders: %w", err)
		}

		// Master tables may repeat a key, the last row wins
		for _, c := range in.Components {
			row := schema.Component{
				ComponentName:    c.ComponentName,
				SubcomponentName: c.SubcomponentName,
				SubcomponentTag:  c.SubcomponentTag,
				TBOHours:         c.TBOHours,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "component_name"}, {Name: "subcomponent_name"}},
				UpdateAll: true,
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to upsert component: %w", err)
			}
		}
		for _, e := range in.Equipments {
			row := schema.Equipment{
				EquipmentName:  e.EquipmentName,
				SiteName:       e.SiteName,
				EquipmentModel: e.EquipmentModel,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "equipment_name"}},
				UpdateAll: true,
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to upsert equipment: %w", err)
			}
		}
		for _, c := range in.RepairCosts {
			row := schema.RepairCost{SubcomponentTag: c.SubcomponentTag, MeanRepairCost: c.MeanRepairCost}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "subcomponent_tag"}},
				DoUpdates: clause.AssignmentColumns([]string{"mean_repair_cost"}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to upsert repair cost: %w", err)
			}
		}

		pivot := make([]schema.PartPivot, 0, len(in.PartPivot))
		for _, r := range in.PartPivot {
			pivot = append(pivot, schema.NewPartPivot(r))
		}
		if err := createInBatches(tx, pivot, 10); err != nil {
			return fmt.Errorf("failed to insert part pivot: %w", err)
		}

		overrides := make([]schema.PartOverride, 0, len(in.Overrides))
		for _, o := range in.Overrides {
			overrides = append(overrides, schema.NewPartOverride(o))
		}
		if err := createInBatches(tx, overrides, 11); err != nil {
			return fmt.Errorf("failed to insert part overrides: %w", err)
		}

		return nil
	})
}

// SaveRun replaces the curated tables with the outputs of a run and records the run in a single transaction
func (s *pgStore) SaveRun(ctx context.Context, out *pipeline.Outputs) error {
	if out == nil || out.Summary.RunID == "" {
		return fmt.Errorf("%w: missing run outputs", domain.ErrInvalidInput)
	}
	runID := out.Summary.RunID

	summary, err := json.Marshal(out.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&schema.ComponentHistory{},
			&schema.ComponentReparation{},
			&schema.PartLifecycleEvent{},
			&schema.FleetPartState{},
			&schema.FleetComponentSummary{},
			&schema.FleetBound{},
		} {
			if err := deleteAll(tx, model); err != nil {
				return fmt.Errorf("failed to clear curated table: %w", err)
			}
		}

		history := make([]schema.ComponentHistory, 0, len(out.ComponentHistory))
		for _, h := range out.ComponentHistory {
			history = append(history, schema.NewComponentHistory(runID, h))
		}
		if err := createInBatches(tx, history, 33); err != nil {
			return fmt.Errorf("failed to insert component history: %w", err)
		}

		reparations := make([]schema.ComponentReparation, 0, len(out.ComponentReparations))
		for _, r := range out.ComponentReparations {
			reparations = append(reparations, schema.NewComponentReparation(runID, r))
		}
		if err := createInBatches(tx, reparations, 15); err != nil {
			return fmt.Errorf("failed to insert component reparations: %w", err)
		}

		events := make([]schema.PartLifecycleEvent, 0, len(out.PartLifecycleEvents))
		for _, e := range out.PartLifecycleEvents {
			events = append(events, schema.NewPartLifecycleEvent(runID, e))
		}
		if err := createInBatches(tx, events, 15); err != nil {
			return fmt.Errorf("failed to insert part lifecycle events: %w", err)
		}

		parts := make([]schema.FleetPartState, 0, len(out.Fleet.Parts))
		for _, p := range out.Fleet.Parts {
			parts = append(parts, schema.NewFleetPartState(runID, p))
		}
		if err := createInBatches(tx, parts, 10); err != nil {
			return fmt.Errorf("failed to insert fleet part states: %w", err)
		}

		components := make([]schema.FleetComponentSummary, 0, len(out.Fleet.Components))
		for _, c := range out.Fleet.Components {
			components = append(components, schema.NewFleetComponentSummary(runID, c))
		}
		if err := createInBatches(tx, components, 9); err != nil {
			return fmt.Errorf("failed to insert fleet component summaries: %w", err)
		}

		bounds := make([]schema.FleetBound, 0, len(out.Fleet.Bounds))
		for _, b := range out.Fleet.Bounds {
			bounds = append(bounds, schema.NewFleetBound(runID, b))
		}
		if err := createInBatches(tx, bounds, 12); err != nil {
			return fmt.Errorf("failed to insert fleet bounds: %w", err)
		}

		finishedAt := out.Summary.FinishedAt
		run := schema.ReconciliationRun{
			ID:         runID,
			Status:     schema.RunStatusSucceeded,
			StartedAt:  out.Summary.StartedAt,
			FinishedAt: &finishedAt,
			Summary:    datatypes.JSON(summary),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "finished_at", "summary", "error", "updated_at"}),
		}).Create(&run).Error; err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	logger.InfoCtx(ctx, "Saved curated tables", zap.String("run_id", runID), zap.Any("row_counts", out.Summary.RowCounts))
	return nil
}

// RecordFailedRun records a run that did not produce curated tables
func (s *pgStore) RecordFailedRun(ctx context.Context, runID string, startedAt, finishedAt time.Time, runErr error) error {
	message := "unknown error"
	if runErr != nil {
		message = runErr.Error()
	}

	run := schema.ReconciliationRun{
		ID:         runID,
		Status:     schema.RunStatusFailed,
		StartedAt:  startedAt,
		FinishedAt: &finishedAt,
		Error:      &message,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "finished_at", "error", "updated_at"}),
	}).Create(&run).Error
	if err != nil {
		return fmt.Errorf("failed to record failed run: %w", err)
	}
	return nil
}

// LoadRunOutputs reads back the curated tables of a run
func (s *pgStore) LoadRunOutputs(ctx context.Context, runID string) (*pipeline.Outputs, error) {
	// curated tables only hold the latest successful run
	var run schema.ReconciliationRun
	err := s.db.WithContext(ctx).
		Where("status = ?", schema.RunStatusSucceeded).
		Order("finished_at DESC, id DESC").
		First(&run).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get latest successful run: %w", err)
	}
	if err != nil || run.ID != runID {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, runID)
	}

	out := &pipeline.Outputs{}
	if err := json.Unmarshal(run.Summary, &out.Summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run summary: %w", err)
	}

	db := s.db.WithContext(ctx).Where("run_id = ?", runID).Order("id").Session(&gorm.Session{})
	if out.ComponentHistory, err = findAs(db, schema.ComponentHistory.ToDomain); err != nil {
		return nil, fmt.Errorf("failed to load component history: %w", err)
	}
	if out.ComponentReparations, err = findAs(db, schema.ComponentReparation.ToDomain); err != nil {
		return nil, fmt.Errorf("failed to load component reparations: %w", err)
	}
	if out.PartLifecycleEvents, err = findAs(db, schema.PartLifecycleEvent.ToDomain); err != nil {
		return nil, fmt.Errorf("failed to load part lifecycle events: %w", err)
	}
	if out.Fleet.Parts, err = findAs(db, schema.FleetPartState.ToDomain); err != nil {
		return nil, fmt.Errorf("failed to load fleet part states: %w", err)
	}
	if out.Fleet.Components, err = findAs(db, schema.FleetComponentSummary.ToDomain); err != nil {
		return nil, fmt.Errorf("failed to load fleet component summaries: %w", err)
	}
	if out.Fleet.Bounds, err = findAs(db, schema.FleetBound.ToDomain); err != nil {
		return nil, fmt.Errorf("failed to load fleet bounds: %w", err)
	}

	return out, nil
}

// findAs runs a reusable session query against the table of R and maps every row
func findAs[R any, D any](db *gorm.DB, toDomain func(R) D) ([]D, error) {
	var rows []R
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]D, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDomain(r))
	}
	return out, nil
}

// GetRun retrieves a run by its ID
func (s *pgStore) GetRun(ctx context.Context, runID string) (*schema.ReconciliationRun, error) {
	var run schema.ReconciliationRun
	err := s.db.WithContext(ctx).Where("id = ?", runID).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// GetLatestRun retrieves the most recent run
func (s *pgStore) GetLatestRun(ctx context.Context) (*schema.ReconciliationRun, error) {
	var run schema.ReconciliationRun
	err := s.db.WithContext(ctx).Order("started_at DESC, id DESC").First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return &run, nil
}

// GetComponentHistory retrieves the linked change-outs of a component serial
func (s *pgStore) GetComponentHistory(ctx context.Context, componentSerial string) ([]domain.ComponentHistory, error) {
	var rows []schema.ComponentHistory
	err := s.db.WithContext(ctx).
		Where("component_serial = ?", componentSerial).
		Order("changeout_date, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get component history: %w", err)
	}

	history := make([]domain.ComponentHistory, 0, len(rows))
	for _, r := range rows {
		history = append(history, r.ToDomain())
	}
	return history, nil
}

// GetComponentReparations retrieves the repairs of a component serial ordered by reception
func (s *pgStore) GetComponentReparations(ctx context.Context, componentSerial string) ([]domain.ComponentReparation, error) {
	var rows []schema.ComponentReparation
	err := s.db.WithContext(ctx).
		Where("component_serial = ?", componentSerial).
		Order("reception_date, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get component reparations: %w", err)
	}

	reparations := make([]domain.ComponentReparation, 0, len(rows))
	for _, r := range rows {
		reparations = append(reparations, r.ToDomain())
	}
	return reparations, nil
}

// GetPartLifecycle retrieves the lifecycle events of a part of interest ordered by recency rank
func (s *pgStore) GetPartLifecycle(ctx context.Context, partSerial string) ([]domain.PartLifecycleEvent, error) {
	var rows []schema.PartLifecycleEvent
	err := s.db.WithContext(ctx).
		Where("part_of_interest = ?", partSerial).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get part lifecycle: %w", err)
	}

	events := make([]domain.PartLifecycleEvent, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.ToDomain())
	}
	return events, nil
}

// GetFleetBounds retrieves the fleet bounds of every part type
func (s *pgStore) GetFleetBounds(ctx context.Context) ([]domain.FleetBound, error) {
	var rows []schema.FleetBound
	err := s.db.WithContext(ctx).Order("subcomponent_tag, part_name").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get fleet bounds: %w", err)
	}

	bounds := make([]domain.FleetBound, 0, len(rows))
	for _, r := range rows {
		bounds = append(bounds, r.ToDomain())
	}
	return bounds, nil
}
