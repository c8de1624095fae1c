package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
)

// inputBundle is the JSON export of every raw and master table
type inputBundle struct {
	Changeouts    []domain.Changeout    `json:"changeouts"`
	ServiceOrders []domain.ServiceOrder `json:"service_orders"`
	Components    []domain.Component    `json:"components"`
	Equipments    []domain.Equipment    `json:"equipments"`
	PartPivot     []domain.PartPivotRow `json:"part_pivot"`
	Overrides     []domain.PartOverride `json:"part_overrides"`
	RepairCosts   []domain.RepairCost   `json:"repair_costs"`
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <bundle.json>",
		Short: "Replace the raw and master tables with the content of a JSON bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			return rt.importBundle(ctx, args[0])
		},
	}
}

func (r *runtime) importBundle(ctx context.Context, path string) error {
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var bundle inputBundle
	if err := r.json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := r.store.ReplaceRawInputs(ctx, &pipeline.Inputs{
		Changeouts:    bundle.Changeouts,
		ServiceOrders: bundle.ServiceOrders,
		Components:    bundle.Components,
		Equipments:    bundle.Equipments,
		PartPivot:     bundle.PartPivot,
		Overrides:     bundle.Overrides,
		RepairCosts:   bundle.RepairCosts,
	}); err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}

	logger.InfoCtx(ctx, "Imported raw tables",
		zap.String("path", path),
		zap.Int("changeouts", len(bundle.Changeouts)),
		zap.Int("service_orders", len(bundle.ServiceOrders)),
		zap.Int("part_pivot", len(bundle.PartPivot)),
	)
	return nil
}
