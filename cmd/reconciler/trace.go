package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
)

func newTraceCmd() *cobra.Command {
	var (
		report domain.StartingReport
		output string
	)

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Trace the part mounted at one service order and print its lifecycle as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			return rt.trace(ctx, report, output)
		},
	}
	cmd.Flags().StringVar(&report.ComponentSerial, "component", "", "Component serial of the starting visit")
	cmd.Flags().Int64Var(&report.ServiceOrder, "service-order", 0, "Service order of the starting visit")
	cmd.Flags().StringVar(&report.PartName, "part", "", "Part name to trace")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the events to a file instead of stdout")
	_ = cmd.MarkFlagRequired("component")
	_ = cmd.MarkFlagRequired("service-order")
	_ = cmd.MarkFlagRequired("part")
	return cmd
}

func (r *runtime) trace(ctx context.Context, report domain.StartingReport, output string) error {
	pivot, overrides, err := r.store.LoadTraceInputs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load part pivot: %w", err)
	}

	events, err := pipeline.TraceOne(pivot, overrides, report)
	if err != nil {
		return err
	}
	logger.InfoCtx(ctx, "Traced part",
		zap.String("component_serial", report.ComponentSerial),
		zap.Int64("service_order", report.ServiceOrder),
		zap.String("part_name", report.PartName),
		zap.Int("events", len(events)),
	)

	data, err := r.json.MarshalIndent(events)
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	if output == "" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}

	f, err := r.fs.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return f.Close()
}
