package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cecilvega/kverse-sub000/internal/adapter"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/messaging"
	"github.com/cecilvega/kverse-sub000/internal/metrics"
	"github.com/cecilvega/kverse-sub000/internal/providers/jetstream"
	"github.com/cecilvega/kverse-sub000/internal/storage"
	"github.com/cecilvega/kverse-sub000/internal/workflows"
)

func newRunCmd() *cobra.Command {
	var (
		publish bool
		notify  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one reconciliation batch and persist the curated tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if notify && !publish {
				return fmt.Errorf("--notify requires --publish")
			}
			ctx := cmd.Context()
			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := metrics.Push(context.Background(), rt.cfg.Metrics.PushgatewayURL, rt.cfg.Metrics.Job); err != nil {
					logger.WarnCtx(ctx, "Failed to push metrics", zap.Error(err))
				}
			}()
			return rt.run(ctx, publish, notify)
		},
	}
	cmd.Flags().BoolVar(&publish, "publish", false, "Upload the curated tables to the enabled publication targets")
	cmd.Flags().BoolVar(&notify, "notify", false, "Announce every uploaded table on NATS JetStream")
	return cmd
}

func (r *runtime) run(ctx context.Context, publish, notify bool) error {
	pipe, err := r.newPipeline(ctx)
	if err != nil {
		return err
	}

	var publisher storage.TablePublisher
	if publish {
		p, closePublisher, err := storage.NewPublisherFromConfig(ctx, r.cfg.Publish)
		if err != nil {
			return fmt.Errorf("failed to create publisher: %w", err)
		}
		defer func() { _ = closePublisher() }()
		publisher = p
	}

	var notifier messaging.Publisher
	if notify {
		n, err := jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            r.cfg.NATS.URL,
			StreamName:     r.cfg.NATS.StreamName,
			SubjectPrefix:  r.cfg.NATS.SubjectPrefix,
			MaxReconnects:  r.cfg.NATS.MaxReconnects,
			ReconnectWait:  r.cfg.NATS.ReconnectWait,
			ConnectionName: r.cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), r.json)
		if err != nil {
			return fmt.Errorf("failed to create notifier: %w", err)
		}
		defer n.Close()
		notifier = n
	}

	// The executor runs the same activities the worker registers
	executor := workflows.NewExecutor(r.store, pipe, publisher, notifier, r.clock, adapter.NewActivity())

	summary, err := executor.ReconcileAndPersist(ctx, "")
	if err != nil {
		return err
	}

	if publish {
		objects, err := executor.PublishCuratedTables(ctx, summary.RunID)
		if err != nil {
			return err
		}
		if notify {
			if err := executor.NotifyTablesPublished(ctx, summary.RunID, objects); err != nil {
				return err
			}
		}
	}

	data, err := r.json.MarshalIndent(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
