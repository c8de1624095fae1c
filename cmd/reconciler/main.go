package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cecilvega/kverse-sub000/internal/adapter"
	"github.com/cecilvega/kverse-sub000/internal/config"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
	"github.com/cecilvega/kverse-sub000/internal/registry"
	"github.com/cecilvega/kverse-sub000/internal/store"
)

var (
	configFile string
	envPath    string
)

// runtime holds what every subcommand needs once configuration is loaded
type runtime struct {
	cfg   *config.ReconcilerConfig
	store store.Store
	clock adapter.Clock
	fs    adapter.FileSystem
	json  adapter.JSON
}

func main() {
	root := &cobra.Command{
		Use:           "reconciler",
		Short:         "Reconcile component change-outs, repairs and part lifecycles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to configuration file")
	root.PersistentFlags().StringVar(&envPath, "env", "config/", "Path to environment files")

	root.AddCommand(newMigrateCmd(), newRunCmd(), newTraceCmd(), newImportCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error(err, zap.String("component", "reconciler"))
		logger.Flush(2 * time.Second)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Flush(2 * time.Second)
}

// setup loads the configuration, initializes the logger and connects to the database
func setup(ctx context.Context) (*runtime, error) {
	config.ChdirRepoRoot()
	cfg, err := config.LoadReconcilerConfig(configFile, envPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		Service:         "reconciler",
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "reconciler",
			"site":    cfg.Reconciliation.SiteName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		return nil, fmt.Errorf("failed to configure connection pool: %w", err)
	}
	logger.InfoCtx(ctx, "Connected to database", zap.String("host", cfg.Database.Host), zap.String("dbname", cfg.Database.DBName))

	return &runtime{
		cfg:   cfg,
		store: store.NewPGStore(db),
		clock: adapter.NewClock(),
		fs:    adapter.NewFileSystem(),
		json:  adapter.NewJSON(),
	}, nil
}

// newPipeline loads the component mapping and builds the reconciliation pipeline
func (r *runtime) newPipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	loader := registry.NewComponentRegistryLoader(r.fs, r.json)
	components, err := loader.Load(r.cfg.Reconciliation.ComponentMappingPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load component mapping: %w", err)
	}
	logger.InfoCtx(ctx, "Loaded component mapping",
		zap.String("path", r.cfg.Reconciliation.ComponentMappingPath),
		zap.Int("components", len(components.Mappings())),
	)

	return pipeline.New(components, r.clock, r.cfg.Reconciliation.PipelineOptions()), nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every raw, curated and audit table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			if err := rt.store.AutoMigrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}
			logger.InfoCtx(ctx, "Database migrated")
			return nil
		},
	}
}
