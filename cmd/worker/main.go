package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cecilvega/kverse-sub000/internal/adapter"
	"github.com/cecilvega/kverse-sub000/internal/config"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/messaging"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
	"github.com/cecilvega/kverse-sub000/internal/providers/jetstream"
	temporal "github.com/cecilvega/kverse-sub000/internal/providers/temporal"
	"github.com/cecilvega/kverse-sub000/internal/registry"
	"github.com/cecilvega/kverse-sub000/internal/storage"
	"github.com/cecilvega/kverse-sub000/internal/store"
	"github.com/cecilvega/kverse-sub000/internal/workflows"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadWorkerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		Service:         "worker",
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "worker",
			"site":    cfg.Reconciliation.SiteName,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting reconciliation worker")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	dataStore := store.NewPGStore(db)
	logger.InfoCtx(ctx, "Connected to database")

	// Initialize adapters
	fs := adapter.NewFileSystem()
	jsonAdapter := adapter.NewJSON()
	clockAdapter := adapter.NewClock()

	// Load component mapping
	components, err := registry.NewComponentRegistryLoader(fs, jsonAdapter).Load(cfg.Reconciliation.ComponentMappingPath)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load component mapping",
			zap.Error(err),
			zap.String("path", cfg.Reconciliation.ComponentMappingPath))
	}
	pipe := pipeline.New(components, clockAdapter, cfg.Reconciliation.PipelineOptions())

	// Initialize publication targets
	publisher, closePublisher, err := storage.NewPublisherFromConfig(ctx, cfg.Publish)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create publisher", zap.Error(err))
	}
	defer func() { _ = closePublisher() }()

	// Connect to NATS if configured
	var notifier messaging.Publisher
	if cfg.NATS.URL != "" {
		natsPublisher, err := jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		defer natsPublisher.Close()
		notifier = natsPublisher
		logger.InfoCtx(ctx, "Connected to NATS", zap.String("url", cfg.NATS.URL))
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, publication notifications will be skipped")
	}

	// Initialize executor for activities
	executor := workflows.NewExecutor(dataStore, pipe, publisher, notifier, clockAdapter, adapter.NewActivity())

	// Connect to Temporal with logger integration
	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    temporal.NewZapLoggerAdapter(logger.Default()),
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Temporal", zap.Error(err), zap.String("host_port", cfg.Temporal.HostPort))
	}
	defer temporalClient.Close()
	logger.InfoCtx(ctx, "Connected to Temporal", zap.String("namespace", cfg.Temporal.Namespace))

	// Create Temporal worker
	temporalWorker := worker.New(
		temporalClient,
		cfg.Temporal.TaskQueue,
		worker.Options{
			MaxConcurrentActivityExecutionSize: cfg.Temporal.MaxConcurrentActivityExecutionSize,
			WorkerActivitiesPerSecond:          cfg.Temporal.WorkerActivitiesPerSecond,
			MaxConcurrentActivityTaskPollers:   cfg.Temporal.MaxConcurrentActivityTaskPollers,
			Interceptors:                       []interceptor.WorkerInterceptor{temporal.NewSentryActivityInterceptor()},
		})
	logger.InfoCtx(ctx, "Created Temporal worker", zap.String("task_queue", cfg.Temporal.TaskQueue))

	// Register workflows
	workerCore := workflows.NewWorkerCore(executor, workflows.DefaultWorkerCoreConfig(), adapter.NewWorkflow())
	temporalWorker.RegisterWorkflow(workerCore.ReconcileWorkflow)
	logger.InfoCtx(ctx, "Registered workflows")

	// Register activities
	temporalWorker.RegisterActivity(executor.ReconcileAndPersist)
	temporalWorker.RegisterActivity(executor.PublishCuratedTables)
	temporalWorker.RegisterActivity(executor.NotifyTablesPublished)
	logger.InfoCtx(ctx, "Registered activities")

	// Start worker
	if err := temporalWorker.Start(); err != nil {
		logger.FatalCtx(ctx, "Failed to start worker", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Worker started and listening for tasks")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.InfoCtx(ctx, "Shutting down worker...", zap.String("signal", sig.String()))
	temporalWorker.Stop()
	logger.Info("Worker stopped")
}
