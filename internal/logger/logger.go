package logger

import (
	"context"
	"time"

	"github.com/TheZeroSlave/zapsentry"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// log is a no-op until Initialize is called
	log = zap.NewNop()
	// sentryClient is nil when no DSN is configured
	sentryClient *sentry.Client
)

type runIDKey struct{}

// Config holds logger configuration
type Config struct {
	Debug           bool
	Service         string
	SentryDSN       string
	SentryClient    *sentry.Client
	BreadcrumbLevel zapcore.Level
	Tags            map[string]string
}

// Initialize builds the global logger. Errors are mirrored to Sentry when a DSN or client is given.
func Initialize(cfg Config) error {
	base, err := newZapLogger(cfg)
	if err != nil {
		return err
	}

	if cfg.SentryDSN == "" && cfg.SentryClient == nil {
		log = base
		return nil
	}

	client := cfg.SentryClient
	if client == nil {
		client, err = sentry.NewClient(sentry.ClientOptions{
			Dsn:        cfg.SentryDSN,
			Debug:      cfg.Debug,
			ServerName: cfg.Service,
		})
		if err != nil {
			return err
		}
	}

	core, err := newSentryCore(cfg, client)
	if err != nil {
		return err
	}

	sentryClient = client
	log = zapsentry.AttachCoreToLogger(core, base)
	return nil
}

func newZapLogger(cfg Config) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if cfg.Debug {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	l, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	if cfg.Service != "" {
		l = l.With(zap.String("service", cfg.Service))
	}
	return l, nil
}

// newSentryCore sends errors as events and everything from the breadcrumb level up as breadcrumbs
func newSentryCore(cfg Config, client *sentry.Client) (zapcore.Core, error) {
	breadcrumbLevel := cfg.BreadcrumbLevel
	if breadcrumbLevel == zapcore.InvalidLevel {
		breadcrumbLevel = zapcore.InfoLevel
	}

	return zapsentry.NewCore(zapsentry.Configuration{
		Level:             zapcore.ErrorLevel,
		EnableBreadcrumbs: true,
		BreadcrumbLevel:   breadcrumbLevel,
		Tags:              cfg.Tags,
	}, zapsentry.NewSentryClientFromClient(client))
}

// Replace swaps the global logger and returns a func restoring the previous one
func Replace(l *zap.Logger) func() {
	prev := log
	log = l
	return func() { log = prev }
}

// Flush flushes buffered Sentry events and log entries
func Flush(timeout time.Duration) {
	if sentryClient != nil {
		sentryClient.Flush(timeout)
	}
	_ = log.Sync()
}

// WithRun scopes ctx to a reconciliation run. Entries logged with the returned context carry run_id,
// and Sentry events raised under it are tagged with the run.
func WithRun(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub = hub.Clone()
		hub.Scope().SetTag("run_id", runID)
		ctx = sentry.SetHubOnContext(ctx, hub)
	}
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunID returns the reconciliation run ctx is scoped to, if any
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	runID, _ := ctx.Value(runIDKey{}).(string)
	return runID
}

// FromContext returns the global logger bound to the Sentry scope and run of ctx
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return log
	}

	l := log.With(zapsentry.Context(ctx))
	if runID := RunID(ctx); runID != "" {
		l = l.With(zap.String("run_id", runID))
	}
	return l
}

// Default returns the global logger
func Default() *zap.Logger {
	return log
}

func Info(msg string, fields ...zap.Field) {
	log.Info(msg, fields...)
}

func InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Info(msg, fields...)
}

// Error logs err as the message
func Error(err error, fields ...zap.Field) {
	log.Error(errorMessage(err), fields...)
}

func ErrorCtx(ctx context.Context, err error, fields ...zap.Field) {
	FromContext(ctx).Error(errorMessage(err), fields...)
}

func errorMessage(err error) string {
	if err == nil {
		return "error occurred"
	}
	return err.Error()
}

// Fatal logs and exits the process
func Fatal(msg string, fields ...zap.Field) {
	log.Fatal(msg, fields...)
}

func FatalCtx(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Fatal(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	log.Warn(msg, fields...)
}

func WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Warn(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	log.Debug(msg, fields...)
}

func DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Debug(msg, fields...)
}
