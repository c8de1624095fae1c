package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cecilvega/kverse-sub000/internal/logger"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(logger.Replace(zap.New(core)))
	return logs
}

func TestWithRun_TagsEntries(t *testing.T) {
	logs := observe(t)

	ctx := logger.WithRun(context.Background(), "01J9RUN")
	assert.Equal(t, "01J9RUN", logger.RunID(ctx))

	logger.InfoCtx(ctx, "Linked change-outs", zap.Int("direct", 3))
	logger.WarnCtx(context.Background(), "No run")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "01J9RUN", entries[0].ContextMap()["run_id"])
	assert.EqualValues(t, 3, entries[0].ContextMap()["direct"])
	assert.NotContains(t, entries[1].ContextMap(), "run_id")
}

func TestWithRun_EmptyRunID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, logger.WithRun(ctx, ""))
	assert.Empty(t, logger.RunID(ctx))
}

func TestWithRun_TagsSentryScope(t *testing.T) {
	hub := sentry.NewHub(nil, sentry.NewScope())
	ctx := sentry.SetHubOnContext(context.Background(), hub)

	scoped := sentry.GetHubFromContext(logger.WithRun(ctx, "01J9RUN"))
	require.NotNil(t, scoped)
	assert.NotSame(t, hub, scoped)

	event := scoped.Scope().ApplyToEvent(sentry.NewEvent(), nil, nil)
	require.NotNil(t, event)
	assert.Equal(t, "01J9RUN", event.Tags["run_id"])

	// the parent scope is untouched
	parent := hub.Scope().ApplyToEvent(sentry.NewEvent(), nil, nil)
	assert.NotContains(t, parent.Tags, "run_id")
}

func TestErrorCtx(t *testing.T) {
	logs := observe(t)

	logger.ErrorCtx(context.Background(), errors.New("cross body repair"))
	logger.Error(nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "cross body repair", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "error occurred", entries[1].Message)
}

func TestFromContext_NilContext(t *testing.T) {
	logs := observe(t)

	//nolint:staticcheck // nil context is accepted
	logger.FromContext(nil).Info("no context")
	assert.Equal(t, 1, logs.Len())
}

func TestInitialize(t *testing.T) {
	t.Cleanup(logger.Replace(logger.Default()))

	require.NoError(t, logger.Initialize(logger.Config{Debug: true, Service: "reconciler"}))
	assert.True(t, logger.Default().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, logger.Initialize(logger.Config{Service: "reconciler"}))
	assert.False(t, logger.Default().Core().Enabled(zapcore.DebugLevel))

	assert.Error(t, logger.Initialize(logger.Config{SentryDSN: "not a dsn"}))
}
