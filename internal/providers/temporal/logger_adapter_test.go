package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := NewZapLoggerAdapter(zap.New(core))

	adapter.Info("Started worker", "TaskQueue", "reconciliation", "WorkerID", 7)
	adapter.Warn("odd keyvals", "Namespace", "default", "dangling")
	adapter.Error("non string key", 42, "value", "Attempt", 2)
	adapter.(log.WithLogger).With("WorkflowID", "reconcile-1").Debug("Activity started")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, map[string]interface{}{"TaskQueue": "reconciliation", "WorkerID": int64(7)}, entries[0].ContextMap())

	assert.Equal(t, map[string]interface{}{"Namespace": "default"}, entries[1].ContextMap())
	assert.Equal(t, map[string]interface{}{"Attempt": int64(2)}, entries[2].ContextMap())

	assert.Equal(t, zapcore.DebugLevel, entries[3].Level)
	assert.Equal(t, "reconcile-1", entries[3].ContextMap()["WorkflowID"])
}
