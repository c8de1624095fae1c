package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLinkage(t *testing.T) {
	before := testutil.ToFloat64(changeoutLinks.WithLabelValues("asof"))

	RecordLinkage(6, 3, 1)

	assert.InDelta(t, before+3, testutil.ToFloat64(changeoutLinks.WithLabelValues("asof")), 1e-9)
	assert.InDelta(t, 0.6, testutil.ToFloat64(linkageRatio.WithLabelValues("direct")), 1e-9)
	assert.InDelta(t, 0.1, testutil.ToFloat64(linkageRatio.WithLabelValues("unmatched")), 1e-9)
}

func TestRecordNormalizationWarnings_IgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(normalizationWarnings.WithLabelValues("invalid_serial"))
	RecordNormalizationWarnings("invalid_serial", 0)
	RecordNormalizationWarnings("invalid_serial", 2)
	assert.InDelta(t, before+2, testutil.ToFloat64(normalizationWarnings.WithLabelValues("invalid_serial")), 1e-9)
}

func TestObserveStage(t *testing.T) {
	ObserveStage("link", time.Now())
	assert.GreaterOrEqual(t, testutil.CollectAndCount(stageDuration), 1)
}

func TestPush(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Contains(t, r.URL.Path, "/metrics/job/reconciler")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	require.NoError(t, Push(context.Background(), server.URL, "reconciler"))
	assert.True(t, called)

	require.NoError(t, Push(context.Background(), "", "reconciler"))
}
