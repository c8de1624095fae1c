package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))
	return configFile
}

func TestLoadReconcilerConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *ReconcilerConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
database:
  host: localhost
  port: 5433
  user: testuser
  password: testpass
  dbname: testdb
  sslmode: require
reconciliation:
  site_name: MEL
  component_mapping_path: "testdata/components.json"
  asof_tolerance: "720h"
  excluded_subcomponents: ["motor"]
  tracer_pool_size: 8
  fleet:
    lower_bound_floor_hours: 5000
    cost_thresholds:
      "5A30": 1000
publish:
  lake:
    enabled: true
    bucket: lake
    endpoint: "http://localhost:9000"
    use_path_style: true
  collaboration:
    enabled: true
    bucket: collab
nats:
  url: "nats://localhost:4222"
metrics:
  pushgateway_url: "http://localhost:9091"
`,
			validate: func(t *testing.T, cfg *ReconcilerConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, "MEL", cfg.Reconciliation.SiteName)
				assert.Equal(t, "testdata/components.json", cfg.Reconciliation.ComponentMappingPath)
				assert.Equal(t, 720*time.Hour, cfg.Reconciliation.AsofTolerance)
				assert.Equal(t, []string{"motor"}, cfg.Reconciliation.ExcludedSubcomponents)
				assert.Equal(t, 8, cfg.Reconciliation.TracerPoolSize)
				assert.Equal(t, 5000.0, cfg.Reconciliation.Fleet.LowerBoundFloorHours)
				assert.True(t, cfg.Publish.Lake.Enabled)
				assert.Equal(t, "lake", cfg.Publish.Lake.Bucket)
				assert.True(t, cfg.Publish.Lake.UsePathStyle)
				assert.Equal(t, "collab", cfg.Publish.Collaboration.Bucket)
				assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
				assert.Equal(t, "http://localhost:9091", cfg.Metrics.PushgatewayURL)

				opts := cfg.Reconciliation.PipelineOptions()
				assert.Equal(t, "MEL", opts.Reparation.SiteName)
				assert.Equal(t, 720*time.Hour, opts.Linker.Tolerance)
				assert.Equal(t, 8, opts.TracerPoolSize)
				assert.Equal(t, 1000.0, opts.Fleet.CostThresholds["5A30"])
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  dbname: testdb
`,
			validate: func(t *testing.T, cfg *ReconcilerConfig) {
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 10, cfg.Database.MaxOpenConns)
				assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
				assert.Equal(t, 70*24*time.Hour, cfg.Reconciliation.AsofTolerance)
				assert.Equal(t, "config/components.json", cfg.Reconciliation.ComponentMappingPath)
				assert.Equal(t, "Factory Warranty", cfg.Reconciliation.FactoryWarranty)
				assert.Equal(t, 1.1, cfg.Reconciliation.Fleet.CostMultiplier)
				assert.Equal(t, "curated", cfg.Publish.Lake.Prefix)
				assert.Equal(t, uint64(5), cfg.Publish.MaxRetries)
				assert.Equal(t, 2*time.Minute, cfg.Publish.RetryMaxElapsed)
				assert.Equal(t, "CURATED_TABLES", cfg.NATS.StreamName)
				assert.Equal(t, "kverse-reconciler", cfg.Metrics.Job)

				opts := cfg.Reconciliation.PipelineOptions()
				assert.Equal(t, 180_000.0, opts.Fleet.CostThresholds["0980"])
				assert.Equal(t, 60_000.0, opts.Fleet.CostThresholds["5A30"])
			},
		},
		{
			name: "missing database name",
			configFile: `
database:
  host: localhost
`,
			expectError: true,
		},
		{
			name: "enabled lake without bucket",
			configFile: `
database:
  host: localhost
  dbname: testdb
publish:
  lake:
    enabled: true
`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadReconcilerConfig(writeConfig(t, tt.configFile), t.TempDir())
			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadWorkerConfig(t *testing.T) {
	configFile := writeConfig(t, `
database:
  host: localhost
  dbname: testdb
temporal:
  host_port: "temporal:7233"
  namespace: kverse
`)

	cfg, err := LoadWorkerConfig(configFile, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "temporal:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "kverse", cfg.Temporal.Namespace)
	assert.Equal(t, "reconciliation", cfg.Temporal.TaskQueue)
	assert.Equal(t, 4, cfg.Temporal.MaxConcurrentActivityExecutionSize)
	assert.Equal(t, 2*time.Second, cfg.NATS.ReconnectWait)
}

func TestLoadAPIConfig(t *testing.T) {
	configFile := writeConfig(t, `
server:
  port: 9090
database:
  host: localhost
  dbname: testdb
`)

	cfg, err := LoadAPIConfig(configFile, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.ReadTimeout)
	assert.Equal(t, 120, cfg.Server.IdleTimeout)
	assert.Equal(t, "localhost:7233", cfg.Temporal.HostPort)
}

func TestLoadAPIConfig_EnvOverride(t *testing.T) {
	t.Setenv("KVERSE_DATABASE_HOST", "db.internal")
	t.Setenv("KVERSE_DATABASE_DBNAME", "kverse")
	t.Setenv("KVERSE_SERVER_PORT", "8181")

	cfg, err := LoadAPIConfig(filepath.Join(t.TempDir(), "missing.yaml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "kverse", cfg.Database.DBName)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "kverse",
		Password: "secret",
		DBName:   "kverse",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=localhost port=5432 user=kverse password=secret dbname=kverse sslmode=disable", cfg.DSN())
}
