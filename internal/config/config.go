package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/cecilvega/kverse-sub000/internal/changeout"
	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/fleet"
	"github.com/cecilvega/kverse-sub000/internal/lifecycle"
	"github.com/cecilvega/kverse-sub000/internal/linker"
	"github.com/cecilvega/kverse-sub000/internal/pipeline"
	"github.com/cecilvega/kverse-sub000/internal/reparation"
)

var validate = validator.New()

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host" validate:"required"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname" validate:"required"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// TemporalConfig holds Temporal configuration
type TemporalConfig struct {
	HostPort                           string  `mapstructure:"host_port" validate:"required"`
	Namespace                          string  `mapstructure:"namespace"`
	TaskQueue                          string  `mapstructure:"task_queue" validate:"required"`
	MaxConcurrentActivityExecutionSize int     `mapstructure:"max_concurrent_activity_execution_size"`
	WorkerActivitiesPerSecond          float64 `mapstructure:"worker_activities_per_second"`
	MaxConcurrentActivityTaskPollers   int     `mapstructure:"max_concurrent_activity_task_pollers"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port" validate:"gt=0"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// CORSAllowedOrigins restricts browser clients, empty allows every origin
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// AuthConfig holds the credentials accepted by the run trigger
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// FleetConfig holds the fleet bound constants
type FleetConfig struct {
	LowerBoundFloorHours float64            `mapstructure:"lower_bound_floor_hours"`
	BoundStdFactor       float64            `mapstructure:"bound_std_factor"`
	UpperBoundP75Factor  float64            `mapstructure:"upper_bound_p75_factor"`
	UpperBoundMeanFactor float64            `mapstructure:"upper_bound_mean_factor"`
	CostThresholds       map[string]float64 `mapstructure:"cost_thresholds"`
	CostMultiplier       float64            `mapstructure:"cost_multiplier"`
}

// ReconciliationConfig holds the tunables of the reconciliation stages
type ReconciliationConfig struct {
	SiteName              string        `mapstructure:"site_name"`
	ComponentMappingPath  string        `mapstructure:"component_mapping_path" validate:"required"`
	AsofTolerance         time.Duration `mapstructure:"asof_tolerance" validate:"gt=0"`
	ExcludedSubcomponents []string      `mapstructure:"excluded_subcomponents"`
	FactoryWarranty       string        `mapstructure:"factory_warranty"`
	TracerPoolSize        int           `mapstructure:"tracer_pool_size" validate:"gte=0"`
	Fleet                 FleetConfig   `mapstructure:"fleet"`
}

// S3Config holds the data lake bucket configuration
type S3Config struct {
	Enabled         bool   `mapstructure:"enabled"`
	Bucket          string `mapstructure:"bucket" validate:"required_if=Enabled true"`
	Prefix          string `mapstructure:"prefix"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// GCSConfig holds the collaboration bucket configuration
type GCSConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Bucket          string `mapstructure:"bucket" validate:"required_if=Enabled true"`
	Prefix          string `mapstructure:"prefix"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// PublishConfig holds the curated table publication targets
type PublishConfig struct {
	Lake            S3Config      `mapstructure:"lake"`
	Collaboration   GCSConfig     `mapstructure:"collaboration"`
	MaxRetries      uint64        `mapstructure:"max_retries"`
	RetryMaxElapsed time.Duration `mapstructure:"retry_max_elapsed"`
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

// ReconcilerConfig holds configuration for the reconciler CLI
type ReconcilerConfig struct {
	BaseConfig     `mapstructure:",squash"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Reconciliation ReconciliationConfig `mapstructure:"reconciliation"`
	Publish        PublishConfig        `mapstructure:"publish"`
	NATS           NATSConfig           `mapstructure:"nats"`
	Metrics        MetricsConfig        `mapstructure:"metrics"`
}

// WorkerConfig holds configuration for the Temporal worker
type WorkerConfig struct {
	BaseConfig     `mapstructure:",squash"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Temporal       TemporalConfig       `mapstructure:"temporal"`
	Reconciliation ReconciliationConfig `mapstructure:"reconciliation"`
	Publish        PublishConfig        `mapstructure:"publish"`
	NATS           NATSConfig           `mapstructure:"nats"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig     `mapstructure:",squash"`
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Temporal       TemporalConfig       `mapstructure:"temporal"`
	Reconciliation ReconciliationConfig `mapstructure:"reconciliation"`
	Auth           AuthConfig           `mapstructure:"auth"`
}

// LoadReconcilerConfig loads configuration for the reconciler CLI
func LoadReconcilerConfig(configFile string, envPath string) (*ReconcilerConfig, error) {
	v := configureViper("reconciler", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	setReconciliationDefaults(v)
	setPublishDefaults(v)
	setNATSDefaults(v)
	v.SetDefault("metrics.job", "kverse-reconciler")

	var config ReconcilerConfig
	if err := load(v, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadWorkerConfig loads configuration for the Temporal worker
func LoadWorkerConfig(configFile string, envPath string) (*WorkerConfig, error) {
	v := configureViper("worker", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	setReconciliationDefaults(v)
	setPublishDefaults(v)
	setNATSDefaults(v)
	setTemporalDefaults(v)

	var config WorkerConfig
	if err := load(v, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	setReconciliationDefaults(v)
	setTemporalDefaults(v)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)

	var config APIConfig
	if err := load(v, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// load reads the config file if present, unmarshals and validates it
func load(v *viper.Viper, config interface{}) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use environment variables
	}

	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
}

func setReconciliationDefaults(v *viper.Viper) {
	v.SetDefault("reconciliation.component_mapping_path", "config/components.json")
	v.SetDefault("reconciliation.asof_tolerance", domain.ASOF_TOLERANCE)
	v.SetDefault("reconciliation.excluded_subcomponents", domain.DefaultExcludedSubcomponents)
	v.SetDefault("reconciliation.factory_warranty", domain.FACTORY_WARRANTY)
	v.SetDefault("reconciliation.tracer_pool_size", lifecycle.DEFAULT_WORKER_POOL_SIZE)
	v.SetDefault("reconciliation.fleet.lower_bound_floor_hours", domain.LOWER_BOUND_FLOOR_HOURS)
	v.SetDefault("reconciliation.fleet.bound_std_factor", domain.BOUND_STD_FACTOR)
	v.SetDefault("reconciliation.fleet.upper_bound_p75_factor", domain.UPPER_BOUND_P75_FACTOR)
	v.SetDefault("reconciliation.fleet.upper_bound_mean_factor", domain.UPPER_BOUND_MEAN_FACTOR)
	v.SetDefault("reconciliation.fleet.cost_thresholds", domain.DefaultCostThresholds)
	v.SetDefault("reconciliation.fleet.cost_multiplier", domain.COST_BOUND_MULTIPLIER)
}

func setPublishDefaults(v *viper.Viper) {
	v.SetDefault("publish.lake.prefix", "curated")
	v.SetDefault("publish.lake.region", "us-east-1")
	v.SetDefault("publish.collaboration.prefix", "reconciliation")
	v.SetDefault("publish.max_retries", 5)
	v.SetDefault("publish.retry_max_elapsed", "2m")
}

func setNATSDefaults(v *viper.Viper) {
	v.SetDefault("nats.stream_name", "CURATED_TABLES")
	v.SetDefault("nats.subject_prefix", "curated")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.connection_name", "kverse")
}

func setTemporalDefaults(v *viper.Viper) {
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "reconciliation")
	v.SetDefault("temporal.max_concurrent_activity_execution_size", 4)
	v.SetDefault("temporal.worker_activities_per_second", 10)
	v.SetDefault("temporal.max_concurrent_activity_task_pollers", 2)
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/reconciler/, cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("KVERSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Temporal
		"temporal.host_port",
		"temporal.namespace",
		"temporal.task_queue",
		"temporal.max_concurrent_activity_execution_size",
		"temporal.worker_activities_per_second",
		"temporal.max_concurrent_activity_task_pollers",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Reconciliation
		"reconciliation.site_name",
		"reconciliation.component_mapping_path",
		"reconciliation.asof_tolerance",
		"reconciliation.factory_warranty",
		"reconciliation.tracer_pool_size",
		"reconciliation.fleet.lower_bound_floor_hours",
		"reconciliation.fleet.cost_multiplier",
		// Publish
		"publish.lake.enabled",
		"publish.lake.bucket",
		"publish.lake.prefix",
		"publish.lake.region",
		"publish.lake.endpoint",
		"publish.lake.access_key_id",
		"publish.lake.secret_access_key",
		"publish.lake.use_path_style",
		"publish.collaboration.enabled",
		"publish.collaboration.bucket",
		"publish.collaboration.prefix",
		"publish.collaboration.credentials_file",
		"publish.max_retries",
		"publish.retry_max_elapsed",
		// Metrics
		"metrics.pushgateway_url",
		"metrics.job",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// PipelineOptions converts the reconciliation tunables into pipeline options
func (c *ReconciliationConfig) PipelineOptions() pipeline.Options {
	// viper lowercases map keys, subcomponent tags are upper case
	costThresholds := make(map[string]float64, len(c.Fleet.CostThresholds))
	for tag, threshold := range c.Fleet.CostThresholds {
		costThresholds[strings.ToUpper(tag)] = threshold
	}

	return pipeline.Options{
		Changeout: changeout.Options{ExcludedSubcomponents: c.ExcludedSubcomponents},
		Linker:    linker.Options{Tolerance: c.AsofTolerance},
		Reparation: reparation.Options{
			SiteName:        c.SiteName,
			FactoryWarranty: c.FactoryWarranty,
		},
		Fleet: fleet.Config{
			LowerBoundFloorHours: c.Fleet.LowerBoundFloorHours,
			BoundStdFactor:       c.Fleet.BoundStdFactor,
			UpperBoundP75Factor:  c.Fleet.UpperBoundP75Factor,
			UpperBoundMeanFactor: c.Fleet.UpperBoundMeanFactor,
			CostThresholds:       costThresholds,
			CostMultiplier:       c.Fleet.CostMultiplier,
		},
		TracerPoolSize: c.TracerPoolSize,
	}
}
