// Package config handles loading and validation of the feedback service
// configuration from environment variables and an optional YAML file.
// Configuration is read once at process start and never changes at runtime.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/NomadCrew/feedback-service/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment     Environment   `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port            string        `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins  []string      `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version         string        `mapstructure:"VERSION" yaml:"version"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout"`
}

// DatabaseConfig holds the feedback store connection details. The URL scheme
// selects the backend: postgres(ql)://, redis(s):// or sqlite:.
type DatabaseConfig struct {
	URL            string        `mapstructure:"URL" yaml:"url"`
	MaxConnections int           `mapstructure:"MAX_CONNECTIONS" yaml:"max_connections"`
	QueryTimeout   time.Duration `mapstructure:"QUERY_TIMEOUT" yaml:"query_timeout"`
	RunMigrations  bool          `mapstructure:"RUN_MIGRATIONS" yaml:"run_migrations"`
}

// TracingConfig controls OpenTelemetry request tracing.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"ENABLED" yaml:"enabled"`
	ServiceName string `mapstructure:"SERVICE_NAME" yaml:"service_name"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server   ServerConfig   `mapstructure:"SERVER" yaml:"server"`
	Database DatabaseConfig `mapstructure:"DATABASE" yaml:"database"`
	Tracing  TracingConfig  `mapstructure:"TRACING" yaml:"tracing"`
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// ConfigFileEnvVar names an optional YAML file read before environment overrides.
const ConfigFileEnvVar = "CONFIG_FILE"

var supportedSchemes = map[string]bool{
	"postgres":   true,
	"postgresql": true,
	"redis":      true,
	"rediss":     true,
	"sqlite":     true,
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SERVER.SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("DATABASE.URL", "postgres://postgres@localhost:5432/student_feedback?sslmode=disable")
	v.SetDefault("DATABASE.MAX_CONNECTIONS", 10)
	v.SetDefault("DATABASE.QUERY_TIMEOUT", "5s")
	v.SetDefault("DATABASE.RUN_MIGRATIONS", true)
	v.SetDefault("TRACING.ENABLED", false)
	v.SetDefault("TRACING.SERVICE_NAME", "feedback-service")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"SERVER.SHUTDOWN_TIMEOUT", "SHUTDOWN_TIMEOUT"},
		// Database config
		{"DATABASE.URL", "DATABASE_URL"},
		{"DATABASE.MAX_CONNECTIONS", "DATABASE_MAX_CONNECTIONS"},
		{"DATABASE.QUERY_TIMEOUT", "DATABASE_QUERY_TIMEOUT"},
		{"DATABASE.RUN_MIGRATIONS", "DATABASE_RUN_MIGRATIONS"},
		// Tracing config
		{"TRACING.ENABLED", "TRACING_ENABLED"},
		{"TRACING.SERVICE_NAME", "TRACING_SERVICE_NAME"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	// Environment variables still take precedence over file values.
	if path := os.Getenv(ConfigFileEnvVar); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}
	cfg.Server.AllowedOrigins = splitOrigins(cfg.Server.AllowedOrigins)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"database_url", logger.MaskConnectionString(cfg.Database.URL),
		"allowed_origins", cfg.Server.AllowedOrigins,
		"query_timeout", cfg.Database.QueryTimeout,
		"tracing_enabled", cfg.Tracing.Enabled,
	)
	return &cfg, nil
}

// splitOrigins accepts ALLOWED_ORIGINS as either a list or a single
// comma-separated string, which is how it arrives from the environment.
func splitOrigins(origins []string) []string {
	var out []string
	for _, entry := range origins {
		for _, origin := range strings.Split(entry, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	// Validate Server Config
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if cfg.Server.Environment != EnvDevelopment && cfg.Server.Environment != EnvProduction {
		return fmt.Errorf("unknown environment %q", cfg.Server.Environment)
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	// Validate Database Config
	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is required")
	}
	scheme := cfg.Database.URL
	if idx := strings.Index(scheme, ":"); idx != -1 {
		scheme = scheme[:idx]
	}
	if !supportedSchemes[strings.ToLower(scheme)] {
		return fmt.Errorf("unsupported database URL scheme %q (use postgres, redis or sqlite)", scheme)
	}
	if cfg.Database.QueryTimeout <= 0 {
		return fmt.Errorf("database query timeout must be positive")
	}
	if cfg.Database.MaxConnections < 0 {
		return fmt.Errorf("database max connections must not be negative")
	}

	return nil
}

// containsWildcard checks if the list of allowed origins contains the wildcard "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
