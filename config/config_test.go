package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NomadCrew/feedback-service/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.True(t, cfg.Database.RunMigrations)
	assert.Contains(t, cfg.Database.URL, "student_feedback")
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("SERVER_ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "redis://localhost:6379/0")
	t.Setenv("DATABASE_QUERY_TIMEOUT", "2s")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://feedback.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "redis://localhost:6379/0", cfg.Database.URL)
	assert.Equal(t, 2*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://feedback.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		errText string
	}{
		{
			name:    "unsupported scheme",
			envVars: map[string]string{"DATABASE_URL": "mongodb://localhost:27017/student_feedback"},
			errText: "unsupported database URL scheme",
		},
		{
			name:    "non-positive timeout",
			envVars: map[string]string{"DATABASE_QUERY_TIMEOUT": "0s"},
			errText: "query timeout must be positive",
		},
		{
			name:    "bad origin",
			envVars: map[string]string{"ALLOWED_ORIGINS": "not a url"},
			errText: "invalid allowed origin",
		},
		{
			name:    "unknown environment",
			envVars: map[string]string{"SERVER_ENVIRONMENT": "staging"},
			errText: "unknown environment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := LoadConfig()
			assert.Nil(t, cfg)
			assert.ErrorContains(t, err, tt.errText)
		})
	}
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitOrigins([]string{"a,b", " c ", ""}))
	assert.Nil(t, splitOrigins(nil))
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `server:
  port: "9090"
  allowed_origins:
    - http://localhost:3000
  shutdown_timeout: 5s
database:
  url: "sqlite::memory:"
  query_timeout: 1s
  run_migrations: false
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	t.Setenv(ConfigFileEnvVar, path)
	t.Setenv("PORT", "7070")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port, "environment overrides the file")
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite::memory:", cfg.Database.URL)
	assert.Equal(t, time.Second, cfg.Database.QueryTimeout)
	assert.False(t, cfg.Database.RunMigrations)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Setenv(ConfigFileEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "failed to read config file")
}
