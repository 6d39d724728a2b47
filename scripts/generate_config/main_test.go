package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NomadCrew/feedback-service/config"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestRenderConfig_RoundTrips(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:feedback.db")
	t.Setenv("DATABASE_QUERY_TIMEOUT", "750ms")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000")

	want, err := config.LoadConfig()
	require.NoError(t, err)

	data, err := renderConfig(want)
	require.NoError(t, err)
	assert.Contains(t, string(data), "query_timeout: 750ms")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("DATABASE_QUERY_TIMEOUT")
	os.Unsetenv("ALLOWED_ORIGINS")
	t.Setenv(config.ConfigFileEnvVar, path)

	got, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 750*time.Millisecond, got.Database.QueryTimeout)
}
