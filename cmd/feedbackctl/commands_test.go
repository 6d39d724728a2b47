package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/NomadCrew/feedback-service/config"
	"github.com/NomadCrew/feedback-service/handlers"
	"github.com/NomadCrew/feedback-service/internal/store/sqlite"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/pkg/feedbackclient"
	"github.com/NomadCrew/feedback-service/router"
	"github.com/NomadCrew/feedback-service/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func startAPI(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fs, err := sqlite.Open("sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })

	r := router.SetupRouter(router.Dependencies{
		Config: &config.Config{Server: config.ServerConfig{
			Environment:    config.EnvDevelopment,
			AllowedOrigins: []string{"*"},
		}},
		FeedbackHandler: handlers.NewFeedbackHandler(services.NewFeedbackService(fs, time.Second)),
		HealthHandler:   handlers.NewHealthHandler(services.NewHealthService(fs, "sqlite", "test")),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_SubmitListEditDelete(t *testing.T) {
	api := startAPI(t)

	out, err := execute(t, "", "--api-url", api, "submit", "--name", " Alice Smith ", "--message", "Great course")
	require.NoError(t, err)
	assert.Contains(t, out, "Feedback submitted successfully!")
	assert.Contains(t, out, "[AS] Alice Smith")

	items, err := feedbackclient.NewClient(api).List(t.Context())
	require.NoError(t, err)
	require.Len(t, items, 1)
	id := items[0].ID

	out, err = execute(t, "", "--api-url", api, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1 response\n")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Just now")

	out, err = execute(t, "", "--api-url", api, "edit", id, "--message", "Edited")
	require.NoError(t, err)
	assert.Contains(t, out, "Feedback updated successfully")
	assert.Contains(t, out, "message: Edited")
	assert.Contains(t, out, "Alice Smith")

	out, err = execute(t, "n\n", "--api-url", api, "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = execute(t, "", "--api-url", api, "delete", id, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Feedback deleted successfully")

	_, err = execute(t, "", "--api-url", api, "show", id)
	require.Error(t, err)
	assert.Equal(t, "Feedback not found", err.Error())
}

func TestCLI_SubmitValidation(t *testing.T) {
	api := startAPI(t)

	_, err := execute(t, "", "--api-url", api, "submit", "--name", "  ", "--message", "hi")
	require.Error(t, err)
	assert.Equal(t, "Please provide both name and message", err.Error())
}

func TestCLI_Unreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	_, err := execute(t, "", "--api-url", url, "list")
	require.Error(t, err)
	assert.Equal(t, feedbackclient.MsgUnavailableFetch, err.Error())
}

func TestCLI_Health(t *testing.T) {
	api := startAPI(t)

	out, err := execute(t, "", "--api-url", api, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "OK: Server is running")
}

func TestCLI_DeleteUnreachableDoesNotPrompt(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	out, err := execute(t, "y\n", "--api-url", url, "delete", "0192a6f0-0000-7000-8000-000000000000")
	require.Error(t, err)
	assert.Equal(t, feedbackclient.MsgUnavailableFetch, err.Error())
	assert.NotContains(t, out, "Are you sure")
}
