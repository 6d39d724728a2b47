package feedbackclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NomadCrew/feedback-service/config"
	"github.com/NomadCrew/feedback-service/handlers"
	"github.com/NomadCrew/feedback-service/internal/store/sqlite"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/router"
	"github.com/NomadCrew/feedback-service/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

// newTestServer runs the real API on an in-memory store.
func newTestServer(t *testing.T) *httptest.Server {
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
	return srv
}

func TestClient_CRUD(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL + "/api/")
	ctx := context.Background()

	items, err := client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)

	created, err := client.Create(ctx, "  Alice ", " Great course ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", created.Name)
	assert.Equal(t, "Great course", created.Message)

	got, err := client.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	updated, err := client.Update(ctx, created.ID, "Alice", "Edited")
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Message)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	removed, err := client.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)

	_, err = client.Delete(ctx, created.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "Feedback not found", Message(err))
}

func TestClient_ValidationError(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL + "/api")

	_, err := client.Create(context.Background(), "   ", "hello")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Please provide both name and message", Message(err))
}

func TestClient_Health(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(srv.URL + "/api")

	ping, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OK", ping.Status)
	assert.Equal(t, "Server is running", ping.Message)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := NewClient(baseURL)
	_, err := client.List(context.Background())

	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Equal(t, MsgUnavailable, Message(err))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := client.Get(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestClient_BranchesOnSuccessFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":false,"message":"Failed to fetch feedback","error":"DATABASE_ERROR"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).List(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Failed to fetch feedback", apiErr.Message)
	assert.Equal(t, "DATABASE_ERROR", apiErr.Code)
}

func TestClient_NonEnvelopeBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).List(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
