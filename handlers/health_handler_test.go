package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NomadCrew/feedback-service/services"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func setupHealthRouter(pingErr error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHealthHandler(services.NewHealthService(stubPinger{err: pingErr}, "sqlite", "test"))

	router := gin.New()
	router.GET("/api/health", handler.Ping)
	router.GET("/health/liveness", handler.LivenessCheck)
	router.GET("/health/readiness", handler.ReadinessCheck)
	return router
}

func TestHealthHandler_Ping(t *testing.T) {
	router := setupHealthRouter(errors.New("store down"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var ping types.Ping
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ping))
	assert.Equal(t, "OK", ping.Status)
	assert.Equal(t, "Server is running", ping.Message)
	assert.NotEmpty(t, ping.Timestamp)
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedStatus int
	}{
		{"store up", nil, http.StatusOK},
		{"store down", errors.New("connection refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupHealthRouter(tt.pingErr)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/health/readiness", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	router := setupHealthRouter(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health/liveness", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
