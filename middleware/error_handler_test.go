package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	customErrors "github.com/NomadCrew/feedback-service/errors"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name               string
		err                error
		ginErrorType       gin.ErrorType
		expectedStatusCode int
		expectedBody       *types.Envelope
	}{
		{
			name:               "Standard Go Error",
			err:                errors.New("internal processing error"),
			ginErrorType:       gin.ErrorTypePrivate,
			expectedStatusCode: http.StatusInternalServerError,
			expectedBody: &types.Envelope{
				Error:   "SERVER_ERROR",
				Message: "Internal Server Error",
			},
		},
		{
			name:               "Gin Bind Error",
			err:                errors.New("unexpected EOF"),
			ginErrorType:       gin.ErrorTypeBind,
			expectedStatusCode: http.StatusBadRequest,
			expectedBody: &types.Envelope{
				Error:   "VALIDATION_ERROR",
				Message: "Invalid request body",
				Details: "unexpected EOF",
			},
		},
		{
			name:               "Not Found Error",
			err:                customErrors.NotFound("Feedback", "abc"),
			ginErrorType:       gin.ErrorTypePublic,
			expectedStatusCode: http.StatusNotFound,
			expectedBody: &types.Envelope{
				Error:   "NOT_FOUND",
				Message: "Feedback not found",
				Details: "ID: abc",
			},
		},
		{
			name:               "Validation Error",
			err:                customErrors.ValidationFailed("Please provide both name and message", "name is required"),
			ginErrorType:       gin.ErrorTypePublic,
			expectedStatusCode: http.StatusBadRequest,
			expectedBody: &types.Envelope{
				Error:   "VALIDATION_ERROR",
				Message: "Please provide both name and message",
				Details: "name is required",
			},
		},
		{
			name:               "Persistence Error hides cause",
			err:                customErrors.PersistenceFailed("Failed to fetch feedback", errors.New("dial tcp 10.0.0.1:5432: refused")),
			ginErrorType:       gin.ErrorTypePrivate,
			expectedStatusCode: http.StatusInternalServerError,
			expectedBody: &types.Envelope{
				Error:   "DATABASE_ERROR",
				Message: "Failed to fetch feedback",
			},
		},
		{
			name:               "No Error",
			err:                nil,
			expectedStatusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(ErrorHandler())
			router.GET("/test", func(c *gin.Context) {
				if tc.err != nil {
					_ = c.Error(tc.err).SetType(tc.ginErrorType)
					return
				}
				c.JSON(http.StatusOK, types.SuccessResponse(nil, "ok"))
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/test", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatusCode, w.Code)
			if tc.expectedBody == nil {
				return
			}

			var body types.Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tc.expectedBody.Error, body.Error)
			assert.Equal(t, tc.expectedBody.Message, body.Message)
			assert.Equal(t, tc.expectedBody.Details, body.Details)
			assert.Nil(t, body.Data)
		})
	}
}

func TestErrorHandler_ResponseAlreadyWritten(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"kept": true})
		_ = c.Error(errors.New("late error"))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"kept":true}`, w.Body.String())
}

func TestRecoveryHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RecoveryHandler())
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/panic", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"SERVER_ERROR","message":"Internal Server Error"}`, w.Body.String())
}
