package middleware

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/NomadCrew/feedback-service/errors"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error pushed with c.Error as a failed
// envelope. Handlers that already wrote a response are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		err := last.Err

		// Handle AppError
		var appError *errors.AppError
		if stderrors.As(err, &appError) {
			statusCode := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))

			// Persistence and server details stay in the logs
			details := ""
			if appError.Type == errors.ValidationError || appError.Type == errors.NotFoundError || gin.IsDebugging() {
				details = appError.Detail
			}

			c.JSON(statusCode, types.ErrorResponse(string(appError.Type), appError.Message, details))
			return
		}

		// Handle Gin binding errors
		if last.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")
			c.JSON(http.StatusBadRequest, types.ErrorResponse(
				string(errors.ValidationError), "Invalid request body", err.Error()))
			return
		}

		// Handle unknown errors
		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")

		details := ""
		if gin.IsDebugging() {
			details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse(
			string(errors.ServerError), "Internal Server Error", details))
	}
}

// RecoveryHandler turns a panic into a SERVER_ERROR envelope.
func RecoveryHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogHTTPError(c, fmt.Errorf("panic: %v", recovered), http.StatusInternalServerError, "Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, types.ErrorResponse(
			string(errors.ServerError), "Internal Server Error", ""))
	})
}
