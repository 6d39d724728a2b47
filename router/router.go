package router

import (
	"net/http"

	"github.com/NomadCrew/feedback-service/config"
	_ "github.com/NomadCrew/feedback-service/docs"
	"github.com/NomadCrew/feedback-service/errors"
	"github.com/NomadCrew/feedback-service/handlers"
	"github.com/NomadCrew/feedback-service/middleware"
	"github.com/NomadCrew/feedback-service/types"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config          *config.Config
	FeedbackHandler *handlers.FeedbackHandler
	HealthHandler   *handlers.HealthHandler
	Logger          *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	// Global Middleware
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryHandler())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.TracingMiddleware(&deps.Config.Tracing))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and Metrics Routes
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/health", deps.HealthHandler.Ping)

		feedbackRoutes := api.Group("/feedback")
		{
			feedbackRoutes.GET("", deps.FeedbackHandler.ListFeedback)
			feedbackRoutes.POST("", deps.FeedbackHandler.SubmitFeedback)
			feedbackRoutes.GET("/:id", deps.FeedbackHandler.GetFeedback)
			feedbackRoutes.PUT("/:id", deps.FeedbackHandler.UpdateFeedback)
			feedbackRoutes.DELETE("/:id", deps.FeedbackHandler.DeleteFeedback)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.ErrorResponse(string(errors.NotFoundError), "Route not found", c.Request.URL.Path))
	})

	if deps.Logger != nil {
		deps.Logger.Infow("Router initialized", "routes", len(r.Routes()))
	}
	return r
}
