package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/function-visualizer/internal/adapters/http/dto"
	"github.com/jsamuelsen/function-visualizer/internal/adapters/http/handlers"
	"github.com/jsamuelsen/function-visualizer/internal/adapters/http/middleware"
	"github.com/jsamuelsen/function-visualizer/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default deadline of a plotting request.
const DefaultRequestTimeout = 10 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// ServiceName names the service in traces and metrics.
	ServiceName string

	// Timeout bounds the plotting routes. Zero disables it.
	Timeout time.Duration

	HealthHandler    *handlers.HealthHandler
	VisualizeHandler *handlers.VisualizeHandler
	StaticHandler    *handlers.StaticHandler
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - propagate a client's correlation ID
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging (skips health endpoints and assets)
//  6. Timeout - request deadline on the plotting routes
//
// Routes:
//   - / and /static/: the front end
//   - /visualize and /visualize/chart: the pipeline
//   - /-/: health, build info and metrics, without timeout
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging(cfg.Logger))

	engine.HandleMethodNotAllowed = true
	engine.NoRoute(func(c *gin.Context) {
		dto.RespondWithErrorCode(c, dto.ErrorCodeNotFound, "route not found")
	})
	engine.NoMethod(func(c *gin.Context) {
		dto.RespondWithErrorCode(c, dto.ErrorCodeMethodNotAllowed, "method not allowed")
	})

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutes(engine)
	}

	if cfg.StaticHandler != nil {
		cfg.StaticHandler.RegisterStaticRoutes(engine)
	}

	if cfg.VisualizeHandler != nil {
		api := engine.Group("")
		if cfg.Timeout > 0 {
			api.Use(middleware.Timeout(cfg.Timeout))
		}
		cfg.VisualizeHandler.RegisterVisualizeRoutes(api)
	}
}
