package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/function-visualizer/internal/platform/logging"
)

// DefaultSkipPrefixes are the path prefixes Logging stays quiet for: health checks,
// metrics scrapes and front-end assets.
var DefaultSkipPrefixes = []string{"/-/", "/static/"}

// Logging returns middleware that logs one line per completed request with
// method, route, status, latency and response size. Requests whose path
// starts with one of skipPrefixes are not logged; with none given,
// DefaultSkipPrefixes apply.
//
// logger is used when the request context carries no logger of its own.
func Logging(logger *slog.Logger, skipPrefixes ...string) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	if len(skipPrefixes) == 0 {
		skipPrefixes = DefaultSkipPrefixes
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		ctx := c.Request.Context()
		logging.FromContextOr(ctx, logger).Log(ctx, level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
