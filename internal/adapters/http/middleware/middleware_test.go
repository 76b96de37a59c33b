package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/function-visualizer/internal/adapters/http/dto"
	"github.com/jsamuelsen/function-visualizer/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestIDMiddleware(t *testing.T) {
	middlewares := []struct {
		name       string
		middleware gin.HandlerFunc
		header     string
		get        func(*gin.Context) string
		logKey     string
	}{
		{name: "request id", middleware: RequestID(), header: HeaderRequestID, get: GetRequestID, logKey: "request_id"},
		{name: "correlation id", middleware: CorrelationID(), header: HeaderCorrelationID, get: GetCorrelationID, logKey: "correlation_id"},
	}

	tests := []struct {
		name          string
		incoming      string
		wantGenerated bool
	}{
		{name: "generates UUID when no header present", incoming: "", wantGenerated: true},
		{name: "passes through existing header", incoming: "existing-req-123", wantGenerated: false},
		{name: "replaces header with spaces", incoming: "two words", wantGenerated: true},
		{name: "replaces oversized header", incoming: strings.Repeat("a", maxIDLength+1), wantGenerated: true},
	}

	for _, mw := range middlewares {
		for _, tt := range tests {
			t.Run(mw.name+"/"+tt.name, func(t *testing.T) {
				var buf bytes.Buffer
				var captured string

				router := gin.New()
				router.Use(func(c *gin.Context) {
					c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), bufferLogger(&buf)))
					c.Next()
				})
				router.Use(mw.middleware)
				router.GET("/test", func(c *gin.Context) {
					captured = mw.get(c)
					logging.FromContext(c.Request.Context()).Info("handled")
					c.Status(http.StatusOK)
				})

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				if tt.incoming != "" {
					req.Header.Set(mw.header, tt.incoming)
				}

				router.ServeHTTP(w, req)

				require.Equal(t, http.StatusOK, w.Code)
				assert.Equal(t, captured, w.Header().Get(mw.header))

				if tt.wantGenerated {
					_, err := uuid.Parse(captured)
					assert.NoError(t, err)
				} else {
					assert.Equal(t, tt.incoming, captured)
				}

				var entry map[string]any
				require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
				assert.Equal(t, captured, entry[mw.logKey])
			})
		}
	}
}

func TestGetIDs_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetRequestID(c))
	assert.Empty(t, GetCorrelationID(c))
}

func TestUsableID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{id: "", want: false},
		{id: "abc-123", want: true},
		{id: "6f1c2f1e-5c1b-4a4e-9a53-1f0f3e0b2c11", want: true},
		{id: "tab\tinside", want: false},
		{id: "line\nbreak", want: false},
		{id: "ünïcode", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, usableID(tt.id))
		})
	}
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantLog   bool
		wantLevel string
	}{
		{name: "success is info", path: "/visualize", status: http.StatusOK, wantLog: true, wantLevel: "INFO"},
		{name: "client error is warn", path: "/visualize", status: http.StatusBadRequest, wantLog: true, wantLevel: "WARN"},
		{name: "server error is error", path: "/visualize", status: http.StatusInternalServerError, wantLog: true, wantLevel: "ERROR"},
		{name: "health endpoints are skipped", path: "/-/live", status: http.StatusOK, wantLog: false},
		{name: "static assets are skipped", path: "/static/app.js", status: http.StatusOK, wantLog: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			router := gin.New()
			router.Use(Logging(bufferLogger(&buf)))
			router.Any("/*path", func(c *gin.Context) {
				c.String(tt.status, "body")
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))

			if !tt.wantLog {
				assert.Empty(t, buf.String())
				return
			}

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "request completed", entry["msg"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.path, entry["path"])
			assert.Equal(t, "/*path", entry["route"])
			assert.InDelta(t, tt.status, entry["status"], 0)
			assert.InDelta(t, 4, entry["bytes"], 0)
		})
	}
}

func TestLogging_CustomSkipPrefixes(t *testing.T) {
	var buf bytes.Buffer

	router := gin.New()
	router.Use(Logging(bufferLogger(&buf), "/quiet"))
	router.GET("/quiet", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/-/live", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/quiet", nil))
	assert.Empty(t, buf.String())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/-/live", nil))
	assert.Contains(t, buf.String(), "request completed")
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer

	router := gin.New()
	router.Use(Recovery(bufferLogger(&buf)))
	router.GET("/panic", func(c *gin.Context) {
		panic("something went wrong")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "something went wrong", resp.Error)
	assert.Equal(t, dto.ErrorCodeInternal, resp.Code)

	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "stack")
}

func TestRecovery_AfterResponseStarted(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(bufferLogger(&bytes.Buffer{})))
	router.GET("/partial", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late failure")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/partial", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestTimeout_SetsContextDeadline(t *testing.T) {
	var hasDeadline bool

	router := gin.New()
	router.Use(Timeout(5 * time.Second))
	router.GET("/test", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, hasDeadline)
}

func TestTimeout_AnswersWhenHandlerWroteNothing(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(10 * time.Millisecond))
	router.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.JSONEq(t, `{"error":"request timeout exceeded","code":"TIMEOUT"}`, w.Body.String())
}

func TestTimeout_KeepsHandlerResponse(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(10 * time.Millisecond))
	router.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
		dto.HandleError(c, context.Cause(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, 1, strings.Count(w.Body.String(), `"code":"TIMEOUT"`))
}
