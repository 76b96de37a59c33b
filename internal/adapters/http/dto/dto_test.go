package dto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/function-visualizer/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewErrorResponse(t *testing.T) {
	got := NewErrorResponse(ErrorCodeParse, `invalid syntax at position 4: unexpected "*"`)

	assert.Equal(t, &ErrorResponse{
		Error: `invalid syntax at position 4: unexpected "*"`,
		Code:  ErrorCodeParse,
	}, got)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	details := map[string]string{"function": "this field is required"}

	got := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", details)

	assert.Equal(t, "request validation failed", got.Error)
	assert.Equal(t, ErrorCodeValidation, got.Code)
	assert.Equal(t, details, got.Details)
}

func TestErrorResponse_JSON(t *testing.T) {
	tests := []struct {
		name string
		resp *ErrorResponse
		want string
	}{
		{
			name: "minimal",
			resp: NewErrorResponse(ErrorCodeEvaluation, "Error evaluating function: name 'y' is not defined"),
			want: `{"error":"Error evaluating function: name 'y' is not defined","code":"EVALUATION_ERROR"}`,
		},
		{
			name: "with details and trace",
			resp: NewErrorResponseWithDetails(ErrorCodeValidation, "bad", map[string]string{"function": "must not be blank"}).
				WithTraceID("abc123"),
			want: `{"error":"bad","code":"VALIDATION_ERROR","details":{"function":"must not be blank"},"traceId":"abc123"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.resp)

			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{code: ErrorCodeParse, want: http.StatusBadRequest},
		{code: ErrorCodeEvaluation, want: http.StatusBadRequest},
		{code: ErrorCodeValidation, want: http.StatusBadRequest},
		{code: ErrorCodeBadRequest, want: http.StatusBadRequest},
		{code: ErrorCodeNotFound, want: http.StatusNotFound},
		{code: ErrorCodeMethodNotAllowed, want: http.StatusMethodNotAllowed},
		{code: ErrorCodeUnavailable, want: http.StatusServiceUnavailable},
		{code: ErrorCodeTimeout, want: http.StatusGatewayTimeout},
		{code: ErrorCodeInternal, want: http.StatusInternalServerError},
		{code: "SOMETHING_ELSE", want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func newJSONContext(body string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/visualize", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	return c
}

func TestBindAndValidate_VisualizeRequest(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		want        VisualizeRequest
		wantBinding bool
		wantFields  map[string]string
	}{
		{
			name: "valid",
			body: `{"function":"x**2","type":"derivative"}`,
			want: VisualizeRequest{Function: "x**2", Type: "derivative"},
		},
		{
			name: "type is optional",
			body: `{"function":"sin(x)"}`,
			want: VisualizeRequest{Function: "sin(x)"},
		},
		{
			name:       "missing function",
			body:       `{"type":"integral"}`,
			wantFields: map[string]string{"function": "this field is required"},
		},
		{
			name:       "blank function",
			body:       `{"function":"   "}`,
			wantFields: map[string]string{"function": "must not be blank"},
		},
		{
			name:        "wrong type",
			body:        `{"function":42}`,
			wantBinding: true,
		},
		{
			name:        "malformed json",
			body:        `{"function":`,
			wantBinding: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got VisualizeRequest

			err := BindAndValidate(newJSONContext(tt.body), &got)

			switch {
			case tt.wantBinding:
				require.ErrorIs(t, err, ErrBinding)
			case tt.wantFields != nil:
				require.ErrorIs(t, err, ErrValidation)
				assert.True(t, IsValidationError(err))
				assert.Equal(t, tt.wantFields, ValidationErrors(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBindQueryAndValidate_ChartQuery(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		want        ChartQuery
		wantBinding bool
		wantFields  map[string]string
	}{
		{name: "empty", query: "", want: ChartQuery{}},
		{name: "all set", query: "width=640&height=480&title=parabola", want: ChartQuery{Width: 640, Height: 480, Title: "parabola"}},
		{name: "too narrow", query: "width=50", wantFields: map[string]string{"width": "must be at least 100"}},
		{name: "too tall", query: "height=5000", wantFields: map[string]string{"height": "must be at most 4096"}},
		{name: "not a number", query: "width=wide", wantBinding: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/visualize/chart?"+tt.query, nil)
			var got ChartQuery

			err := BindQueryAndValidate(c, &got)

			switch {
			case tt.wantBinding:
				require.ErrorIs(t, err, ErrBinding)
			case tt.wantFields != nil:
				require.ErrorIs(t, err, ErrValidation)
				assert.Equal(t, tt.wantFields, ValidationErrors(err))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestValidationErrors_NonValidatorError(t *testing.T) {
	assert.Empty(t, ValidationErrors(assert.AnError))
	assert.False(t, IsValidationError(assert.AnError))
}

func TestMinMaxMessage(t *testing.T) {
	assert.Equal(t, "must be at least 3 characters", minMaxMessage("min", "3", reflect.String))
	assert.Equal(t, "must be at most 9", minMaxMessage("max", "9", reflect.Int))
}

func TestDescribe(t *testing.T) {
	got := Describe(map[string]string{
		"width":  "must be at least 100",
		"height": "must be at most 4096",
	})

	assert.Equal(t, "request validation failed: height: must be at most 4096; width: must be at least 100", got)
}

func TestVisualizeRequest_ToDomain(t *testing.T) {
	tests := []struct {
		reqType string
		want    domain.Transform
	}{
		{reqType: "derivative", want: domain.TransformDerivative},
		{reqType: "integral", want: domain.TransformIntegral},
		{reqType: "function", want: domain.TransformFunction},
		{reqType: "", want: domain.TransformFunction},
		{reqType: "fourier", want: domain.TransformFunction},
	}

	for _, tt := range tests {
		t.Run(tt.reqType, func(t *testing.T) {
			req := VisualizeRequest{Function: "x", Type: tt.reqType}

			got := req.ToDomain()

			assert.Equal(t, "x", got.Function)
			assert.Equal(t, tt.want, got.Transform)
		})
	}
}

func TestNewVisualizeResponse(t *testing.T) {
	t.Run("values carried over", func(t *testing.T) {
		got := NewVisualizeResponse(&domain.Visualization{
			XValues:  []float64{-1, 0, 1},
			YValues:  []float64{1, 0, 1},
			Equation: "f(x) = x^{2}",
		})

		body, err := json.Marshal(got)
		require.NoError(t, err)
		assert.JSONEq(t, `{"x_values":[-1,0,1],"y_values":[1,0,1],"equation":"f(x) = x^{2}"}`, string(body))
	})

	t.Run("nil slices encode as empty arrays", func(t *testing.T) {
		got := NewVisualizeResponse(&domain.Visualization{Equation: "f(x) = e^{x}"})

		body, err := json.Marshal(got)
		require.NoError(t, err)
		assert.JSONEq(t, `{"x_values":[],"y_values":[],"equation":"f(x) = e^{x}"}`, string(body))
	})
}

func TestChartQuery_ToDomain(t *testing.T) {
	q := ChartQuery{Width: 300, Height: 200, Title: "t"}

	assert.Equal(t, domain.ChartOptions{Title: "t", Width: 300, Height: 200}, q.ToDomain())
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails map[string]string
	}{
		{
			name:       "nil",
			err:        nil,
			wantStatus: http.StatusOK,
		},
		{
			name:        "parse error keeps the parser diagnostic",
			err:         fmt.Errorf("perform failed: %w", domain.NewParseError("x +* 2", `invalid syntax at position 4: unexpected "*"`)),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeParse,
			wantMessage: `invalid syntax at position 4: unexpected "*"`,
		},
		{
			name:        "evaluation setup error",
			err:         fmt.Errorf("perform failed: %w", domain.NewEvaluationSetupError("name 'y' is not defined")),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeEvaluation,
			wantMessage: "Error evaluating function: name 'y' is not defined",
		},
		{
			name:        "evaluation error",
			err:         domain.NewEvaluationError("evaluation panicked: boom"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeEvaluation,
			wantMessage: "Error evaluating function: evaluation panicked: boom",
		},
		{
			name:        "validation error",
			err:         domain.NewValidationError("function", "must not be blank"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: "validation failed for function: must not be blank",
			wantDetails: map[string]string{"function": "must not be blank"},
		},
		{
			name:        "unavailable",
			err:         domain.NewUnavailableError("expression-pipeline", "canary failed"),
			wantStatus:  http.StatusServiceUnavailable,
			wantCode:    ErrorCodeUnavailable,
			wantMessage: "expression-pipeline unavailable: canary failed",
		},
		{
			name:        "deadline",
			err:         fmt.Errorf("perform failed: %w", context.DeadlineExceeded),
			wantStatus:  http.StatusGatewayTimeout,
			wantCode:    ErrorCodeTimeout,
			wantMessage: "request timeout exceeded",
		},
		{
			name:        "internal keeps the diagnostic",
			err:         errors.New("verify failed: sample coordinates are misaligned"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrorCodeInternal,
			wantMessage: "verify failed: sample coordinates are misaligned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			if tt.err == nil {
				assert.Nil(t, resp)
				return
			}
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantMessage, resp.Error)
			assert.Equal(t, tt.wantDetails, resp.Details)
		})
	}
}

func TestHandleError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/visualize", nil)

	HandleError(c, domain.NewParseError("sin(x", `invalid syntax at position 6: expected ")" but found end of input`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t,
		`{"error":"invalid syntax at position 6: expected \")\" but found end of input","code":"PARSE_ERROR"}`,
		w.Body.String())
}

func TestHandleBindingError(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/visualize", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		var req VisualizeRequest

		HandleBindingError(c, BindAndValidate(c, &req))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var got ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, ErrorCodeValidation, got.Code)
		assert.Equal(t, "request validation failed: function: this field is required", got.Error)
		assert.Equal(t, map[string]string{"function": "this field is required"}, got.Details)
	})

	t.Run("binding", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/visualize", nil)

		HandleBindingError(c, fmt.Errorf("%w: unexpected EOF", ErrBinding))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"binding failed: unexpected EOF","code":"BAD_REQUEST"}`, w.Body.String())
	})
}

func TestAbortWithErrorCode(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/nope", nil)

	AbortWithErrorCode(c, ErrorCodeNotFound, "route not found")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"route not found","code":"NOT_FOUND"}`, w.Body.String())
}
