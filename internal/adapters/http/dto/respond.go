package dto

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/function-visualizer/internal/domain"
	"github.com/jsamuelsen/function-visualizer/internal/platform/logging"
)

// MapDomainError maps an error to an HTTP status code and error response.
// Pipeline failures answer 400 with the diagnostic as the error text; unknown
// errors answer 500 with their own text.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	var (
		parseErr      *domain.ParseError
		setupErr      *domain.EvaluationSetupError
		evalErr       *domain.EvaluationError
		validationErr *domain.ValidationError
		unavailable   *domain.UnavailableError
	)

	switch {
	case errors.As(err, &parseErr):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeParse, parseErr.Error())

	case errors.As(err, &setupErr):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeEvaluation, setupErr.Error())

	case errors.As(err, &evalErr):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeEvaluation, evalErr.Error())

	case errors.As(err, &validationErr):
		resp := NewErrorResponse(ErrorCodeValidation, validationErr.Error())
		if validationErr.Field != "" {
			resp.Details = map[string]string{validationErr.Field: validationErr.Message}
		}

		return http.StatusBadRequest, resp

	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, unavailable.Error())

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, NewErrorResponse(ErrorCodeTimeout, "request timeout exceeded")

	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, err.Error())
	}
}

// GetTraceID returns the trace ID of the request span, or "" without one.
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// HandleError writes the mapped error response for err. Internal errors are
// logged with the request logger.
func HandleError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)
	errResp.TraceID = GetTraceID(c)

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("internal error",
			"error", err.Error(),
			"trace_id", errResp.TraceID,
		)
	}

	c.JSON(status, errResp)
}

// RespondWithErrorCode writes an error response with a specific error code.
// Use this for adapter-level errors (malformed bodies, unknown routes) that
// don't originate from domain errors.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	c.JSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// AbortWithErrorCode aborts the request chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// HandleBindingError answers a failed BindAndValidate or BindQueryAndValidate
// call: field failures as a validation error, anything else as a bad request.
func HandleBindingError(c *gin.Context, err error) {
	if IsValidationError(err) {
		fieldErrors := ValidationErrors(err)
		c.JSON(http.StatusBadRequest,
			NewErrorResponseWithDetails(ErrorCodeValidation, Describe(fieldErrors), fieldErrors).
				WithTraceID(GetTraceID(c)))
		return
	}

	RespondWithErrorCode(c, ErrorCodeBadRequest, err.Error())
}
