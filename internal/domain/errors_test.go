package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrParse,
		ErrEvaluationSetup,
		ErrEvaluation,
		ErrValidation,
		ErrUnavailable,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("x +* 2", "invalid syntax at position 4: unexpected '*'")

	assert.Equal(t, "invalid syntax at position 4: unexpected '*'", err.Error())
	require.ErrorIs(t, err, ErrParse)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "x +* 2", parseErr.Input)
	assert.Equal(t, ErrParse, parseErr.Unwrap())
}

func TestEvaluationErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		sentinel    error
		expectedMsg string
	}{
		{
			name:        "setup",
			err:         NewEvaluationSetupError("name 'y' is not defined"),
			sentinel:    ErrEvaluationSetup,
			expectedMsg: "Error evaluating function: name 'y' is not defined",
		},
		{
			name:        "evaluation",
			err:         NewEvaluationError("evaluation panicked: boom"),
			sentinel:    ErrEvaluation,
			expectedMsg: "Error evaluating function: evaluation panicked: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
			require.ErrorIs(t, tt.err, tt.sentinel)
			assert.True(t, IsEvaluation(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		message     string
		expectedMsg string
	}{
		{
			name:        "with field",
			field:       "function",
			message:     "must not be blank",
			expectedMsg: "validation failed for function: must not be blank",
		},
		{
			name:        "without field",
			field:       "",
			message:     "too few points to plot",
			expectedMsg: "validation failed: too few points to plot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrValidation)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
			assert.Equal(t, tt.message, validation.Message)
		})
	}
}

func TestValidationErrorWithValue(t *testing.T) {
	err := NewValidationErrorWithValue("width", "must be at least 100", 12)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, 12, validation.Value)
	assert.Equal(t, ErrValidation, validation.Unwrap())
}

func TestUnavailableError(t *testing.T) {
	tests := []struct {
		name        string
		component   string
		reason      string
		expectedMsg string
	}{
		{
			name:        "with reason",
			component:   "expression-pipeline",
			reason:      "canary returned no points",
			expectedMsg: "expression-pipeline unavailable: canary returned no points",
		},
		{
			name:        "without reason",
			component:   "chart",
			reason:      "",
			expectedMsg: "chart unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewUnavailableError(tt.component, tt.reason)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrUnavailable)

			var unavailable *UnavailableError
			require.ErrorAs(t, err, &unavailable)
			assert.Equal(t, tt.component, unavailable.Component)
			assert.Equal(t, tt.reason, unavailable.Reason)
		})
	}
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"IsParse with ParseError", NewParseError("(", "unexpected end"), IsParse, true},
		{"IsParse with wrapped", fmt.Errorf("wrapped: %w", ErrParse), IsParse, true},
		{"IsParse with other error", ErrEvaluation, IsParse, false},
		{"IsParse with nil", nil, IsParse, false},

		{"IsEvaluation with setup", ErrEvaluationSetup, IsEvaluation, true},
		{"IsEvaluation with evaluation", fmt.Errorf("wrapped: %w", ErrEvaluation), IsEvaluation, true},
		{"IsEvaluation with parse", ErrParse, IsEvaluation, false},

		{"IsValidation with ValidationError", NewValidationError("function", "blank"), IsValidation, true},
		{"IsValidation with other error", ErrParse, IsValidation, false},

		{"IsUnavailable with UnavailableError", NewUnavailableError("pipeline", "down"), IsUnavailable, true},
		{"IsUnavailable with nil", nil, IsUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "parse", err: NewParseError("(", "x"), want: KindParse},
		{name: "setup", err: NewEvaluationSetupError("x"), want: KindEvaluationSetup},
		{name: "evaluation", err: fmt.Errorf("outer: %w", NewEvaluationError("x")), want: KindEvaluation},
		{name: "validation", err: NewValidationError("", "x"), want: KindValidation},
		{name: "unavailable", err: NewUnavailableError("x", ""), want: KindUnavailable},
		{name: "unknown", err: errors.New("boom"), want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}
