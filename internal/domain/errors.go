// Package domain contains the visualization pipeline's business types and errors.
// Domain errors represent pipeline failures, NOT HTTP errors.
// They are infrastructure-agnostic and are mapped to HTTP responses by adapters.
package domain

import (
	"errors"
	"fmt"
)

// evaluationPrefix precedes every evaluation failure message shown to clients.
const evaluationPrefix = "Error evaluating function: "

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates the expression text could not be parsed.
	ErrParse = errors.New("parse failed")

	// ErrEvaluationSetup indicates a parsed expression could not be turned into
	// a numeric evaluator (foreign symbols, undefined functions).
	ErrEvaluationSetup = errors.New("evaluation setup failed")

	// ErrEvaluation indicates numeric evaluation over the sample grid failed.
	ErrEvaluation = errors.New("evaluation failed")

	// ErrValidation indicates the request failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable indicates a required component is unavailable.
	ErrUnavailable = errors.New("unavailable")
)

// ErrorKind classifies pipeline failures for metrics and logs.
type ErrorKind string

// Error kinds reported by KindOf.
const (
	KindParse           ErrorKind = "parse"
	KindEvaluationSetup ErrorKind = "evaluation_setup"
	KindEvaluation      ErrorKind = "evaluation"
	KindValidation      ErrorKind = "validation"
	KindUnavailable     ErrorKind = "unavailable"
	KindInternal        ErrorKind = "internal"
)

// ParseError carries the parser's diagnostic for malformed expression text.
type ParseError struct {
	Input   string
	Message string
}

// Error returns the parser diagnostic verbatim.
func (e *ParseError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ParseError) Unwrap() error {
	return ErrParse
}

// NewParseError creates a parse error for input with the parser's diagnostic.
func NewParseError(input, message string) error {
	return &ParseError{Input: input, Message: message}
}

// EvaluationSetupError reports that a transformed expression cannot be compiled.
type EvaluationSetupError struct {
	Message string
}

// Error implements the error interface.
func (e *EvaluationSetupError) Error() string {
	return evaluationPrefix + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *EvaluationSetupError) Unwrap() error {
	return ErrEvaluationSetup
}

// NewEvaluationSetupError creates an evaluation setup error.
func NewEvaluationSetupError(message string) error {
	return &EvaluationSetupError{Message: message}
}

// EvaluationError reports a failure while evaluating over the sample grid.
type EvaluationError struct {
	Message string
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	return evaluationPrefix + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *EvaluationError) Unwrap() error {
	return ErrEvaluation
}

// NewEvaluationError creates an evaluation error.
func NewEvaluationError(message string) error {
	return &EvaluationError{Message: message}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Component string
	Reason    string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s unavailable: %s", e.Component, e.Reason)
	}

	return e.Component + " unavailable"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(component, reason string) error {
	return &UnavailableError{Component: component, Reason: reason}
}

// IsParse checks if an error is a parse error.
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsEvaluation checks if an error is an evaluation or evaluation setup error.
func IsEvaluation(err error) bool {
	return errors.Is(err, ErrEvaluation) || errors.Is(err, ErrEvaluationSetup)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// KindOf classifies err. It returns the empty kind for nil.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrEvaluationSetup):
		return KindEvaluationSetup
	case errors.Is(err, ErrEvaluation):
		return KindEvaluation
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	}
	return KindInternal
}
