package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/function-visualizer/internal/domain"
	"github.com/jsamuelsen/function-visualizer/internal/platform/logging"
)

// Every pipeline request runs as Validate → Perform → Verify → Respond.
//
//  1. VALIDATE - reject input that cannot be computed at all
//  2. PERFORM  - parse, transform, render, compile and evaluate
//  3. VERIFY   - filter the samples and check the result invariants
//  4. RESPOND  - assemble the value returned to the caller
//
// Each step is logged at debug level, and failures carry the step name.

// ExecutionStep names a step of an operation.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records the step a failure happened in. It unwraps to the
// cause so the domain error stays visible to errors.Is and errors.As.
type ExecutionError struct {
	Step  ExecutionStep
	Cause error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Executor runs operations step by step with logging.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates a new executor with the given logger.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation defines the functions for each step. Nil steps are skipped and
// pass zero values along.
type Operation[I, P, V, O any] struct {
	// Name identifies this operation for logging.
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Respond  func(ctx context.Context, input I, verified V) (O, error)
}

// Execute runs op over input. The request logger in ctx is preferred over the
// executor's own logger.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var zero O

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	if op.Validate != nil {
		if err := runStep(ctx, logger, StepValidate, func() error { return op.Validate(ctx, input) }); err != nil {
			return zero, err
		}
	}

	var performed P
	if op.Perform != nil {
		err := runStep(ctx, logger, StepPerform, func() (err error) {
			performed, err = op.Perform(ctx, input)
			return err
		})
		if err != nil {
			return zero, err
		}
	}

	var verified V
	if op.Verify != nil {
		err := runStep(ctx, logger, StepVerify, func() (err error) {
			verified, err = op.Verify(ctx, input, performed)
			return err
		})
		if err != nil {
			return zero, err
		}
	}

	result := zero
	if op.Respond != nil {
		err := runStep(ctx, logger, StepRespond, func() (err error) {
			result, err = op.Respond(ctx, input, verified)
			return err
		})
		if err != nil {
			return zero, err
		}
	}

	logger.DebugContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}

func runStep(ctx context.Context, logger *slog.Logger, step ExecutionStep, fn func() error) error {
	logger.DebugContext(ctx, "starting step", slog.String("step", string(step)))

	err := fn()
	if err == nil {
		return nil
	}

	kind := domain.KindOf(err)
	level := slog.LevelError
	if kind != domain.KindInternal || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "step failed",
		slog.String("step", string(step)),
		slog.String("kind", string(kind)),
		slog.Any("error", err),
	)

	return &ExecutionError{Step: step, Cause: err}
}

// GetExecutionStep extracts the step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
