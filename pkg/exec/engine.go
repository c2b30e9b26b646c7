package exec

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nexusflow/ravenutils/pkg/funcs"
	"github.com/nexusflow/ravenutils/pkg/output"
)

// Engine executes parsed calls against a function registry.
// It provides argument binding, type checking, timeout management,
// concurrency control, and panic recovery.
type Engine struct {
	registry *funcs.Registry

	// Configuration
	maxConcurrent  int
	defaultTimeout time.Duration
	log            *logrus.Logger

	// sem bounds the number of in-flight executions.
	sem chan struct{}

	metrics *Metrics
}

// Result is the outcome of a single call execution.
type Result struct {
	// ID uniquely identifies this execution.
	ID string `json:"id"`

	// Function is the name of the executed function.
	Function string `json:"function"`

	// Value is the handler's return value.
	Value any `json:"value,omitempty"`

	// Duration is how long the execution took.
	Duration time.Duration `json:"duration"`

	// Timestamp is when the execution completed.
	Timestamp time.Time `json:"timestamp"`
}

// Option configures the engine.
type Option func(*Engine)

// WithMaxConcurrent sets the maximum number of concurrent executions.
// Calls beyond the cap wait for a slot instead of failing.
func WithMaxConcurrent(max int) Option {
	return func(e *Engine) {
		e.maxConcurrent = max
	}
}

// WithDefaultTimeout sets the per-call execution timeout.
func WithDefaultTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		e.defaultTimeout = timeout
	}
}

// WithLogger sets the engine's logger. The engine is silent by default.
func WithLogger(log *logrus.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// NewEngine creates an execution engine over the given registry.
func NewEngine(registry *funcs.Registry, opts ...Option) *Engine {
	silent := logrus.New()
	silent.SetOutput(io.Discard)

	e := &Engine{
		registry:       registry,
		maxConcurrent:  16,
		defaultTimeout: 30 * time.Second,
		log:            silent,
		metrics:        newMetrics(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxConcurrent < 1 {
		e.maxConcurrent = 1
	}
	e.sem = make(chan struct{}, e.maxConcurrent)
	return e
}

// Execute runs a single parsed call and returns its result.
// Nested calls appearing as argument values are executed first and their
// results substituted into the argument list.
func (e *Engine) Execute(ctx context.Context, call *output.CallExpr) (*Result, error) {
	fn, err := e.registry.Get(call.Name)
	if err != nil {
		return nil, newExecError(ErrFunctionNotFound, call.Name, "not registered")
	}
	if fn.Handler == nil {
		return nil, newExecError(ErrNoHandler, call.Name, "definition has no handler")
	}

	args, err := e.bindArgs(ctx, fn, call)
	if err != nil {
		return nil, err
	}

	if err := e.acquire(ctx, call.Name); err != nil {
		return nil, err
	}
	defer e.release()

	execCtx, cancel := context.WithTimeout(ctx, e.defaultTimeout)
	defer cancel()

	id := uuid.NewString()
	start := time.Now()

	e.log.WithFields(logrus.Fields{
		"execution_id": id,
		"function":     call.Name,
	}).Debug("executing call")

	value, err := e.invoke(execCtx, fn, args)
	duration := time.Since(start)
	e.metrics.record(call.Name, err == nil, duration)

	if err != nil {
		e.log.WithFields(logrus.Fields{
			"execution_id": id,
			"function":     call.Name,
			"duration":     duration,
		}).WithError(err).Warn("call failed")
		return nil, err
	}

	return &Result{
		ID:        id,
		Function:  call.Name,
		Value:     value,
		Duration:  duration,
		Timestamp: time.Now(),
	}, nil
}

// ExecuteAll runs several calls concurrently and returns their results in
// input order. The first failure cancels the remaining calls.
func (e *Engine) ExecuteAll(ctx context.Context, calls []*output.CallExpr) ([]*Result, error) {
	results := make([]*Result, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			result, err := e.Execute(gctx, call)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Metrics returns a snapshot of the engine's execution statistics.
func (e *Engine) Metrics() MetricsSnapshot {
	return e.metrics.snapshot()
}

// acquire waits for an execution slot, honoring context cancellation.
// Calls beyond the concurrency cap queue rather than fail.
func (e *Engine) acquire(ctx context.Context, function string) error {
	select {
	case e.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return newExecError(ErrMaxConcurrencyReached, function, "wait for execution slot: %v", ctx.Err())
	}
}

// release frees an execution slot.
func (e *Engine) release() {
	<-e.sem
}

// invoke runs the handler with panic recovery, honoring context
// cancellation.
func (e *Engine) invoke(ctx context.Context, fn *funcs.Function, args map[string]any) (any, error) {
	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: newExecError(ErrHandlerPanic, fn.Name, "recovered: %v", r)}
			}
		}()
		value, err := fn.Handler(ctx, args)
		done <- outcome{value: value, err: err}
	}()

	select {
	case o := <-done:
		// Handlers that honor the context return its error directly.
		switch {
		case errors.Is(o.err, context.DeadlineExceeded):
			return nil, newExecError(ErrExecutionTimeout, fn.Name, "deadline exceeded")
		case errors.Is(o.err, context.Canceled):
			return nil, newExecError(ErrExecutionCancelled, fn.Name, "context cancelled")
		}
		return o.value, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, newExecError(ErrExecutionTimeout, fn.Name, "deadline exceeded")
		}
		return nil, newExecError(ErrExecutionCancelled, fn.Name, "context cancelled")
	}
}

// bindArgs maps the call's positional and keyword arguments onto the
// function's declared parameters, applies defaults, and checks declared
// types. Nested calls are evaluated through the engine.
func (e *Engine) bindArgs(ctx context.Context, fn *funcs.Function, call *output.CallExpr) (map[string]any, error) {
	if len(call.Args) > len(fn.Arguments) {
		return nil, newExecError(ErrArgumentBinding, fn.Name,
			"takes %d arguments, got %d positional", len(fn.Arguments), len(call.Args))
	}

	bound := make(map[string]any, len(fn.Arguments))

	for i, value := range call.Args {
		arg := fn.Arguments[i]
		resolved, err := e.resolveValue(ctx, value)
		if err != nil {
			return nil, err
		}
		if err := checkArgType(fn.Name, arg, resolved); err != nil {
			return nil, err
		}
		bound[arg.Name] = resolved
	}

	for _, kw := range call.Kwargs {
		arg := fn.Argument(kw.Name)
		if arg == nil {
			return nil, newExecError(ErrArgumentBinding, fn.Name, "unknown argument %q", kw.Name)
		}
		if _, exists := bound[kw.Name]; exists {
			return nil, newExecError(ErrArgumentBinding, fn.Name, "argument %q given twice", kw.Name)
		}
		resolved, err := e.resolveValue(ctx, kw.Value)
		if err != nil {
			return nil, err
		}
		if err := checkArgType(fn.Name, arg, resolved); err != nil {
			return nil, err
		}
		bound[kw.Name] = resolved
	}

	for _, arg := range fn.Arguments {
		if _, exists := bound[arg.Name]; exists {
			continue
		}
		if arg.Required() {
			return nil, newExecError(ErrArgumentBinding, fn.Name, "missing required argument %q", arg.Name)
		}
		bound[arg.Name] = arg.Default
	}

	return bound, nil
}

// resolveValue converts a parsed value to a plain Go value, executing
// nested calls innermost-first.
func (e *Engine) resolveValue(ctx context.Context, value output.Value) (any, error) {
	switch value.Kind {
	case output.KindCall:
		result, err := e.Execute(ctx, value.Call)
		if err != nil {
			return nil, err
		}
		return result.Value, nil

	case output.KindList:
		list := make([]any, len(value.List))
		for i, item := range value.List {
			resolved, err := e.resolveValue(ctx, item)
			if err != nil {
				return nil, err
			}
			list[i] = resolved
		}
		return list, nil

	case output.KindDict:
		dict := make(map[string]any, len(value.Dict))
		for _, entry := range value.Dict {
			if entry.Key.Kind != output.KindString {
				return nil, newExecError(ErrArgumentBinding, "", "dict key %s is not a string", entry.Key)
			}
			resolved, err := e.resolveValue(ctx, entry.Value)
			if err != nil {
				return nil, err
			}
			dict[entry.Key.Str] = resolved
		}
		return dict, nil

	default:
		return value.Interface()
	}
}

// checkArgType verifies a resolved value against the declared argument
// type. None is accepted for any declared type.
func checkArgType(function string, arg *funcs.Argument, value any) error {
	if arg.Type == "" || value == nil {
		return nil
	}

	ok := true
	switch arg.Type {
	case funcs.TypeString:
		_, ok = value.(string)
	case funcs.TypeInt:
		switch value.(type) {
		case int, int64:
		default:
			ok = false
		}
	case funcs.TypeFloat:
		switch value.(type) {
		case float64, float32, int, int64:
		default:
			ok = false
		}
	case funcs.TypeBool:
		_, ok = value.(bool)
	case funcs.TypeList:
		_, ok = value.([]any)
	case funcs.TypeDict:
		_, ok = value.(map[string]any)
	}

	if !ok {
		return newExecError(ErrArgumentBinding, function,
			"argument %q expects %s, got %T", arg.Name, arg.Type, value)
	}
	return nil
}
