package exec

import (
	"errors"
	"fmt"
)

// Sentinel errors for call execution.
var (
	// ErrFunctionNotFound indicates the called function is not registered.
	ErrFunctionNotFound = errors.New("function not found")

	// ErrNoHandler indicates the function definition has no Go handler.
	ErrNoHandler = errors.New("function has no handler")

	// ErrArgumentBinding indicates the call's arguments do not match the
	// function's declared parameters.
	ErrArgumentBinding = errors.New("argument binding failed")

	// ErrExecutionTimeout indicates the handler exceeded its deadline.
	ErrExecutionTimeout = errors.New("execution timeout")

	// ErrExecutionCancelled indicates the context was cancelled.
	ErrExecutionCancelled = errors.New("execution cancelled")

	// ErrMaxConcurrencyReached indicates the context ended while the call
	// was queued waiting for an execution slot.
	ErrMaxConcurrencyReached = errors.New("maximum concurrent executions reached")

	// ErrHandlerPanic indicates the handler panicked; the panic is
	// recovered and reported as an error.
	ErrHandlerPanic = errors.New("handler panicked")
)

// ExecError reports a failure to execute a call.
type ExecError struct {
	// Function is the name of the function being called.
	Function string

	// Reason describes what went wrong.
	Reason string

	// Err is the matching sentinel error.
	Err error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("execute %q: %s", e.Function, e.Reason)
	}
	return fmt.Sprintf("execute call: %s", e.Reason)
}

// Unwrap returns the sentinel error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// newExecError creates an execution error bound to a function name.
func newExecError(sentinel error, function, format string, args ...any) *ExecError {
	return &ExecError{
		Function: function,
		Reason:   fmt.Sprintf(format, args...),
		Err:      sentinel,
	}
}
