package client

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrStreamClosed  = errors.New("stream closed")
)

// ConfigError represents configuration-related errors
type ConfigError struct {
	Field string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field %s (value: %v): %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// APIError represents a non-success response from the inference endpoint.
type APIError struct {
	// Status is the HTTP status code.
	Status int

	// Body is the response body, truncated for diagnostics.
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inference endpoint returned %d: %s", e.Status, e.Body)
}
