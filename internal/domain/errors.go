package domain

import "fmt"

// Error types for consistent error handling across the service.
// Everything inside the engine degrades to zero instead of failing; these
// types cover the few conditions that must surface to callers.

// ErrInvalidRange indicates a date range where end precedes start.
type ErrInvalidRange struct {
	Start string
	End   string
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid date range: end %s precedes start %s", e.End, e.Start)
}

// ErrNoData indicates a computation was requested over an empty input
// collection. Distinct from a zero-valued result: "nothing happened" vs
// "it happened with zero values".
type ErrNoData struct {
	Resource string
}

func (e *ErrNoData) Error() string {
	return fmt.Sprintf("no data available: %s", e.Resource)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}
