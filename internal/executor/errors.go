package executor

import "errors"

var (
	// ErrQueueFull indicates the execution queue's buffer is full and
	// the job was rejected rather than blocking the caller.
	ErrQueueFull = errors.New("execution queue is full")

	// ErrHandlerNotFound indicates no handler is registered under the
	// requested identifier.
	ErrHandlerNotFound = errors.New("handler not found")

	// ErrEmptyHandlerID indicates a registration with a blank identifier.
	ErrEmptyHandlerID = errors.New("handler id must not be empty")

	// ErrNilHandler indicates a registration with a nil handler.
	ErrNilHandler = errors.New("handler must not be nil")

	// ErrNotRunning indicates a submission before Start or after Stop.
	ErrNotRunning = errors.New("execution queue is not running")
)
