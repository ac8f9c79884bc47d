package taskapi

import "errors"

var (
	// ErrUnavailable indicates the task service could not be reached.
	ErrUnavailable = errors.New("task service unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("task service request timed out")

	// ErrUnauthorized indicates the token was missing or rejected.
	ErrUnauthorized = errors.New("task service rejected credentials")

	// ErrInvalidResponse indicates the body was not a JSON task list.
	ErrInvalidResponse = errors.New("invalid task service response")

	// ErrRetryExhausted indicates all retry attempts failed.
	ErrRetryExhausted = errors.New("task service retry attempts exhausted")
)
