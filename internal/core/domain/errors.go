package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the upstream API rejected the credential
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStateNotFound indicates a correlation token was never issued
	// or was already removed by a concurrent consume
	ErrStateNotFound = errors.New("state not found")

	// ErrStateExpired indicates a correlation token outlived its TTL
	ErrStateExpired = errors.New("state expired")

	// ErrStateReplayed indicates a correlation token was already consumed
	ErrStateReplayed = errors.New("state already used")

	// ErrServiceUnavailable indicates a backing service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)

// IsStateRejection reports whether err is one of the correlation-token
// rejections that end the browser-side handshake.
func IsStateRejection(err error) bool {
	return errors.Is(err, ErrStateNotFound) ||
		errors.Is(err, ErrStateExpired) ||
		errors.Is(err, ErrStateReplayed)
}
