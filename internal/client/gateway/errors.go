package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a request the client rejected before any network
	// call, e.g. a missing title or secret.
	ErrValidation = errors.New("validation error")

	// ErrNotFound means the service no longer knows the referenced entry
	// or share, typically because another session removed it.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the session token was missing, expired or
	// rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDecrypt means the service could not produce the plaintext for a
	// decrypt request (e.g. the vault key is unavailable).
	ErrDecrypt = errors.New("decrypt failed")

	// ErrAccessDenied and ErrExpired are the two failure modes of share
	// consumption. They stay distinct here so callers can tell them apart
	// via errors.Is, but user-facing surfaces deliberately conflate them.
	ErrAccessDenied = errors.New("access denied")
	ErrExpired      = errors.New("share expired")
)

// RequestError wraps a transport-level failure: the service was never
// reached or the response could not be read.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ServerError means the service was reached and answered with a failure.
// Message holds the server-provided text when present.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error (status %d)", e.Status)
}

// UserMessage extracts the most specific text an error carries for display,
// falling back to the provided generic message.
func UserMessage(err error, fallback string) string {
	var srvErr *ServerError
	if errors.As(err, &srvErr) && srvErr.Message != "" {
		return srvErr.Message
	}
	return fallback
}
