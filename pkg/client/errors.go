package client

import (
	"errors"
	"fmt"
)

var (
	// ErrCacheNotReady is returned for mutations attempted before the first
	// successful list fetch.
	ErrCacheNotReady = errors.New("cache not initialized: load a page first")

	// ErrNotCached is returned when a mutation targets an entity outside the
	// currently cached page.
	ErrNotCached = errors.New("entity not present in cached page")
)

// ValidationError covers bad input rejected either client-side (malformed
// id, out-of-range difficulty) or by the server with a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Message
}

// NotFoundError maps a server 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.Message
}

// ServerError maps a 5xx or any other unexpected status.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Message)
}

// NetworkError wraps a transport failure before any response arrived.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
