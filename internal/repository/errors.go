// Package repository defines error types that are reused across the data
// access layer.  These sentinel values let higher layers such as handlers
// tell failure scenarios apart without inspecting driver errors.
package repository

import "errors"

// ErrUnavailable is returned when a database connection cannot be
// acquired (unreachable host, refused credentials, closed pool).
// Handlers should translate it into an HTTP 500 response.
var ErrUnavailable = errors.New("database unavailable")
