// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a missing
// event row translates to a 404 while an over-capacity registration is a
// client error that must leave the event untouched.
package repository

import "errors"

// ErrEventNotFound is returned when a referenced event does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrEventNotFound = errors.New("event not found")

// ErrCapacityExceeded is returned when a registration asks for more
// volunteer slots than the event has remaining. The registration
// transaction rolls back, so neither the registration row nor the
// capacity debit is applied.
var ErrCapacityExceeded = errors.New("exceeds maximum volunteers")

// ErrInvalidVolunteerCount is returned when a registration asks for
// fewer than one volunteer slot.
var ErrInvalidVolunteerCount = errors.New("volunteer count must be at least 1")
