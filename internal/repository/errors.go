// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver errors. ErrNotFound covers both a missing row and a
// conditional update that matched zero rows — the two cases are not
// distinguishable at the SQL layer and are deliberately reported the
// same way to callers.
package repository

import "errors"

// ErrNotFound is returned when no row matches the requested id, or when
// a conditional state transition (UPDATE ... WHERE id=? AND status=?)
// affects zero rows. Handlers should translate this into an HTTP 404
// response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a state precondition is violated, such
// as starting a session on an occupied table or booking an already
// reserved time slot. Handlers should translate this into an HTTP 400
// response.
var ErrConflict = errors.New("conflict")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrValidation is returned when input is malformed or a required
// configuration (such as business hours for a weekday) is missing.
// Handlers should translate this into an HTTP 400 response.
var ErrValidation = errors.New("validation failed")
