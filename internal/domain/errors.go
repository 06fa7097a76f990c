package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. non-positive distance, missing conditionally-required
// price). Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned on uniqueness violations and stale-state
// transitions: a second pending proposal for the same entity, voting on a
// proposal that is no longer pending, resolving a proposal twice.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrAccessDenied is returned when the caller lacks ownership of or
// authorization over the target resource (e.g. logging a trip on someone
// else's vehicle). Handlers should map this to HTTP 403.
var ErrAccessDenied = errors.New("access denied")

// ErrInternal marks a data-integrity invariant violation (e.g. a fueling row
// whose vehicle is gone). It is always logged server-side and surfaced to
// the caller as an opaque HTTP 500 — never with the underlying detail.
var ErrInternal = errors.New("internal inconsistency")
