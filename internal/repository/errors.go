// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrNotFound indicates that a requested row does not exist
// and lets handlers answer 404 without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a query matches no rows. Repositories
// translate sql.ErrNoRows into this sentinel so that callers never
// depend on database/sql directly. Handlers should translate this
// into an HTTP 404 response, or a 401 on authentication paths where
// revealing the reason would confirm account existence.
var ErrNotFound = errors.New("not found")
