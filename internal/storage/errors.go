// Package storage contains the PostgreSQL repositories for the
// funnel-tracker service.
package storage

import "errors"

// ErrNotFound is returned when a requested row does not exist or is
// inactive. Callers on the visitor path treat it as a recoverable,
// expected condition.
var ErrNotFound = errors.New("storage: not found")
