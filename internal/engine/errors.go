package engine

import "errors"

// ErrInsufficientStudents is returned by Generate when fewer than two
// present students are supplied. Callers should block generation and
// surface a user-facing message; there is nothing to retry.
// Match with errors.Is.
var ErrInsufficientStudents = errors.New("at least 2 present students are required")
