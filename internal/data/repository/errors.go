package repository

import "errors"

// ErrVersionConflict is returned when a conditional update loses the race
// against a concurrent writer on the same showtime row. Callers retry or
// surface a conflict.
var ErrVersionConflict = errors.New("showtime version conflict")
