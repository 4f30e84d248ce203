package repository

import "errors"

// ErrNotFound is returned when a point lookup matches no row.
var ErrNotFound = errors.New("not found")
