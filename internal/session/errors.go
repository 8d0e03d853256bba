package session

import "errors"

// Configuration errors returned by New.
var (
	// ErrInvalidGeometry indicates zero or negative rows or columns.
	ErrInvalidGeometry = errors.New("session: grid must have at least one row and one column")

	// ErrInvalidHistory indicates a rewind buffer without capacity.
	ErrInvalidHistory = errors.New("session: history capacity must be positive")

	// ErrInvalidPacing indicates fewer than one tick per generation.
	ErrInvalidPacing = errors.New("session: ticks per generation must be positive")

	ErrInvalidDensity = errors.New("session: density must be within [0,1]")
)
