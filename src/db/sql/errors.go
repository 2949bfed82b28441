package db

import "errors"

var (
	// ErrNotFound covers both a genuinely absent row and a row owned by a
	// different user. Scoped queries make the two indistinguishable so
	// callers cannot probe for other users' resources.
	ErrNotFound = errors.New("not found")

	ErrDuplicateEmail = errors.New("email already registered")
)
