package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry indicates a write violated a uniqueness constraint.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)
