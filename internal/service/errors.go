package service

import "errors"

var (
	// ErrEntityNotFound is returned when the requested entity does not exist
	// or is tombstoned.
	ErrEntityNotFound = errors.New("entity not found")
)
