// Package store holds the errors shared by every persistence backend.
package store

import "errors"

var (
	// ErrNotFound is returned when the requested cart or pet does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when creating a record whose key already exists.
	ErrDuplicate = errors.New("store: duplicate")
)
