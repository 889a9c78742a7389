package storage

import "errors"

// Sentinel errors for the storage package.
var (
	// ErrPathRequired is returned when a store is initialized without a database path.
	ErrPathRequired = errors.New("store path is required")

	// ErrNotInitialized is returned when a store is used before Init or after Close.
	ErrNotInitialized = errors.New("store is not initialized")

	// ErrEmptySnapshot is returned when an archived snapshot blob has no content.
	ErrEmptySnapshot = errors.New("empty snapshot blob")
)
