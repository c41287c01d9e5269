// Package common defines shared sentinel errors and small helpers used across
// localauth components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrStorageCorrupt marks persisted content that could not be parsed.
	// The file store recovers from it on load and only logs it.
	ErrStorageCorrupt = errors.New("storage corrupt")

	// ErrStorageUnavailable is fatal: the store could not be read or written.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid config")
)
