// Package service holds the business logic behind the HTTP handlers. Services
// are plain structs built once at startup and shared by every request.
package service

import (
	"bitwise74/docvault-api/internal/store"
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrAccessDenied = errors.New("access denied")
	ErrNotFound     = errors.New("not found")
	// ErrShareUnavailable covers missing, unshared and expired documents so
	// anonymous callers can't tell them apart
	ErrShareUnavailable = errors.New("this document is not available")
	ErrStoreUnavailable = errors.New("store unavailable")
)

func validation(format string, a ...any) error {
	return fmt.Errorf("%w, %s", ErrValidation, fmt.Sprintf(format, a...))
}

// storeErr translates a store error into the service taxonomy
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrUnavailable):
		return fmt.Errorf("%w, %w", ErrStoreUnavailable, err)
	}

	return err
}
