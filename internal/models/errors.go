package models

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyDecided      = errors.New("payment already processed")
	ErrAlreadyExists       = errors.New("already exists")
	ErrProtectedPrimary    = errors.New("primary admin cannot be removed")
	ErrAuthorizationDenied = errors.New("not an admin")
	// ErrConflict is returned when a compare-and-swap update lost to a concurrent writer.
	ErrConflict = errors.New("concurrent update")
	// ErrExternal wraps failures of the messaging and membership systems.
	ErrExternal = errors.New("external system error")
)
