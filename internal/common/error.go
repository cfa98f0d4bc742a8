// Package common defines shared sentinel errors used across civicbridge
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound = errors.New("not found")

	// Registration with an email already on file.
	ErrDuplicateIdentity = errors.New("user with this email already exists")

	// Login with no matching email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// A mutation that requires an active session was attempted without one.
	ErrNotAuthenticated = errors.New("you must be logged in to perform this action")

	// Generic internal failure (storage corruption, encoding errors).
	ErrInternal = errors.New("internal error")
)
