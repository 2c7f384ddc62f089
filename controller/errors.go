package controller

import "errors"

var (
	// ErrMalformedCall is returned for account calls that can't be decoded.
	ErrMalformedCall = errors.New("malformed account call")
	// ErrInvalidNonce is returned when the batch nonce is not the current nonce.
	ErrInvalidNonce = errors.New("invalid nonce")
	// ErrInvalidMetaNonce is returned when the meta nonce is not the current meta nonce.
	ErrInvalidMetaNonce = errors.New("invalid meta nonce")
	// ErrImplementationNotAllowed is returned for implementations outside of the allow-list.
	ErrImplementationNotAllowed = errors.New("implementation not allowed")
	// ErrHookNotAllowed is returned for hooks outside of the allow-list.
	ErrHookNotAllowed = errors.New("hook not allowed")
	// ErrHookNotFound is returned when no hook is registered for the selector.
	ErrHookNotFound = errors.New("hook not found")
	// ErrNotLocked is returned when there is no pending keyset hash.
	ErrNotLocked = errors.New("keyset hash not locked")
	// ErrUnlockTooEarly is returned before the timelock has passed.
	ErrUnlockTooEarly = errors.New("unlock too early")
	// ErrHostNotConfigured is returned when a call needs a host and none was set.
	ErrHostNotConfigured = errors.New("host not configured")
)
