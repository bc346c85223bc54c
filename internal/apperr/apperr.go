// Package apperr defines the error taxonomy shared by the core packages.
// Callers classify failures with errors.Is instead of inspecting messages.
package apperr

import "errors"

var (
	// ErrValidation marks malformed or too-short input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an unknown user, request or item id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition marks a state-machine guard violation, e.g.
	// denying an already-denied request.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrUnauthorized marks missing or bad credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks an insufficiently privileged actor, including the
	// admin self-protection guards.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict marks a uniqueness violation (duplicate username).
	ErrConflict = errors.New("conflict")

	// ErrRecording marks an audit sink failure. Logged by callers, never
	// rolls back the mutation that triggered the audit write.
	ErrRecording = errors.New("audit recording failed")
)
