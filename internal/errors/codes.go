// Package errors provides the coded error type shared by the store,
// state machine and repository layers.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeNotFound means the store holds no document for the requested key.
	CodeNotFound Code = "NOT_FOUND"
	// CodeTransientIO covers store and network hiccups; retried on the next poll.
	CodeTransientIO Code = "TRANSIENT_IO"
	// CodeInvalidTransition marks an action the state machine refuses for the
	// current snapshot. Callers treat it as a no-op.
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	// CodeInvalidArgument marks malformed caller input.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// CodeCorruptDocument marks a stored document that cannot be decoded.
	CodeCorruptDocument Code = "CORRUPT_DOCUMENT"
)
