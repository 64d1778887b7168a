// Package kverrors holds the kv engine's error taxonomy in a leaf package
// so that both kv and its value subpackage (which the engine's snapshots
// embed) can return them without an import cycle.
package kverrors

import "errors"

var (
	// ErrEmptyStack is returned when an operation other than Begin is
	// invoked with no active snapshot on the stack.
	ErrEmptyStack = errors.New("kv: transaction stack is empty")

	// ErrTypeMismatch is returned when an envelope is accessed under a
	// value type other than the one it was stored with.
	ErrTypeMismatch = errors.New("kv: envelope type mismatch")

	// ErrMissingLookupEntry indicates a lookup index invariant violation
	// during rollback: a key recorded as edited at the popped level has
	// no corresponding index entry. This signals a bug in the engine,
	// not a caller error.
	ErrMissingLookupEntry = errors.New("kv: missing lookup index entry")

	// ErrHostUnavailable is returned when the backing store refuses an
	// operation.
	ErrHostUnavailable = errors.New("kv: host backing store unavailable")

	// ErrSerialization is returned when encoding or decoding a value
	// envelope fails.
	ErrSerialization = errors.New("kv: serialization failed")

	// ErrPathInvalid is returned when a caller-supplied key is not a
	// legal backing store path.
	ErrPathInvalid = errors.New("kv: invalid path")
)
