// Package kv implements the nested-transaction engine that mediates all
// state changes between the rollup kernel and the durable backing store:
// a stack of isolated snapshots above a persistent backing store,
// read-through caching with per-key edit histories, and commit/rollback
// semantics preserving serializability.
package kv

import (
	"github.com/jstz-dev/jstz/kv/kverrors"
	"github.com/jstz-dev/jstz/kv/kvkey"
)

// Key is an owned, path-shaped identifier. See package kvkey for the
// constructors (NewKey, ParseKey, MustParseKey); it is aliased here so
// callers of the kv package need not import kvkey directly.
type Key = kvkey.Key

var (
	NewKey       = kvkey.NewKey
	ParseKey     = kvkey.ParseKey
	MustParseKey = kvkey.MustParseKey
)

// Error kinds returned by the kv package. Collaborators translate these
// into debug-log entries and abort the in-flight message; see the kernel
// package's message loop. Re-exported from kverrors so callers only need
// to import one package.
var (
	ErrEmptyStack         = kverrors.ErrEmptyStack
	ErrTypeMismatch       = kverrors.ErrTypeMismatch
	ErrMissingLookupEntry = kverrors.ErrMissingLookupEntry
	ErrHostUnavailable    = kverrors.ErrHostUnavailable
	ErrSerialization      = kverrors.ErrSerialization
	ErrPathInvalid        = kverrors.ErrPathInvalid
)
