// Package kvkey defines the path-shaped Key identifier used throughout
// the kv engine. It is a separate leaf package (rather than living in kv
// itself) so that both the engine and the store package backing it can
// depend on the same Key type without an import cycle.
package kvkey

import (
	"regexp"
	"strings"

	"github.com/jstz-dev/jstz/kv/kverrors"
)

// segmentPattern is the legal grammar for a single path segment, per the
// backing store contract: [A-Za-z0-9_]+.
var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Key is an owned, path-shaped identifier: a sequence of segments joined
// by "/", e.g. "/jstz_account/<pkh>". Equality is structural; Key is safe
// to use as a map key and is totally ordered via Less, so edit sets can
// be enumerated deterministically.
type Key struct {
	path string // canonical form, always starting with "/"
}

// NewKey validates and constructs a Key from a slice of segments.
func NewKey(segments ...string) (Key, error) {
	if len(segments) == 0 {
		return Key{}, kverrors.ErrPathInvalid
	}
	for _, s := range segments {
		if !segmentPattern.MatchString(s) {
			return Key{}, kverrors.ErrPathInvalid
		}
	}
	return Key{path: "/" + strings.Join(segments, "/")}, nil
}

// ParseKey validates a "/"-joined path string and returns the Key.
func ParseKey(path string) (Key, error) {
	if !strings.HasPrefix(path, "/") {
		return Key{}, kverrors.ErrPathInvalid
	}
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return Key{}, kverrors.ErrPathInvalid
	}
	return NewKey(strings.Split(trimmed, "/")...)
}

// MustParseKey is ParseKey, panicking on error. Intended for static paths
// known at compile time (e.g. the ticketer address key).
func MustParseKey(path string) Key {
	k, err := ParseKey(path)
	if err != nil {
		panic(err)
	}
	return k
}

// String returns the canonical "/"-joined path.
func (k Key) String() string {
	return k.path
}

// Less reports whether k sorts before other. Used only to make edit sets
// deterministically enumerable; it carries no semantic weight.
func (k Key) Less(other Key) bool {
	return k.path < other.path
}

// Child returns a new Key with an additional trailing segment.
func (k Key) Child(segment string) (Key, error) {
	if !segmentPattern.MatchString(segment) {
		return Key{}, kverrors.ErrPathInvalid
	}
	return Key{path: k.path + "/" + segment}, nil
}
