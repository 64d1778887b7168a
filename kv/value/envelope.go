// Package value implements the type-erased Value Envelope: a boxed value
// carrying a stable type tag, so the transaction engine can store many
// unrelated key spaces (accounts, nonces, contract code, user-defined
// records) in one snapshot structure without collapsing them into a
// single static type.
//
// Wire serialization uses go-ethereum's RLP codec, the same stable
// self-describing binary encoding the teacher repo uses for its own
// snapshot account records (core/state/snapshot/account.go).
package value

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/jstz-dev/jstz/kv/kverrors"
)

// decoder reconstructs an Envelope for a registered tag from its RLP
// payload. Stored per-tag so Deserialize can resolve a type purely from
// the bytes on the wire, without the caller naming V.
type decoder func(payload []byte) (Envelope, error)

var (
	tagByType = map[reflect.Type]string{}
	decoders  = map[string]decoder{}
)

// Register assigns a stable type tag to V. It must be called exactly once
// per type, typically from an init() function, before any Envelope
// referencing V is created or decoded. Re-registering the same type under
// a different tag, or reusing a tag for two types, is a programmer error
// and panics.
func Register[V any](tag string) {
	var zero V
	t := reflect.TypeOf(zero)

	if existing, ok := tagByType[t]; ok && existing != tag {
		panic("value: type " + t.String() + " already registered under tag " + existing)
	}
	if _, ok := decoders[tag]; ok {
		if existing := tagByType[t]; existing != tag {
			panic("value: tag " + tag + " already registered to a different type")
		}
	}
	tagByType[t] = tag
	decoders[tag] = func(payload []byte) (Envelope, error) {
		vp := new(V)
		if err := rlp.DecodeBytes(payload, vp); err != nil {
			return Envelope{}, kverrors.ErrSerialization
		}
		return Envelope{tag: tag, ptr: vp, encode: func() ([]byte, error) {
			return rlp.EncodeToBytes(*vp)
		}}, nil
	}
}

// Envelope is a type-erased, owned boxed value: a runtime type tag plus
// a pointer to the live decoded value. Mutation through AsMut's returned
// pointer is visible to every other holder of the same Envelope, which
// is exactly the aliasing the transaction engine relies on: Clone
// (called when a value crosses from a parent snapshot into a child) must
// be used whenever independence from the parent's copy is required.
type Envelope struct {
	tag    string
	ptr    any // *V for the registered V
	encode func() ([]byte, error)
}

// New boxes v under V's registered type tag.
func New[V any](v V) (Envelope, error) {
	var zero V
	t := reflect.TypeOf(zero)
	tag, ok := tagByType[t]
	if !ok {
		return Envelope{}, kverrors.ErrSerialization
	}
	vp := new(V)
	*vp = v
	return Envelope{tag: tag, ptr: vp, encode: func() ([]byte, error) {
		return rlp.EncodeToBytes(*vp)
	}}, nil
}

// Tag returns the envelope's runtime type tag.
func (e Envelope) Tag() string {
	return e.tag
}

// Clone returns an envelope holding an independent copy of the boxed
// value, so mutating the clone's AsMut pointer never aliases the
// original. Used when materializing a value from a parent snapshot into
// the current top snapshot.
func (e Envelope) Clone() Envelope {
	dec, ok := decoders[e.tag]
	if !ok {
		return e
	}
	raw, err := e.encode()
	if err != nil {
		return e
	}
	cloned, err := dec(raw)
	if err != nil {
		return e
	}
	return cloned
}

// As returns a copy of the boxed value as V, failing with
// ErrTypeMismatch if the envelope's tag does not match V's registered
// tag. This is the engine's "borrow" operation for read-only access.
func As[V any](e Envelope) (V, error) {
	var zero V
	vp, ok := e.ptr.(*V)
	if !ok {
		return zero, kverrors.ErrTypeMismatch
	}
	return *vp, nil
}

// AsMut returns a pointer to the live boxed value, for in-place
// mutation. This is the engine's "borrow_mut" operation.
func AsMut[V any](e Envelope) (*V, error) {
	vp, ok := e.ptr.(*V)
	if !ok {
		return nil, kverrors.ErrTypeMismatch
	}
	return vp, nil
}

// Into decodes and returns the boxed value, consuming the envelope's
// identity (the Go runtime has no move semantics, so this is equivalent
// to As, but named to mirror the engine's "move-out-as-T" operation).
func Into[V any](e Envelope) (V, error) {
	return As[V](e)
}

// Serialize returns the envelope's wire form: a length-prefixed tag
// followed by the RLP payload, so a round-tripped envelope can be
// resolved back to its type without external context (e.g. reading raw
// bytes back out of the backing store after a restart).
func (e Envelope) Serialize() []byte {
	payload, err := e.encode()
	if err != nil {
		// The value was already validated RLP-encodable when boxed; a
		// failure here means the process is out of memory.
		panic(err)
	}
	out, err := rlp.EncodeToBytes(wireEnvelope{Tag: e.tag, Payload: payload})
	if err != nil {
		panic(err)
	}
	return out
}

// Deserialize parses bytes produced by Serialize back into an Envelope,
// resolving the concrete type purely from the tag carried on the wire.
func Deserialize(data []byte) (Envelope, error) {
	var w wireEnvelope
	if err := rlp.DecodeBytes(data, &w); err != nil {
		return Envelope{}, kverrors.ErrSerialization
	}
	dec, ok := decoders[w.Tag]
	if !ok {
		return Envelope{}, kverrors.ErrTypeMismatch
	}
	return dec(w.Payload)
}

type wireEnvelope struct {
	Tag     string
	Payload []byte
}
