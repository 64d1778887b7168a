// Package store implements the Backing Store contract: byte-level
// persistent key-value access over a host-runtime path namespace, with
// typed helpers layered on top via the value envelope.
//
// Four implementations ship, mirroring the teacher's practice of
// putting several interchangeable stores behind one interface
// (ethdb.KeyValueStore, with relaydb/memorydb/leveldb implementations):
// MemStore, in memory, used by the tests; LevelStore for durable on-disk
// persistence; HostStore, the production adapter over the rollup
// kernel's own host runtime; and CachedStore, a read cache in front of
// any other BackingStore.
package store

import (
	"github.com/jstz-dev/jstz/kv/kvkey"
	"github.com/jstz-dev/jstz/kv/value"
)

// BackingStore is the contract over the host runtime's byte-addressed
// path namespace, per spec §4.1: get, put, delete and exists, each total
// except for a possible ErrHostUnavailable.
type BackingStore interface {
	Get(key kvkey.Key) ([]byte, error)
	Put(key kvkey.Key, data []byte) error
	Delete(key kvkey.Key) error
	Exists(key kvkey.Key) (bool, error)
}

// GetTyped reads a key and decodes it as V via the value envelope. It
// returns (zero, false, nil) if the key is absent.
func GetTyped[V any](s BackingStore, key kvkey.Key) (V, bool, error) {
	var zero V
	raw, err := s.Get(key)
	if err != nil {
		return zero, false, err
	}
	if raw == nil {
		return zero, false, nil
	}
	env, err := value.Deserialize(raw)
	if err != nil {
		return zero, false, err
	}
	v, err := value.As[V](env)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// PutTyped encodes v via the value envelope and writes it at key.
func PutTyped[V any](s BackingStore, key kvkey.Key, v V) error {
	env, err := value.New(v)
	if err != nil {
		return err
	}
	return s.Put(key, env.Serialize())
}
