package kv

import (
	"github.com/jstz-dev/jstz/kv/kverrors"
	"github.com/jstz-dev/jstz/kv/store"
	"github.com/jstz-dev/jstz/kv/value"
)

// Entry is a view into a single key's slot in the top snapshot: either
// Vacant or Occupied, mirroring the Rust original's
// `tx.entry::<V>(rt, key)` (spec §4.5.5).
type Entry[V any] interface {
	// Key returns the entry's key.
	Key() Key
	isEntry()
}

// VacantEntry is a view into a slot with no value in the top snapshot.
type VacantEntry[V any] struct {
	tx    *Transaction
	key   Key
	level int
}

func (*VacantEntry[V]) isEntry() {}

// Key returns the entry's key.
func (e *VacantEntry[V]) Key() Key { return e.key }

// Insert writes v into the vacant slot and returns a pointer to it,
// subject to the same borrow discipline as GetMut.
func (e *VacantEntry[V]) Insert(v V) (*V, error) {
	env, err := value.New(v)
	if err != nil {
		return nil, err
	}
	top := e.tx.stack[e.level]
	top.insert(e.key, env)
	e.tx.lookup.touch(e.key, e.level)
	return value.AsMut[V](env)
}

// OccupiedEntry is a view into a slot already holding a value in the
// top snapshot.
type OccupiedEntry[V any] struct {
	tx    *Transaction
	key   Key
	level int
	env   value.Envelope
}

func (*OccupiedEntry[V]) isEntry() {}

// Key returns the entry's key.
func (e *OccupiedEntry[V]) Key() Key { return e.key }

// Get returns a copy of the occupied value.
func (e *OccupiedEntry[V]) Get() (V, error) {
	return value.As[V](e.env)
}

// GetMut returns a pointer to the occupied value for in-place mutation.
func (e *OccupiedEntry[V]) GetMut() (*V, error) {
	return value.AsMut[V](e.env)
}

// InsertReplacing overwrites the occupied value with v, returning the
// value it replaced.
func (e *OccupiedEntry[V]) InsertReplacing(v V) (V, error) {
	old, err := value.As[V](e.env)
	if err != nil {
		return old, err
	}
	env, err := value.New(v)
	if err != nil {
		return old, err
	}
	top := e.tx.stack[e.level]
	top.insert(e.key, env)
	e.tx.lookup.touch(e.key, e.level)
	e.env = env
	return old, nil
}

// Remove takes the value out of the top snapshot, recording the key in
// the snapshot's removes set, and returns it.
func (e *OccupiedEntry[V]) Remove() (V, error) {
	v, err := value.As[V](e.env)
	if err != nil {
		return v, err
	}
	top := e.tx.stack[e.level]
	top.remove(e.key)
	e.tx.lookup.touch(e.key, e.level)
	return v, nil
}

// RemoveEntry is Remove, additionally returning the key.
func (e *OccupiedEntry[V]) RemoveEntry() (Key, V, error) {
	v, err := e.Remove()
	return e.key, v, err
}

// GetEntry returns the given key's entry in the top snapshot for
// in-place manipulation, performing the same read-through as GetMut to
// decide between Vacant and Occupied (spec §4.5.5).
func GetEntry[V any](tx *Transaction, h store.BackingStore, key Key) (Entry[V], error) {
	if len(tx.stack) == 0 {
		return nil, kverrors.ErrEmptyStack
	}

	_, found, err := GetMut[V](tx, h, key)
	if err != nil {
		return nil, err
	}

	topLevel := len(tx.stack) - 1
	top := tx.stack[topLevel]

	if !found {
		return &VacantEntry[V]{tx: tx, key: key, level: topLevel}, nil
	}
	env, _ := top.lookup(key)
	return &OccupiedEntry[V]{tx: tx, key: key, level: topLevel, env: env}, nil
}

// OrInsertDefault returns the entry's value if occupied, or inserts and
// returns V's zero value if vacant — the Go equivalent of the Rust
// original's `Entry::or_insert_default`.
func OrInsertDefault[V any](e Entry[V]) (*V, error) {
	switch ent := e.(type) {
	case *VacantEntry[V]:
		var zero V
		return ent.Insert(zero)
	case *OccupiedEntry[V]:
		return ent.GetMut()
	default:
		return nil, kverrors.ErrEmptyStack
	}
}
