package kv

import (
	"sort"

	"github.com/jstz-dev/jstz/kv/kverrors"
	"github.com/jstz-dev/jstz/kv/store"
	"github.com/jstz-dev/jstz/kv/value"
)

// Transaction is a nested begin/commit/rollback engine over a stack of
// snapshots, plus the lookup index that lets reads skip straight to the
// level holding a key's most recent edit. A message handler calls Begin
// once per message, issues a mixture of Get/GetMut/Insert/Remove/Entry,
// then Commit or Rollback.
//
// Transaction is not safe for concurrent use: the runtime's scheduling
// model is single-threaded cooperative, consumed by one logical actor
// (the kernel's message loop) at a time (spec §5).
type Transaction struct {
	stack  []*snapshot
	lookup lookupIndex
}

// New returns an empty transaction, with no active snapshot.
func New() *Transaction {
	return &Transaction{lookup: newLookupIndex()}
}

// Depth reports the number of nested levels currently open.
func (tx *Transaction) Depth() int {
	return len(tx.stack)
}

func (tx *Transaction) top() (*snapshot, int, error) {
	if len(tx.stack) == 0 {
		return nil, 0, kverrors.ErrEmptyStack
	}
	level := len(tx.stack) - 1
	return tx.stack[level], level, nil
}

// Begin pushes a new, empty snapshot onto the stack.
func (tx *Transaction) Begin() {
	tx.stack = append(tx.stack, newSnapshot())
}

// Get performs a read-through lookup of key, decoded as V.
//
// Borrow discipline: the returned value is an owned copy, not a live
// reference — stable across subsequent engine operations, unlike
// GetMut's pointer. See spec §5 on why GetMut cannot offer the same
// guarantee.
func Get[V any](tx *Transaction, h store.BackingStore, key Key) (V, bool, error) {
	var zero V

	top, topLevel, err := tx.top()
	if err != nil {
		return zero, false, err
	}

	if level, ok := tx.lookup.mostRecent(key); ok {
		env, found := tx.stack[level].lookup(key)
		if !found {
			return zero, false, nil
		}
		v, err := value.As[V](env)
		return v, found, err
	}

	v, found, err := store.GetTyped[V](h, key)
	if err != nil || !found {
		return zero, false, err
	}
	env, err := value.New(v)
	if err != nil {
		return zero, false, err
	}
	top.insert(key, env)
	tx.lookup.touch(key, topLevel)
	return v, true, nil
}

// GetMut performs a read-through lookup of key and returns a pointer to
// the live value for in-place mutation. If the most recent edit lives
// below the top snapshot, the envelope is cloned into the top snapshot
// first, so the mutation is invisible to parent levels until commit
// (spec §4.5.2 step 3, property I9).
//
// Borrow discipline (spec §5): the returned pointer is valid only until
// the next engine operation that could change the snapshot stack shape
// — Begin, Commit, Rollback, Insert, Remove, or another GetMut on the
// same key. Using it afterwards is a documented UB hazard, not a
// statically prevented one; callers must not retain it across such
// calls.
func GetMut[V any](tx *Transaction, h store.BackingStore, key Key) (*V, bool, error) {
	top, topLevel, err := tx.top()
	if err != nil {
		return nil, false, err
	}

	if level, ok := tx.lookup.mostRecent(key); ok {
		env, found := tx.stack[level].lookup(key)
		if !found {
			return nil, false, nil
		}
		if level != topLevel {
			env = env.Clone()
			top.insert(key, env)
			tx.lookup.touch(key, topLevel)
		}
		p, err := value.AsMut[V](env)
		return p, true, err
	}

	v, found, err := store.GetTyped[V](h, key)
	if err != nil || !found {
		return nil, false, err
	}
	env, err := value.New(v)
	if err != nil {
		return nil, false, err
	}
	top.insert(key, env)
	tx.lookup.touch(key, topLevel)
	p, err := value.AsMut[V](env)
	return p, true, err
}

// ContainsKey reports whether key is present considering the current
// edit stack, falling back to the backing store. Unlike the other
// operations, this is permitted with no active transaction (spec §4.5.7):
// it then transparently consults the backing store alone.
func ContainsKey(tx *Transaction, h store.BackingStore, key Key) (bool, error) {
	if level, ok := tx.lookup.mostRecent(key); ok {
		return tx.stack[level].containsKey(key), nil
	}
	return h.Exists(key)
}

// Insert writes key/v into the top snapshot.
func Insert[V any](tx *Transaction, key Key, v V) error {
	top, topLevel, err := tx.top()
	if err != nil {
		return err
	}
	env, err := value.New(v)
	if err != nil {
		return err
	}
	top.insert(key, env)
	tx.lookup.touch(key, topLevel)
	return nil
}

// Remove deletes key in the top snapshot.
func Remove(tx *Transaction, key Key) error {
	top, topLevel, err := tx.top()
	if err != nil {
		return err
	}
	top.remove(key)
	tx.lookup.touch(key, topLevel)
	return nil
}

// Commit pops the top snapshot. If a parent snapshot remains, the
// popped snapshot's edits fold into it (spec §4.5.3 nested commit) and
// each edited key's lookup history moves from the popped level to the
// parent level. If the popped snapshot was the last on the stack, its
// edits flush directly to the backing store (removals first, then
// insertions, each in key order) and the lookup index is cleared (I4).
//
// Commit is best-effort with respect to the backing store: a mid-flush
// host failure returns ErrHostUnavailable with some edits already
// written and the lookup index left unflushed-but-unrecorded for the
// remainder (spec §9 open question — this repository's chosen
// semantics are documented in DESIGN.md). The kernel's message loop is
// expected to treat any commit error as fatal to the message and is the
// only caller; there is no partial-commit recovery inside the engine
// itself.
func Commit(tx *Transaction, h store.BackingStore) error {
	if len(tx.stack) == 0 {
		return kverrors.ErrEmptyStack
	}
	popped := tx.stack[len(tx.stack)-1]
	tx.stack = tx.stack[:len(tx.stack)-1]

	if len(tx.stack) > 0 {
		parentLevel := len(tx.stack) - 1
		parent := tx.stack[parentLevel]

		for key := range popped.removes {
			if err := tx.lookup.rollback(key); err != nil {
				return err
			}
			tx.lookup.touch(key, parentLevel)
			parent.remove(key)
		}
		for key, env := range popped.inserts {
			if err := tx.lookup.rollback(key); err != nil {
				return err
			}
			tx.lookup.touch(key, parentLevel)
			parent.insert(key, env)
		}
		return nil
	}

	removed := make([]Key, 0, len(popped.removes))
	for key := range popped.removes {
		removed = append(removed, key)
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i].Less(removed[j]) })
	for _, key := range removed {
		if err := h.Delete(key); err != nil {
			return err
		}
	}
	inserted := make([]Key, 0, len(popped.inserts))
	for key := range popped.inserts {
		inserted = append(inserted, key)
	}
	sort.Slice(inserted, func(i, j int) bool { return inserted[i].Less(inserted[j]) })
	for _, key := range inserted {
		if err := h.Put(key, popped.inserts[key].Serialize()); err != nil {
			return err
		}
	}
	tx.lookup.clear()
	return nil
}

// Rollback pops the top snapshot and undoes its contributions to the
// lookup index. Disjointness (I1) guarantees no key is popped twice;
// touch's idempotence guarantees exactly one pop per edited key per
// level (spec §4.5.4).
func Rollback(tx *Transaction) error {
	if len(tx.stack) == 0 {
		return kverrors.ErrEmptyStack
	}
	popped := tx.stack[len(tx.stack)-1]
	tx.stack = tx.stack[:len(tx.stack)-1]

	for key := range popped.removes {
		if err := tx.lookup.rollback(key); err != nil {
			return err
		}
	}
	for key := range popped.inserts {
		if err := tx.lookup.rollback(key); err != nil {
			return err
		}
	}
	return nil
}
