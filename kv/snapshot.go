package kv

import "github.com/jstz-dev/jstz/kv/value"

// snapshot is one level of the transaction stack: an edit set of
// inserts and removes. The zero value is not usable; construct with
// newSnapshot. Invariant (I1): inserts.keys and removes are always
// disjoint — every mutator below restores it unconditionally.
type snapshot struct {
	inserts map[Key]value.Envelope
	removes map[Key]struct{}
}

func newSnapshot() *snapshot {
	return &snapshot{
		inserts: make(map[Key]value.Envelope),
		removes: make(map[Key]struct{}),
	}
}

// insert records key as written with env, undoing any pending removal.
func (s *snapshot) insert(key Key, env value.Envelope) {
	delete(s.removes, key)
	s.inserts[key] = env
}

// remove records key as deleted, undoing any pending insert.
func (s *snapshot) remove(key Key) {
	delete(s.inserts, key)
	s.removes[key] = struct{}{}
}

// lookup returns the envelope inserted at this level, or (_, false) if
// the key was removed at this level or is simply absent from it — the
// two cases are indistinguishable to the caller, matching the "None"
// semantics spec §4.3 describes for Snapshot.lookup.
func (s *snapshot) lookup(key Key) (value.Envelope, bool) {
	if _, removed := s.removes[key]; removed {
		return value.Envelope{}, false
	}
	env, ok := s.inserts[key]
	return env, ok
}

func (s *snapshot) containsKey(key Key) bool {
	if _, removed := s.removes[key]; removed {
		return false
	}
	_, ok := s.inserts[key]
	return ok
}
