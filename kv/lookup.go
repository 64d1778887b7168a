package kv

import "github.com/jstz-dev/jstz/kv/kverrors"

// lookupIndex is the per-key stack of snapshot-stack levels at which a
// key has been edited, least-recent first, enabling an O(log n) read
// path straight to the level holding the most recent edit instead of
// walking the whole stack. Invariants (I2): every recorded level is a
// valid stack position; the list is strictly non-decreasing; an empty
// list is never stored — the entry is dropped on its last pop.
type lookupIndex struct {
	levels map[Key][]int
}

func newLookupIndex() lookupIndex {
	return lookupIndex{levels: make(map[Key][]int)}
}

// touch records that key was edited at level. It is idempotent within a
// level: repeated writes to the same key at the same level append
// nothing, which is what lets rollback pop exactly once per key per
// level regardless of how many edits happened at that level.
func (l *lookupIndex) touch(key Key, level int) {
	hist := l.levels[key]
	if n := len(hist); n > 0 && hist[n-1] == level {
		return
	}
	l.levels[key] = append(hist, level)
}

// rollback pops the most recent level recorded for key, dropping the
// entry entirely once its history is empty. Failing with
// ErrMissingLookupEntry here means the engine's own invariant that
// every edit touches the index was violated — a bug, not a caller error.
func (l *lookupIndex) rollback(key Key) error {
	hist, ok := l.levels[key]
	if !ok || len(hist) == 0 {
		return kverrors.ErrMissingLookupEntry
	}
	hist = hist[:len(hist)-1]
	if len(hist) == 0 {
		delete(l.levels, key)
	} else {
		l.levels[key] = hist
	}
	return nil
}

// mostRecent returns the top of key's history.
func (l *lookupIndex) mostRecent(key Key) (int, bool) {
	hist, ok := l.levels[key]
	if !ok || len(hist) == 0 {
		return 0, false
	}
	return hist[len(hist)-1], true
}

// clear empties the index, called once the bottom-level commit has
// flushed every pending edit into the backing store (I4).
func (l *lookupIndex) clear() {
	l.levels = make(map[Key][]int)
}

// size reports the number of distinct keys currently tracked. Exposed
// for the property tests verifying I3/I4.
func (l *lookupIndex) size() int {
	return len(l.levels)
}
