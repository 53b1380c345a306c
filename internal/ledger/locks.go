package ledger

import (
	"sort"
	"sync"
)

// keyedLocks serializes ledger operations per user so concurrent callers
// cannot interleave a read-modify-write on the same balance. Mutexes are
// retained for the process lifetime; the set is bounded by the user roster.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedLocks) get(id string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[id]
	if !ok {
		m = &sync.Mutex{}
		k.locks[id] = m
	}
	return m
}

// acquire locks the given user ids in sorted order, deduplicated, and returns
// the release function. Sorted acquisition keeps two operations touching the
// same pair of users from deadlocking.
func (k *keyedLocks) acquire(ids ...string) func() {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	held := make([]*sync.Mutex, 0, len(unique))
	for _, id := range unique {
		m := k.get(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
