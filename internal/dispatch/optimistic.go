package dispatch

import "sync"

// ledger tracks in-flight optimistic writes per key so failures can restore
// the value that was live before the write.
//
// Entries for a key are kept in issue order. When an entry fails and it is
// the newest one, its prior value is written back. When newer entries are
// still pending, the prior is handed to the next entry instead and the live
// value is left alone; that entry restores it if it fails too. The oldest
// pending entry therefore always holds the value from before the first
// write, so a run of failures on one key always ends on that value.
type ledger[V any] struct {
	mu      sync.Mutex
	pending map[string][]*entry[V]
}

type entry[V any] struct {
	prior V
}

// begin captures the live value with read, writes the optimistic value with
// apply and records an entry. ok=false means read found nothing to update;
// no entry is recorded and apply is not called.
func (l *ledger[V]) begin(key string, read func() (V, bool), apply func(prior V)) (*entry[V], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	prior, ok := read()
	if !ok {
		return nil, false
	}
	apply(prior)
	e := &entry[V]{prior: prior}
	if l.pending == nil {
		l.pending = make(map[string][]*entry[V])
	}
	l.pending[key] = append(l.pending[key], e)
	return e, true
}

// commit drops e after the server accepted the write. settle runs under the
// ledger lock so authoritative values land before any later failure on the
// same key is resolved.
func (l *ledger[V]) commit(key string, e *entry[V], settle func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.remove(key, e)
	if settle != nil {
		settle()
	}
}

// fail drops e and calls restore with the value to write back when e was
// the newest pending entry for key.
func (l *ledger[V]) fail(key string, e *entry[V], restore func(prior V)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := l.pending[key]
	i := l.position(key, e)
	if i < 0 {
		return
	}
	if i == len(entries)-1 {
		restore(e.prior)
	} else {
		entries[i+1].prior = e.prior
	}
	l.remove(key, e)
}

func (l *ledger[V]) position(key string, e *entry[V]) int {
	for i, cur := range l.pending[key] {
		if cur == e {
			return i
		}
	}
	return -1
}

func (l *ledger[V]) remove(key string, e *entry[V]) {
	i := l.position(key, e)
	if i < 0 {
		return
	}
	entries := l.pending[key]
	if len(entries) == 1 {
		delete(l.pending, key)
		return
	}
	next := make([]*entry[V], 0, len(entries)-1)
	next = append(next, entries[:i]...)
	next = append(next, entries[i+1:]...)
	l.pending[key] = next
}
