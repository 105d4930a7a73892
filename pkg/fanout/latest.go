package fanout

import "sync"

// Latest arbitrates rapid re-loads of the same view: each load takes a
// ticket, and only the holder of the newest ticket may commit its result.
// A slow response from an earlier load arriving after a newer one is
// discarded, so displayed state is last-write-wins by trigger time rather
// than by arrival time. The zero value is ready to use.
type Latest struct {
	mu  sync.Mutex
	seq uint64
}

// Begin registers a new load and returns its ticket, superseding every
// ticket issued before it. Abandoning a view is modelled the same way:
// Begin again and never commit.
func (l *Latest) Begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	return l.seq
}

// Commit runs apply only when ticket is still the newest load, and reports
// whether it did.
func (l *Latest) Commit(ticket uint64, apply func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ticket != l.seq {
		return false
	}
	apply()
	return true
}
