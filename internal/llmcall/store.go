package llmcall

import (
	"sync"
)

// DefaultStoreCapacity bounds the in-memory call history.
const DefaultStoreCapacity = 200

// Store keeps a bounded, newest-first history of extraction calls.
type Store struct {
	mu       sync.RWMutex
	calls    []*Call
	capacity int
}

// NewStore creates a store holding at most capacity calls. A non-positive
// capacity uses DefaultStoreCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultStoreCapacity
	}
	return &Store{capacity: capacity}
}

// Add records a call, evicting the oldest entry when at capacity.
// Nil calls are ignored.
func (s *Store) Add(call *Call) {
	if call == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, call)
	if len(s.calls) > s.capacity {
		s.calls = s.calls[len(s.calls)-s.capacity:]
	}
}

// List returns up to limit calls, newest first. A non-positive limit returns
// all retained calls.
func (s *Store) List(limit int) []*Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.calls)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]*Call, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.calls[i])
	}
	return out
}

// Get returns a call by ID.
func (s *Store) Get(id string) (*Call, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.calls) - 1; i >= 0; i-- {
		if s.calls[i].ID == id {
			return s.calls[i], true
		}
	}
	return nil, false
}

// Len returns the number of retained calls.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calls)
}
