package state

import (
	"sync"
	"sync/atomic"
)

type slot struct {
	mu      sync.Mutex
	refs    int
	active  atomic.Bool
	session *Session
}

// MemoryStore keeps sessions in process memory. Sessions do not survive restarts.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[int64]*slot
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[int64]*slot)}
}

var _ Store = (*MemoryStore)(nil)

// Lock acquires the slot for userID, creating it on first use.
func (m *MemoryStore) Lock(userID int64) *Handle {
	m.mu.Lock()
	s, ok := m.slots[userID]
	if !ok {
		s = &slot{}
		m.slots[userID] = s
	}
	s.refs++
	m.mu.Unlock()

	s.mu.Lock()
	return &Handle{store: m, key: userID, slot: s}
}

// InProgress reports whether userID currently has a session.
func (m *MemoryStore) InProgress(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[userID]
	return ok && s.active.Load()
}

// Active returns the number of users with a stored session.
func (m *MemoryStore) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.slots {
		if s.active.Load() {
			n++
		}
	}
	return n
}

func (m *MemoryStore) release(userID int64, s *slot) {
	// s.mu is still held here, so no other holder can change s.session.
	m.mu.Lock()
	s.refs--
	if s.refs == 0 && s.session == nil {
		delete(m.slots, userID)
	}
	m.mu.Unlock()
	s.mu.Unlock()
}

// Handle is exclusive access to one user's session. It must be released with Unlock.
type Handle struct {
	store    *MemoryStore
	key      int64
	slot     *slot
	released bool
}

// UserID returns the key the handle was acquired for.
func (h *Handle) UserID() int64 { return h.key }

// Session returns the stored session, if any. The session may be mutated in place
// while the handle is held.
func (h *Handle) Session() (*Session, bool) {
	if h.slot.session == nil {
		return nil, false
	}
	return h.slot.session, true
}

// Set stores sess for the user, replacing any previous session.
func (h *Handle) Set(sess *Session) {
	h.slot.session = sess
	h.slot.active.Store(sess != nil)
}

// Clear removes the user's session.
func (h *Handle) Clear() {
	h.Set(nil)
}

// Unlock releases the handle. Calling it twice is a no-op.
func (h *Handle) Unlock() {
	if h.released {
		return
	}
	h.released = true
	h.store.release(h.key, h.slot)
}
