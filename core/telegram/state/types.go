package state

import (
	"time"

	"github.com/google/uuid"
)

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Session stores conversation state and collected values for a user.
type Session struct {
	// ID correlates log lines of one pass through a conversation.
	ID        uuid.UUID
	State     State
	Fields    map[string]any
	StartedAt time.Time
}

// NewSession creates a session positioned at st.
func NewSession(st State) *Session {
	return &Session{
		ID:        uuid.New(),
		State:     st,
		Fields:    make(map[string]any),
		StartedAt: time.Now(),
	}
}

// Put stores a collected value.
func (s *Session) Put(key string, value any) {
	if s.Fields == nil {
		s.Fields = make(map[string]any)
	}
	s.Fields[key] = value
}

// String returns a string value stored under key.
func (s *Session) String(key string) (string, bool) {
	v, ok := s.Fields[key].(string)
	return v, ok
}

// Bool returns a boolean value stored under key.
func (s *Session) Bool(key string) (bool, bool) {
	v, ok := s.Fields[key].(bool)
	return v, ok
}

// Store hands out exclusive per-user access to sessions.
type Store interface {
	// Lock blocks until the caller owns userID's slot.
	Lock(userID int64) *Handle
	// InProgress reports whether userID has a stored session.
	InProgress(userID int64) bool
	// Active returns the number of stored sessions.
	Active() int
}
