package agent

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxSessionTurns bounds how much history a session keeps. Older turns
// roll off; the context intent only ever needs the recent exchange.
const maxSessionTurns = 10

// sessionIdleTTL is how long an untouched session survives before the
// sweep drops it.
const sessionIdleTTL = 30 * time.Minute

// Turn is one utterance in a chat session.
type Turn struct {
	Role string // "customer" or "assistant"
	Text string
}

// Session holds the bounded transcript for one conversation.
type Session struct {
	ID string

	mu       sync.Mutex
	turns    []Turn
	lastSeen time.Time
}

// Append records a turn, dropping the oldest once the bound is reached.
func (s *Session) Append(role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{Role: role, Text: text})
	if len(s.turns) > maxSessionTurns {
		s.turns = s.turns[len(s.turns)-maxSessionTurns:]
	}
}

// Transcript renders the session history for prompt context.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	for _, turn := range s.turns {
		fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Text)
	}
	return b.String()
}

// SessionStore tracks active chat sessions in memory.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Resolve returns the session for the given ID, creating it if unknown.
// An empty ID mints a fresh session with a new UUID. Idle sessions are
// swept on each call; there is no background goroutine to manage.
func (s *SessionStore) Resolve(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, session := range s.sessions {
		session.mu.Lock()
		idle := now.Sub(session.lastSeen) > sessionIdleTTL
		session.mu.Unlock()
		if idle {
			delete(s.sessions, key)
		}
	}

	if id == "" {
		id = uuid.NewString()
	}
	session, ok := s.sessions[id]
	if !ok {
		session = &Session{ID: id}
		s.sessions[id] = session
	}
	session.mu.Lock()
	session.lastSeen = now
	session.mu.Unlock()
	return session
}

// Len reports how many sessions are live.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
