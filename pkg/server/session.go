package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/notify"
)

// Session is one browser's builder plus its pending toasts.
type Session struct {
	ID      string
	CSRF    string
	Builder *builder.Builder
	Toasts  *notify.Queue

	lastSeen time.Time
}

// BuilderFactory creates the builder for a new session. toasts must be
// wired as the builder's notifier.
type BuilderFactory func(sessionID string, toasts notify.Notifier) *builder.Builder

// SessionStore keeps sessions in memory and expires them after an idle TTL.
// A fresh session starts with an empty builder.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	limit    int
	now      func() time.Time
	factory  BuilderFactory
}

func NewSessionStore(ttl time.Duration, toastLimit int, now func() time.Time, factory BuilderFactory) *SessionStore {
	if now == nil {
		now = time.Now
	}
	if factory == nil {
		factory = func(_ string, toasts notify.Notifier) *builder.Builder {
			return builder.New(builder.WithNotifier(toasts))
		}
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		limit:    toastLimit,
		now:      now,
		factory:  factory,
	}
}

// Get returns the live session for id and refreshes its idle timer.
func (s *SessionStore) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// Create starts a new session.
func (s *SessionStore) Create() *Session {
	id := uuid.NewString()
	toasts := notify.NewQueue(s.limit)
	sess := &Session{
		ID:      id,
		CSRF:    uuid.NewString(),
		Builder: s.factory(id, toasts),
		Toasts:  toasts,
	}

	s.mu.Lock()
	sess.lastSeen = s.now()
	s.sessions[id] = sess
	s.mu.Unlock()
	return sess
}

// Delete drops a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep removes idle sessions and reports how many were dropped.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run sweeps every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *SessionStore) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}
