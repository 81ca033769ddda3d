package workflow

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps sessions in memory and is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) create(sess *Session) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.ID = uuid.NewString()
	sess.CreatedAt = s.now()
	sess.UpdatedAt = sess.CreatedAt
	s.sessions[sess.ID] = sess
	return sess
}

// with runs fn on the caller's session under the store lock.
func (s *Store) with(userID, sessionID string, fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.UserID != userID {
		return ErrSessionNotFound
	}
	if err := fn(sess); err != nil {
		return err
	}
	sess.UpdatedAt = s.now()
	return nil
}

// Delete removes a session owned by userID.
func (s *Store) Delete(userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.UserID != userID {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

// PurgeIdle drops sessions not touched since cutoff and returns their IDs.
func (s *Store) PurgeIdle(cutoff time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []string
	for id, sess := range s.sessions {
		if sess.Busy || sess.UpdatedAt.After(cutoff) {
			continue
		}
		delete(s.sessions, id)
		removed = append(removed, id)
	}
	return removed
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
