package memory

import (
	"context"
	"sync"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	lastWord map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		lastWord: make(map[string]string),
	}
}

func (s *SessionStore) LastServed(_ context.Context, user string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastWord[user], nil
}

func (s *SessionStore) Remember(_ context.Context, user, word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastWord[user] = word
	return nil
}
