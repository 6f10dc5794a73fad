package security

import (
	"context"
	"sync"
	"time"

	"todo-app/internal/apperr"
	"todo-app/internal/models"
)

// MemoryStore is an in-process SessionStore. Sessions do not survive a
// restart and are not shared between replicas.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]models.Session)}
}

func (s *MemoryStore) CreateSession(ctx context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[sess.TokenHash]; ok {
		return apperr.ErrConflict
	}
	s.m[sess.TokenHash] = *sess
	return nil
}

func (s *MemoryStore) GetSession(ctx context.Context, tokenHash string) (*models.Session, error) {
	s.mu.RLock()
	sess, ok := s.m[tokenHash]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *MemoryStore) DeleteSession(ctx context.Context, tokenHash string) error {
	s.mu.Lock()
	delete(s.m, tokenHash)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) PurgeSessions(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, sess := range s.m {
		if sess.Expired(now) {
			delete(s.m, k)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored sessions, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
