package session

import (
	"context"
	"sync"

	"github.com/oksasatya/go-blog-clean-architecture/internal/domain/entity"
)

// MemoryStore keeps sessions in a mutex-guarded process-wide map. Created once
// at startup; entries appear at login and disappear at logout. Suitable for a
// single-process deployment and for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entity.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]entity.User)}
}

func (s *MemoryStore) Get(_ context.Context, token string) (entity.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.sessions[token]
	return u, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, token string, u entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = u
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

var _ Store = (*MemoryStore)(nil)
