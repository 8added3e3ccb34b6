package repository

import (
	"context"
	"sync"

	"artshare/internal/models"
)

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{sessions: make(map[string]models.Session)}
}

func (r *memorySessionRepository) Kind() string { return "memory" }

func (r *memorySessionRepository) Save(_ context.Context, session *models.Session) error {
	cp := *session
	if session.User != nil {
		u := *session.User
		cp.User = &u
	}

	r.mu.Lock()
	r.sessions[session.ID] = cp
	r.mu.Unlock()
	return nil
}

func (r *memorySessionRepository) Get(_ context.Context, sessionID string) (*models.Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return &s, nil
}

func (r *memorySessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	return nil
}

func (r *memorySessionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), nil
}
