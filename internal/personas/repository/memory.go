package repository

import (
	"context"
	"sync"

	"github.com/persona-lab/persona-backend/internal/personas/domain"
)

// MemoryStore keeps persona collections in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*domain.Collection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*domain.Collection)}
}

func (s *MemoryStore) InitCollection(_ context.Context, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensure(projectID)
	return nil
}

func (s *MemoryStore) AddBase(_ context.Context, projectID string, p domain.Persona) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.ensure(projectID)
	c.Base = append(c.Base, p)
	return nil
}

func (s *MemoryStore) AppendGenerated(_ context.Context, projectID string, ps ...domain.Persona) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.ensure(projectID)
	c.Generated = append(c.Generated, ps...)
	return nil
}

func (s *MemoryStore) Collection(_ context.Context, projectID string) (domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[projectID]
	if !ok {
		return domain.Collection{}, domain.ErrProjectNotFound
	}
	return domain.Collection{
		Base:      append([]domain.Persona(nil), c.Base...),
		Generated: append([]domain.Persona(nil), c.Generated...),
	}, nil
}

func (s *MemoryStore) UpdateBase(_ context.Context, projectID, personaID string, fn func(domain.Persona) domain.Persona) (domain.Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[projectID]
	if !ok {
		return domain.Persona{}, domain.ErrProjectNotFound
	}
	for i := range c.Base {
		if c.Base[i].ID == personaID {
			c.Base[i] = fn(c.Base[i])
			return c.Base[i], nil
		}
	}
	return domain.Persona{}, domain.ErrPersonaNotFound
}

// ensure must be called with s.mu held for writing.
func (s *MemoryStore) ensure(projectID string) *domain.Collection {
	c, ok := s.collections[projectID]
	if !ok {
		c = &domain.Collection{}
		s.collections[projectID] = c
	}
	return c
}
