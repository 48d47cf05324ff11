package repository

import (
	"context"
	"sync"

	"github.com/persona-lab/persona-backend/internal/projects/domain"
)

// MemoryStore keeps projects in process memory. State is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	projects []domain.Project
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Create(_ context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = append(s.projects, *p)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Project, len(s.projects))
	copy(out, s.projects)
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.projects {
		if s.projects[i].ID == id {
			p := s.projects[i]
			return &p, nil
		}
	}
	return nil, domain.ErrProjectNotFound
}
