package service

import (
	"context"
	"errors"
	"time"

	"github.com/persona-lab/persona-backend/internal/personas/domain"
	"github.com/persona-lab/persona-backend/internal/personas/repository"
	"github.com/persona-lab/persona-backend/internal/platform/idgen"
)

// PersonaService handles manual persona management for a project.
type PersonaService struct {
	store repository.Store
	ids   idgen.Generator
	now   func() time.Time
}

// NewPersonaService creates a new PersonaService
func NewPersonaService(store repository.Store, ids idgen.Generator) *PersonaService {
	return &PersonaService{
		store: store,
		ids:   ids,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source.
func (s *PersonaService) WithClock(now func() time.Time) *PersonaService {
	s.now = now
	return s
}

// AddBase stores a manually entered persona. The project is not required to
// exist in the project store.
func (s *PersonaService) AddBase(ctx context.Context, projectID string, in domain.Input) (domain.Persona, error) {
	p := domain.NewPersona(s.ids.NewID(), in, s.now(), false)
	if err := s.store.AddBase(ctx, projectID, p); err != nil {
		return domain.Persona{}, err
	}
	return p, nil
}

// List returns base personas followed by generated ones. Projects without a
// collection yield an empty list.
func (s *PersonaService) List(ctx context.Context, projectID string) ([]domain.Persona, error) {
	c, err := s.store.Collection(ctx, projectID)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return []domain.Persona{}, nil
	}
	if err != nil {
		return nil, err
	}
	return c.All(), nil
}

// UpdateBase merges patch into an existing base persona.
func (s *PersonaService) UpdateBase(ctx context.Context, projectID, personaID string, patch domain.Patch) (domain.Persona, error) {
	return s.store.UpdateBase(ctx, projectID, personaID, patch.Apply)
}

// Get looks a persona up in the base sequence, then the generated one.
func (s *PersonaService) Get(ctx context.Context, projectID, personaID string) (domain.Persona, error) {
	c, err := s.store.Collection(ctx, projectID)
	if err != nil {
		return domain.Persona{}, err
	}
	p, ok := c.Find(personaID)
	if !ok {
		return domain.Persona{}, domain.ErrPersonaNotFound
	}
	return p, nil
}

// Collection returns both persona sequences of a project.
func (s *PersonaService) Collection(ctx context.Context, projectID string) (domain.Collection, error) {
	return s.store.Collection(ctx, projectID)
}
