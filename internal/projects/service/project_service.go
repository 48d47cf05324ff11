package service

import (
	"context"
	"fmt"
	"time"

	"github.com/persona-lab/persona-backend/internal/platform/idgen"
	"github.com/persona-lab/persona-backend/internal/projects/domain"
	"github.com/persona-lab/persona-backend/internal/projects/repository"
)

// CollectionInitializer prepares empty persona storage for a new project.
type CollectionInitializer interface {
	InitCollection(ctx context.Context, projectID string) error
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo        repository.Store
	collections CollectionInitializer
	ids         idgen.Generator
	now         func() time.Time
}

// NewProjectService creates a new project service
func NewProjectService(repo repository.Store, collections CollectionInitializer, ids idgen.Generator) *ProjectService {
	return &ProjectService{
		repo:        repo,
		collections: collections,
		ids:         ids,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source.
func (s *ProjectService) WithClock(now func() time.Time) *ProjectService {
	s.now = now
	return s
}

// Create creates a new project with an empty persona collection.
func (s *ProjectService) Create(ctx context.Context, name, description string) (*domain.Project, error) {
	p := &domain.Project{
		ID:          s.ids.NewID(),
		Name:        name,
		Description: description,
		CreatedAt:   s.now(),
		Status:      domain.StatusNew,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	if s.collections != nil {
		if err := s.collections.InitCollection(ctx, p.ID); err != nil {
			return nil, fmt.Errorf("init persona collection: %w", err)
		}
	}
	return p, nil
}

// List returns all projects in creation order
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.repo.List(ctx)
}

// Get returns one project or domain.ErrProjectNotFound
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.Get(ctx, id)
}
