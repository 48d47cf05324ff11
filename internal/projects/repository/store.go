package repository

import (
	"context"

	"github.com/persona-lab/persona-backend/internal/projects/domain"
)

// Store persists projects in creation order.
type Store interface {
	Create(ctx context.Context, p *domain.Project) error
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
}
