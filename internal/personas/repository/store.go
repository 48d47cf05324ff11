package repository

import (
	"context"

	"github.com/persona-lab/persona-backend/internal/personas/domain"
)

// Store manages the base/generated persona collections of each project.
//
// Collection and UpdateBase return domain.ErrProjectNotFound when no
// collection was ever recorded for the project.
type Store interface {
	// InitCollection records an empty collection; existing ones are kept.
	InitCollection(ctx context.Context, projectID string) error
	// AddBase appends to the base sequence, creating the collection if needed.
	AddBase(ctx context.Context, projectID string, p domain.Persona) error
	// AppendGenerated appends to the generated sequence, creating the
	// collection if needed.
	AppendGenerated(ctx context.Context, projectID string, ps ...domain.Persona) error
	Collection(ctx context.Context, projectID string) (domain.Collection, error)
	// UpdateBase replaces the base persona personaID with fn(current), in
	// place. It fails with domain.ErrPersonaNotFound when no base persona
	// has that ID.
	UpdateBase(ctx context.Context, projectID, personaID string, fn func(domain.Persona) domain.Persona) (domain.Persona, error)
}
