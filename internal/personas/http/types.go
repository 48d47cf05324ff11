package http

import (
	"context"

	"github.com/persona-lab/persona-backend/internal/personas/export"
	"github.com/persona-lab/persona-backend/internal/personas/generation"
	"github.com/persona-lab/persona-backend/internal/personas/service"
	projectdomain "github.com/persona-lab/persona-backend/internal/projects/domain"
)

// Generator runs AI generation for a project.
type Generator interface {
	Generate(ctx context.Context, projectID string) (*generation.Result, error)
}

// ProjectLookup resolves project names for report documents.
type ProjectLookup interface {
	Get(ctx context.Context, id string) (*projectdomain.Project, error)
}

type Handler struct {
	svc      *service.PersonaService
	gen      Generator
	projects ProjectLookup
	pdf      *export.Renderer
}

func New(svc *service.PersonaService, gen Generator, projects ProjectLookup, pdf *export.Renderer) *Handler {
	return &Handler{svc: svc, gen: gen, projects: projects, pdf: pdf}
}
