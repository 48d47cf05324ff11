// Package generation produces AI personas for a project in small sequential
// batches.
package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/persona-lab/persona-backend/internal/logging"
	"github.com/persona-lab/persona-backend/internal/metrics"
	"github.com/persona-lab/persona-backend/internal/personas/domain"
	"github.com/persona-lab/persona-backend/internal/personas/llm"
	"github.com/persona-lab/persona-backend/internal/personas/repository"
	"github.com/persona-lab/persona-backend/internal/platform/idgen"
	projectdomain "github.com/persona-lab/persona-backend/internal/projects/domain"
	"go.uber.org/zap"
)

const (
	DefaultTotal       = 10
	DefaultBatchSize   = 2
	DefaultBatchDelay  = 2 * time.Second
	DefaultTemperature = 0.8
	DefaultMaxTokens   = 2000
)

// ProjectLookup resolves the project whose description seeds the prompt.
type ProjectLookup interface {
	Get(ctx context.Context, id string) (*projectdomain.Project, error)
}

// Config tunes a Generator. Zero values fall back to the defaults above.
type Config struct {
	Total       int
	BatchSize   int
	Temperature float64
	MaxTokens   int
	// Pacer runs between batches; nil means FixedDelay(DefaultBatchDelay).
	Pacer   Pacer
	Metrics *metrics.Metrics
	Clock   func() time.Time
}

// Generator orchestrates batched persona generation.
type Generator struct {
	completer llm.Completer
	projects  ProjectLookup
	store     repository.Store
	ids       idgen.Generator

	total       int
	batchSize   int
	temperature float64
	maxTokens   int
	pacer       Pacer
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewGenerator(completer llm.Completer, projects ProjectLookup, store repository.Store, ids idgen.Generator, cfg Config) *Generator {
	g := &Generator{
		completer:   completer,
		projects:    projects,
		store:       store,
		ids:         ids,
		total:       cfg.Total,
		batchSize:   cfg.BatchSize,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		pacer:       cfg.Pacer,
		metrics:     cfg.Metrics,
		now:         cfg.Clock,
	}
	if g.total <= 0 {
		g.total = DefaultTotal
	}
	if g.batchSize <= 0 {
		g.batchSize = DefaultBatchSize
	}
	if g.temperature <= 0 {
		g.temperature = DefaultTemperature
	}
	if g.maxTokens <= 0 {
		g.maxTokens = DefaultMaxTokens
	}
	if g.pacer == nil {
		g.pacer = FixedDelay(DefaultBatchDelay)
	}
	if g.now == nil {
		g.now = func() time.Time { return time.Now().UTC() }
	}
	return g
}

// Generate runs every batch for projectID and returns what was produced.
// A failing batch is recorded in the result and does not stop the run.
//
// It fails with domain.ErrProjectNotFound when the project has no persona
// collection or is not registered, and with a *domain.ValidationError when
// the project has fewer than domain.MinBasePersonas base personas.
func (g *Generator) Generate(ctx context.Context, projectID string) (*Result, error) {
	log := logging.FromContext(ctx).With(zap.String("project_id", projectID))

	c, err := g.store.Collection(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load personas: %w", err)
	}
	if len(c.Base) < domain.MinBasePersonas {
		log.Warn("not enough base personas", zap.Int("base", len(c.Base)))
		return nil, domain.ErrNotEnoughBasePersonas(len(c.Base))
	}

	project, err := g.projects.Get(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	batches := (g.total + g.batchSize - 1) / g.batchSize
	log.Info("starting persona generation",
		zap.Int("base", len(c.Base)),
		zap.Int("target", g.total),
		zap.Int("batches", batches))

	res := &Result{Personas: []domain.Persona{}}
	for i := 0; i < batches; i++ {
		size := min(g.batchSize, g.total-i*g.batchSize)

		br := g.runBatch(ctx, projectID, project.Description, c.Base, i+1, size)
		g.metrics.RecordBatch(len(br.Personas), br.Err)
		if br.Err != nil {
			log.Error("batch failed", zap.Int("batch", br.Index), zap.Error(br.Err))
		} else {
			log.Info("batch complete", zap.Int("batch", br.Index), zap.Int("personas", len(br.Personas)))
		}

		res.Batches = append(res.Batches, br)
		res.Personas = append(res.Personas, br.Personas...)

		if i < batches-1 {
			if err := g.pacer.Wait(ctx); err != nil {
				return res, fmt.Errorf("generation interrupted after batch %d: %w", i+1, err)
			}
		}
	}

	log.Info("persona generation complete",
		zap.Int("generated", len(res.Personas)),
		zap.Int("failed_batches", len(res.Failed())))
	return res, nil
}

func (g *Generator) runBatch(ctx context.Context, projectID, description string, base []domain.Persona, index, size int) BatchResult {
	br := BatchResult{Index: index, Requested: size}

	user, err := buildUserPrompt(description, base, size)
	if err != nil {
		br.Err = err
		return br
	}

	text, err := g.completer.Complete(ctx, llm.Prompt{
		System:      systemPrompt,
		User:        user,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		JSON:        true,
	})
	if err != nil {
		br.Err = err
		return br
	}

	inputs, skipped, err := parsePersonas(text)
	if err != nil {
		br.Err = err
		return br
	}
	if skipped > 0 {
		logging.FromContext(ctx).Warn("skipped non-object personas in AI response",
			zap.String("project_id", projectID),
			zap.Int("batch", index),
			zap.Int("skipped", skipped))
	}

	personas := make([]domain.Persona, 0, len(inputs))
	for _, in := range inputs {
		personas = append(personas, domain.NewPersona(g.ids.NewID(), in, g.now(), true))
	}
	if len(personas) > 0 {
		if err := g.store.AppendGenerated(ctx, projectID, personas...); err != nil {
			br.Err = fmt.Errorf("store generated personas: %w", err)
			return br
		}
	}

	br.Personas = personas
	return br
}
