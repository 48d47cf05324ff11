package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/persona-lab/persona-backend/config"
	httpapi "github.com/persona-lab/persona-backend/internal/api/http"
	"github.com/persona-lab/persona-backend/internal/api/http/routes"
	"github.com/persona-lab/persona-backend/internal/metrics"
	"github.com/persona-lab/persona-backend/internal/personas/export"
	"github.com/persona-lab/persona-backend/internal/personas/generation"
	personahttp "github.com/persona-lab/persona-backend/internal/personas/http"
	"github.com/persona-lab/persona-backend/internal/personas/llm"
	personaservice "github.com/persona-lab/persona-backend/internal/personas/service"
	"github.com/persona-lab/persona-backend/internal/platform/idgen"
	projecthttp "github.com/persona-lab/persona-backend/internal/projects/http"
	projectservice "github.com/persona-lab/persona-backend/internal/projects/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const ServiceName = "persona-backend"

// App is the wired HTTP application.
type App struct {
	Router   *gin.Engine
	Registry *prometheus.Registry
	stores   *Stores
}

// NewApp opens the configured stores and wires every handler.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open stores: %w", err)
	}

	completer := llm.NewOpenAICompleter(llm.OpenAIOptions{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAI.Timeout,
	})
	return newApp(cfg, logger, stores, completer), nil
}

func newApp(cfg *config.Config, logger *zap.Logger, stores *Stores, upstream llm.Completer) *App {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	limit := rate.Inf
	if cfg.OpenAI.RateLimit > 0 {
		limit = rate.Limit(cfg.OpenAI.RateLimit)
	}
	completer := llm.RateLimited(llm.Instrumented(upstream, m), rate.NewLimiter(limit, max(cfg.OpenAI.Burst, 1)))

	projectSvc := projectservice.NewProjectService(stores.Projects, stores.Personas, idgen.UUID{})
	personaSvc := personaservice.NewPersonaService(stores.Personas, idgen.UUID{})
	generator := generation.NewGenerator(completer, projectSvc, stores.Personas, idgen.UUID{}, generation.Config{
		Total:       cfg.Generation.Total,
		BatchSize:   cfg.Generation.BatchSize,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Pacer:       generation.FixedDelay(cfg.Generation.BatchDelay),
		Metrics:     m,
	})

	router := BuildRouter(RouterDeps{
		ServiceName:    ServiceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Logger:         logger,
		Gatherer:       reg,
		Store:          stores.Pinger,
		API: routes.APIDeps{
			Projects: projecthttp.New(projectSvc),
			Personas: personahttp.New(personaSvc, generator, projectSvc, export.NewRenderer(true)),
			System:   httpapi.NewSystemHandler(completer, cfg.OpenAI.APIKey != ""),
		},
	})

	return &App{Router: router, Registry: reg, stores: stores}
}

// Close releases the store connections.
func (a *App) Close() error {
	return a.stores.Close()
}
