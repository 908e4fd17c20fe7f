package app

import (
	"context"
	"fmt"
	"log/slog"

	"ArticlesRenderer/internal/config"
	"ArticlesRenderer/internal/infrastructure/api"
	"ArticlesRenderer/internal/infrastructure/filestore"
	"ArticlesRenderer/internal/logging"
	"ArticlesRenderer/internal/pages"
	"ArticlesRenderer/internal/usecase"
)

// Application wires configs to use cases.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	renderer *usecase.Renderer
}

// New builds a runnable application instance. storeRoot resolves relative page paths.
func New(cfg config.Config, baseLogger *slog.Logger, storeRoot string) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	client, err := api.NewClient(cfg.API, nil)
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}

	renderer := usecase.NewRenderer(usecase.RendererDeps{
		API:         client,
		Store:       filestore.New(storeRoot),
		Registry:    pages.DefaultRegistry(),
		Logger:      baseLogger.With("component", "renderer"),
		DetailPath:  cfg.Render.DetailPath,
		Concurrency: cfg.Render.Concurrency,
	})

	return &Application{cfg: cfg, logger: baseLogger, renderer: renderer}, nil
}

// Run renders every page listed in the configuration.
func (a *Application) Run(ctx context.Context) error {
	if len(a.cfg.Pages) == 0 {
		return fmt.Errorf("no pages configured")
	}
	return a.RenderPages(ctx, a.cfg.Pages)
}

// RenderPages renders the given pages and logs a summary.
func (a *Application) RenderPages(ctx context.Context, pageCfgs []config.PageConfig) error {
	results, err := a.renderer.RenderPages(ctx, pageCfgs)
	rendered := 0
	for _, res := range results {
		if res.Output != "" {
			rendered++
		}
	}
	a.logger.Info("render finished", "pages", len(pageCfgs), "rendered", rendered)
	return err
}
