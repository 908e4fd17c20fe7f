package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"ArticlesRenderer/internal/config"
	"ArticlesRenderer/internal/dom"
	"ArticlesRenderer/internal/loop"
	"ArticlesRenderer/internal/pages"
	"ArticlesRenderer/internal/ports"
)

// RendererDeps wires all driven adapters into the renderer.
type RendererDeps struct {
	API         ports.ArticleAPI
	Store       ports.PageStore
	Registry    *pages.Registry
	Logger      *slog.Logger
	Now         func() time.Time
	DetailPath  string
	Concurrency int
}

// Renderer turns page sources into populated pages.
type Renderer struct {
	api         ports.ArticleAPI
	store       ports.PageStore
	registry    *pages.Registry
	logger      *slog.Logger
	now         func() time.Time
	detailPath  string
	concurrency int
}

// Result describes one rendered page.
type Result struct {
	Name     string
	Output   string
	Sections []string
}

// NewRenderer constructs the page rendering use case.
func NewRenderer(deps RendererDeps) *Renderer {
	r := &Renderer{
		api:         deps.API,
		store:       deps.Store,
		registry:    deps.Registry,
		logger:      deps.Logger,
		now:         deps.Now,
		detailPath:  deps.DetailPath,
		concurrency: deps.Concurrency,
	}
	if r.registry == nil {
		r.registry = pages.DefaultRegistry()
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.concurrency < 1 {
		r.concurrency = 1
	}
	return r
}

// RenderPages renders every page, at most r.concurrency at a time. Pages do not
// share state, so one failing page does not stop the others; the first error is returned.
func (r *Renderer) RenderPages(ctx context.Context, pageCfgs []config.PageConfig) ([]Result, error) {
	results := make([]Result, len(pageCfgs))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, pageCfg := range pageCfgs {
		i, pageCfg := i, pageCfg
		g.Go(func() error {
			res, err := r.RenderPage(ctx, pageCfg)
			if err != nil {
				r.logger.Error("render page failed", "page", pageName(pageCfg), "error", err)
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// RenderPage loads a page source, runs its initializers to completion and stores the output.
func (r *Renderer) RenderPage(ctx context.Context, pageCfg config.PageConfig) (Result, error) {
	name := pageName(pageCfg)
	if r.store == nil {
		return Result{}, fmt.Errorf("page %s: page store is not configured", name)
	}
	if pageCfg.Output == "" {
		return Result{}, fmt.Errorf("page %s: output path is empty", name)
	}

	initializers, err := r.registry.Select(pageCfg.Initializers)
	if err != nil {
		return Result{}, fmt.Errorf("page %s: %w", name, err)
	}

	raw, err := r.store.Read(ctx, pageCfg.Input)
	if err != nil {
		return Result{}, fmt.Errorf("page %s: %w", name, err)
	}

	page, err := dom.Parse(bytes.NewReader(raw), pageCfg.URL)
	if err != nil {
		return Result{}, fmt.Errorf("page %s: %w", name, err)
	}

	logger := r.logger.With("page", name)
	pages.Bootstrap(page, r.now())

	l := loop.New(ctx)
	env := pages.Env{
		Page:       page,
		Loop:       l,
		API:        r.api,
		Logger:     logger,
		DetailPath: r.detailPath,
	}

	var sections []string
	for _, initializer := range initializers {
		if initializer.Init(env) {
			sections = append(sections, initializer.Name())
		}
	}
	logger.Debug("sections started", "sections", sections, "pending", l.Pending())

	if err := l.Run(); err != nil {
		return Result{}, fmt.Errorf("page %s: %w", name, err)
	}

	out, err := page.Render()
	if err != nil {
		return Result{}, fmt.Errorf("page %s: %w", name, err)
	}
	if err := r.store.Write(ctx, pageCfg.Output, out); err != nil {
		return Result{}, fmt.Errorf("page %s: %w", name, err)
	}

	logger.Info("page rendered", "output", pageCfg.Output, "sections", sections)
	return Result{Name: name, Output: pageCfg.Output, Sections: sections}, nil
}

func pageName(pageCfg config.PageConfig) string {
	if pageCfg.Name != "" {
		return pageCfg.Name
	}
	return pageCfg.Input
}
