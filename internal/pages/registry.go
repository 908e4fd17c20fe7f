package pages

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"ArticlesRenderer/internal/dom"
	"ArticlesRenderer/internal/loop"
	"ArticlesRenderer/internal/ports"
)

// Env carries what an initializer needs to wire a controller into a page.
type Env struct {
	Page       *dom.Page
	Loop       *loop.Loop
	API        ports.ArticleAPI
	Logger     *slog.Logger
	DetailPath string
}

func (e Env) logger(component string) *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return e.Logger.With("component", component)
}

// Initializer configures one page section. Init reports whether the section exists on the page.
type Initializer interface {
	Name() string
	Init(env Env) bool
}

// Registry keeps initializers by name in registration order.
type Registry struct {
	initializers map[string]Initializer
	order        []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{initializers: map[string]Initializer{}}
}

// Register adds or replaces an initializer.
func (r *Registry) Register(initializer Initializer) {
	if r.initializers == nil {
		r.initializers = map[string]Initializer{}
	}
	if _, ok := r.initializers[initializer.Name()]; !ok {
		r.order = append(r.order, initializer.Name())
	}
	r.initializers[initializer.Name()] = initializer
}

// Resolve returns an initializer by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Initializer, error) {
	if initializer, ok := r.initializers[name]; ok {
		return initializer, nil
	}
	return nil, fmt.Errorf("page initializer %s is not registered", name)
}

// Names lists registered initializers in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Select resolves names, or every registered initializer when names is empty.
func (r *Registry) Select(names []string) ([]Initializer, error) {
	if len(names) == 0 {
		names = r.order
	}

	selected := make([]Initializer, 0, len(names))
	for _, name := range names {
		initializer, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, initializer)
	}
	return selected, nil
}
