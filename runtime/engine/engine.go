// Package engine is the embedding surface: parse-and-render in one call,
// with loader and import directory selected through options.
package engine

import (
	"context"
	"os"
	"path"

	"github.com/brace-lang/brace/runtime/files"
	"github.com/brace-lang/brace/runtime/parser"
	"github.com/brace-lang/brace/runtime/renderer"
)

// Option configures an Engine.
type Option func(*Engine)

// WithImportDir sets the directory relative imports resolve against.
func WithImportDir(dir string) Option {
	return func(e *Engine) {
		e.settings.ImportDir = dir
	}
}

// WithLoader replaces the default filesystem loader.
func WithLoader(loader renderer.Loader) Option {
	return func(e *Engine) {
		e.loader = loader
	}
}

// Engine couples a parser and a renderer behind a single surface. An Engine
// is safe for concurrent use.
type Engine struct {
	loader   renderer.Loader
	settings renderer.Settings
}

// New builds an engine. Without options it loads imports from the current
// working directory.
func New(opts ...Option) *Engine {
	e := &Engine{loader: files.DirLoader{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render parses template source and renders it against data.
func (e *Engine) Render(ctx context.Context, source string, data map[string]any) (string, error) {
	tree, err := parser.Parse(source)
	if err != nil {
		return "", err
	}
	r := renderer.New(e.loader, e.settings)
	return r.Render(ctx, tree, data)
}

// RenderFile reads a template from disk and renders it. Unless an import
// directory was configured, imports resolve relative to the template's own
// directory.
func (e *Engine) RenderFile(ctx context.Context, name string, data map[string]any) (string, error) {
	source, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}

	settings := e.settings
	if settings.ImportDir == "" {
		settings.ImportDir = path.Dir(name)
	}

	tree, err := parser.Parse(string(source))
	if err != nil {
		return "", err
	}
	r := renderer.New(e.loader, settings)
	return r.Render(ctx, tree, data)
}
