// Package renderer walks a parsed template tree and produces output text.
// Rendering is strictly sequential: every child is rendered to completion
// before the next begins, so output order is stable and later siblings can
// observe side effects of context-provided callables invoked earlier. The
// only blocking point is the loader call inside import resolution.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/brace-lang/brace/runtime/ast"
	"github.com/brace-lang/brace/runtime/parser"
)

// Settings configures a render call.
type Settings struct {
	// ImportDir is the directory relative import paths resolve against.
	ImportDir string
}

// Loader supplies template source for import resolution. A loader signals a
// missing template by returning an error matching ErrNotFound or
// fs.ErrNotExist; any other failure propagates to the caller unchanged.
type Loader interface {
	Load(ctx context.Context, path string) (string, error)
}

// ErrNotFound is the sentinel loaders wrap to report a missing template.
var ErrNotFound = errors.New("template not found")

// ImportNotFoundError is the user-facing failure for an import whose
// resolved path could not be located.
type ImportNotFoundError struct {
	Path string
}

func (e *ImportNotFoundError) Error() string {
	return fmt.Sprintf("Imported file %q could not be found.", e.Path)
}

// Renderer evaluates a template tree against a data context. A Renderer is
// stateless across Render calls and safe for reuse.
type Renderer struct {
	loader   Loader
	settings Settings
	logger   *slog.Logger
}

// New creates a renderer. loader may be nil, in which case every import that
// is not overridden in the data context fails as not found.
func New(loader Loader, settings Settings) *Renderer {
	logLevel := slog.LevelInfo
	if os.Getenv("BRACE_DEBUG_RENDER") != "" {
		logLevel = slog.LevelDebug
	}
	return &Renderer{
		loader:   loader,
		settings: settings,
		logger:   slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})),
	}
}

// Render walks the tree and concatenates all output. Node types the renderer
// does not know render as empty string rather than failing, so the grammar
// can grow without breaking existing callers.
func (r *Renderer) Render(ctx context.Context, node ast.Node, data map[string]any) (string, error) {
	switch n := node.(type) {
	case *ast.BlockList:
		return r.renderBlockList(ctx, n, data)
	case *ast.Text:
		return applyFlags(n.Value, n.Flags), nil
	case *ast.Tag:
		return r.renderTag(ctx, n, data)
	case *ast.If:
		return r.renderIf(ctx, n, data)
	case *ast.Else:
		return r.renderBlockList(ctx, n.Body, data)
	case *ast.For:
		return r.renderFor(ctx, n, data)
	case *ast.Import:
		return r.renderImport(ctx, n, data)
	default:
		r.logger.Debug("[RENDER] unknown node type", "node", fmt.Sprintf("%T", node))
		return "", nil
	}
}

// renderBlockList renders children in order against the same data context,
// awaiting each before starting the next.
func (r *Renderer) renderBlockList(ctx context.Context, list *ast.BlockList, data map[string]any) (string, error) {
	var b strings.Builder
	for _, block := range list.Blocks {
		out, err := r.Render(ctx, block, data)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func (r *Renderer) renderTag(ctx context.Context, tag *ast.Tag, data map[string]any) (string, error) {
	value, err := r.eval(tag.Expr, data)
	if err != nil {
		return "", err
	}
	return applyFlags(stringify(value), tag.Flags), nil
}

func (r *Renderer) renderIf(ctx context.Context, node *ast.If, data map[string]any) (string, error) {
	test, err := r.eval(node.Test, data)
	if err != nil {
		return "", err
	}
	if truthy(test) {
		return r.renderBlockList(ctx, node.Consequent, data)
	}
	if node.Alternate != nil {
		return r.Render(ctx, node.Alternate, data)
	}
	return "", nil
}

// renderFor derives an ordered (index-or-key, value) sequence from the
// iterator value and renders the body once per pair. Each iteration gets a
// shallow copy of the outer context overlaid with the loop bindings, so
// nothing leaks to the parent scope. A non-iterable value yields no output.
func (r *Renderer) renderFor(ctx context.Context, node *ast.For, data map[string]any) (string, error) {
	seq, err := r.eval(node.Seq, data)
	if err != nil {
		return "", err
	}

	pairs := sequence(seq)
	r.logger.Debug("[RENDER] for", "line", node.Line, "iterations", len(pairs))

	var b strings.Builder
	for _, pair := range pairs {
		scope := overlay(data)
		scope[node.Names[0]] = pair.value
		if len(node.Names) > 1 {
			scope[node.Names[1]] = pair.key
		}

		out, err := r.renderBlockList(ctx, node.Body, scope)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// renderImport loads, parses and renders another template. The path is
// evaluated against the current context; a string value stored in the data
// context under that exact path is used verbatim as template source,
// bypassing the loader. Relative paths resolve POSIX-style against the
// import directory. `with` arguments are evaluated against the outer
// context, then shallow-merged onto a copy of it for the imported render.
func (r *Renderer) renderImport(ctx context.Context, node *ast.Import, data map[string]any) (string, error) {
	pathValue, err := r.eval(node.Path, data)
	if err != nil {
		return "", err
	}
	name := stringify(pathValue)

	source, err := r.loadImport(ctx, name, data)
	if err != nil {
		return "", err
	}

	tree, err := parser.Parse(source)
	if err != nil {
		return "", err
	}

	scope := overlay(data)
	for _, arg := range node.Args {
		value, err := r.eval(arg.Value, data)
		if err != nil {
			return "", err
		}
		scope[arg.Key] = value
	}
	return r.Render(ctx, tree, scope)
}

func (r *Renderer) loadImport(ctx context.Context, name string, data map[string]any) (string, error) {
	if override, ok := data[name].(string); ok {
		r.logger.Debug("[RENDER] import override", "path", name)
		return override, nil
	}

	resolved := name
	if !path.IsAbs(resolved) {
		resolved = path.Join(r.settings.ImportDir, resolved)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.loader == nil {
		return "", &ImportNotFoundError{Path: name}
	}

	r.logger.Debug("[RENDER] import load", "path", resolved)
	source, err := r.loader.Load(ctx, resolved)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return "", &ImportNotFoundError{Path: name}
		}
		return "", err
	}
	return source, nil
}

// overlay makes the shallow copy used at each scope boundary.
func overlay(data map[string]any) map[string]any {
	scope := make(map[string]any, len(data)+2)
	for k, v := range data {
		scope[k] = v
	}
	return scope
}
