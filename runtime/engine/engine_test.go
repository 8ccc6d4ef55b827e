package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brace-lang/brace/runtime/files"
	"github.com/brace-lang/brace/runtime/parser"
)

func TestRenderSource(t *testing.T) {
	out, err := New().Render(context.Background(), "Hello, {name}!", map[string]any{"name": "World"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", out)
}

func TestRenderParseErrorSurfaces(t *testing.T) {
	_, err := New().Render(context.Background(), "{if a}no close", nil)

	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parser.ErrMissingClosingTag, perr.Kind)
}

func TestRenderWithMapLoader(t *testing.T) {
	e := New(WithLoader(files.MapLoader{"inner.html": "in"}))
	out, err := e.Render(context.Background(), `{import "inner.html"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "in", out)
}

func TestRenderFileDefaultsImportsToTemplateDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"), []byte(`<{import "part.html"}>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "part.html"), []byte("{n}"), 0o644))

	out, err := New().RenderFile(context.Background(), filepath.Join(dir, "page.html"), map[string]any{"n": 5})
	require.NoError(t, err)
	assert.Equal(t, "<5>", out)
}

func TestRenderFileExplicitImportDir(t *testing.T) {
	dir := t.TempDir()
	partials := filepath.Join(dir, "partials")
	require.NoError(t, os.Mkdir(partials, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"), []byte(`{import "part.html"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(partials, "part.html"), []byte("p"), 0o644))

	e := New(WithImportDir(partials))
	out, err := e.RenderFile(context.Background(), filepath.Join(dir, "page.html"), nil)
	require.NoError(t, err)
	assert.Equal(t, "p", out)
}

func TestRenderFileMissingTemplate(t *testing.T) {
	_, err := New().RenderFile(context.Background(), filepath.Join(t.TempDir(), "nope.html"), nil)
	assert.Error(t, err)
}
