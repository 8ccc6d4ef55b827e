// Package files provides the template loaders the renderer resolves imports
// through.
package files

import (
	"context"
	"fmt"
	"os"

	"github.com/brace-lang/brace/runtime/renderer"
)

// DirLoader reads templates from the local filesystem. Paths arrive already
// resolved by the renderer, so reads are direct.
type DirLoader struct{}

func (DirLoader) Load(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// os.ReadFile failures wrap fs.ErrNotExist for missing files, which the
	// renderer maps to its not-found error.
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MapLoader serves templates from an in-memory map keyed by path. It backs
// tests and embedded use where no filesystem is involved.
type MapLoader map[string]string

func (m MapLoader) Load(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	source, ok := m[path]
	if !ok {
		return "", fmt.Errorf("%q: %w", path, renderer.ErrNotFound)
	}
	return source, nil
}
