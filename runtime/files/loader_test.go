package files

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brace-lang/brace/runtime/renderer"
)

func TestDirLoaderReadsFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card.html")
	require.NoError(t, os.WriteFile(path, []byte("card {n}"), 0o644))

	source, err := DirLoader{}.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "card {n}", source)
}

func TestDirLoaderMissingFileIsNotExist(t *testing.T) {
	_, err := DirLoader{}.Load(context.Background(), filepath.Join(t.TempDir(), "nope.html"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDirLoaderHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DirLoader{}.Load(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapLoader(t *testing.T) {
	loader := MapLoader{"a.html": "A"}

	source, err := loader.Load(context.Background(), "a.html")
	require.NoError(t, err)
	assert.Equal(t, "A", source)

	_, err = loader.Load(context.Background(), "b.html")
	assert.ErrorIs(t, err, renderer.ErrNotFound)
}
