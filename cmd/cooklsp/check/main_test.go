package check

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCleanFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/r/soup.cook", []byte("@onion{1}\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/r/salad.cook", []byte("Mix @greens{} in #bowl{}\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/r/notes.txt", []byte("not a recipe"), 0o644))

	me := &Handler{jobs: 2}
	assert.NoError(t, me.Run(context.Background(), fs, []string{"/r"}))
}

func TestRunReportsErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/r/bad.cook", []byte("@tomato{\n"), 0o644))

	me := &Handler{jobs: 1}
	err := me.Run(context.Background(), fs, []string{"/r"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.cook")
}

func TestRunNoFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/empty", 0o755))

	me := &Handler{jobs: 1}
	assert.Error(t, me.Run(context.Background(), fs, []string{"/empty"}))
}

func TestCollectRecipeFilesDedup(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/r/a.cook", []byte(""), 0o644))

	files, err := collectRecipeFiles(fs, []string{"/r", "/r/a.cook"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/r/a.cook"}, files)
}
