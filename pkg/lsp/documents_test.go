package lsp

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentLifecycle(t *testing.T) {
	dm := NewDocumentManager(afero.NewMemMapFs())
	ctx := context.Background()

	doc := dm.Open(ctx, "file:///tmp/a.cook", 1, "@salt{2%tsp}")
	require.NotNil(t, doc)
	assert.Equal(t, "/tmp/a.cook", doc.URI)
	assert.Equal(t, int32(1), doc.Version)
	require.NotNil(t, doc.Recipe)
	assert.Equal(t, []string{"salt"}, doc.Recipe.IngredientNames())

	// both uri spellings resolve to the same entry
	snap, ok := dm.Snapshot("/tmp/a.cook")
	require.True(t, ok)
	assert.Same(t, doc, snap)
	snap, ok = dm.Snapshot("file:///tmp/a.cook")
	require.True(t, ok)
	assert.Same(t, doc, snap)

	updated := dm.Update(ctx, "file:///tmp/a.cook", 2, "@pepper{}")
	assert.Equal(t, int32(2), updated.Version)
	assert.Equal(t, []string{"pepper"}, updated.Recipe.IngredientNames())

	// the old snapshot is untouched by the update
	assert.Equal(t, []string{"salt"}, snap.Recipe.IngredientNames())

	assert.True(t, dm.Close(ctx, "file:///tmp/a.cook"))
	_, ok = dm.Snapshot("/tmp/a.cook")
	assert.False(t, ok)
	assert.False(t, dm.Close(ctx, "file:///tmp/a.cook"))
}

func TestDocumentReload(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/ws/soup.cook", []byte("@leek{2}"), 0o644))

	dm := NewDocumentManager(fs)
	ctx := context.Background()

	dm.Open(ctx, "file:///ws/soup.cook", 3, "@onion{1}")

	doc, err := dm.Reload(ctx, "file:///ws/soup.cook")
	require.NoError(t, err)
	assert.Equal(t, "@leek{2}", doc.Content)
	assert.Equal(t, int32(3), doc.Version, "reload keeps the stored version")

	_, err = dm.Reload(ctx, "file:///ws/missing.cook")
	assert.Error(t, err)
}

func TestDocumentReparseDeterministic(t *testing.T) {
	dm := NewDocumentManager(afero.NewMemMapFs())
	ctx := context.Background()

	text := ">> title: soup\n= Prep =\nChop @onion{1} with #knife{}\n\nBoil ~{10%min}\n"
	a := dm.Open(ctx, "file:///a.cook", 1, text)
	b := dm.Update(ctx, "file:///a.cook", 2, text)

	assert.Equal(t, a.Diagnostics, b.Diagnostics)
	assert.Equal(t, a.Recipe, b.Recipe)
}

func TestSnapshotsSortedByURI(t *testing.T) {
	dm := NewDocumentManager(afero.NewMemMapFs())
	ctx := context.Background()

	for _, name := range []string{"c", "a", "b"} {
		dm.Open(ctx, fmt.Sprintf("file:///%s.cook", name), 1, "@salt{}")
	}

	snaps := dm.Snapshots()
	require.Len(t, snaps, 3)
	assert.Equal(t, "/a.cook", snaps[0].URI)
	assert.Equal(t, "/b.cook", snaps[1].URI)
	assert.Equal(t, "/c.cook", snaps[2].URI)
	assert.Equal(t, 3, dm.Len())
}

func TestConcurrentAccess(t *testing.T) {
	dm := NewDocumentManager(afero.NewMemMapFs())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		uri := fmt.Sprintf("file:///doc-%d.cook", i)
		dm.Open(ctx, uri, 0, "@salt{}")

		wg.Add(2)
		go func(uri string) {
			defer wg.Done()
			for v := int32(1); v <= 50; v++ {
				dm.Update(ctx, uri, v, fmt.Sprintf("@pepper{%d}", v))
			}
		}(uri)
		go func(uri string) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if doc, ok := dm.Snapshot(uri); ok {
					_ = doc.Recipe.IngredientNames()
					_ = dm.Snapshots()
				}
			}
		}(uri)
	}
	wg.Wait()

	assert.Equal(t, 8, dm.Len())
	for i := 0; i < 8; i++ {
		doc, ok := dm.Snapshot(fmt.Sprintf("/doc-%d.cook", i))
		require.True(t, ok)
		assert.Equal(t, int32(50), doc.Version)
	}
}
