package lsp

import (
	"context"
	"hash/fnv"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/cooklsp/pkg/position"
	"github.com/walteh/cooklsp/pkg/recipe"
	"gitlab.com/tozd/go/errors"
)

// Document is one open file's state: content, derived line index, and
// the latest parse outcome. A Document is immutable once stored; every
// change builds a replacement, so snapshots stay valid across edits.
type Document struct {
	URI     string
	Version int32
	Content string
	Lines   *position.LineIndex

	// Recipe is nil when no structural model could be recovered.
	// Diagnostics are available either way.
	Recipe      *recipe.Recipe
	Diagnostics []recipe.Diagnostic
}

const documentShards = 16

type documentShard struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// DocumentManager is the concurrent uri-to-document registry. Keys are
// partitioned across shards so edits to unrelated documents never
// contend on one lock; within a shard, writers exclude readers.
type DocumentManager struct {
	shards [documentShards]documentShard
	fs     afero.Fs
}

func NewDocumentManager(fs afero.Fs) *DocumentManager {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	dm := &DocumentManager{fs: fs}
	for i := range dm.shards {
		dm.shards[i].docs = make(map[string]*Document)
	}
	return dm
}

func (dm *DocumentManager) shard(uri string) *documentShard {
	h := fnv.New32a()
	h.Write([]byte(uri))
	return &dm.shards[h.Sum32()%documentShards]
}

// normalizeURI strips the file scheme so the same file opened with and
// without it lands on one registry entry.
func normalizeURI(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

func buildDocument(uri string, version int32, content string) *Document {
	model, diags := recipe.Parse(content)
	return &Document{
		URI:         uri,
		Version:     version,
		Content:     content,
		Lines:       position.NewLineIndex(content),
		Recipe:      model,
		Diagnostics: diags,
	}
}

// Open inserts a document and parses it immediately.
func (dm *DocumentManager) Open(ctx context.Context, uri string, version int32, content string) *Document {
	uri = normalizeURI(uri)
	doc := buildDocument(uri, version, content)

	shard := dm.shard(uri)
	shard.mu.Lock()
	shard.docs[uri] = doc
	shard.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Str("uri", uri).
		Int32("version", version).
		Int("diagnostics", len(doc.Diagnostics)).
		Msg("document opened")
	return doc
}

// Update replaces a document's content wholesale and reparses it
// unconditionally. There is no diffing against the previous text:
// recipe files are small and correctness under rapid edits beats
// avoiding redundant work.
func (dm *DocumentManager) Update(ctx context.Context, uri string, version int32, content string) *Document {
	uri = normalizeURI(uri)
	doc := buildDocument(uri, version, content)

	shard := dm.shard(uri)
	shard.mu.Lock()
	shard.docs[uri] = doc
	shard.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Str("uri", uri).
		Int32("version", version).
		Int("diagnostics", len(doc.Diagnostics)).
		Msg("document updated")
	return doc
}

// Reload re-reads a document's content from disk, for saves that do not
// include the text. The stored version is kept.
func (dm *DocumentManager) Reload(ctx context.Context, uri string) (*Document, error) {
	uri = normalizeURI(uri)

	shard := dm.shard(uri)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	prev, ok := shard.docs[uri]
	if !ok {
		return nil, errors.Errorf("reload of unopened document %q", uri)
	}

	content, err := afero.ReadFile(dm.fs, uri)
	if err != nil {
		return nil, errors.Errorf("reading %q: %w", uri, err)
	}

	doc := buildDocument(uri, prev.Version, string(content))
	shard.docs[uri] = doc

	zerolog.Ctx(ctx).Debug().Str("uri", uri).Msg("document reloaded from disk")
	return doc, nil
}

// Close removes a document. It reports whether the uri was open.
func (dm *DocumentManager) Close(ctx context.Context, uri string) bool {
	uri = normalizeURI(uri)

	shard := dm.shard(uri)
	shard.mu.Lock()
	_, ok := shard.docs[uri]
	delete(shard.docs, uri)
	shard.mu.Unlock()

	zerolog.Ctx(ctx).Debug().Str("uri", uri).Bool("was_open", ok).Msg("document closed")
	return ok
}

// Snapshot returns the current state of one document. The returned
// Document is immutable; a concurrent edit replaces the stored pointer
// without touching it.
func (dm *DocumentManager) Snapshot(uri string) (*Document, bool) {
	uri = normalizeURI(uri)

	shard := dm.shard(uri)
	shard.mu.RLock()
	doc, ok := shard.docs[uri]
	shard.mu.RUnlock()
	return doc, ok
}

// Snapshots returns the current state of every open document, sorted by
// uri. Each document is snapshotted independently; concurrent edits may
// interleave, so the result is best-effort, not transactional.
func (dm *DocumentManager) Snapshots() []*Document {
	var out []*Document
	for i := range dm.shards {
		shard := &dm.shards[i]
		shard.mu.RLock()
		for _, doc := range shard.docs {
			out = append(out, doc)
		}
		shard.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// Len returns the number of open documents.
func (dm *DocumentManager) Len() int {
	n := 0
	for i := range dm.shards {
		shard := &dm.shards[i]
		shard.mu.RLock()
		n += len(shard.docs)
		shard.mu.RUnlock()
	}
	return n
}
