package lsp

import (
	"context"

	"github.com/creachadair/jrpc2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/cooklsp/pkg/completion"
	"github.com/walteh/cooklsp/pkg/hover"
	"github.com/walteh/cooklsp/pkg/lsp/protocol"
	"github.com/walteh/cooklsp/pkg/recipe"
	"github.com/walteh/cooklsp/pkg/semtok"
)

const serverName = "cooklsp"

// Server implements the LSP surface over the document store. One Server
// serves one editor session.
type Server struct {
	documents *DocumentManager
	fs        afero.Fs
	version   string

	client protocol.Client
	dict   *completion.Dictionaries
	stop   func()
}

var _ protocol.Server = (*Server)(nil)

// NewServer builds a server backed by the given filesystem. Version is
// advertised in the initialize response.
func NewServer(fs afero.Fs, version string) *Server {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Server{
		documents: NewDocumentManager(fs),
		fs:        fs,
		version:   version,
		dict:      completion.DefaultDictionaries(),
	}
}

// BuildServerInstance wires the server into a jrpc2 instance and
// connects the notification client back to it.
func (s *Server) BuildServerInstance(ctx context.Context, opts *jrpc2.ServerOptions) *protocol.ServerInstance {
	instance := protocol.NewServerInstance(ctx, s, opts)
	s.client = instance.Client()
	s.stop = instance.Stop
	return instance
}

// SetClient overrides the notification client, primarily for tests.
func (s *Server) SetClient(client protocol.Client) {
	s.client = client
}

// Documents exposes the store for tests and tooling.
func (s *Server) Documents() *DocumentManager {
	return s.documents
}

func (s *Server) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	rootDir := workspaceRoot(params)
	cfg := loadWorkspaceConfig(ctx, s.fs, rootDir)
	s.dict = cfg.Dictionaries()

	zerolog.Ctx(ctx).Info().Str("root", rootDir).Msg("initializing")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.SyncFull,
				Save:      &protocol.SaveOptions{IncludeText: true},
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"@", "#", "~", "%"},
			},
			HoverProvider:          true,
			DocumentSymbolProvider: true,
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     semtok.TokenTypes(),
					TokenModifiers: semtok.TokenModifiers(),
				},
				Full: true,
			},
		},
		ServerInfo: &protocol.ServerInfo{Name: serverName, Version: s.version},
	}, nil
}

func workspaceRoot(params *protocol.InitializeParams) string {
	if len(params.WorkspaceFolders) > 0 {
		return normalizeURI(string(params.WorkspaceFolders[0].URI))
	}
	if params.RootURI != "" {
		return normalizeURI(string(params.RootURI))
	}
	return params.RootPath
}

func (s *Server) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	zerolog.Ctx(ctx).Info().Msg("initialized")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	zerolog.Ctx(ctx).Info().Msg("shutdown requested")
	return nil
}

func (s *Server) Exit(ctx context.Context) error {
	zerolog.Ctx(ctx).Info().Msg("exit requested")
	if s.stop != nil {
		s.stop()
	}
	return nil
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := s.documents.Open(ctx,
		string(params.TextDocument.URI),
		params.TextDocument.Version,
		params.TextDocument.Text)
	return s.publish(ctx, doc)
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// full sync only: the last change carries the whole new content
	content := params.ContentChanges[len(params.ContentChanges)-1].Text
	doc := s.documents.Update(ctx,
		string(params.TextDocument.URI),
		params.TextDocument.Version,
		content)
	return s.publish(ctx, doc)
}

func (s *Server) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := string(params.TextDocument.URI)

	if params.Text != nil {
		prev, ok := s.documents.Snapshot(uri)
		if !ok {
			return nil
		}
		doc := s.documents.Update(ctx, uri, prev.Version, *params.Text)
		return s.publish(ctx, doc)
	}

	doc, err := s.documents.Reload(ctx, uri)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("uri", uri).Msg("save without text, reload failed")
		return nil
	}
	return s.publish(ctx, doc)
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := normalizeURI(string(params.TextDocument.URI))
	s.documents.Close(ctx, uri)

	// one final empty publication clears stale markers in the editor
	if s.client == nil {
		return nil
	}
	return s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(uri),
		Diagnostics: []protocol.Diagnostic{},
	})
}

func (s *Server) publish(ctx context.Context, doc *Document) error {
	if s.client == nil {
		return nil
	}
	return s.client.PublishDiagnostics(ctx, publishParams(doc))
}

func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	empty := &protocol.CompletionList{Items: []protocol.CompletionItem{}}

	doc, ok := s.documents.Snapshot(string(params.TextDocument.URI))
	if !ok {
		return empty, nil
	}

	offset := doc.Lines.Offset(int(params.Position.Line), int(params.Position.Character))
	cc, ok := completion.Resolve(doc.Content[:offset])
	if !ok {
		return empty, nil
	}

	var siblings []*recipe.Recipe
	if cc.Kind == completion.KindIngredient {
		for _, other := range s.documents.Snapshots() {
			if err := ctx.Err(); err != nil {
				// abort without partial results
				return nil, protocol.RequestCancelledError
			}
			if other.URI == doc.URI {
				continue
			}
			siblings = append(siblings, other.Recipe)
		}
	}

	candidates := completion.Collect(cc, doc.Recipe, siblings, s.dict)

	items := make([]protocol.CompletionItem, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, protocol.CompletionItem{
			Label:         c.Label,
			Kind:          completionItemKind(cc.Kind),
			Detail:        c.Detail,
			Documentation: c.Documentation,
			InsertText:    c.InsertText,
		})
	}
	return &protocol.CompletionList{Items: items}, nil
}

func completionItemKind(kind completion.Kind) protocol.CompletionItemKind {
	switch kind {
	case completion.KindIngredient:
		return protocol.CompletionItemKindVariable
	case completion.KindCookware:
		return protocol.CompletionItemKindClass
	case completion.KindTimer, completion.KindUnit:
		return protocol.CompletionItemKindUnit
	default:
		return protocol.CompletionItemKindText
	}
}

func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, ok := s.documents.Snapshot(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}

	offset := doc.Lines.Offset(int(params.Position.Line), int(params.Position.Character))
	info, ok := hover.At(doc.Recipe, offset)
	if !ok {
		return nil, nil
	}

	rng := toProtocolRange(doc.Lines.RangeOf(info.Span))
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: info.Markdown,
		},
		Range: &rng,
	}, nil
}

func (s *Server) DocumentSymbol(ctx context.Context, params *protocol.DocumentSymbolParams) ([]protocol.DocumentSymbol, error) {
	doc, ok := s.documents.Snapshot(string(params.TextDocument.URI))
	if !ok {
		return []protocol.DocumentSymbol{}, nil
	}
	symbols := documentSymbols(doc)
	if symbols == nil {
		symbols = []protocol.DocumentSymbol{}
	}
	return symbols, nil
}

func (s *Server) SemanticTokensFull(ctx context.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc, ok := s.documents.Snapshot(string(params.TextDocument.URI))
	if !ok {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}
	data := semtok.Encode(doc.Content, doc.Lines)
	if data == nil {
		data = []uint32{}
	}
	return &protocol.SemanticTokens{Data: data}, nil
}
