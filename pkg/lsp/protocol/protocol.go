package protocol

import (
	"context"
	"io"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"
)

var RequestCancelledError = &jrpc2.Error{Code: -32800, Message: "JSON RPC cancelled"}

// Server is the LSP method surface this language server implements.
// Handlers must stay alive across arbitrary bad input: protocol-level
// problems are answered with empty results, not errors.
type Server interface {
	Initialize(ctx context.Context, params *InitializeParams) (*InitializeResult, error)
	Initialized(ctx context.Context, params *InitializedParams) error
	Shutdown(ctx context.Context) error
	Exit(ctx context.Context) error

	DidOpen(ctx context.Context, params *DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *DidChangeTextDocumentParams) error
	DidSave(ctx context.Context, params *DidSaveTextDocumentParams) error
	DidClose(ctx context.Context, params *DidCloseTextDocumentParams) error

	Completion(ctx context.Context, params *CompletionParams) (*CompletionList, error)
	Hover(ctx context.Context, params *HoverParams) (*Hover, error)
	DocumentSymbol(ctx context.Context, params *DocumentSymbolParams) ([]DocumentSymbol, error)
	SemanticTokensFull(ctx context.Context, params *SemanticTokensParams) (*SemanticTokens, error)
}

// Client is the server-to-client notification surface.
type Client interface {
	PublishDiagnostics(ctx context.Context, params *PublishDiagnosticsParams) error
	LogMessage(ctx context.Context, params *LogMessageParams) error
	ShowMessage(ctx context.Context, params *ShowMessageParams) error
}

func buildServerDispatchMap(server Server) handler.Map {
	return handler.Map{
		"initialize":  createHandler(server.Initialize),
		"initialized": createEmptyResultHandler(server.Initialized),
		"shutdown":    createEmptyHandler(server.Shutdown),
		"exit":        createEmptyHandler(server.Exit),

		"textDocument/didOpen":   createEmptyResultHandler(server.DidOpen),
		"textDocument/didChange": createEmptyResultHandler(server.DidChange),
		"textDocument/didSave":   createEmptyResultHandler(server.DidSave),
		"textDocument/didClose":  createEmptyResultHandler(server.DidClose),

		"textDocument/completion":          createHandler(server.Completion),
		"textDocument/hover":               createHandler(server.Hover),
		"textDocument/documentSymbol":      createHandler(server.DocumentSymbol),
		"textDocument/semanticTokens/full": createHandler(server.SemanticTokensFull),
	}
}

func newParseError(err error) *jrpc2.Error {
	return &jrpc2.Error{
		Code:    -32700, // Parse error
		Message: err.Error(),
	}
}

func createHandler[T any, O any](method func(ctx context.Context, params *T) (O, error)) handler.Func {
	return handler.New(func(ctx context.Context, r *jrpc2.Request) (interface{}, error) {
		ctx = ApplyRequestToZerolog(ctx, r)
		var params T
		if err := r.UnmarshalParams(&params); err != nil {
			return nil, newParseError(err)
		}
		result, err := method(ctx, &params)
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}

func createEmptyResultHandler[T any](method func(ctx context.Context, params *T) error) handler.Func {
	return handler.New(func(ctx context.Context, r *jrpc2.Request) (interface{}, error) {
		ctx = ApplyRequestToZerolog(ctx, r)
		var params T
		if err := r.UnmarshalParams(&params); err != nil {
			return nil, newParseError(err)
		}
		return nil, method(ctx, &params)
	})
}

func createEmptyHandler(method func(ctx context.Context) error) handler.Func {
	return handler.New(func(ctx context.Context, r *jrpc2.Request) (interface{}, error) {
		ctx = ApplyRequestToZerolog(ctx, r)
		return nil, method(ctx)
	})
}

// Handlers wraps a handler map entry with $/cancelRequest awareness: a
// request whose context is already dead is answered with the cancelled
// error instead of running the method.
func Handlers(h handler.Func) jrpc2.Handler {
	return handler.New(func(ctx context.Context, req *jrpc2.Request) (interface{}, error) {
		if req.Method() == "$/cancelRequest" {
			var params CancelParams
			if err := req.UnmarshalParams(&params); err != nil {
				return nil, err
			}
			return nil, nil
		}
		if ctx.Err() != nil {
			return nil, RequestCancelledError
		}
		return h(ctx, req)
	})
}

// callbackClient pushes notifications through the live jrpc2 server.
type callbackClient struct {
	server *jrpc2.Server
}

var _ Client = (*callbackClient)(nil)

func (c *callbackClient) PublishDiagnostics(ctx context.Context, params *PublishDiagnosticsParams) error {
	return c.server.Notify(ctx, "textDocument/publishDiagnostics", params)
}

func (c *callbackClient) LogMessage(ctx context.Context, params *LogMessageParams) error {
	return c.server.Notify(ctx, "window/logMessage", params)
}

func (c *callbackClient) ShowMessage(ctx context.Context, params *ShowMessageParams) error {
	return c.server.Notify(ctx, "window/showMessage", params)
}

// ServerInstance is one running jrpc2 server plus the callback client it
// pushes notifications through.
type ServerInstance struct {
	server *jrpc2.Server
	client Client
}

// NewServerInstance builds the jrpc2 server for an LSP Server. Push is
// always enabled; the base context carries the process logger.
func NewServerInstance(ctx context.Context, server Server, opts *jrpc2.ServerOptions) *ServerInstance {
	if opts == nil {
		opts = &jrpc2.ServerOptions{}
	}
	opts.AllowPush = true
	opts.NewContext = func() context.Context { return ctx }

	methods := buildServerDispatchMap(server)
	wrapped := make(handler.Map, len(methods)+1)
	for name, fn := range methods {
		wrapped[name] = Handlers(fn)
	}
	wrapped["$/cancelRequest"] = Handlers(func(ctx context.Context, req *jrpc2.Request) (interface{}, error) {
		return nil, nil
	})

	instance := &ServerInstance{server: jrpc2.NewServer(wrapped, opts)}
	instance.client = &callbackClient{server: instance.server}
	return instance
}

// Client returns the notification channel back to the editor.
func (si *ServerInstance) Client() Client {
	return si.client
}

// StartAndWait serves LSP-framed JSON-RPC over the given streams until
// the client disconnects.
func (si *ServerInstance) StartAndWait(r io.Reader, w io.Writer) error {
	ch := channel.LSP(r, nopWriteCloser{w})
	si.server.Start(ch)
	return si.server.Wait()
}

// StartAndDetach starts serving on the given channel and returns without
// waiting; callers use the returned server's Wait.
func (si *ServerInstance) StartAndDetach(ch channel.Channel) *jrpc2.Server {
	return si.server.Start(ch)
}

// nopWriteCloser adapts an io.Writer to the io.WriteCloser required by
// channel.LSP; Close is a no-op since the caller owns the stream.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Stop terminates the instance, unblocking StartAndWait.
func (si *ServerInstance) Stop() {
	si.server.Stop()
}
