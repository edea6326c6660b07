package protocol

import (
	"context"

	"github.com/creachadair/jrpc2"
	"github.com/rs/zerolog"
)

// ApplyRequestToZerolog stamps the RPC method and id onto the context
// logger so every log line inside a handler identifies its request.
func ApplyRequestToZerolog(ctx context.Context, req *jrpc2.Request) context.Context {
	return zerolog.Ctx(ctx).With().
		Str("rpc_method", req.Method()).
		Str("rpc_id", req.ID()).
		Logger().WithContext(ctx)
}

// RPCLogger adapts zerolog to jrpc2's RPC traffic log.
type RPCLogger struct {
	Logger zerolog.Logger
}

var _ jrpc2.RPCLogger = (*RPCLogger)(nil)

func (l *RPCLogger) LogRequest(ctx context.Context, req *jrpc2.Request) {
	l.Logger.Trace().
		Str("rpc_method", req.Method()).
		Str("rpc_id", req.ID()).
		Str("rpc_params", req.ParamString()).
		Msg("client request")
}

func (l *RPCLogger) LogResponse(ctx context.Context, res *jrpc2.Response) {
	l.Logger.Trace().
		Str("rpc_id", res.ID()).
		Str("rpc_result", res.ResultString()).
		Msg("server response")
}
