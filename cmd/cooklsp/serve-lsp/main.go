package serve_lsp

import (
	"context"
	"os"

	"github.com/creachadair/jrpc2"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/cooklsp/pkg/lsp"
	"github.com/walteh/cooklsp/pkg/lsp/protocol"
	"gitlab.com/tozd/go/errors"
)

type Handler struct {
	debug bool
}

func NewServeLSPCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "serve-lsp",
		Short: "start the language server on stdin/stdout",
	}

	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	level := zerolog.InfoLevel
	if me.debug {
		level = zerolog.TraceLevel
	}

	// stdout carries protocol frames, so logs go to stderr
	logger := zerolog.New(os.Stderr).Level(level).With().
		Str("component", "lsp-server").
		Str("session_id", xid.New().String()).
		Timestamp().
		Logger()
	ctx = logger.WithContext(ctx)

	version := "dev"
	server := lsp.NewServer(nil, version)

	opts := &jrpc2.ServerOptions{
		RPCLog: &protocol.RPCLogger{Logger: logger},
	}

	instance := server.BuildServerInstance(ctx, opts)

	if err := instance.StartAndWait(os.Stdin, os.Stdout); err != nil {
		return errors.Errorf("error running language server: %w", err)
	}

	return nil
}
