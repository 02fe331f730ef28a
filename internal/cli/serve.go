package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ring-ca/internal/stream"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Listen string
	TPS    int
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream generations over WebSocket",
		Long: `Serve /stream, a WebSocket endpoint that sends one JSON frame per
generation. Every connection runs its own copy of the configured automaton.
Append ?limit=N to stop after N frames.

Example:
  ca serve --listen :8080 --rule 110 --seed random`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().IntVar(&opts.TPS, "tps", 0, "generations per second (overrides config)")

	return cmd
}

func serve(cmd *cobra.Command, opts *ServeOptions) error {
	cfg := opts.Config.Serve
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}
	if opts.TPS > 0 {
		cfg.TPS = opts.TPS
	}

	base, err := opts.newEngine()
	if err != nil {
		return err
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/stream", stream.NewServer(base, cfg.TPS, opts.Logger))
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		// Shutdown does not track hijacked connections; streams end when
		// their request context, derived from ctx, is cancelled.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		opts.Logger.Info("stream server listening", "addr", cfg.Listen, "tps", cfg.TPS)
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Streaming on ws://%s/stream\n", cfg.Listen)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitFailure, "server error", err)
		}
		return nil
	case <-ctx.Done():
	}

	opts.Logger.Info("shutting down stream server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitFailure, "shutdown", err)
	}
	opts.Logger.Info("stream server stopped")
	return nil
}
