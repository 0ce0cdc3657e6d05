// Package server runs HTTP handlers with standard timeouts and graceful
// shutdown tied to a context.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Server timeouts.
const (
	ReadHeaderTimeout = 1 * time.Second
	ReadTimeout       = 5 * time.Second
	WriteTimeout      = 5 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

// Listen creates a TCP listener on the given address.
// Use "127.0.0.1:0" for a random available port.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", addr)
}

// Start listens on addr and serves handler in grp until ctx is canceled. It
// returns the bound address, which differs from addr when a zero port is
// requested.
func Start(ctx context.Context, grp *errgroup.Group, addr string, handler http.Handler) (string, error) {
	listener, err := Listen(ctx, addr)
	if err != nil {
		return "", err
	}
	srv := &http.Server{Handler: handler} //nolint:gosec // Serve() sets timeouts
	Serve(ctx, grp, srv, listener, ShutdownTimeout)
	return listener.Addr().String(), nil
}

// Serve starts srv on listener and shuts it down gracefully once ctx is
// canceled.
func Serve(
	ctx context.Context,
	grp *errgroup.Group,
	srv *http.Server,
	listener net.Listener,
	shutdownTimeout time.Duration,
) {
	srv.ReadHeaderTimeout = ReadHeaderTimeout
	srv.ReadTimeout = ReadTimeout
	srv.WriteTimeout = WriteTimeout

	grp.Go(func() error {
		err := srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	grp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
