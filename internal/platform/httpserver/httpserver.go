package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reqlog.local/internal/platform/config"
)

// New builds the public server from cfg.
func New(cfg config.Config, handler http.Handler) *http.Server {
	return NewWithAddr(cfg, cfg.Addr, handler)
}

// NewWithAddr is New listening on addr, used for the admin listener.
func NewWithAddr(cfg config.Config, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// RunWithGracefulShutdown serves until SIGINT or SIGTERM.
func RunWithGracefulShutdown(srv *http.Server, shutdownTimeout time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunWithGracefulShutdownContext(srv, shutdownTimeout, ctx)
}

// RunWithGracefulShutdownContext serves until stopCtx is done, then drains
// in-flight requests for at most shutdownTimeout.
func RunWithGracefulShutdownContext(srv *http.Server, shutdownTimeout time.Duration, stopCtx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-stopCtx.Done():
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}
	return nil
}

// RunAll serves every server until stopCtx is done or one of them fails.
// A failure stops the others; the first error is returned.
func RunAll(stopCtx context.Context, shutdownTimeout time.Duration, servers ...*http.Server) error {
	ctx, cancel := context.WithCancel(stopCtx)
	defer cancel()

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func() {
			err := RunWithGracefulShutdownContext(srv, shutdownTimeout, ctx)
			if err != nil {
				err = fmt.Errorf("%s: %w", srv.Addr, err)
			}
			errCh <- err
		}()
	}

	var first error
	for range servers {
		if err := <-errCh; err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}
