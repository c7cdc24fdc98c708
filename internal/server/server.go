// Package server owns the process lifecycle: the HTTP listener, the optional
// gRPC health server and background loops, with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/grpc"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Config describes one server run.
type Config struct {
	Addr    string
	Handler http.Handler
	// GRPCPort enables the gRPC health server when set.
	GRPCPort string
	Probe    grpc.Probe
	// Background loops run until shutdown cancels their context.
	Background []func(ctx context.Context)
	// ShutdownTimeout bounds the HTTP drain; 0 means 10s.
	ShutdownTimeout time.Duration
	// Listener overrides Addr, mainly for tests.
	Listener net.Listener
}

// Run serves until ctx is done or the listener fails, then shuts down:
// HTTP drains first, then background loops stop, then gRPC.
func Run(ctx context.Context, cfg Config) error {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	bgCtx, stopBackground := context.WithCancel(context.WithoutCancel(ctx))
	defer stopBackground()
	var bg sync.WaitGroup
	for _, fn := range cfg.Background {
		bg.Add(1)
		go func(fn func(context.Context)) {
			defer bg.Done()
			fn(bgCtx)
		}(fn)
	}

	var rpc *grpc.Server
	if cfg.GRPCPort != "" {
		rpc = grpc.New(cfg.Probe)
		if err := rpc.Start(cfg.GRPCPort); err != nil {
			stopBackground()
			bg.Wait()
			return err
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           cfg.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.Listener != nil {
			logger.Info("HTTP server starting", "addr", cfg.Listener.Addr().String())
			err = srv.Serve(cfg.Listener)
		} else {
			logger.Info("HTTP server starting", "addr", cfg.Addr)
			err = srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err, ok := <-errCh:
		if ok && err != nil {
			serveErr = fmt.Errorf("server: listen: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = fmt.Errorf("server: shutdown: %w", err)
	}

	stopBackground()
	bg.Wait()
	rpc.Stop()

	logger.Info("server stopped")
	return serveErr
}
