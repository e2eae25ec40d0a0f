package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/iwvelando/deal-forecast/internal/server"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// serve runs srv on ln until ctx is cancelled. It returns only once Shutdown
// has drained in-flight requests, so callers may release resources the
// handlers use as soon as it returns.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *zap.Logger) error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown failed", zap.String("op", "main.serve"), zap.Error(err))
			done <- err
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

// applyUploadOverride replaces the configured upload limit when the flag is
// set.
func applyUploadOverride(cfg *server.Config, value string) error {
	if value == "" {
		return nil
	}
	size, err := server.ParseSize(value)
	if err != nil {
		return err
	}
	cfg.SetUploadSizeBytes(size)
	return nil
}
