package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/codmetric/codmetricbot/pkg/adapters/http"
	"github.com/codmetric/codmetricbot/pkg/adapters/mcp"
)

const shutdownTimeout = 5 * time.Second

// NewHTTPHandler builds the HTTP API for app.
func NewHTTPHandler(app *App, version string) (http.Handler, error) {
	return httpAdapter.NewHandler(app.Dispatcher, app.Sessions(),
		httpAdapter.WithMetrics(app.Metrics),
		httpAdapter.WithLogger(app.Logger),
		httpAdapter.WithMaxInputSize(app.Config.MaxInputSize),
		httpAdapter.WithVersion(version),
	)
}

// ServeHTTP runs the HTTP API on port until ctx is done, then shuts down gracefully.
func ServeHTTP(ctx context.Context, app *App, port int, version string) error {
	handler, err := NewHTTPHandler(app, version)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting CodmetricBot server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		app.Logger.Info("Start shutdown...")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		app.Logger.Info("CodmetricBot server stopped gracefully")
		return nil
	}
}

// ServeMCP runs the MCP server over the given transport ("stdio" or "sse").
func ServeMCP(ctx context.Context, app *App, transport string, port int, version string) error {
	srv := mcp.NewServer(app.Dispatcher, app.Sessions(), version,
		mcp.WithLogger(app.Logger),
		mcp.WithMaxInputSize(app.Config.MaxInputSize),
	)

	switch transport {
	case "stdio":
		app.Logger.Info("Starting CodmetricBot MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		app.Logger.Info("Starting CodmetricBot MCP server (SSE)", "port", port)
		if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		app.Logger.Info("MCP server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	}
}
