package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/specialistvlad/wfdtrace/internal/ctxlog"
)

// healthHandler reports liveness followed by the progress of the current
// command, for example "OK 3/10 documents traced, 1 failed".
func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	done, failed, total := app.progress.snapshot()
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "done", done, "total", total)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK %d/%d documents traced, %d failed\n", done, total, failed)
}

// healthCheckServer starts the health check HTTP server in the background.
func (app *App) healthCheckServer() {
	logger := ctxlog.FromContext(app.ctx)
	if app.config.HealthcheckPort <= 0 {
		logger.Debug("Health check server disabled.")
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", app.healthHandler)

	addr := fmt.Sprintf(":%d", app.config.HealthcheckPort)
	app.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv := app.httpServer
	go func() {
		logger.Info("Health check server listening.", "address", fmt.Sprintf("http://localhost%s/health", addr), "command", app.config.Command)
		// ErrServerClosed is the normal result of Shutdown.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed.", "error", err)
		}
	}()
}

func (app *App) closeHealthCheckServer() error {
	if app.httpServer == nil {
		return nil
	}
	logger := ctxlog.FromContext(app.ctx)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(app.ctx), 5*time.Second)
	defer cancel()

	done, failed, total := app.progress.snapshot()
	logger.Debug("Stopping health check server.", "done", done, "failed", failed, "total", total)
	if err := app.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("health check server shutdown: %w", err)
	}
	return nil
}
