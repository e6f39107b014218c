package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/forge-qa/forge-e2e/cmd/forge-stub/app/config"
)

const shutdownTimeout = 5 * time.Second

// App represents the stub target application
type App struct {
	config *config.StubConfig
}

// NewApp creates a new stub application instance
func NewApp(c *config.StubConfig) *App {
	return &App{
		config: c,
	}
}

// Handler exposes the configured engine, e.g. for httptest servers.
func (a *App) Handler() http.Handler {
	return a.config.GinEngine
}

// Run serves until ctx is cancelled, then shuts the server down.
func (a *App) Run(ctx context.Context) error {
	klog.Infof("Starting Forge stub target")

	serverAddr := fmt.Sprintf("%s:%d", a.config.ServerConfig.Host, a.config.ServerConfig.Port)
	klog.Infof("Starting stub server on %s", serverAddr)

	server := &http.Server{
		Addr:              serverAddr,
		Handler:           a.config.GinEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "stub server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	klog.Info("Shutting down stub server")

	return server.Shutdown(shutdownCtx)
}
