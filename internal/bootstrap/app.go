package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/faq-chatbot/internal/domain/resolution"
	"github.com/yanqian/faq-chatbot/internal/infra/config"
)

// App encapsulates the HTTP server and resolution worker lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	worker *resolution.Worker
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, worker *resolution.Worker) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, worker: worker}
}

// Run starts the server and the answer worker and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	go func() {
		a.logger.Info("resolution worker starting")
		if err := a.worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		cancelWorker()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
