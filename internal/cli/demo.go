// Package cli implements the commands of the hollywood binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/granchi/hollywood"
	"github.com/granchi/hollywood/internal/config"
	"github.com/granchi/hollywood/internal/demo"
	"github.com/granchi/hollywood/internal/logging"
	httpadapter "github.com/granchi/hollywood/pkg/adapters/http"
	"github.com/granchi/hollywood/pkg/domain"
	"github.com/granchi/hollywood/pkg/observability"
	"github.com/granchi/hollywood/pkg/recovery"
)

const shutdownTimeout = 5 * time.Second

// NewLogger builds the logger described by cfg, writing to w.
func NewLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(w, level, cfg.LogJSON), nil
}

// RunDemo runs the countdown application until liftoff or until ctx ends.
// Console output goes to out. When cfg.MetricsAddr is set, the HTTP
// adapter is served there for the duration of the run.
func RunDemo(ctx context.Context, cfg config.Config, out io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}

	store, release, err := OpenStore(ctx, cfg.Preferences)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn("failed to close preference store", "err", err)
		}
	}()

	registry := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(registry)
	if err != nil {
		return err
	}

	app, err := hollywood.New(
		demo.Initial(cfg.Count, time.Duration(cfg.Interval), cfg.Preferences.Namespace),
		demo.NewRoster(store, out, logger),
		hollywood.WithLogger(logger),
		hollywood.WithExceptionHandler(recovery.LogAndReinstate(recovery.SlogSink(logger))),
		hollywood.WithLifecycleHooks(domain.MergeHooks(metrics.Hooks(), observability.LogHooks(logger))),
	)
	if err != nil {
		return fmt.Errorf("error initializing application: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	exec, err := app.Run(gctx)
	if err != nil {
		return err
	}
	g.Go(exec.Wait)

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           httpadapter.NewHandler(app, httpadapter.WithGatherer(registry), httpadapter.WithLogger(logger)),
			ReadHeaderTimeout: shutdownTimeout,
		}
		g.Go(func() error {
			logger.Info("serving http", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			select {
			case <-exec.Done():
			case <-gctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("run finished", "run_id", app.ID())
	return nil
}
