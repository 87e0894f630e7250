package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/indigo-web/facet/config"
	"github.com/indigo-web/facet/internal/metrics"
	"github.com/indigo-web/facet/internal/stdhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load loader) *cobra.Command {
	var inspect string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			logger := cfg.Log.Logger(os.Stderr)
			handler, err := newMux(cfg, logger, prometheus.NewRegistry(), inspect)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, handler, logger)
		},
	}

	cmd.Flags().StringVar(&inspect, "inspect", "", "path echoing request attributes as JSON (disabled if empty)")

	return cmd
}

// newMux wires the route table, the metrics endpoint and the inspection endpoint.
func newMux(cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry, inspect string) (http.Handler, error) {
	tbl, err := cfg.Table()
	if err != nil {
		return nil, err
	}

	pipeline, err := cfg.PipelineOptions()
	if err != nil {
		return nil, err
	}

	pipeline.Logger = logger.WithGroup("pipeline")
	opts := stdhttp.Options{
		Pipeline: pipeline,
		Logger:   logger.WithGroup("server"),
	}

	mux := http.NewServeMux()

	if cfg.Metrics.Enabled {
		opts.Metrics = metrics.New(reg)
		mux.Handle(cfg.Metrics.Path, metrics.Handler(reg))
	}

	if len(inspect) > 0 {
		mux.Handle(inspect, stdhttp.Inspect(opts))
	}

	mux.Handle("/", stdhttp.NewHandler(tbl, opts))
	logger.Info("routes compiled", "count", tbl.Len())

	return mux, nil
}

func serve(ctx context.Context, cfg *config.Config, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     handler,
		ReadTimeout: cfg.Server.ReadTimeout,
		ErrorLog:    slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
