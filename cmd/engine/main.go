package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/courtledger/courtledger/internal/app"
	"github.com/courtledger/courtledger/internal/config"
	"github.com/courtledger/courtledger/internal/observability"
	"github.com/courtledger/courtledger/internal/platform/logging"
	"github.com/courtledger/courtledger/internal/usecase"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() { _ = application.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "run":
		err = runPipeline(ctx, application, logger)
	case "baseline":
		err = recomputeBaseline(ctx, application, logger)
	case "drift":
		err = measureDrift(ctx, application, logger)
	case "serve":
		err = serve(ctx, cfg, application, logger)
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func runPipeline(ctx context.Context, application *app.App, logger *logging.Logger) error {
	summary, err := application.Pipeline.Run(ctx)
	if err != nil && !errors.Is(err, usecase.ErrRunUnpublishable) {
		return err
	}

	logger.InfoContext(ctx, "pipeline run finished",
		"run_id", summary.RunID,
		"publishable", summary.Publishable,
		"violations", summary.ViolationTotal(),
		"excluded_games", summary.ExcludedGames,
	)

	// An unpublishable run is still a completed run; report it without
	// masking the gate outcome.
	return err
}

func recomputeBaseline(ctx context.Context, application *app.App, logger *logging.Logger) error {
	rows, err := application.TeamGames.ListTeamGames(ctx)
	if err != nil {
		return fmt.Errorf("load canonical team games: %w", err)
	}

	version, err := application.DriftSvc.RecomputeBaseline(ctx, rows)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "baseline recomputed", "version", version, "rows", len(rows))
	return nil
}

func measureDrift(ctx context.Context, application *app.App, logger *logging.Logger) error {
	rows, err := application.TeamGames.ListTeamGames(ctx)
	if err != nil {
		return fmt.Errorf("load canonical team games: %w", err)
	}

	version, count, err := application.DriftSvc.Measure(ctx, rows)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "drift measured", "baseline_version", version, "observations", count)
	return nil
}

func serve(ctx context.Context, cfg config.Config, application *app.App, logger *logging.Logger) error {
	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownUptrace(shutdownCtx); err != nil {
			logger.Error("uptrace shutdown failed", "error", err)
		}
	}()

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() {
		if err := stopPyroscope(); err != nil {
			logger.Error("pyroscope stop failed", "error", err)
		}
	}()

	pprofServer, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("start pprof server: %w", err)
	}
	defer func() {
		if err := observability.StopPprofServer(pprofServer, logger, 5*time.Second); err != nil {
			logger.Error("pprof shutdown failed", "error", err)
		}
	}()

	srv, err := application.NewHTTPServer()
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("http server stopped")
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "usage: %s <run|baseline|drift|serve>\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  run       execute one pipeline run over the raw snapshot")
	fmt.Fprintln(os.Stderr, "  baseline  recompute the drift baseline distributions")
	fmt.Fprintln(os.Stderr, "  drift     measure monthly drift against the pinned baseline")
	fmt.Fprintln(os.Stderr, "  serve     start the read-only inspection API")
}
