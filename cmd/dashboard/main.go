// Command dashboard refreshes the cash-flow dashboard document from the
// shared workbook, once or on a cron schedule.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/service"
	"github.com/FACorreiaa/cashflow-dashboard/pkg/config"
	"github.com/FACorreiaa/cashflow-dashboard/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "dashboard:", err)
		os.Exit(1)
	}
}

func run() error {
	once := flag.Bool("once", false, "run a single refresh and exit, ignoring REFRESH_SCHEDULE")
	file := flag.String("file", "", "read the workbook from this path instead of SHEET_URL")
	out := flag.String("out", "", "output path for the dashboard JSON")
	year := flag.Int("year", 0, "reporting year")
	flag.Parse()

	// Flags override the environment before validation
	if *file != "" {
		os.Setenv("SHEET_FILE", *file)
	}
	if *out != "" {
		os.Setenv("OUTPUT_PATH", *out)
	}
	if *year != 0 {
		os.Setenv("REPORT_YEAR", fmt.Sprint(*year))
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Observability)
	slog.SetDefault(logger)

	deps, err := InitDependencies(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduled := !*once && cfg.Schedule.Expr != ""
	if err := runFirst(ctx, deps.Service.Refresh, scheduled, logger); err != nil {
		return err
	}
	if !scheduled {
		return nil
	}

	if err := deps.Scheduler.Start(cfg.Schedule.Expr); err != nil {
		return err
	}

	var srv *http.Server
	if cfg.Observability.MetricsEnabled {
		srv = startMetricsServer(deps, cfg.Observability.MetricsPort)
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	watchReload(ctx, hup, deps.Scheduler, logger)
	logger.Info("shutting down")

	<-deps.Scheduler.Stop().Done()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", slog.Any("error", err))
		}
	}
	return nil
}

// runFirst performs the startup refresh. A failure only ends the process when
// no schedule will retry it.
func runFirst(ctx context.Context, refresh func(context.Context) (*service.Outcome, error), scheduled bool, logger *slog.Logger) error {
	outcome, err := refresh(ctx)
	if err != nil {
		if !scheduled {
			return err
		}
		logger.Error("initial refresh failed, waiting for the next scheduled run", slog.Any("error", err))
		return nil
	}

	logger.Info("initial refresh done",
		slog.String("run_id", outcome.RunID.String()),
		slog.String("path", outcome.Path),
	)
	return nil
}

type trigger interface {
	RunNow()
}

// watchReload blocks until ctx ends, triggering an extra refresh for every
// signal received on reload (SIGHUP).
func watchReload(ctx context.Context, reload <-chan os.Signal, t trigger, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-reload:
			logger.Info("refresh requested", slog.String("signal", sig.String()))
			t.RunNow()
		}
	}
}

func startMetricsServer(deps *Dependencies, port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(deps.Registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		deps.Logger.Info("metrics server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	return srv
}

func newLogger(cfg config.ObservabilityConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
