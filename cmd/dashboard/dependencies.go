package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/extract"
	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/service"
	"github.com/FACorreiaa/cashflow-dashboard/pkg/config"
	"github.com/FACorreiaa/cashflow-dashboard/pkg/cron"
	"github.com/FACorreiaa/cashflow-dashboard/pkg/fetch"
	"github.com/FACorreiaa/cashflow-dashboard/pkg/metrics"
	"github.com/FACorreiaa/cashflow-dashboard/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Fetcher   *fetch.Client
	Storage   storage.Storage
	Service   *service.Service
	Scheduler *cron.Scheduler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	deps.initMetrics()

	if err := deps.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	deps.initServices()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

func (d *Dependencies) initMetrics() {
	d.Registry = prometheus.NewRegistry()
	d.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	d.Metrics = metrics.New(d.Registry)
}

func (d *Dependencies) initStorage() error {
	store, err := storage.New(&storage.Config{
		Type:      storage.StorageTypeLocal,
		LocalPath: ".",
	})
	if err != nil {
		return err
	}
	d.Storage = store
	return nil
}

// initServices wires the fetch client, the refresh service and the scheduler
func (d *Dependencies) initServices() {
	src := d.Config.Source

	d.Fetcher = fetch.NewClient(fetch.Config{
		Timeout:       src.Timeout,
		Backoff:       src.Backoff,
		Retries:       uint64(src.Retries),
		RatePerSecond: src.RatePerSecond,
	}, d.Logger, fetch.WithAttemptHook(func(int) {
		d.Metrics.FetchAttempts.Inc()
	}))

	opts := extract.DefaultOptions(d.Config.Report.Year)
	if d.Config.Report.SeriesATitle != "" {
		opts.SeriesATitle = d.Config.Report.SeriesATitle
	}
	if d.Config.Report.SeriesBTitle != "" {
		opts.SeriesBTitle = d.Config.Report.SeriesBTitle
	}

	d.Service = service.New(service.Config{
		SourceURL:  src.URL,
		SourceFile: src.File,
		OutputPath: d.Config.Output.Path,
		CSVPath:    d.Config.Output.CSVPath,
		Extract:    opts,
	}, d.Fetcher, d.Storage, d.Metrics, d.Logger)

	// Scheduled runs get the fetch budget of every attempt plus slack
	timeout := src.Timeout*time.Duration(src.Retries+1) + time.Minute
	d.Scheduler = cron.NewScheduler(func(ctx context.Context) error {
		_, err := d.Service.Refresh(ctx)
		return err
	}, timeout, d.Logger)
}
