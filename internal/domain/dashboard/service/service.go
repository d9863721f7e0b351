// Package service runs the dashboard refresh: download the workbook, extract
// the dashboard document and persist it.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/export"
	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/extract"
	"github.com/FACorreiaa/cashflow-dashboard/internal/domain/dashboard/grid"
	"github.com/FACorreiaa/cashflow-dashboard/pkg/metrics"
	"github.com/FACorreiaa/cashflow-dashboard/pkg/storage"
)

const tracerName = "github.com/FACorreiaa/cashflow-dashboard/dashboard"

// ErrNoSource is returned when neither a file nor a URL is configured.
var ErrNoSource = errors.New("no workbook source configured")

// Fetcher downloads the workbook export
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Config describes where a refresh reads from and writes to
type Config struct {
	SourceURL  string
	SourceFile string // takes precedence over SourceURL
	OutputPath string
	CSVPath    string // optional
	Extract    extract.Options
}

// Outcome describes one successful refresh
type Outcome struct {
	RunID   uuid.UUID
	Path    string
	Report  *extract.Report
	Changed bool // content differs from the previous document, ignoring updatedAt
}

// Service orchestrates refresh runs
type Service struct {
	cfg     Config
	fetcher Fetcher
	store   storage.Storage
	metrics *metrics.Metrics // Optional: nil disables metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// New creates a refresh service. fetcher may be nil when only SourceFile is used.
func New(cfg Config, fetcher Fetcher, store storage.Storage, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		cfg:     cfg,
		fetcher: fetcher,
		store:   store,
		metrics: m,
		tracer:  otel.Tracer(tracerName),
		logger:  logger,
	}
}

// Refresh runs the pipeline once. Only an unreachable or unreadable workbook
// and persistence failures are errors; layout problems inside the sheet are
// reported as diagnostics on the returned report.
func (s *Service) Refresh(ctx context.Context) (_ *Outcome, err error) {
	runID := uuid.New()
	start := time.Now()
	logger := s.logger.With(slog.String("run_id", runID.String()))

	ctx, span := s.tracer.Start(ctx, "dashboard.refresh",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID.String()),
			attribute.Int("report.year", s.cfg.Extract.Year),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Error("dashboard refresh failed", slog.Any("error", err))
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		s.metrics.ObserveRun(err, time.Since(start).Seconds())
	}()

	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	wb, err := grid.Open(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	g, err := grid.Read(wb)
	if err != nil {
		return nil, err
	}

	report := extract.Extract(g, s.cfg.Extract)
	s.observe(ctx, logger, report)

	payload, err := report.Result.Encode()
	if err != nil {
		return nil, err
	}
	changed := s.changed(ctx, logger, &report.Result, payload)
	if err := s.store.Write(ctx, s.cfg.OutputPath, payload); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", s.cfg.OutputPath, err)
	}

	if s.cfg.CSVPath != "" {
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, &report.Result); err != nil {
			return nil, err
		}
		if err := s.store.Write(ctx, s.cfg.CSVPath, buf.Bytes()); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", s.cfg.CSVPath, err)
		}
	}

	logger.Info("dashboard refreshed",
		slog.String("path", s.cfg.OutputPath),
		slog.Int("grid_rows", g.Rows()),
		slog.Int("grid_cols", g.Cols()),
		slog.Int("periods", len(report.Result.Details)),
		slog.Int("diagnostics", len(report.Diagnostics)),
		slog.Bool("changed", changed),
		slog.Duration("elapsed", time.Since(start)),
	)

	return &Outcome{RunID: runID, Path: s.cfg.OutputPath, Report: report, Changed: changed}, nil
}

// changed compares payload with the document already stored at the output
// path. A missing or unreadable previous document counts as changed.
func (s *Service) changed(ctx context.Context, logger *slog.Logger, current *extract.Result, payload []byte) bool {
	raw, err := s.store.Read(ctx, s.cfg.OutputPath)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("failed to read previous dashboard", slog.Any("error", err))
		}
		return true
	}

	var prev extract.Result
	if err := json.Unmarshal(raw, &prev); err != nil {
		logger.Warn("previous dashboard is not valid JSON", slog.Any("error", err))
		return true
	}
	prev.Meta.UpdatedAt = current.Meta.UpdatedAt

	normalized, err := prev.Encode()
	if err != nil {
		return true
	}
	return !bytes.Equal(normalized, payload)
}

func (s *Service) load(ctx context.Context) ([]byte, error) {
	switch {
	case s.cfg.SourceFile != "":
		data, err := os.ReadFile(s.cfg.SourceFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read workbook: %w", err)
		}
		return data, nil
	case s.cfg.SourceURL != "" && s.fetcher != nil:
		return s.fetcher.Fetch(ctx, s.cfg.SourceURL)
	default:
		return nil, ErrNoSource
	}
}

// observe logs diagnostics and records table sizes
func (s *Service) observe(ctx context.Context, logger *slog.Logger, report *extract.Report) {
	for _, d := range report.Diagnostics {
		logger.Warn("extraction diagnostic",
			slog.String("kind", string(d.Kind)),
			slog.String("detail", d.String()),
		)
	}

	dash := report.Result.Dashboard
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("rows.tabela1", len(dash.Primary)),
		attribute.Int("rows.tabela2", len(dash.SeriesA)),
		attribute.Int("rows.tabela3", len(dash.SeriesB)),
		attribute.Int("rows.detalheMensal", len(report.Result.Details)),
		attribute.Int("diagnostics", len(report.Diagnostics)),
	)

	if s.metrics == nil {
		return
	}
	s.metrics.Rows.WithLabelValues(export.TablePrimary).Set(float64(len(dash.Primary)))
	s.metrics.Rows.WithLabelValues(export.TableSeriesA).Set(float64(len(dash.SeriesA)))
	s.metrics.Rows.WithLabelValues(export.TableSeriesB).Set(float64(len(dash.SeriesB)))
	s.metrics.Rows.WithLabelValues("detalheMensal").Set(float64(len(report.Result.Details)))
	for kind, n := range extract.CountByKind(report.Diagnostics) {
		s.metrics.Diagnostics.WithLabelValues(string(kind)).Add(float64(n))
	}
}
