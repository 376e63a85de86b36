package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/miradorstack/mirador-logscan/internal/engine"
	"github.com/miradorstack/mirador-logscan/internal/metrics"
	"github.com/miradorstack/mirador-logscan/internal/models"
	"github.com/miradorstack/mirador-logscan/internal/patterns"
	"github.com/miradorstack/mirador-logscan/internal/report"
	"github.com/miradorstack/mirador-logscan/internal/utils"
)

// LineSource loads the raw lines of a log file.
type LineSource interface {
	ReadLines(path string) ([]string, error)
}

// ScanResult is the outcome of one scan.
type ScanResult struct {
	RunID    string
	Source   string
	Results  []models.AnomalyResult
	Stats    engine.PipelineStats
	Duration time.Duration
}

// Anomalies returns the anomalous subset of the results.
func (r ScanResult) Anomalies() []models.AnomalyResult {
	return report.Anomalies(r.Results)
}

// ReportScan converts the result into reporter input. When signatures > 0 an
// anomaly summary with that many signatures per level is attached.
func (r ScanResult) ReportScan(signatures int) report.Scan {
	scan := report.Scan{RunID: r.RunID, Source: r.Source, Results: r.Results}
	if signatures > 0 {
		scan.Summary = patterns.Summarize(r.Results, signatures)
	}
	return scan
}

// ScanService reads a log file and runs it through the detection pipeline.
type ScanService struct {
	logger   *slog.Logger
	source   LineSource
	pipeline *engine.Pipeline
}

// NewScanService constructs the scan service facade.
func NewScanService(logger *slog.Logger, source LineSource, pipeline *engine.Pipeline) *ScanService {
	if logger == nil {
		logger = slog.Default()
	}
	if pipeline == nil {
		pipeline = engine.NewPipeline(logger, nil, nil, nil, engine.DefaultContamination)
	}
	return &ScanService{
		logger:   logger,
		source:   source,
		pipeline: pipeline,
	}
}

// Scan analyses the file at path. It returns an error matching
// utils.ErrInputUnavailable when the file cannot be read and
// utils.ErrNoValidEntries when no line parses; the latter is not a failure.
func (s *ScanService) Scan(ctx context.Context, path string) (ScanResult, error) {
	result := ScanResult{RunID: uuid.NewString(), Source: path}
	if s.source == nil {
		return result, utils.NewAppError("scan", "log source not configured", nil)
	}

	logger := s.logger.With(slog.String("run_id", result.RunID), slog.String("file", path))
	logger.Debug("scan started")

	start := time.Now()
	lines, err := s.source.ReadLines(path)
	if err != nil {
		result.Duration = time.Since(start)
		metrics.ObserveScan(result.Duration, metrics.OutcomeError)
		logger.Error("log file unavailable", slog.Any("error", err))
		return result, err
	}

	results, stats, err := s.pipeline.Run(ctx, lines)
	result.Duration = time.Since(start)
	result.Stats = stats
	metrics.ObserveLines(stats.Lines.Accepted, stats.Lines.Dropped)
	if err != nil {
		if errors.Is(err, utils.ErrNoValidEntries) {
			metrics.ObserveScan(result.Duration, metrics.OutcomeEmpty)
			logger.Warn("no valid log entries", slog.Int("lines", stats.Lines.Total))
			return result, err
		}
		metrics.ObserveScan(result.Duration, metrics.OutcomeError)
		logger.Error("pipeline run failed", slog.Any("error", err))
		return result, err
	}

	result.Results = results
	metrics.ObserveScan(result.Duration, metrics.OutcomeSuccess)
	metrics.ObserveAnomalies(stats.Anomalies, len(results))
	logger.Info("scan complete",
		slog.Int("lines", stats.Lines.Total),
		slog.Int("records", len(results)),
		slog.Int("anomalies", stats.Anomalies),
		slog.Duration("duration", result.Duration),
	)
	return result, nil
}
