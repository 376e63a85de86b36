package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/miradorstack/mirador-logscan/internal/config"
	"github.com/miradorstack/mirador-logscan/internal/engine"
	"github.com/miradorstack/mirador-logscan/internal/extractors"
	"github.com/miradorstack/mirador-logscan/internal/metrics"
	"github.com/miradorstack/mirador-logscan/internal/parser"
	"github.com/miradorstack/mirador-logscan/internal/repo"
	"github.com/miradorstack/mirador-logscan/internal/report"
	"github.com/miradorstack/mirador-logscan/internal/services"
	"github.com/miradorstack/mirador-logscan/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("logscan", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		configPath string
		filePath   string
	)
	flags.StringVar(&configPath, "config", "", "Path to configuration file")
	flags.StringVar(&filePath, "file", "", "Path to the system log file (default: system_logs.txt)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if filePath != "" {
		cfg.Input.Path = filePath
	}

	logger := utils.NewLogger(stderr, cfg.Logging.Level, cfg.Logging.JSON)

	reporter, err := report.New(cfg.Report.Format)
	if err != nil {
		logger.Error("invalid report format", slog.Any("error", err))
		return 1
	}

	loc := time.UTC
	if cfg.Input.Location != "" {
		loc, err = time.LoadLocation(cfg.Input.Location)
		if err != nil {
			logger.Error("invalid input location", slog.String("location", cfg.Input.Location), slog.Any("error", err))
			return 1
		}
	}

	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		return 1
	}
	defer func() {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, registry); err != nil {
			logger.Warn("metrics textfile export failed", slog.String("path", cfg.Metrics.Textfile), slog.Any("error", err))
		}
	}()

	forest := engine.NewIsolationForest(
		engine.WithTrees(cfg.Detector.Trees),
		engine.WithSampleSize(cfg.Detector.SampleSize),
		engine.WithSeed(cfg.Detector.Seed),
		engine.WithWorkers(cfg.Detector.Workers),
	)
	pipeline := engine.NewPipeline(
		logger,
		parser.New(loc),
		extractors.NewFeatureExtractor(),
		forest,
		cfg.Detector.Contamination,
	)
	service := services.NewScanService(logger, repo.NewLogFileRepo(), pipeline)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := service.Scan(ctx, cfg.Input.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(stderr, "Error: the file '%s' was not found.\n", cfg.Input.Path)
		return 1
	case errors.Is(err, utils.ErrInputUnavailable):
		fmt.Fprintf(stderr, "Error reading file '%s': %v\n", cfg.Input.Path, err)
		return 1
	case errors.Is(err, utils.ErrNoValidEntries):
		fmt.Fprintln(stdout, "No valid log entries found.")
		return 0
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	signatures := 0
	if cfg.Report.Summary {
		signatures = cfg.Report.Signatures
	}
	if err := reporter.Render(stdout, result.ReportScan(signatures)); err != nil {
		logger.Error("failed to write report", slog.Any("error", err))
		return 1
	}
	return 0
}
