package engine

import (
	"context"
	"log/slog"

	"github.com/miradorstack/mirador-logscan/internal/extractors"
	"github.com/miradorstack/mirador-logscan/internal/models"
	"github.com/miradorstack/mirador-logscan/internal/parser"
	"github.com/miradorstack/mirador-logscan/internal/utils"
)

// DefaultContamination is the expected share of anomalous lines.
const DefaultContamination = 0.1

// Detector scores feature rows and labels the outliers.
type Detector interface {
	Detect(data [][]float64, contamination float64) []Scored
}

// PipelineStats summarises a pipeline run.
type PipelineStats struct {
	Lines     parser.Stats
	Anomalies int
}

// Pipeline chains parsing, feature extraction and outlier detection.
type Pipeline struct {
	logger        *slog.Logger
	parser        *parser.Parser
	extractor     *extractors.FeatureExtractor
	detector      Detector
	contamination float64
}

// NewPipeline constructs a pipeline. Nil collaborators fall back to defaults.
func NewPipeline(
	logger *slog.Logger,
	p *parser.Parser,
	extractor *extractors.FeatureExtractor,
	detector Detector,
	contamination float64,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if p == nil {
		p = parser.New(nil)
	}
	if extractor == nil {
		extractor = extractors.NewFeatureExtractor()
	}
	if detector == nil {
		detector = NewIsolationForest()
	}
	if contamination <= 0 || contamination >= 1 {
		contamination = DefaultContamination
	}

	return &Pipeline{
		logger:        logger,
		parser:        p,
		extractor:     extractor,
		detector:      detector,
		contamination: contamination,
	}
}

// Run parses lines and returns one result per surviving record, in input order.
// It returns utils.ErrNoValidEntries when no line could be parsed.
func (p *Pipeline) Run(ctx context.Context, lines []string) ([]models.AnomalyResult, PipelineStats, error) {
	var stats PipelineStats
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	records, lineStats := p.parser.ParseWithStats(lines)
	stats.Lines = lineStats
	p.logger.Debug("parsed log lines",
		slog.Int("total", lineStats.Total),
		slog.Int("accepted", lineStats.Accepted),
		slog.Int("dropped", lineStats.Dropped),
	)
	if len(records) == 0 {
		return nil, stats, utils.ErrNoValidEntries
	}

	vectors := p.extractor.Extract(records)
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	scored := p.detector.Detect(extractors.Matrix(vectors), p.contamination)

	results := make([]models.AnomalyResult, len(records))
	for i, record := range records {
		results[i] = models.AnomalyResult{
			Record: record,
			Score:  scored[i].Score,
			Label:  scored[i].Label,
		}
		if scored[i].Label == models.LabelAnomaly {
			stats.Anomalies++
		}
	}

	p.logger.Debug("detection complete",
		slog.Int("records", len(results)),
		slog.Int("anomalies", stats.Anomalies),
		slog.Float64("contamination", p.contamination),
	)
	return results, stats, nil
}
