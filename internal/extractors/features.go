package extractors

import (
	"unicode/utf8"

	"github.com/miradorstack/mirador-logscan/internal/models"
)

// levelScores maps recognised severities to their numeric score. Anything else scores 0.
var levelScores = map[string]float64{
	"INFO":     1,
	"WARNING":  2,
	"ERROR":    3,
	"CRITICAL": 4,
}

// LevelScore returns the numeric score for a level, or 0 when it is not recognised.
func LevelScore(level string) float64 {
	return levelScores[level]
}

// FeatureExtractor derives detector features from parsed records.
type FeatureExtractor struct{}

// NewFeatureExtractor constructs a feature extractor.
func NewFeatureExtractor() *FeatureExtractor {
	return &FeatureExtractor{}
}

// Extract returns one vector per record, in the same order.
func (e *FeatureExtractor) Extract(records []models.LogRecord) []models.FeatureVector {
	vectors := make([]models.FeatureVector, len(records))
	for i, record := range records {
		vectors[i] = models.FeatureVector{
			LevelScore:    LevelScore(record.Level),
			MessageLength: utf8.RuneCountInString(record.Message),
		}
	}
	return vectors
}

// Matrix flattens vectors into detector rows.
func Matrix(vectors []models.FeatureVector) [][]float64 {
	rows := make([][]float64, len(vectors))
	for i, v := range vectors {
		rows[i] = v.Values()
	}
	return rows
}
