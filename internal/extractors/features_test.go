package extractors

import (
	"strings"
	"testing"

	"github.com/miradorstack/mirador-logscan/internal/models"
)

func TestFeatureExtractorExtract(t *testing.T) {
	extractor := NewFeatureExtractor()

	records := []models.LogRecord{
		{Level: "CRITICAL", Message: strings.Repeat("x", 37)},
		{Level: "DEBUG", Message: "debugging"},
		{Level: "INFO", Message: ""},
		{Level: "WARNING", Message: "héllo"},
		{Level: "ERROR", Message: "a b c"},
		{Level: "info", Message: "lowercase"},
	}
	want := []models.FeatureVector{
		{LevelScore: 4, MessageLength: 37},
		{LevelScore: 0, MessageLength: 9},
		{LevelScore: 1, MessageLength: 0},
		{LevelScore: 2, MessageLength: 5},
		{LevelScore: 3, MessageLength: 5},
		{LevelScore: 0, MessageLength: 9},
	}

	vectors := extractor.Extract(records)
	if len(vectors) != len(want) {
		t.Fatalf("expected %d vectors, got %d", len(want), len(vectors))
	}
	for i := range want {
		if vectors[i] != want[i] {
			t.Fatalf("vector %d: expected %+v, got %+v", i, want[i], vectors[i])
		}
	}
}

func TestFeatureExtractorEmpty(t *testing.T) {
	if vectors := NewFeatureExtractor().Extract(nil); len(vectors) != 0 {
		t.Fatalf("expected no vectors, got %d", len(vectors))
	}
}

func TestMatrix(t *testing.T) {
	rows := Matrix([]models.FeatureVector{{LevelScore: 3, MessageLength: 12}})
	if len(rows) != 1 || len(rows[0]) != 2 {
		t.Fatalf("unexpected shape %v", rows)
	}
	if rows[0][0] != 3 || rows[0][1] != 12 {
		t.Fatalf("unexpected row %v", rows[0])
	}
}
