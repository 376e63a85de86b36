package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/miradorstack/mirador-logscan/internal/models"
)

// TimestampLayout is how record timestamps are rendered.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	// FormatText renders an aligned table.
	FormatText = "text"
	// FormatJSON renders a single JSON document.
	FormatJSON = "json"
)

// Scan is everything a reporter needs to describe one scan.
type Scan struct {
	RunID   string
	Source  string
	Results []models.AnomalyResult
	// Summary is rendered when non-empty.
	Summary []models.AnomalyPattern
}

// Reporter renders the anomalous subset of a scan.
type Reporter interface {
	Render(w io.Writer, scan Scan) error
}

// New returns the reporter for format.
func New(format string) (Reporter, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return TextReporter{}, nil
	case FormatJSON:
		return JSONReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Anomalies returns the results labelled anomalous, in input order.
func Anomalies(results []models.AnomalyResult) []models.AnomalyResult {
	out := make([]models.AnomalyResult, 0)
	for _, res := range results {
		if res.IsAnomaly() {
			out = append(out, res)
		}
	}
	return out
}
