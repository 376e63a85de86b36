package parser

import (
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"

	"github.com/miradorstack/mirador-logscan/internal/models"
)

// fieldCount is the number of space separated fields in a log line:
// date, time, level and the free-form message.
const fieldCount = 4

// Stats counts how many input lines survived parsing.
type Stats struct {
	Total    int
	Accepted int
	Dropped  int
}

// Parser turns raw `<date> <time> <LEVEL> <message...>` lines into records.
// Malformed lines are dropped silently.
type Parser struct {
	loc *time.Location
}

// New constructs a Parser that interprets zone-less timestamps in loc (UTC when nil).
func New(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{loc: loc}
}

// Parse returns the records for every well-formed line, preserving input order.
func (p *Parser) Parse(lines []string) []models.LogRecord {
	records, _ := p.ParseWithStats(lines)
	return records
}

// ParseWithStats behaves like Parse and also reports how many lines were dropped.
func (p *Parser) ParseWithStats(lines []string) ([]models.LogRecord, Stats) {
	stats := Stats{Total: len(lines)}
	records := make([]models.LogRecord, 0, len(lines))
	for _, line := range lines {
		record, ok := p.ParseLine(line)
		if !ok {
			stats.Dropped++
			continue
		}
		records = append(records, record)
	}
	stats.Accepted = len(records)
	return records, stats
}

// ParseLine parses a single line. The boolean is false when the line has fewer
// than four fields or its timestamp cannot be coerced.
func (p *Parser) ParseLine(line string) (models.LogRecord, bool) {
	line = strings.TrimRightFunc(line, unicode.IsSpace)
	parts := strings.SplitN(line, " ", fieldCount)
	if len(parts) < fieldCount {
		return models.LogRecord{}, false
	}

	ts, err := dateparse.ParseIn(parts[0]+" "+parts[1], p.loc)
	// Layouts without a year, such as "Jan 15", come back as year 0.
	if err != nil || ts.Year() == 0 {
		return models.LogRecord{}, false
	}

	return models.LogRecord{
		Timestamp: ts,
		Level:     parts[2],
		Message:   parts[3],
	}, true
}
