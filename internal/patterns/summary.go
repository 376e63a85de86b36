package patterns

import (
	"sort"
	"strings"
	"unicode"

	"github.com/miradorstack/mirador-logscan/internal/models"
)

// DefaultSignatureLimit is the number of message signatures kept per level.
const DefaultSignatureLimit = 3

// Summarize groups anomalous results by level. Each pattern carries up to limit
// of the most frequent message signatures. Patterns are ordered by count, then level.
func Summarize(results []models.AnomalyResult, limit int) []models.AnomalyPattern {
	if limit <= 0 {
		limit = DefaultSignatureLimit
	}

	levelStats := make(map[string]*levelAggregate)
	for _, res := range results {
		if !res.IsAnomaly() {
			continue
		}
		agg := ensureAggregate(levelStats, res.Record.Level)
		agg.observe(res)
	}

	patterns := make([]models.AnomalyPattern, 0, len(levelStats))
	for level, agg := range levelStats {
		patterns = append(patterns, models.AnomalyPattern{
			Level:      level,
			Count:      agg.count,
			MeanScore:  agg.scoreSum / float64(agg.count),
			MaxScore:   agg.maxScore,
			FirstSeen:  agg.first.Timestamp,
			LastSeen:   agg.last.Timestamp,
			Signatures: agg.topSignatures(limit),
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].Level < patterns[j].Level
	})
	return patterns
}

// Signature masks digit runs in msg with '#' so messages differing only in
// ids, sizes or counters collapse together.
func Signature(msg string) string {
	var b strings.Builder
	b.Grow(len(msg))
	inDigits := false
	for _, r := range msg {
		if unicode.IsDigit(r) {
			if !inDigits {
				b.WriteByte('#')
				inDigits = true
			}
			continue
		}
		inDigits = false
		b.WriteRune(r)
	}
	return b.String()
}

type levelAggregate struct {
	count      int
	scoreSum   float64
	maxScore   float64
	first      models.LogRecord
	last       models.LogRecord
	signatures map[string]int
}

func ensureAggregate(m map[string]*levelAggregate, level string) *levelAggregate {
	if level == "" {
		level = "unknown"
	}
	agg, ok := m[level]
	if !ok {
		agg = &levelAggregate{signatures: make(map[string]int)}
		m[level] = agg
	}
	return agg
}

func (agg *levelAggregate) observe(res models.AnomalyResult) {
	ts := res.Record.Timestamp
	if agg.count == 0 || ts.Before(agg.first.Timestamp) {
		agg.first = res.Record
	}
	if agg.count == 0 || ts.After(agg.last.Timestamp) {
		agg.last = res.Record
	}
	agg.count++
	agg.scoreSum += res.Score
	if res.Score > agg.maxScore {
		agg.maxScore = res.Score
	}
	agg.signatures[Signature(res.Record.Message)]++
}

func (agg *levelAggregate) topSignatures(limit int) []string {
	sigs := make([]string, 0, len(agg.signatures))
	for sig := range agg.signatures {
		sigs = append(sigs, sig)
	}
	sort.Slice(sigs, func(i, j int) bool {
		if agg.signatures[sigs[i]] != agg.signatures[sigs[j]] {
			return agg.signatures[sigs[i]] > agg.signatures[sigs[j]]
		}
		return sigs[i] < sigs[j]
	})
	if len(sigs) > limit {
		sigs = sigs[:limit]
	}
	return sigs
}
