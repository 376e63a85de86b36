package models

// Label classifies a scored record.
type Label int

const (
	// LabelNormal marks records inside the expected population.
	LabelNormal Label = iota
	// LabelAnomaly marks records within the contamination fraction.
	LabelAnomaly
)

func (l Label) String() string {
	switch l {
	case LabelAnomaly:
		return "anomaly"
	default:
		return "normal"
	}
}

// AnomalyResult pairs a record with its isolation score and label.
type AnomalyResult struct {
	Record LogRecord
	Score  float64
	Label  Label
}

// IsAnomaly reports whether the result was labelled anomalous.
func (r AnomalyResult) IsAnomaly() bool {
	return r.Label == LabelAnomaly
}
