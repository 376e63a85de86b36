package models

import "time"

// LogRecord is a single parsed log line.
type LogRecord struct {
	Timestamp time.Time
	Level     string
	Message   string
}

// FeatureVector is the numeric representation of a LogRecord used by the detector.
type FeatureVector struct {
	LevelScore    float64
	MessageLength int
}

// Values returns the vector dimensions in detector order.
func (f FeatureVector) Values() []float64 {
	return []float64{f.LevelScore, float64(f.MessageLength)}
}
