package models

import "time"

// AnomalyPattern aggregates anomalous records sharing a level.
type AnomalyPattern struct {
	Level      string
	Count      int
	MeanScore  float64
	MaxScore   float64
	FirstSeen  time.Time
	LastSeen   time.Time
	Signatures []string
}
