package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels scans that produced a report.
	OutcomeSuccess = "success"
	// OutcomeEmpty labels scans where no line could be parsed.
	OutcomeEmpty = "empty"
	// OutcomeError labels scans that failed, e.g. on an unreadable file.
	OutcomeError = "error"

	// LineAccepted and LineDropped label parsed and silently excluded lines.
	LineAccepted = "accepted"
	LineDropped  = "dropped"
)

var (
	scansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mirador_logscan",
			Name:      "scans_total",
			Help:      "Total number of log scans, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	linesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mirador_logscan",
			Name:      "log_lines_total",
			Help:      "Log lines read, partitioned by whether the parser accepted them.",
		},
		[]string{"status"},
	)

	anomaliesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mirador_logscan",
			Name:      "anomalies_total",
			Help:      "Total number of log lines labelled anomalous.",
		},
	)

	scanDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mirador_logscan",
			Name:      "scan_seconds",
			Help:      "Scan latency in seconds, from file read to labelled results.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	lastAnomalyRatio = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mirador_logscan",
			Name:      "last_anomaly_ratio",
			Help:      "Share of parsed lines labelled anomalous in the most recent scan.",
		},
	)
)

// Register attaches mirador-logscan collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		scansTotal,
		linesTotal,
		anomaliesTotal,
		scanDurationSeconds,
		lastAnomalyRatio,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveScan records a scan duration and outcome label.
func ObserveScan(duration time.Duration, outcome string) {
	label := outcome
	switch label {
	case OutcomeEmpty, OutcomeError:
	default:
		label = OutcomeSuccess
	}
	scansTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	scanDurationSeconds.Observe(duration.Seconds())
}

// ObserveLines records how many lines the parser accepted and dropped.
func ObserveLines(accepted, dropped int) {
	linesTotal.WithLabelValues(LineAccepted).Add(float64(accepted))
	linesTotal.WithLabelValues(LineDropped).Add(float64(dropped))
}

// ObserveAnomalies records the anomalies found among total parsed records.
func ObserveAnomalies(anomalies, total int) {
	anomaliesTotal.Add(float64(anomalies))
	if total > 0 {
		lastAnomalyRatio.Set(float64(anomalies) / float64(total))
	}
}

// WriteTextfile dumps the gatherer in the text exposition format to path, for
// pickup by a node exporter textfile collector. An empty path is a no-op.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, g)
}
