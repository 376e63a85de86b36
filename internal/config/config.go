package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures the settings for a log scan.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Detector DetectorConfig `yaml:"detector"`
	Logging  LoggingConfig  `yaml:"logging"`
	Report   ReportConfig   `yaml:"report"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// InputConfig selects the log file to scan.
type InputConfig struct {
	Path string `yaml:"path"`
	// Location interprets zone-less timestamps; empty means UTC.
	Location string `yaml:"location"`
}

// DetectorConfig tunes the isolation forest.
type DetectorConfig struct {
	Contamination float64 `yaml:"contamination"`
	Trees         int     `yaml:"trees"`
	SampleSize    int     `yaml:"sampleSize"`
	Seed          uint64  `yaml:"seed"`
	// Workers bounds tree construction parallelism; 0 uses GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// ReportConfig controls how anomalies are rendered.
type ReportConfig struct {
	Format     string `yaml:"format"`
	Summary    bool   `yaml:"summary"`
	Signatures int    `yaml:"signatures"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("MIRADOR_LOGSCAN_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the detector cannot honour.
func (c *Config) Validate() error {
	if c.Detector.Contamination <= 0 || c.Detector.Contamination >= 1 {
		return fmt.Errorf("detector.contamination must be in (0, 1), got %v", c.Detector.Contamination)
	}
	if c.Detector.Trees <= 0 {
		return fmt.Errorf("detector.trees must be positive, got %d", c.Detector.Trees)
	}
	if c.Detector.SampleSize <= 0 {
		return fmt.Errorf("detector.sampleSize must be positive, got %d", c.Detector.SampleSize)
	}
	if c.Detector.Workers < 0 {
		return fmt.Errorf("detector.workers must not be negative, got %d", c.Detector.Workers)
	}
	switch strings.ToLower(c.Report.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("report.format must be text or json, got %q", c.Report.Format)
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Input: InputConfig{Path: "system_logs.txt"},
		Detector: DetectorConfig{
			Contamination: 0.1,
			Trees:         100,
			SampleSize:    256,
			Seed:          42,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Report:  ReportConfig{Format: "text", Signatures: 3},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MIRADOR_LOGSCAN_FILE"); v != "" {
		cfg.Input.Path = v
	}
	if v := os.Getenv("MIRADOR_LOGSCAN_LOCATION"); v != "" {
		cfg.Input.Location = v
	}
	if v := os.Getenv("MIRADOR_LOGSCAN_CONTAMINATION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Detector.Contamination = f
		}
	}
	if v := os.Getenv("MIRADOR_LOGSCAN_TREES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Detector.Trees = n
		}
	}
	if v := os.Getenv("MIRADOR_LOGSCAN_SAMPLE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Detector.SampleSize = n
		}
	}
	if v := os.Getenv("MIRADOR_LOGSCAN_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Detector.Seed = n
		}
	}
	if v := os.Getenv("MIRADOR_LOGSCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Detector.Workers = n
		}
	}
	if v := os.Getenv("MIRADOR_LOGSCAN_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MIRADOR_LOGSCAN_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("MIRADOR_LOGSCAN_REPORT_FORMAT"); v != "" {
		cfg.Report.Format = v
	}
	if v := os.Getenv("MIRADOR_LOGSCAN_REPORT_SUMMARY"); v != "" {
		cfg.Report.Summary = strings.EqualFold(v, "true") || strings.EqualFold(v, "1")
	}
	if v := os.Getenv("MIRADOR_LOGSCAN_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
}
