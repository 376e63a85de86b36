package utils

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestInputUnavailableMatchesSentinelAndCause(t *testing.T) {
	err := InputUnavailable("read logs", "missing.log", fs.ErrNotExist)

	if !errors.Is(err, ErrInputUnavailable) {
		t.Fatalf("expected ErrInputUnavailable, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist to be preserved, got %v", err)
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Msg != "missing.log" {
		t.Fatalf("expected message to name the file, got %q", appErr.Msg)
	}
}

func TestAppErrorWithoutCause(t *testing.T) {
	err := NewAppError("scan", "nothing to do", nil)
	if got := err.Error(); got != "scan: nothing to do" {
		t.Fatalf("unexpected error text %q", got)
	}
}

func TestNewLoggerWritesAtConfiguredLevel(t *testing.T) {
	var buf strings.Builder
	logger := NewLogger(&buf, "warn", false)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("expected warn line in output: %q", out)
	}
}
