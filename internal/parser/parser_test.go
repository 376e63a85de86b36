package parser

import (
	"testing"
	"time"
)

func TestParseLineWellFormed(t *testing.T) {
	p := New(nil)

	record, ok := p.ParseLine("2024-01-15 10:23:01 INFO Service started")
	if !ok {
		t.Fatalf("expected line to parse")
	}
	if record.Level != "INFO" {
		t.Fatalf("expected level INFO, got %q", record.Level)
	}
	if record.Message != "Service started" {
		t.Fatalf("expected message %q, got %q", "Service started", record.Message)
	}
	want := time.Date(2024, time.January, 15, 10, 23, 1, 0, time.UTC)
	if !record.Timestamp.Equal(want) {
		t.Fatalf("expected timestamp %v, got %v", want, record.Timestamp)
	}
}

func TestParseLineKeepsMessageSpaces(t *testing.T) {
	p := New(nil)

	record, ok := p.ParseLine("2024-01-15 10:23:01 ERROR Disk write failed on /dev/sda1   \n")
	if !ok {
		t.Fatalf("expected line to parse")
	}
	if record.Message != "Disk write failed on /dev/sda1" {
		t.Fatalf("unexpected message %q", record.Message)
	}
}

func TestParseDropsMalformedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "empty", line: ""},
		{name: "three fields", line: "2024-01-15 10:23:01 INFO"},
		{name: "trailing space only", line: "2024-01-15 10:23:01 INFO   "},
		{name: "bad timestamp", line: "2024-01-15 99:99:99 ERROR something broke"},
		{name: "month out of range", line: "2024-13-01 10:00:00 INFO bad month"},
		{name: "missing year", line: "Jan 15 INFO no year"},
	}

	p := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if records := p.Parse([]string{tt.line}); len(records) != 0 {
				t.Fatalf("expected no records, got %+v", records)
			}
		})
	}
}

func TestParsePreservesOrderAndCountsDrops(t *testing.T) {
	lines := []string{
		"2024-01-15 10:23:01 INFO first",
		"garbage",
		"2024-01-15 10:23:02 WARNING second",
		"2024-01-15 25:61:00 ERROR third",
		"2024-01-15 10:23:04 CRITICAL fourth",
	}

	records, stats := New(nil).ParseWithStats(lines)
	if stats.Total != 5 || stats.Accepted != 3 || stats.Dropped != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	want := []string{"first", "second", "fourth"}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i, msg := range want {
		if records[i].Message != msg {
			t.Fatalf("record %d: expected %q, got %q", i, msg, records[i].Message)
		}
	}
}

func TestParseLineUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)

	record, ok := New(loc).ParseLine("2024-01-15 10:23:01 INFO shifted")
	if !ok {
		t.Fatalf("expected line to parse")
	}
	want := time.Date(2024, time.January, 15, 8, 23, 1, 0, time.UTC)
	if !record.Timestamp.Equal(want) {
		t.Fatalf("expected %v, got %v", want, record.Timestamp.UTC())
	}
}
