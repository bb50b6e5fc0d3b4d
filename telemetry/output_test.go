package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager(\"\") error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager when dir is empty")
	}

	// All methods must be safe on the nil receiver.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil WriteTelemetry error: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("nil WritePerf error: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("nil Dir() = %q, want empty", om.Dir())
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close error: %v", err)
	}
}

func TestOutputManagerTelemetryCSV(t *testing.T) {
	dir := t.TempDir()

	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager error: %v", err)
	}

	first := WindowStats{SimTime: 5.0, Sparks: 120, Spawns: 7}
	second := WindowStats{SimTime: 10.0, Sparks: 125, Spawns: 4}

	if err := om.WriteTelemetry(first); err != nil {
		t.Fatalf("WriteTelemetry error: %v", err)
	}
	if err := om.WriteTelemetry(second); err != nil {
		t.Fatalf("WriteTelemetry error: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 records, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "sim_time") || !strings.Contains(lines[0], "sparks") {
		t.Errorf("header missing expected columns: %q", lines[0])
	}
	if strings.Contains(lines[1], "sim_time") {
		t.Error("header repeated on second write")
	}
	if !strings.Contains(lines[1], "120") {
		t.Errorf("first record missing spark count: %q", lines[1])
	}
	if !strings.Contains(lines[2], "125") {
		t.Errorf("second record missing spark count: %q", lines[2])
	}
}

func TestOutputManagerPerfCSV(t *testing.T) {
	dir := t.TempDir()

	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager error: %v", err)
	}

	pc := NewPerfCollector(4)
	pc.StartFrame()
	pc.StartPhase(PhaseAdvance)
	pc.EndFrame()

	if err := om.WritePerf(pc.Stats(), 2.5); err != nil {
		t.Fatalf("WritePerf error: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 record, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "avg_frame_us") {
		t.Errorf("perf header missing avg_frame_us: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2.5") {
		t.Errorf("perf record should start with sim_time 2.5: %q", lines[1])
	}
}
