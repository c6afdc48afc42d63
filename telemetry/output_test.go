package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/fruitfall/config"
)

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("", "run")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Error(err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.RunID() != "" {
		t.Error("nil manager reported a directory or run ID")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	runID := NewRunID()
	if _, err := uuid.Parse(runID); err != nil {
		t.Fatalf("run ID %q is not a UUID: %v", runID, err)
	}

	om, err := NewOutputManager(dir, runID)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	c := NewWindowCollector(runID)
	for w := int64(1); w <= 3; w++ {
		c.RecordFrame(0.016, 1, false)
		c.SampleBodies([]float64{10, 20}, 2)
		if err := om.WriteStats(c.Flush(w, float64(w)*0.016, uint64(w))); err != nil {
			t.Fatalf("WriteStats: %v", err)
		}
		perf := PerfStats{AvgFrameDuration: time.Millisecond, PhasePct: map[string]float64{}}
		if err := om.WritePerf(perf, w); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for _, name := range []string{"frames.csv", "perf.csv"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 4 {
			t.Errorf("%s has %d lines, want header + 3 rows", name, len(lines))
			continue
		}
		if !strings.HasPrefix(lines[0], "run_id,window_end") {
			t.Errorf("%s header = %q", name, lines[0])
		}
		for _, row := range lines[1:] {
			if !strings.HasPrefix(row, runID+",") {
				t.Errorf("%s row %q missing run ID", name, row)
			}
		}
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, "run")
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}
