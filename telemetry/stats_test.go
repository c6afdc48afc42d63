package telemetry

import (
	"math"
	"testing"
)

func TestWindowCollectorFlush(t *testing.T) {
	c := NewWindowCollector("run-1")
	deltas := []float64{0.01, 0.02, 0.03, 0.04}
	for i, d := range deltas {
		c.RecordFrame(d, i%2, i == 3)
	}
	c.SampleBodies([]float64{1, 5, 9}, 2)

	s := c.Flush(4, 0.1, 6)

	if s.RunID != "run-1" || s.WindowEnd != 4 || s.TotalSteps != 6 {
		t.Errorf("header = %+v", s)
	}
	if s.Frames != 4 {
		t.Errorf("Frames = %d, want 4", s.Frames)
	}
	if math.Abs(s.DeltaMean-0.025) > 1e-9 {
		t.Errorf("DeltaMean = %v, want 0.025", s.DeltaMean)
	}
	// Sample standard deviation of {0.01, 0.02, 0.03, 0.04}
	if want := math.Sqrt(0.0005 / 3); math.Abs(s.DeltaStd-want) > 1e-9 {
		t.Errorf("DeltaStd = %v, want %v", s.DeltaStd, want)
	}
	// Quantiles interpolate within the sorted deltas: rank 2 of 4, then rank 3.6
	if math.Abs(s.DeltaP50-0.02) > 1e-9 {
		t.Errorf("DeltaP50 = %v, want 0.02", s.DeltaP50)
	}
	if math.Abs(s.DeltaP90-0.036) > 1e-9 {
		t.Errorf("DeltaP90 = %v, want 0.036", s.DeltaP90)
	}
	if math.Abs(s.StepsPerFrame-0.5) > 1e-9 {
		t.Errorf("StepsPerFrame = %v, want 0.5", s.StepsPerFrame)
	}
	if s.ClampedFrames != 1 {
		t.Errorf("ClampedFrames = %d, want 1", s.ClampedFrames)
	}
	if s.Bodies != 3 || s.AwakeBodies != 2 {
		t.Errorf("bodies = %d awake = %d, want 3 and 2", s.Bodies, s.AwakeBodies)
	}
	if s.HeightMean != 5 || s.HeightMin != 1 || s.HeightMax != 9 {
		t.Errorf("heights = (%v, %v, %v), want (5, 1, 9)", s.HeightMean, s.HeightMin, s.HeightMax)
	}
	if s.Settled() {
		t.Error("window with awake bodies reported settled")
	}
}

func TestWindowCollectorStartsFresh(t *testing.T) {
	c := NewWindowCollector("run")
	c.RecordFrame(0.5, 15, true)
	c.Flush(1, 0.25, 15)

	if c.Frames() != 0 {
		t.Errorf("Frames() after flush = %d, want 0", c.Frames())
	}

	c.RecordFrame(0.01, 0, false)
	c.SampleBodies([]float64{2}, 0)
	s := c.Flush(2, 0.26, 15)
	if s.WindowStart != 1 {
		t.Errorf("WindowStart = %d, want 1", s.WindowStart)
	}
	if s.ClampedFrames != 0 || s.Frames != 1 {
		t.Errorf("second window carried state: %+v", s)
	}
	if s.DeltaStd != 0 {
		t.Errorf("single-frame DeltaStd = %v, want 0", s.DeltaStd)
	}
	if !s.Settled() {
		t.Error("window with no awake bodies should be settled")
	}
}

func TestWindowCollectorEmpty(t *testing.T) {
	s := NewWindowCollector("run").Flush(0, 0, 0)
	if s.Frames != 0 || s.DeltaMean != 0 || s.HeightMean != 0 {
		t.Errorf("empty window = %+v, want zeros", s)
	}
	if s.Settled() {
		t.Error("window with no bodies should not be settled")
	}
}
