package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated simulation statistics for a window of frames.
type WindowStats struct {
	RunID       string  `csv:"run_id"`
	WindowStart int64   `csv:"-"`
	WindowEnd   int64   `csv:"window_end"`
	SimTimeSec  float64 `csv:"sim_time"`
	TotalSteps  uint64  `csv:"total_steps"`

	// Frame pacing
	Frames        int     `csv:"frames"`
	DeltaMean     float64 `csv:"delta_mean"`
	DeltaStd      float64 `csv:"delta_std"`
	DeltaP50      float64 `csv:"delta_p50"`
	DeltaP90      float64 `csv:"delta_p90"`
	ClampedFrames int     `csv:"clamped_frames"`
	StepsPerFrame float64 `csv:"steps_per_frame"`

	// Bodies, sampled at window end
	Bodies      int     `csv:"bodies"`
	AwakeBodies int     `csv:"awake_bodies"`
	HeightMean  float64 `csv:"height_mean"`
	HeightMin   float64 `csv:"height_min"`
	HeightMax   float64 `csv:"height_max"`
}

// Settled reports whether every body had gone to sleep by window end.
func (s WindowStats) Settled() bool {
	return s.Bodies > 0 && s.AwakeBodies == 0
}

// WindowCollector accumulates per-frame measurements between flushes.
type WindowCollector struct {
	runID       string
	windowStart int64

	deltas  []float64
	steps   []float64
	clamped int

	heights []float64
	awake   int
}

// NewWindowCollector creates a collector tagging its windows with runID.
func NewWindowCollector(runID string) *WindowCollector {
	return &WindowCollector{runID: runID}
}

// RecordFrame adds one frame's raw delta and the steps it produced.
func (c *WindowCollector) RecordFrame(delta float64, steps int, clamped bool) {
	c.deltas = append(c.deltas, delta)
	c.steps = append(c.steps, float64(steps))
	if clamped {
		c.clamped++
	}
}

// SampleBodies records body heights and the awake count. Only the latest
// sample in a window is kept.
func (c *WindowCollector) SampleBodies(heights []float64, awake int) {
	c.heights = append(c.heights[:0], heights...)
	c.awake = awake
}

// Frames returns the number of frames recorded since the last flush.
func (c *WindowCollector) Frames() int {
	return len(c.deltas)
}

// Flush computes the window's statistics and starts a new window.
func (c *WindowCollector) Flush(windowEnd int64, simTime float64, totalSteps uint64) WindowStats {
	s := WindowStats{
		RunID:         c.runID,
		WindowStart:   c.windowStart,
		WindowEnd:     windowEnd,
		SimTimeSec:    simTime,
		TotalSteps:    totalSteps,
		Frames:        len(c.deltas),
		ClampedFrames: c.clamped,
		Bodies:        len(c.heights),
		AwakeBodies:   c.awake,
	}

	if len(c.deltas) > 0 {
		s.DeltaMean = stat.Mean(c.deltas, nil)
		if len(c.deltas) > 1 {
			s.DeltaStd = stat.StdDev(c.deltas, nil)
		}
		sorted := append([]float64(nil), c.deltas...)
		sort.Float64s(sorted)
		s.DeltaP50 = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
		s.DeltaP90 = stat.Quantile(0.9, stat.LinInterp, sorted, nil)
		s.StepsPerFrame = stat.Mean(c.steps, nil)
	}
	if len(c.heights) > 0 {
		s.HeightMean = stat.Mean(c.heights, nil)
		s.HeightMin = floats.Min(c.heights)
		s.HeightMax = floats.Max(c.heights)
	}

	c.windowStart = windowEnd
	c.deltas = c.deltas[:0]
	c.steps = c.steps[:0]
	c.clamped = 0
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStart),
		slog.Int64("window_end", s.WindowEnd),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Uint64("total_steps", s.TotalSteps),
		slog.Float64("delta_mean", s.DeltaMean),
		slog.Float64("delta_p90", s.DeltaP90),
		slog.Int("clamped_frames", s.ClampedFrames),
		slog.Int("awake_bodies", s.AwakeBodies),
		slog.Float64("height_mean", s.HeightMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEnd,
		"sim_time", s.SimTimeSec,
		"total_steps", s.TotalSteps,
		"frames", s.Frames,
		"delta_mean", s.DeltaMean,
		"delta_std", s.DeltaStd,
		"steps_per_frame", s.StepsPerFrame,
		"clamped_frames", s.ClampedFrames,
		"bodies", s.Bodies,
		"awake_bodies", s.AwakeBodies,
		"height_mean", s.HeightMean,
		"height_min", s.HeightMin,
		"height_max", s.HeightMax,
	)
}
