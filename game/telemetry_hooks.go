package game

import (
	"log/slog"
)

// flushTelemetry closes the stats window once it has collected enough frames.
func (g *Game) flushTelemetry() {
	if g.window.Frames() < g.cfg.Telemetry.WindowFrames {
		return
	}
	g.writeWindow()
}

// writeWindow samples the bodies, flushes the current window and writes it out.
func (g *Game) writeWindow() {
	heights, awake := g.sampleBodies()
	g.lastAwake = awake
	g.window.SampleBodies(heights, awake)

	stats := g.window.Flush(g.frame, g.simTime, g.stepper.Steps())
	perfStats := g.perf.Stats()

	if g.opts.StatsCallback != nil {
		g.opts.StatsCallback(stats)
	}

	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.output != nil {
		if err := g.output.WriteStats(stats); err != nil {
			slog.Error("failed to write stats", "error", err)
		}
		if err := g.output.WritePerf(perfStats, stats.WindowEnd); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleBodies returns the height of every dynamic body and how many are awake.
func (g *Game) sampleBodies() (heights []float64, awake int) {
	for _, body := range g.world.Snapshot() {
		if body.Static {
			continue
		}
		heights = append(heights, body.Pose.Y)
		if body.Awake {
			awake++
		}
	}
	return heights, awake
}
