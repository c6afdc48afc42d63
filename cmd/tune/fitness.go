package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/fruitfall/config"
	"github.com/pthm-cable/fruitfall/game"
	"github.com/pthm-cable/fruitfall/telemetry"
)

// Cost weights.
const (
	tunnelPenalty = 100.0 // per run with a body below the ground
	workWeight    = 0.1   // settle time multiplier per unit of relative solver work
	frameDelta    = 1.0 / 60
	windowFrames  = 30
)

// SettleEvaluator runs headless simulations and scores how quickly and
// cleanly the population comes to rest.
type SettleEvaluator struct {
	params     *ParamVector
	maxFrames  int64
	seeds      []int64
	baseConfig *config.Config
	baseWork   float64

	mu         sync.Mutex
	lastResult seedResult // mean over seeds of the most recent Evaluate call
}

// NewSettleEvaluator creates a new evaluator.
func NewSettleEvaluator(params *ParamVector, maxFrames int64, seeds []int64, baseCfg *config.Config) *SettleEvaluator {
	return &SettleEvaluator{
		params:     params,
		maxFrames:  maxFrames,
		seeds:      seeds,
		baseConfig: baseCfg,
		baseWork:   solverWork(baseCfg),
	}
}

// LastResult returns the seed-averaged result of the most recent evaluation.
func (se *SettleEvaluator) LastResult() (settleSec, tunnelRate float64) {
	se.mu.Lock()
	defer se.mu.Unlock()
	return se.lastResult.settleSec, se.lastResult.tunnelRate
}

// runResult holds the results from a single simulation run.
type runResult struct {
	settleSec float64 // sim time of the first settled window, or the full run
	tunneled  bool    // some body ended up below the ground
	windows   []telemetry.WindowStats
}

// seedResult holds the scored result from one seed.
type seedResult struct {
	fitness    float64
	settleSec  float64
	tunnelRate float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (se *SettleEvaluator) Evaluate(x []float64) float64 {
	cfg := se.copyConfig()
	se.params.ApplyToConfig(cfg, x)
	work := solverWork(cfg) / se.baseWork

	// Run all seeds in parallel
	results := make([]seedResult, len(se.seeds))
	var wg sync.WaitGroup
	for i, seed := range se.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := se.runSimulation(x, s)
			results[idx] = seedResult{
				fitness:   computeFitness(r, work),
				settleSec: r.settleSec,
			}
			if r.tunneled {
				results[idx].tunnelRate = 1
			}
		}(i, seed)
	}
	wg.Wait()

	var mean seedResult
	for _, r := range results {
		mean.fitness += r.fitness
		mean.settleSec += r.settleSec
		mean.tunnelRate += r.tunnelRate
	}
	n := float64(len(se.seeds))
	mean.fitness /= n
	mean.settleSec /= n
	mean.tunnelRate /= n

	se.mu.Lock()
	se.lastResult = mean
	se.mu.Unlock()

	return mean.fitness
}

// runSimulation executes a single headless run until the bodies settle or
// maxFrames pass.
func (se *SettleEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := se.copyConfig()
	se.params.ApplyToConfig(cfg, x)
	cfg.Telemetry.WindowFrames = windowFrames

	result := &runResult{settleSec: float64(se.maxFrames) * frameDelta}
	settled := false

	g, err := game.New(cfg, game.Options{
		Seed:     seed,
		Headless: true,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windows = append(result.windows, stats)
			if stats.HeightMin < -cfg.Ground.HalfThickness {
				result.tunneled = true
			}
			if !settled && stats.Settled() {
				settled = true
				result.settleSec = stats.SimTimeSec
			}
		},
	})
	if err != nil {
		slog.Error("failed to create game", "seed", seed, "error", err)
		result.tunneled = true
		return result
	}
	defer g.Unload()

	for !settled && g.Frame() < se.maxFrames {
		if err := g.UpdateHeadless(frameDelta); err != nil {
			slog.Error("simulation failed", "seed", seed, "error", err)
			result.tunneled = true
			return result
		}
	}
	return result
}

// copyConfig creates a copy of the base config that runs can modify.
func (se *SettleEvaluator) copyConfig() *config.Config {
	cfg := *se.baseConfig
	cfg.Population.Names = append([]string(nil), se.baseConfig.Population.Names...)
	cfg.Screen.ClearColor = append([]float64(nil), se.baseConfig.Screen.ClearColor...)
	return &cfg
}

// solverWork is the constraint solver passes per simulated second.
func solverWork(cfg *config.Config) float64 {
	return float64(cfg.Physics.VelocityIterations+cfg.Physics.PositionIterations) / cfg.Physics.Step
}

// computeFitness scores one run: settle time scaled by relative solver work,
// plus a flat penalty for tunneling.
func computeFitness(r *runResult, work float64) float64 {
	fitness := r.settleSec * (1 + workWeight*work)
	if r.tunneled {
		fitness += tunnelPenalty
	}
	if math.IsNaN(fitness) {
		return math.Inf(1)
	}
	return fitness
}
