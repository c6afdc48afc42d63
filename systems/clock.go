package systems

import (
	"fmt"
	"math"
)

// stepEpsilon absorbs floating-point residue so deltas that sum to an exact
// multiple of the step drain to exactly that many steps.
const stepEpsilon = 1e-9

// Stepper advances a simulation by a fixed dt.
type Stepper interface {
	Step(dt float64, velocityIterations, positionIterations int) error
}

// ClockConfig holds the fixed-step parameters.
type ClockConfig struct {
	Step               float64
	VelocityIterations int
	PositionIterations int
	MaxFrameDelta      float64
}

// FixedStepper turns variable frame deltas into whole fixed-size simulation
// steps. Leftover time carries over to the next frame.
type FixedStepper struct {
	cfg   ClockConfig
	world Stepper

	accumulator float64
	steps       uint64
}

// NewFixedStepper creates a stepper driving world.
func NewFixedStepper(cfg ClockConfig, world Stepper) (*FixedStepper, error) {
	if cfg.Step <= 0 || math.IsNaN(cfg.Step) || math.IsInf(cfg.Step, 0) {
		return nil, fmt.Errorf("fixed step must be positive and finite, got %v", cfg.Step)
	}
	if cfg.MaxFrameDelta < cfg.Step {
		return nil, fmt.Errorf("max frame delta %v is shorter than the step %v", cfg.MaxFrameDelta, cfg.Step)
	}
	if world == nil {
		return nil, fmt.Errorf("fixed stepper needs a world")
	}
	return &FixedStepper{cfg: cfg, world: world}, nil
}

// Advance adds one frame's delta and runs every whole step it makes available.
// The delta is clamped to [0, MaxFrameDelta]; NaN counts as zero. The first
// step error stops the drain and is returned with the steps taken so far.
func (s *FixedStepper) Advance(frameDelta float64) (int, error) {
	d := frameDelta
	if math.IsNaN(d) || d < 0 {
		d = 0
	}
	if d > s.cfg.MaxFrameDelta {
		d = s.cfg.MaxFrameDelta
	}
	s.accumulator += d

	n := 0
	for s.accumulator+stepEpsilon >= s.cfg.Step {
		s.accumulator -= s.cfg.Step
		if s.accumulator < 0 {
			s.accumulator = 0
		}
		if err := s.world.Step(s.cfg.Step, s.cfg.VelocityIterations, s.cfg.PositionIterations); err != nil {
			return n, fmt.Errorf("simulation step %d: %w", s.steps+1, err)
		}
		n++
		s.steps++
	}
	return n, nil
}

// Alpha returns how far the accumulator is into the next step, in [0, 1).
func (s *FixedStepper) Alpha() float64 {
	return s.accumulator / s.cfg.Step
}

// Accumulator returns the unsimulated time carried to the next frame.
func (s *FixedStepper) Accumulator() float64 {
	return s.accumulator
}

// Steps returns the number of steps taken since creation or Reset.
func (s *FixedStepper) Steps() uint64 {
	return s.steps
}

// Step returns the fixed step size.
func (s *FixedStepper) Step() float64 {
	return s.cfg.Step
}

// Reset clears the accumulator and step count.
func (s *FixedStepper) Reset() {
	s.accumulator = 0
	s.steps = 0
}
