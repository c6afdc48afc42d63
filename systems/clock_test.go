package systems

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

const testStep = 1.0 / 60.0

// recordingStepper counts steps and can fail on a chosen call.
type recordingStepper struct {
	calls  int
	dts    []float64
	failAt int
}

func (r *recordingStepper) Step(dt float64, vi, pi int) error {
	r.calls++
	if r.failAt != 0 && r.calls == r.failAt {
		return errors.New("boom")
	}
	r.dts = append(r.dts, dt)
	return nil
}

func newTestStepper(t *testing.T, world Stepper) *FixedStepper {
	t.Helper()
	s, err := NewFixedStepper(ClockConfig{
		Step:               testStep,
		VelocityIterations: 6,
		PositionIterations: 2,
		MaxFrameDelta:      0.25,
	}, world)
	if err != nil {
		t.Fatalf("NewFixedStepper: %v", err)
	}
	return s
}

func TestAdvanceStepCounts(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float64
		want   int
	}{
		{"three short frames", []float64{0.02, 0.02, 0.02}, 3},
		{"long stall clamps", []float64{10.0}, 15},
		{"below one step", []float64{0.01}, 0},
		{"exactly one step", []float64{testStep}, 1},
		{"two halves make a step", []float64{testStep / 2, testStep / 2}, 1},
		{"negative delta ignored", []float64{-1, 0.02}, 1},
		{"nan delta ignored", []float64{math.NaN(), 0.02}, 1},
		{"zero deltas", []float64{0, 0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := &recordingStepper{}
			s := newTestStepper(t, world)
			total := 0
			for _, d := range tt.deltas {
				n, err := s.Advance(d)
				if err != nil {
					t.Fatalf("Advance(%v): %v", d, err)
				}
				total += n
			}
			if total != tt.want {
				t.Errorf("steps = %d, want %d", total, tt.want)
			}
			if world.calls != tt.want {
				t.Errorf("world stepped %d times, want %d", world.calls, tt.want)
			}
			if s.Accumulator() < 0 || s.Accumulator() >= testStep {
				t.Errorf("accumulator %v outside [0, step)", s.Accumulator())
			}
		})
	}
}

func TestAdvanceUsesFixedDt(t *testing.T) {
	world := &recordingStepper{}
	s := newTestStepper(t, world)
	for _, d := range []float64{0.013, 0.041, 0.2, 0.007} {
		if _, err := s.Advance(d); err != nil {
			t.Fatal(err)
		}
	}
	for i, dt := range world.dts {
		if dt != testStep {
			t.Errorf("step %d used dt %v, want %v", i, dt, testStep)
		}
	}
}

func TestAdvanceChunkingInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 20; trial++ {
		deltas := make([]float64, 50+rng.Intn(50))
		for i := range deltas {
			deltas[i] = rng.Float64() * 0.05
		}

		whole := newTestStepper(t, &recordingStepper{})
		split := newTestStepper(t, &recordingStepper{})
		var wholeSteps, splitSteps int
		var sum float64
		for _, d := range deltas {
			n, _ := whole.Advance(d)
			wholeSteps += n

			first := d * rng.Float64()
			n1, _ := split.Advance(first)
			n2, _ := split.Advance(d - first)
			splitSteps += n1 + n2

			sum += d
		}

		if wholeSteps != splitSteps {
			t.Errorf("trial %d: whole frames gave %d steps, split frames %d", trial, wholeSteps, splitSteps)
		}
		if want := int(math.Floor(sum / testStep)); wholeSteps != want {
			t.Errorf("trial %d: steps = %d, want floor(%v / step) = %d", trial, wholeSteps, sum, want)
		}
		if want := math.Mod(sum, testStep); math.Abs(whole.Accumulator()-want) > 1e-9 {
			t.Errorf("trial %d: accumulator = %v, want %v", trial, whole.Accumulator(), want)
		}
	}
}

func TestAdvanceClampsBeforeAccumulating(t *testing.T) {
	s := newTestStepper(t, &recordingStepper{})
	deltas := []float64{0.3, 0.11, 1.5}
	var clampedSum float64
	total := 0
	for _, d := range deltas {
		n, _ := s.Advance(d)
		total += n
		clampedSum += math.Min(d, 0.25)
	}
	if want := math.Mod(clampedSum, testStep); math.Abs(s.Accumulator()-want) > 1e-9 {
		t.Errorf("accumulator = %v, want %v", s.Accumulator(), want)
	}
	if want := int(math.Floor(clampedSum/testStep + 1e-9)); total != want {
		t.Errorf("steps = %d, want %d", total, want)
	}
}

func TestAdvanceStopsOnStepError(t *testing.T) {
	world := &recordingStepper{failAt: 3}
	s := newTestStepper(t, world)

	n, err := s.Advance(0.25)
	if err == nil {
		t.Fatal("expected step error")
	}
	if n != 2 {
		t.Errorf("steps before failure = %d, want 2", n)
	}
	if s.Steps() != 2 {
		t.Errorf("Steps() = %d, want 2", s.Steps())
	}
}

func TestAdvanceDrainsResidueBelowStep(t *testing.T) {
	rec := &recordingStepper{}
	s := newTestStepper(t, rec)

	n, err := s.Advance(testStep - stepEpsilon/2)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || rec.calls != 1 {
		t.Errorf("Advance took %d steps, want 1", n)
	}
	if s.Accumulator() != 0 {
		t.Errorf("Accumulator() = %v, want exactly 0", s.Accumulator())
	}

	if n, _ := s.Advance(testStep - 2*stepEpsilon); n != 0 {
		t.Errorf("delta short of the step by more than the epsilon took %d steps", n)
	}
}

func TestAlphaAndReset(t *testing.T) {
	s := newTestStepper(t, &recordingStepper{})
	if _, err := s.Advance(testStep * 1.5); err != nil {
		t.Fatal(err)
	}
	if math.Abs(s.Alpha()-0.5) > 1e-9 {
		t.Errorf("Alpha() = %v, want 0.5", s.Alpha())
	}
	if s.Steps() != 1 {
		t.Errorf("Steps() = %d, want 1", s.Steps())
	}

	s.Reset()
	if s.Accumulator() != 0 || s.Steps() != 0 {
		t.Errorf("after Reset: accumulator %v, steps %d", s.Accumulator(), s.Steps())
	}
}

func TestNewFixedStepperRejects(t *testing.T) {
	tests := []struct {
		name  string
		cfg   ClockConfig
		world Stepper
	}{
		{"zero step", ClockConfig{Step: 0, MaxFrameDelta: 0.25}, &recordingStepper{}},
		{"nan step", ClockConfig{Step: math.NaN(), MaxFrameDelta: 0.25}, &recordingStepper{}},
		{"max below step", ClockConfig{Step: 0.1, MaxFrameDelta: 0.05}, &recordingStepper{}},
		{"nil world", ClockConfig{Step: testStep, MaxFrameDelta: 0.25}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFixedStepper(tt.cfg, tt.world); err == nil {
				t.Error("expected error")
			}
		})
	}
}
