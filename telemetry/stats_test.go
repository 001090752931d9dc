package telemetry

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestComputeSpeedStats(t *testing.T) {
	tests := []struct {
		name     string
		speeds   []float64
		wantMean float64
		wantMin  float64
		wantMax  float64
	}{
		{"empty", nil, 0, 0, 0},
		{"single", []float64{5}, 5, 5, 5},
		{"spread", []float64{2, 4, 6, 8}, 5, 2, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std, min, max := ComputeSpeedStats(tt.speeds)
			if mean != tt.wantMean || min != tt.wantMin || max != tt.wantMax {
				t.Errorf("got mean=%v min=%v max=%v, want mean=%v min=%v max=%v",
					mean, min, max, tt.wantMean, tt.wantMin, tt.wantMax)
			}
			if len(tt.speeds) < 2 && std != 0 {
				t.Errorf("std = %v for %d samples, want 0", std, len(tt.speeds))
			}
		})
	}
}

func TestComputeNeighborStats(t *testing.T) {
	counts := []float64{3, 1, 2, 5, 4, 6, 8, 7, 9, 10}
	mean, p10, p50, p90 := ComputeNeighborStats(counts)
	if mean != 5.5 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	if p10 > p50 || p50 > p90 {
		t.Errorf("quantiles not monotone: p10=%v p50=%v p90=%v", p10, p50, p90)
	}
	if p10 < 1 || p90 > 10 {
		t.Errorf("quantiles outside sample range: p10=%v p90=%v", p10, p90)
	}
}

// fakeFlock is a fixed set of velocities and neighbor counts for sampling.
type fakeFlock struct {
	vels   []rl.Vector3
	counts []int
}

func (f *fakeFlock) Len() int                  { return len(f.vels) }
func (f *fakeFlock) Velocity(i int) rl.Vector3 { return f.vels[i] }
func (f *fakeFlock) NeighborCount(i int) int   { return f.counts[i] }

func TestCollectorWindowTicks(t *testing.T) {
	c := NewCollector(5.0, 1.0/60)
	if c.WindowTicks() != 300 {
		t.Errorf("WindowTicks() = %d, want 300", c.WindowTicks())
	}
	if c.ShouldSample(0) {
		t.Error("tick 0 must not close a window")
	}
	if c.ShouldSample(299) {
		t.Error("tick 299 must not close a window")
	}
	if !c.ShouldSample(300) {
		t.Error("tick 300 closes the first window")
	}

	// A window shorter than one tick still samples every tick.
	c = NewCollector(0.001, 1.0/60)
	if c.WindowTicks() != 1 {
		t.Errorf("sub-tick window ticks = %d, want 1", c.WindowTicks())
	}
}

func TestSamplePolarizationAligned(t *testing.T) {
	f := &fakeFlock{
		vels:   []rl.Vector3{{X: 3}, {X: 7}, {X: 1}},
		counts: []int{2, 2, 2},
	}
	stats := NewCollector(1, 1.0/60).Sample(f, 60)
	if math.Abs(stats.Polarization-1) > 1e-9 {
		t.Errorf("aligned flock polarization = %v, want 1", stats.Polarization)
	}
	if stats.Agents != 3 {
		t.Errorf("agents = %d, want 3", stats.Agents)
	}
	if stats.NeighborMean != 2 {
		t.Errorf("neighbor mean = %v, want 2", stats.NeighborMean)
	}
	if math.Abs(stats.SimTimeSec-1) > 1e-6 {
		t.Errorf("sim time = %v, want 1", stats.SimTimeSec)
	}
}

func TestSamplePolarizationOpposed(t *testing.T) {
	f := &fakeFlock{
		vels:   []rl.Vector3{{X: 5}, {X: -5}},
		counts: []int{1, 1},
	}
	stats := NewCollector(1, 1.0/60).Sample(f, 60)
	if math.Abs(stats.Polarization) > 1e-9 {
		t.Errorf("opposed pair polarization = %v, want 0", stats.Polarization)
	}
	if stats.SpeedMean != 5 {
		t.Errorf("speed mean = %v, want 5", stats.SpeedMean)
	}
}

func TestSampleEmptyFlock(t *testing.T) {
	stats := NewCollector(1, 1.0/60).Sample(&fakeFlock{}, 60)
	if stats.Polarization != 0 || stats.SpeedMean != 0 {
		t.Errorf("empty flock stats not zeroed: %+v", stats)
	}
}
