package telemetry

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FlockSampler is the read-only view of the flock the collector samples.
type FlockSampler interface {
	Len() int
	Velocity(i int) rl.Vector3
	NeighborCount(i int) int
}

// Collector samples flock state at the end of each stats window.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float32

	// Sample scratch, reused across windows.
	speeds    []float64
	neighbors []float64
}

// NewCollector creates a stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds.
// dt: seconds per tick.
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int64(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// WindowTicks returns the window length in ticks.
func (c *Collector) WindowTicks() int64 { return c.windowDurationTicks }

// ShouldSample reports whether tick closes a stats window.
func (c *Collector) ShouldSample(tick int64) bool {
	return tick > 0 && tick%c.windowDurationTicks == 0
}

// Sample computes window stats from the flock's current state.
func (c *Collector) Sample(f FlockSampler, tick int64) WindowStats {
	n := f.Len()
	c.speeds = c.speeds[:0]
	c.neighbors = c.neighbors[:0]

	var sumX, sumY, sumZ float64
	for i := 0; i < n; i++ {
		v := f.Velocity(i)
		speed := math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z))
		c.speeds = append(c.speeds, speed)
		if speed > 0 {
			sumX += float64(v.X) / speed
			sumY += float64(v.Y) / speed
			sumZ += float64(v.Z) / speed
		}
		c.neighbors = append(c.neighbors, float64(f.NeighborCount(i)))
	}

	stats := WindowStats{
		WindowEndTick: tick,
		SimTimeSec:    float64(tick) * float64(c.dt),
		Agents:        n,
	}
	stats.SpeedMean, stats.SpeedStd, stats.SpeedMin, stats.SpeedMax = ComputeSpeedStats(c.speeds)
	stats.NeighborMean, stats.NeighborP10, stats.NeighborP50, stats.NeighborP90 = ComputeNeighborStats(c.neighbors)
	if n > 0 {
		stats.Polarization = math.Sqrt(sumX*sumX+sumY*sumY+sumZ*sumZ) / float64(n)
	}
	return stats
}
