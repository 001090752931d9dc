// Package telemetry aggregates flock statistics over time windows and
// exports them as structured logs and CSV files.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated flock statistics for one time window.
type WindowStats struct {
	WindowEndTick int64   `csv:"window_end"`
	SimTimeSec    float64 `csv:"sim_time"`

	Agents int `csv:"agents"`

	// Speed distribution across the flock at window end
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedMin  float64 `csv:"speed_min"`
	SpeedMax  float64 `csv:"speed_max"`

	// Polarization is the magnitude of the mean velocity direction:
	// 1 = perfectly aligned flock, 0 = fully disordered.
	Polarization float64 `csv:"polarization"`

	// Neighbor count distribution
	NeighborMean float64 `csv:"neighbor_mean"`
	NeighborP10  float64 `csv:"neighbor_p10"`
	NeighborP50  float64 `csv:"neighbor_p50"`
	NeighborP90  float64 `csv:"neighbor_p90"`
}

// ComputeSpeedStats summarizes a sample of agent speeds.
func ComputeSpeedStats(speeds []float64) (mean, std, min, max float64) {
	if len(speeds) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(speeds, nil)
	if len(speeds) > 1 {
		std = stat.StdDev(speeds, nil)
	}
	return mean, std, floats.Min(speeds), floats.Max(speeds)
}

// ComputeNeighborStats summarizes a sample of per-agent neighbor counts.
// The input slice is sorted in place.
func ComputeNeighborStats(counts []float64) (mean, p10, p50, p90 float64) {
	if len(counts) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(counts, nil)
	sort.Float64s(counts)
	p10 = stat.Quantile(0.10, stat.Empirical, counts, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, counts, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, counts, nil)
	return mean, p10, p50, p90
}

// Log emits the window stats through slog.
func (s WindowStats) Log() {
	slog.Info("flock stats",
		"tick", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"agents", s.Agents,
		"speed_mean", s.SpeedMean,
		"speed_std", s.SpeedStd,
		"polarization", s.Polarization,
		"neighbor_mean", s.NeighborMean,
		"neighbor_p50", s.NeighborP50,
	)
}
