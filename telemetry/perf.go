package telemetry

import (
	"sort"
	"time"

	"github.com/pthm-cable/murmur/systems"
)

// PhaseTelemetry covers the stats sampling done outside the integrator's own
// phases (see the systems.Phase* constants).
const PhaseTelemetry = "telemetry"

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks tick timing over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a performance collector averaging over windowSize
// ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, closing the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// Total returns the average tick duration over the window.
func (p *PerfCollector) Total() time.Duration {
	if p.sampleCount == 0 {
		return 0
	}
	var sum time.Duration
	for i := 0; i < p.sampleCount; i++ {
		sum += p.samples[i].TickDuration
	}
	return sum / time.Duration(p.sampleCount)
}

// Avg returns the average duration of one phase over the window.
func (p *PerfCollector) Avg(phase string) time.Duration {
	if p.sampleCount == 0 {
		return 0
	}
	var sum time.Duration
	for i := 0; i < p.sampleCount; i++ {
		sum += p.samples[i].Phases[phase]
	}
	return sum / time.Duration(p.sampleCount)
}

// SortedNames returns the phase names seen in the window, sorted.
func (p *PerfCollector) SortedNames() []string {
	seen := make(map[string]struct{})
	for i := 0; i < p.sampleCount; i++ {
		for name := range p.samples[i].Phases {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PerfRecord is a CSV row of tick timing averages.
type PerfRecord struct {
	WindowEndTick int64   `csv:"window_end"`
	TickMs        float64 `csv:"tick_ms"`
	SnapshotMs    float64 `csv:"snapshot_ms"`
	TreeBuildMs   float64 `csv:"tree_build_ms"`
	ForcesMs      float64 `csv:"forces_ms"`
	IntegrateMs   float64 `csv:"integrate_ms"`
	TelemetryMs   float64 `csv:"telemetry_ms"`
}

// Record flattens the current window into a CSV row.
func (p *PerfCollector) Record(tick int64) PerfRecord {
	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
	return PerfRecord{
		WindowEndTick: tick,
		TickMs:        ms(p.Total()),
		SnapshotMs:    ms(p.Avg(systems.PhaseSnapshot)),
		TreeBuildMs:   ms(p.Avg(systems.PhaseTreeBuild)),
		ForcesMs:      ms(p.Avg(systems.PhaseForces)),
		IntegrateMs:   ms(p.Avg(systems.PhaseIntegrate)),
		TelemetryMs:   ms(p.Avg(PhaseTelemetry)),
	}
}
