package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/murmur/systems"
)

func TestPerfCollectorPhases(t *testing.T) {
	p := NewPerfCollector(4)

	p.StartTick()
	p.StartPhase(systems.PhaseForces)
	time.Sleep(time.Millisecond)
	p.StartPhase(systems.PhaseIntegrate)
	p.EndTick()

	if p.Total() <= 0 {
		t.Error("tick duration not recorded")
	}
	if p.Avg(systems.PhaseForces) <= 0 {
		t.Error("forces phase not recorded")
	}
	names := p.SortedNames()
	if len(names) != 2 || names[0] != systems.PhaseForces || names[1] != systems.PhaseIntegrate {
		t.Errorf("SortedNames() = %v", names)
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	p := NewPerfCollector(2)
	for i := 0; i < 5; i++ {
		p.StartTick()
		p.EndTick()
	}
	if p.sampleCount != 2 {
		t.Errorf("sample count = %d, want window size 2", p.sampleCount)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	p := NewPerfCollector(8)
	if p.Total() != 0 || p.Avg(systems.PhaseForces) != 0 {
		t.Error("empty collector must report zero averages")
	}
	if len(p.SortedNames()) != 0 {
		t.Error("empty collector must report no phase names")
	}
}

func TestPerfRecord(t *testing.T) {
	p := NewPerfCollector(4)
	p.StartTick()
	p.StartPhase(systems.PhaseForces)
	time.Sleep(time.Millisecond)
	p.EndTick()

	rec := p.Record(120)
	if rec.WindowEndTick != 120 {
		t.Errorf("window end = %d, want 120", rec.WindowEndTick)
	}
	if rec.ForcesMs <= 0 {
		t.Errorf("forces ms = %v, want > 0", rec.ForcesMs)
	}
	if rec.TickMs < rec.ForcesMs {
		t.Errorf("tick ms %v cannot be below forces ms %v", rec.TickMs, rec.ForcesMs)
	}
}
