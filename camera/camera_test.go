package camera

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestPositionRespectsDistance(t *testing.T) {
	c := New(rl.Vector3{X: 10, Y: 5, Z: -3}, 100, 800, 600)
	p := c.Position()
	dx := p.X - c.Target.X
	dy := p.Y - c.Target.Y
	dz := p.Z - c.Target.Z
	dist := math.Sqrt(float64(dx*dx + dy*dy + dz*dz))
	if math.Abs(dist-100) > 1e-3 {
		t.Errorf("eye distance = %v, want 100", dist)
	}
}

func TestOrbitClampsPitch(t *testing.T) {
	c := New(rl.Vector3{}, 50, 800, 600)
	c.Orbit(0, 10)
	if c.Pitch > pitchLimit {
		t.Errorf("pitch %v exceeds limit %v", c.Pitch, pitchLimit)
	}
	c.Orbit(0, -20)
	if c.Pitch < -pitchLimit {
		t.Errorf("pitch %v below limit %v", c.Pitch, -pitchLimit)
	}
}

func TestZoomClampsDistance(t *testing.T) {
	c := New(rl.Vector3{}, 50, 800, 600)
	c.Zoom(1e6)
	if c.Distance < c.MinDistance {
		t.Errorf("distance %v below minimum %v", c.Distance, c.MinDistance)
	}
	c.Zoom(-1e6)
	if c.Distance > c.MaxDistance {
		t.Errorf("distance %v above maximum %v", c.Distance, c.MaxDistance)
	}
}

func TestResizeGuardsZeroHeight(t *testing.T) {
	c := New(rl.Vector3{}, 50, 800, 600)
	c.Resize(800, 0)
	if c.aspect <= 0 {
		t.Errorf("aspect = %v after zero-height resize", c.aspect)
	}
}
