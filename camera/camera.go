// Package camera provides an orbit camera for viewing the simulation volume.
package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// pitchLimit keeps the camera off the poles so the look-at basis stays
// well-conditioned.
const pitchLimit = 1.55

// Camera orbits a target point at a distance, described by yaw and pitch
// angles in radians. It produces the view and projection matrices consumed
// by the render pipeline.
type Camera struct {
	Target   rl.Vector3
	Distance float32
	Yaw      float32
	Pitch    float32

	// Projection parameters
	FovY float32 // vertical field of view, radians
	Near float32
	Far  float32

	// Orbit constraints
	MinDistance, MaxDistance float32

	aspect float32
}

// New creates a camera orbiting the target, sized to the given viewport.
func New(target rl.Vector3, distance float32, viewportW, viewportH float32) *Camera {
	c := &Camera{
		Target:      target,
		Distance:    distance,
		Yaw:         0.6,
		Pitch:       0.4,
		FovY:        float32(60 * math.Pi / 180),
		Near:        0.1,
		Far:         distance * 20,
		MinDistance: distance * 0.1,
		MaxDistance: distance * 5,
	}
	c.Resize(viewportW, viewportH)
	return c
}

// Resize updates the projection aspect ratio for a new viewport.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportH <= 0 {
		viewportH = 1
	}
	c.aspect = viewportW / viewportH
}

// Position returns the camera eye point in world space.
func (c *Camera) Position() rl.Vector3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	return rl.Vector3{
		X: c.Target.X + c.Distance*cp*float32(math.Sin(float64(c.Yaw))),
		Y: c.Target.Y + c.Distance*float32(math.Sin(float64(c.Pitch))),
		Z: c.Target.Z + c.Distance*cp*float32(math.Cos(float64(c.Yaw))),
	}
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() rl.Matrix {
	return rl.MatrixLookAt(c.Position(), c.Target, rl.Vector3{Y: 1})
}

// ProjectionMatrix returns the perspective projection for the current
// viewport.
func (c *Camera) ProjectionMatrix() rl.Matrix {
	return rl.MatrixPerspective(c.FovY, c.aspect, c.Near, c.Far)
}

// Orbit rotates the camera by the given yaw and pitch deltas, clamping pitch
// away from the poles.
func (c *Camera) Orbit(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch += dPitch
	if c.Pitch > pitchLimit {
		c.Pitch = pitchLimit
	}
	if c.Pitch < -pitchLimit {
		c.Pitch = -pitchLimit
	}
}

// Zoom moves the camera along the view ray, clamped to the distance range.
func (c *Camera) Zoom(delta float32) {
	c.Distance -= delta
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandleInput applies mouse orbit and wheel zoom for the frame.
func (c *Camera) HandleInput() {
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		c.Orbit(-delta.X*0.005, delta.Y*0.005)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.Zoom(wheel * c.Distance * 0.1)
	}
}
