// Package components defines ECS components for the flock simulation.
package components

import rl "github.com/gen2brain/raylib-go/raylib"

// Position is an agent's world position.
type Position struct {
	X, Y, Z float32
}

// Velocity is an agent's velocity.
type Velocity struct {
	X, Y, Z float32
}

// Acceleration is the steering force applied to an agent this tick.
type Acceleration struct {
	X, Y, Z float32
}

// NeighborCount is the number of neighbors an agent interacted with
// during the last force pass.
type NeighborCount struct {
	Count int32
}

// Vec returns the position as a raylib vector.
func (p Position) Vec() rl.Vector3 {
	return rl.Vector3{X: p.X, Y: p.Y, Z: p.Z}
}

// Set overwrites the position from a raylib vector.
func (p *Position) Set(v rl.Vector3) {
	p.X, p.Y, p.Z = v.X, v.Y, v.Z
}

// Vec returns the velocity as a raylib vector.
func (v Velocity) Vec() rl.Vector3 {
	return rl.Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// Set overwrites the velocity from a raylib vector.
func (v *Velocity) Set(w rl.Vector3) {
	v.X, v.Y, v.Z = w.X, w.Y, w.Z
}

// Vec returns the acceleration as a raylib vector.
func (a Acceleration) Vec() rl.Vector3 {
	return rl.Vector3{X: a.X, Y: a.Y, Z: a.Z}
}

// Set overwrites the acceleration from a raylib vector.
func (a *Acceleration) Set(v rl.Vector3) {
	a.X, a.Y, a.Z = v.X, v.Y, v.Z
}
