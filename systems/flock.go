package systems

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/murmur/components"
)

// normalizeEpsilon is the squared-magnitude floor below which a vector
// normalizes to zero instead of producing NaN components.
const normalizeEpsilon = 1e-8

// separationEpsilon floors the squared distance in the separation force so a
// near-coincident neighbor cannot blow up the acceleration.
const separationEpsilon = 1e-6

// Internal phases of a Step, reported through the phase hook for timing.
const (
	PhaseSnapshot  = "snapshot"
	PhaseTreeBuild = "tree_build"
	PhaseForces    = "forces"
	PhaseIntegrate = "integrate"
)

// Settings holds the flock tunables. All fields may be changed between ticks;
// the integrator reads them once per Step.
type Settings struct {
	Accuracy        int     // max neighbors accumulated per agent, in traversal order
	Drag            float32 // velocity damping factor per tick
	Randomness      float32 // jitter magnitude added to the steering force
	Radius          float32 // interaction radius
	AlignmentForce  float32
	AlignmentBias   float32 // velocity-similarity weighting for alignment
	CohesionForce   float32
	SeparationForce float32
	SteeringForce   float32 // overall scale on the summed steering forces
	MinSpeed        float32
	MaxSpeed        float32
}

// Flock owns the agent table and advances it tick by tick. Agent state lives
// in an ECS world as Position/Velocity/Acceleration/NeighborCount components;
// the entities slice gives every agent a stable dense index for the lifetime
// of the run. Each Step rebuilds a fresh Octree over a position snapshot,
// computes all steering forces from that snapshot, and only then integrates,
// so agents never react to already-updated neighbors.
type Flock struct {
	world  *ecs.World
	mapper *ecs.Map4[components.Position, components.Velocity, components.Acceleration, components.NeighborCount]

	entities []ecs.Entity
	settings Settings
	min, max rl.Vector3
	domain   rl.Vector3
	rng      *rand.Rand
	tree     *Octree
	onPhase  func(name string)

	// Per-tick scratch, reused across steps to avoid allocation.
	posBuf   []rl.Vector3
	velBuf   []rl.Vector3
	accBuf   []rl.Vector3
	queryBuf []int32
	candBuf  []int32
}

// NewFlock creates a flock of count agents inside the domain [min,max) and
// initializes it.
func NewFlock(count int, settings Settings, min, max rl.Vector3, seed int64) *Flock {
	world := ecs.NewWorld()
	f := &Flock{
		world:    world,
		mapper:   ecs.NewMap4[components.Position, components.Velocity, components.Acceleration, components.NeighborCount](world),
		settings: settings,
		min:      min,
		max:      max,
		domain:   rl.Vector3Subtract(max, min),
		rng:      rand.New(rand.NewSource(seed)),
	}
	f.Init(count)
	return f
}

// Init discards all agents and spawns count fresh ones: uniform positions in
// the domain, random headings at a uniform speed in [MinSpeed,MaxSpeed], zero
// acceleration and neighbor count. A fresh spatial index is built over them.
func (f *Flock) Init(count int) {
	for _, e := range f.entities {
		f.mapper.Remove(e)
	}
	f.entities = f.entities[:0]

	for i := 0; i < count; i++ {
		pos := components.Position{
			X: f.min.X + f.rng.Float32()*f.domain.X,
			Y: f.min.Y + f.rng.Float32()*f.domain.Y,
			Z: f.min.Z + f.rng.Float32()*f.domain.Z,
		}
		speed := f.settings.MinSpeed + f.rng.Float32()*(f.settings.MaxSpeed-f.settings.MinSpeed)
		dir := f.randomUnit()
		vel := components.Velocity{X: dir.X * speed, Y: dir.Y * speed, Z: dir.Z * speed}
		e := f.mapper.NewEntity(&pos, &vel, &components.Acceleration{}, &components.NeighborCount{})
		f.entities = append(f.entities, e)
	}

	f.posBuf = growVec3(f.posBuf, count)
	f.velBuf = growVec3(f.velBuf, count)
	f.accBuf = growVec3(f.accBuf, count)
	f.snapshot()
	f.rebuildTree()
}

// SetPhaseHook installs a callback invoked at the start of each internal
// Step phase, for timing instrumentation.
func (f *Flock) SetPhaseHook(h func(name string)) { f.onPhase = h }

func (f *Flock) phase(name string) {
	if f.onPhase != nil {
		f.onPhase(name)
	}
}

// Step advances the simulation by dt seconds. The force pass completes for
// every agent before any position or velocity is mutated.
func (f *Flock) Step(dt float32) {
	f.phase(PhaseSnapshot)
	f.snapshot()
	f.phase(PhaseTreeBuild)
	f.rebuildTree()
	f.phase(PhaseForces)
	f.forcePass()
	f.phase(PhaseIntegrate)
	f.integrate(dt)
}

// snapshot copies positions and velocities out of the ECS store so the force
// pass reads one consistent view of the flock.
func (f *Flock) snapshot() {
	for i, e := range f.entities {
		pos, vel, _, _ := f.mapper.Get(e)
		f.posBuf[i] = pos.Vec()
		f.velBuf[i] = vel.Vec()
	}
}

// rebuildTree replaces the spatial index with a fresh one over the current
// snapshot. The insert result is deliberately ignored: the boundary teleport
// parks an agent exactly on the domain maximum, which the half-open octree
// box excludes, so such an agent simply skips neighbor interactions until it
// moves back inside.
func (f *Flock) rebuildTree() {
	center := rl.Vector3Scale(rl.Vector3Add(f.min, f.max), 0.5)
	f.tree = NewOctree(center, f.domain)
	for i := range f.posBuf {
		f.tree.Insert(f.posBuf, int32(i))
	}
}

// forcePass computes every agent's acceleration from the snapshot. No agent
// state other than acceleration and neighbor count is written here.
func (f *Flock) forcePass() {
	s := f.settings
	for i := range f.entities {
		var align, cohesion, separation rl.Vector3
		neighbors := 0

		f.queryBuf, f.candBuf = f.tree.QueryRadiusWrapped(
			f.posBuf[i], s.Radius, f.domain, f.posBuf, f.queryBuf[:0], f.candBuf)

		for _, j := range f.queryBuf {
			if int(j) == i {
				continue
			}
			if neighbors >= s.Accuracy {
				// Cap applies in traversal order, not nearest-first.
				break
			}
			delta := WrappedDelta(f.posBuf[i], f.posBuf[j], f.domain)

			w := 1 + s.AlignmentBias*cosineSimilarity(f.velBuf[i], f.velBuf[j])
			align = rl.Vector3Add(align, rl.Vector3Scale(f.velBuf[j], w))
			cohesion = rl.Vector3Add(cohesion, f.posBuf[j])

			d2 := rl.Vector3DotProduct(delta, delta)
			if d2 < separationEpsilon {
				d2 = separationEpsilon
			}
			separation = rl.Vector3Add(separation, rl.Vector3Scale(delta, -1/d2))

			neighbors++
		}

		var acc rl.Vector3
		if neighbors > 0 {
			inv := 1 / float32(neighbors)
			alignSteer := normalizeSafe(rl.Vector3Subtract(rl.Vector3Scale(align, inv), f.velBuf[i]))
			cohesionSteer := normalizeSafe(rl.Vector3Subtract(rl.Vector3Scale(cohesion, inv), f.posBuf[i]))
			separationSteer := normalizeSafe(separation)

			acc = rl.Vector3Scale(alignSteer, s.AlignmentForce)
			acc = rl.Vector3Add(acc, rl.Vector3Scale(cohesionSteer, s.CohesionForce))
			acc = rl.Vector3Add(acc, rl.Vector3Scale(separationSteer, s.SeparationForce))
			acc = rl.Vector3Scale(acc, s.SteeringForce)
			acc = rl.Vector3Add(acc, rl.Vector3Scale(f.randomJitter(), s.Randomness))
		}
		f.accBuf[i] = acc

		_, _, accC, nc := f.mapper.Get(f.entities[i])
		accC.Set(acc)
		nc.Count = int32(neighbors)
	}
}

// integrate applies the accelerations computed by the force pass, damps and
// clamps velocity, moves every agent, and applies the boundary teleport.
func (f *Flock) integrate(dt float32) {
	s := f.settings
	for i, e := range f.entities {
		vel := rl.Vector3Add(f.velBuf[i], rl.Vector3Scale(f.accBuf[i], dt))
		vel = rl.Vector3Scale(vel, 1-s.Drag)
		vel = clampSpeed(vel, s.MinSpeed, s.MaxSpeed)

		pos := rl.Vector3Add(f.posBuf[i], rl.Vector3Scale(vel, dt))
		// Crossing a face teleports to the opposite extreme, not a modulo
		// carry of the overflow; a large dt shows up as a visible jump.
		pos.X = teleportAxis(pos.X, f.min.X, f.max.X)
		pos.Y = teleportAxis(pos.Y, f.min.Y, f.max.Y)
		pos.Z = teleportAxis(pos.Z, f.min.Z, f.max.Z)

		posC, velC, _, _ := f.mapper.Get(e)
		posC.Set(pos)
		velC.Set(vel)
	}
}

func teleportAxis(p, min, max float32) float32 {
	if p < min {
		return max
	}
	if p > max {
		return min
	}
	return p
}

// clampSpeed rescales v into [min,max] magnitude, preserving direction. A
// zero vector stays zero; it has no direction to rescale.
func clampSpeed(v rl.Vector3, min, max float32) rl.Vector3 {
	m2 := rl.Vector3DotProduct(v, v)
	if m2 < normalizeEpsilon {
		return v
	}
	m := float32(math.Sqrt(float64(m2)))
	if m < min {
		return rl.Vector3Scale(v, min/m)
	}
	if m > max {
		return rl.Vector3Scale(v, max/m)
	}
	return v
}

// normalizeSafe returns the unit vector of v, or the zero vector when v is
// too small to normalize without amplifying noise into NaN.
func normalizeSafe(v rl.Vector3) rl.Vector3 {
	m2 := rl.Vector3DotProduct(v, v)
	if m2 < normalizeEpsilon {
		return rl.Vector3{}
	}
	return rl.Vector3Scale(v, 1/float32(math.Sqrt(float64(m2))))
}

func cosineSimilarity(a, b rl.Vector3) float32 {
	m2 := rl.Vector3DotProduct(a, a) * rl.Vector3DotProduct(b, b)
	if m2 < normalizeEpsilon {
		return 0
	}
	return rl.Vector3DotProduct(a, b) / float32(math.Sqrt(float64(m2)))
}

func (f *Flock) randomUnit() rl.Vector3 {
	for {
		v := rl.Vector3{
			X: f.rng.Float32()*2 - 1,
			Y: f.rng.Float32()*2 - 1,
			Z: f.rng.Float32()*2 - 1,
		}
		m2 := rl.Vector3DotProduct(v, v)
		if m2 > normalizeEpsilon && m2 <= 1 {
			return rl.Vector3Scale(v, 1/float32(math.Sqrt(float64(m2))))
		}
	}
}

func (f *Flock) randomJitter() rl.Vector3 {
	return rl.Vector3{
		X: f.rng.Float32()*2 - 1,
		Y: f.rng.Float32()*2 - 1,
		Z: f.rng.Float32()*2 - 1,
	}
}

func growVec3(buf []rl.Vector3, n int) []rl.Vector3 {
	if cap(buf) < n {
		return make([]rl.Vector3, n)
	}
	return buf[:n]
}

// Len returns the agent count.
func (f *Flock) Len() int { return len(f.entities) }

// Position returns agent i's position.
func (f *Flock) Position(i int) rl.Vector3 {
	pos, _, _, _ := f.mapper.Get(f.entities[i])
	return pos.Vec()
}

// Velocity returns agent i's velocity.
func (f *Flock) Velocity(i int) rl.Vector3 {
	_, vel, _, _ := f.mapper.Get(f.entities[i])
	return vel.Vec()
}

// Acceleration returns agent i's last computed acceleration.
func (f *Flock) Acceleration(i int) rl.Vector3 {
	_, _, acc, _ := f.mapper.Get(f.entities[i])
	return acc.Vec()
}

// NeighborCount returns the number of neighbors agent i saw last tick.
func (f *Flock) NeighborCount(i int) int {
	_, _, _, nc := f.mapper.Get(f.entities[i])
	return int(nc.Count)
}

// setAgent overwrites agent i's position and velocity. Used by tests to
// pin agents into known configurations.
func (f *Flock) setAgent(i int, pos, vel rl.Vector3) {
	p, v, _, _ := f.mapper.Get(f.entities[i])
	p.Set(pos)
	v.Set(vel)
}

// Tree returns the spatial index of the last tick, for diagnostic
// visualization only.
func (f *Flock) Tree() *Octree { return f.tree }

// Settings returns the mutable tunables. Changes take effect next Step.
func (f *Flock) Settings() *Settings { return &f.settings }

// Bounds returns the domain bounds [min,max).
func (f *Flock) Bounds() (min, max rl.Vector3) { return f.min, f.max }

// Domain returns the domain extent per axis.
func (f *Flock) Domain() rl.Vector3 { return f.domain }
