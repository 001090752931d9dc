// Package systems provides the spatial index and flock integrator.
package systems

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// LeafCapacity is the number of agent indices a leaf holds before it
// subdivides into octants.
const LeafCapacity = 4

// Octree recursively partitions an axis-aligned volume into octants and
// answers radius queries over an agent position table. The tree stores only
// agent indices; positions are always supplied by the caller, so nodes never
// reference simulation state. The whole tree is rebuilt every tick.
type Octree struct {
	center   rl.Vector3
	half     rl.Vector3 // half extent per axis
	indices  []int32
	children []*Octree // nil for a leaf, otherwise exactly 8
}

// NewOctree creates an empty leaf covering the box centered at center with
// the given full size per axis.
func NewOctree(center, size rl.Vector3) *Octree {
	return &Octree{
		center:  center,
		half:    rl.Vector3Scale(size, 0.5),
		indices: make([]int32, 0, LeafCapacity),
	}
}

// Center returns the node's box center.
func (o *Octree) Center() rl.Vector3 { return o.center }

// Half returns the node's half extent per axis.
func (o *Octree) Half() rl.Vector3 { return o.half }

// Children returns the node's 8 children, or nil for a leaf.
func (o *Octree) Children() []*Octree { return o.children }

// Indices returns the agent indices stored in a leaf.
func (o *Octree) Indices() []int32 { return o.indices }

// Contains reports whether p lies inside the node's box. The upper bound is
// exclusive on every axis, so a point on a shared octant face belongs to
// exactly one sibling.
func (o *Octree) Contains(p rl.Vector3) bool {
	return p.X >= o.center.X-o.half.X && p.X < o.center.X+o.half.X &&
		p.Y >= o.center.Y-o.half.Y && p.Y < o.center.Y+o.half.Y &&
		p.Z >= o.center.Z-o.half.Z && p.Z < o.center.Z+o.half.Z
}

// Insert adds agent index i, located at positions[i], to the subtree.
// It returns false when the point lies outside the node's box; a false
// return from the root means the point is outside the configured domain.
// A full leaf subdivides synchronously and redistributes its indices.
func (o *Octree) Insert(positions []rl.Vector3, i int32) bool {
	if !o.Contains(positions[i]) {
		return false
	}
	if o.children == nil {
		if len(o.indices) < LeafCapacity {
			o.indices = append(o.indices, i)
			return true
		}
		o.subdivide(positions)
	}
	for _, c := range o.children {
		if c.Insert(positions, i) {
			return true
		}
	}
	return false
}

// subdivide splits a full leaf into 8 equal octants, each half the parent's
// size and centered a quarter size from the parent center, then redistributes
// the stored indices. Subdividing an internal node is a caller bug.
func (o *Octree) subdivide(positions []rl.Vector3) {
	if o.children != nil {
		panic("octree: subdivide called on internal node")
	}
	childSize := o.half // full child size equals the parent half extent
	quarter := rl.Vector3Scale(o.half, 0.5)
	o.children = make([]*Octree, 0, 8)
	for dz := float32(-1); dz <= 1; dz += 2 {
		for dy := float32(-1); dy <= 1; dy += 2 {
			for dx := float32(-1); dx <= 1; dx += 2 {
				c := rl.Vector3{
					X: o.center.X + dx*quarter.X,
					Y: o.center.Y + dy*quarter.Y,
					Z: o.center.Z + dz*quarter.Z,
				}
				o.children = append(o.children, NewOctree(c, childSize))
			}
		}
	}
	for _, idx := range o.indices {
		inserted := false
		for _, c := range o.children {
			if c.Insert(positions, idx) {
				inserted = true
				break
			}
		}
		if !inserted {
			// The octants tile the parent exactly, so a parent-contained
			// point always lands in one child.
			panic("octree: redistribution lost an index")
		}
	}
	o.indices = nil
}

// intersectsSphere tests the node's box against a query sphere using the
// closest point on the box.
func (o *Octree) intersectsSphere(center rl.Vector3, radius float32) bool {
	dx := axisDist(center.X, o.center.X, o.half.X)
	dy := axisDist(center.Y, o.center.Y, o.half.Y)
	dz := axisDist(center.Z, o.center.Z, o.half.Z)
	return dx*dx+dy*dy+dz*dz <= radius*radius
}

func axisDist(p, c, h float32) float32 {
	d := p - c
	if d < -h {
		return d + h
	}
	if d > h {
		return d - h
	}
	return 0
}

// QueryRadius appends to dst every index whose position lies within radius of
// center, pruning subtrees whose boxes miss the query sphere. Pass the
// previous result sliced to zero length to reuse its backing array.
func (o *Octree) QueryRadius(center rl.Vector3, radius float32, positions []rl.Vector3, dst []int32) []int32 {
	if !o.intersectsSphere(center, radius) {
		return dst
	}
	if o.children != nil {
		for _, c := range o.children {
			dst = c.QueryRadius(center, radius, positions, dst)
		}
		return dst
	}
	r2 := radius * radius
	for _, i := range o.indices {
		d := rl.Vector3Subtract(positions[i], center)
		if rl.Vector3DotProduct(d, d) <= r2 {
			dst = append(dst, i)
		}
	}
	return dst
}

// QueryRadiusWrapped is QueryRadius on a toroidal domain of the given size.
// Phase one gathers candidates with unwrapped queries: the original center
// plus, for each axis where the sphere pokes past a domain face, a mirror
// image shifted by the domain extent toward the opposite face. Phase two
// folds each candidate's delta to the original center by the domain size on
// any axis where the raw delta exceeds half the extent and re-tests the
// squared distance.
//
// Assumes radius is below half the domain extent per axis; beyond that the
// mirror spheres overlap and candidates can be reported twice.
//
// scratch holds the candidate set; pass the previous call's second return
// value to reuse its backing array.
func (o *Octree) QueryRadiusWrapped(center rl.Vector3, radius float32, domain rl.Vector3, positions []rl.Vector3, dst, scratch []int32) ([]int32, []int32) {
	min := rl.Vector3Subtract(o.center, o.half)
	max := rl.Vector3Add(o.center, o.half)
	xo, xn := axisOffsets(center.X, radius, min.X, max.X, domain.X)
	yo, yn := axisOffsets(center.Y, radius, min.Y, max.Y, domain.Y)
	zo, zn := axisOffsets(center.Z, radius, min.Z, max.Z, domain.Z)

	scratch = scratch[:0]
	for ix := 0; ix < xn; ix++ {
		for iy := 0; iy < yn; iy++ {
			for iz := 0; iz < zn; iz++ {
				img := rl.Vector3{X: center.X + xo[ix], Y: center.Y + yo[iy], Z: center.Z + zo[iz]}
				scratch = o.QueryRadius(img, radius, positions, scratch)
			}
		}
	}

	r2 := radius * radius
	for _, i := range scratch {
		d := WrappedDelta(center, positions[i], domain)
		if rl.Vector3DotProduct(d, d) <= r2 {
			dst = append(dst, i)
		}
	}
	return dst, scratch
}

// axisOffsets returns the query-center offsets needed on one axis: always 0,
// plus one domain-extent shift when the sphere crosses a boundary face.
func axisOffsets(c, r, min, max, extent float32) ([2]float32, int) {
	offs := [2]float32{}
	n := 1
	if c-r < min {
		offs[1] = extent
		n = 2
	} else if c+r > max {
		offs[1] = -extent
		n = 2
	}
	return offs, n
}

// WrappedDelta returns the shortest vector from `from` to `to` on a toroidal
// domain of the given size, folding each axis independently.
func WrappedDelta(from, to, domain rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: foldAxis(to.X-from.X, domain.X),
		Y: foldAxis(to.Y-from.Y, domain.Y),
		Z: foldAxis(to.Z-from.Z, domain.Z),
	}
}

func foldAxis(d, extent float32) float32 {
	if d > extent/2 {
		return d - extent
	}
	if d < -extent/2 {
		return d + extent
	}
	return d
}
