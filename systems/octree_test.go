package systems

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOctreeContainsHalfOpen(t *testing.T) {
	o := NewOctree(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2})

	tests := []struct {
		name string
		p    rl.Vector3
		want bool
	}{
		{"center", rl.Vector3{}, true},
		{"lower corner inclusive", rl.Vector3{X: -1, Y: -1, Z: -1}, true},
		{"upper corner exclusive", rl.Vector3{X: 1, Y: 1, Z: 1}, false},
		{"upper face exclusive", rl.Vector3{X: 1}, false},
		{"just inside upper face", rl.Vector3{X: 0.999}, true},
		{"outside", rl.Vector3{X: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := o.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestOctreeSubdivision(t *testing.T) {
	o := NewOctree(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2})

	// Five points clustered near the origin overflow the capacity-4 leaf.
	positions := []rl.Vector3{
		{X: 0.01, Y: 0.01, Z: 0.01},
		{X: -0.01, Y: 0.02, Z: 0.01},
		{X: 0.02, Y: -0.01, Z: -0.02},
		{X: -0.02, Y: -0.02, Z: 0.02},
		{X: 0.03, Y: 0.03, Z: -0.01},
	}
	for i := range positions {
		if !o.Insert(positions, int32(i)) {
			t.Fatalf("Insert(%d) failed for in-domain point %v", i, positions[i])
		}
	}

	children := o.Children()
	if len(children) != 8 {
		t.Fatalf("expected 8 children after overflow, got %d", len(children))
	}
	for i, c := range children {
		if c.Half() != (rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}) {
			t.Errorf("child %d half extent = %v, want (0.5,0.5,0.5)", i, c.Half())
		}
	}
	if o.Indices() != nil {
		t.Errorf("internal node still holds indices: %v", o.Indices())
	}
	checkLeafCapacity(t, o)
}

func TestOctreeSubdividePanicsOnInternalNode(t *testing.T) {
	o := NewOctree(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2})
	positions := make([]rl.Vector3, LeafCapacity+1)
	for i := range positions {
		positions[i] = rl.Vector3{X: float32(i) * 0.1}
		o.Insert(positions, int32(i))
	}
	if o.Children() == nil {
		t.Fatal("expected internal node")
	}
	defer func() {
		if recover() == nil {
			t.Error("subdivide on internal node did not panic")
		}
	}()
	o.subdivide(positions)
}

func TestOctreeInsertOutsideDomain(t *testing.T) {
	o := NewOctree(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2})
	positions := []rl.Vector3{{X: 5}}
	if o.Insert(positions, 0) {
		t.Error("Insert accepted a point outside the domain")
	}
}

func TestQueryRadiusMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const n = 500
	domain := rl.Vector3{X: 100, Y: 100, Z: 100}
	o := NewOctree(rl.Vector3{}, domain)

	positions := make([]rl.Vector3, n)
	for i := range positions {
		positions[i] = rl.Vector3{
			X: (rng.Float32() - 0.5) * domain.X,
			Y: (rng.Float32() - 0.5) * domain.Y,
			Z: (rng.Float32() - 0.5) * domain.Z,
		}
		if !o.Insert(positions, int32(i)) {
			t.Fatalf("Insert(%d) failed", i)
		}
	}
	checkLeafCapacity(t, o)

	for trial := 0; trial < 20; trial++ {
		center := rl.Vector3{
			X: (rng.Float32() - 0.5) * domain.X,
			Y: (rng.Float32() - 0.5) * domain.Y,
			Z: (rng.Float32() - 0.5) * domain.Z,
		}
		radius := 5 + rng.Float32()*20

		got := o.QueryRadius(center, radius, positions, nil)
		want := bruteForceRadius(center, radius, positions)

		sortInt32(got)
		if len(got) != len(want) {
			t.Fatalf("trial %d: query found %d, brute force %d", trial, len(got), len(want))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("trial %d: result %d = %d, want %d", trial, i, got[i], want[i])
			}
		}
	}
}

func TestQueryRadiusWrappedAcrossFace(t *testing.T) {
	domain := rl.Vector3{X: 2, Y: 2, Z: 2}
	o := NewOctree(rl.Vector3{}, domain)
	positions := []rl.Vector3{
		{X: -0.99},
		{X: 0.99},
	}
	for i := range positions {
		if !o.Insert(positions, int32(i)) {
			t.Fatalf("Insert(%d) failed", i)
		}
	}

	plain := o.QueryRadius(positions[0], 0.05, positions, nil)
	if containsIndex(plain, 1) {
		t.Errorf("plain query reported the far agent (raw distance 1.98)")
	}

	wrapped, _ := o.QueryRadiusWrapped(positions[0], 0.05, domain, positions, nil, nil)
	if !containsIndex(wrapped, 1) {
		t.Errorf("wrapped query missed the boundary pair (wrapped distance 0.02)")
	}
	if !containsIndex(wrapped, 0) {
		t.Errorf("wrapped query missed the query agent itself")
	}
}

func TestWrappedDelta(t *testing.T) {
	domain := rl.Vector3{X: 2, Y: 2, Z: 2}
	tests := []struct {
		name     string
		from, to rl.Vector3
		want     rl.Vector3
	}{
		{"no fold", rl.Vector3{X: 0.1}, rl.Vector3{X: 0.3}, rl.Vector3{X: 0.2}},
		{"fold positive", rl.Vector3{X: -0.99}, rl.Vector3{X: 0.99}, rl.Vector3{X: -0.02}},
		{"fold negative", rl.Vector3{X: 0.99}, rl.Vector3{X: -0.99}, rl.Vector3{X: 0.02}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrappedDelta(tt.from, tt.to, domain)
			if math.Abs(float64(got.X-tt.want.X)) > 1e-5 {
				t.Errorf("WrappedDelta().X = %v, want %v", got.X, tt.want.X)
			}
		})
	}
}

func checkLeafCapacity(t *testing.T, o *Octree) {
	t.Helper()
	if o.Children() == nil {
		if len(o.Indices()) > LeafCapacity {
			t.Errorf("leaf at %v holds %d indices, capacity %d", o.Center(), len(o.Indices()), LeafCapacity)
		}
		return
	}
	for _, c := range o.Children() {
		checkLeafCapacity(t, c)
	}
}

func bruteForceRadius(center rl.Vector3, radius float32, positions []rl.Vector3) []int32 {
	var out []int32
	r2 := radius * radius
	for i, p := range positions {
		d := rl.Vector3Subtract(p, center)
		if rl.Vector3DotProduct(d, d) <= r2 {
			out = append(out, int32(i))
		}
	}
	return out
}

func containsIndex(s []int32, v int32) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func sortInt32(s []int32) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}
