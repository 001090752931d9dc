// Package renderer projects world-space primitives through a software
// clip-space pipeline and rasterizes the survivors as 2D screen geometry.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// parallelEpsilon is the plane-alignment threshold below which a segment is
// treated as parallel to a clip plane.
const parallelEpsilon = 1e-6

// ClipPlane is a half-space in homogeneous clip coordinates; a point
// (x,y,z,w) is inside when ax+by+cz+dw >= 0.
type ClipPlane struct {
	A, B, C, D float32
}

// Dot evaluates the plane equation at v.
func (p ClipPlane) Dot(v rl.Vector4) float32 {
	return p.A*v.X + p.B*v.Y + p.C*v.Z + p.D*v.W
}

// frustumPlanes bounds the canonical view frustum |x|<=w, |y|<=w, |z|<=w.
// These are constants of clip space, not per-camera state.
var frustumPlanes = [6]ClipPlane{
	{1, 0, 0, 1},  // x >= -w
	{-1, 0, 0, 1}, // x <= w
	{0, 1, 0, 1},  // y >= -w
	{0, -1, 0, 1}, // y <= w
	{0, 0, 1, 1},  // z >= -w
	{0, 0, -1, 1}, // z <= w
}

// Vec4 lifts a 3-component vector into homogeneous coordinates.
func Vec4(v rl.Vector3, w float32) rl.Vector4 {
	return rl.Vector4{X: v.X, Y: v.Y, Z: v.Z, W: w}
}

// Vec3 drops the homogeneous coordinate without dividing, so a Vec4/Vec3
// round trip preserves the components exactly.
func Vec3(v rl.Vector4) rl.Vector3 {
	return rl.Vector3{X: v.X, Y: v.Y, Z: v.Z}
}

// Transform4 applies a raylib matrix to a homogeneous point.
func Transform4(m rl.Matrix, v rl.Vector4) rl.Vector4 {
	return rl.Vector4{
		X: m.M0*v.X + m.M4*v.Y + m.M8*v.Z + m.M12*v.W,
		Y: m.M1*v.X + m.M5*v.Y + m.M9*v.Z + m.M13*v.W,
		Z: m.M2*v.X + m.M6*v.Y + m.M10*v.Z + m.M14*v.W,
		W: m.M3*v.X + m.M7*v.Y + m.M11*v.Z + m.M15*v.W,
	}
}

// Lerp4 interpolates two homogeneous points.
func Lerp4(a, b rl.Vector4, t float32) rl.Vector4 {
	return rl.Vector4{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
		W: a.W + (b.W-a.W)*t,
	}
}

// ProjectToClip transforms a world-space point into clip space through the
// view then projection matrices, reporting whether it lies inside the
// frustum.
func ProjectToClip(view, proj rl.Matrix, p rl.Vector3) (rl.Vector4, bool) {
	clip := Transform4(rl.MatrixMultiply(view, proj), Vec4(p, 1))
	visible := clip.X >= -clip.W && clip.X <= clip.W &&
		clip.Y >= -clip.W && clip.Y <= clip.W &&
		clip.Z >= -clip.W && clip.Z <= clip.W
	return clip, visible
}

// ClipLine clips the segment p1..p2 against the six frustum planes and
// returns the surviving parameter interval. ok is false when nothing of the
// segment is visible. A fully visible segment returns exactly (0, 1).
func ClipLine(p1, p2 rl.Vector4) (tMin, tMax float32, ok bool) {
	tMin, tMax = 0, 1
	dir := rl.Vector4{X: p2.X - p1.X, Y: p2.Y - p1.Y, Z: p2.Z - p1.Z, W: p2.W - p1.W}
	for _, plane := range frustumPlanes {
		d1 := plane.Dot(p1)
		dd := plane.Dot(dir)
		if dd > -parallelEpsilon && dd < parallelEpsilon {
			if d1 < 0 {
				return 0, 0, false
			}
			continue
		}
		t := -d1 / dd
		if dd > 0 {
			// Moving toward the inside: entering plane.
			if t > tMin {
				tMin = t
			}
		} else {
			if t < tMax {
				tMax = t
			}
		}
	}
	if tMin >= tMax {
		return 0, 0, false
	}
	return tMin, tMax, true
}

// ClipPolyline clips each consecutive edge independently (wrapping last to
// first when closed) and returns the surviving 2-point segments. Segments
// sharing a vertex on a clip boundary are not stitched back together.
func ClipPolyline(closed bool, points []rl.Vector4) [][2]rl.Vector4 {
	if len(points) < 2 {
		return nil
	}
	edges := len(points) - 1
	if closed {
		edges = len(points)
	}
	var segs [][2]rl.Vector4
	for i := 0; i < edges; i++ {
		a := points[i]
		b := points[(i+1)%len(points)]
		tMin, tMax, ok := ClipLine(a, b)
		if !ok {
			continue
		}
		segs = append(segs, [2]rl.Vector4{Lerp4(a, b, tMin), Lerp4(a, b, tMax)})
	}
	return segs
}

// ClipPolygon clips a convex vertex ring against each frustum plane in turn
// (Sutherland-Hodgman), inserting intersection vertices where edges cross a
// plane. It returns nil as soon as any stage empties the ring.
func ClipPolygon(points []rl.Vector4) []rl.Vector4 {
	if len(points) < 3 {
		return nil
	}
	ring := make([]rl.Vector4, len(points))
	copy(ring, points)
	next := make([]rl.Vector4, 0, len(points)+6)

	for _, plane := range frustumPlanes {
		next = next[:0]
		for i, cur := range ring {
			prev := ring[(i+len(ring)-1)%len(ring)]
			dCur := plane.Dot(cur)
			dPrev := plane.Dot(prev)
			curIn := dCur >= 0
			prevIn := dPrev >= 0
			if curIn != prevIn {
				t := dPrev / (dPrev - dCur)
				next = append(next, Lerp4(prev, cur, t))
			}
			if curIn {
				next = append(next, cur)
			}
		}
		if len(next) == 0 {
			return nil
		}
		ring = append(ring[:0], next...)
	}
	out := make([]rl.Vector4, len(ring))
	copy(out, ring)
	return out
}

// ToScreen maps a clip-space point to pixel coordinates: perspective divide,
// then NDC [-1,1] to the viewport with NDC +1 mapping to pixel row 0.
func ToScreen(clip rl.Vector4, width, height float32) rl.Vector2 {
	inv := 1 / clip.W
	return rl.Vector2{
		X: (clip.X*inv + 1) * 0.5 * width,
		Y: (1 - clip.Y*inv) * 0.5 * height,
	}
}
