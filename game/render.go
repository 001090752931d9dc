package game

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/murmur/systems"
)

// RenderMode selects how each boid is presented.
type RenderMode uint8

const (
	// ModeTetrahedron draws each boid as a small tetrahedron oriented along
	// its velocity.
	ModeTetrahedron RenderMode = iota
	// ModeBillboard draws each boid as a camera-facing quad.
	ModeBillboard
	// ModeHidden draws no boid markers (overlays still render).
	ModeHidden

	numRenderModes
)

// ParseRenderMode maps a config string to a render mode, defaulting to
// tetrahedra.
func ParseRenderMode(s string) RenderMode {
	switch s {
	case "billboard":
		return ModeBillboard
	case "hidden":
		return ModeHidden
	default:
		return ModeTetrahedron
	}
}

// String returns the config name of the mode.
func (m RenderMode) String() string {
	switch m {
	case ModeTetrahedron:
		return "tetrahedron"
	case ModeBillboard:
		return "billboard"
	case ModeHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// cycle advances to the next render mode.
func (m RenderMode) cycle() RenderMode {
	return (m + 1) % numRenderModes
}

// tetraVerts is the unit boid tetrahedron in local space: nose on +Z, three
// base vertices behind it.
var tetraVerts = [4]rl.Vector3{
	{X: 0, Y: 0, Z: 1.5},
	{X: -0.5, Y: -0.29, Z: -0.5},
	{X: 0.5, Y: -0.29, Z: -0.5},
	{X: 0, Y: 0.58, Z: -0.5},
}

// tetraFaces indexes tetraVerts; each face is drawn as a filled triangle.
var tetraFaces = [4][3]int{
	{0, 1, 2},
	{0, 2, 3},
	{0, 3, 1},
	{1, 3, 2},
}

// Draw renders the frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(12, 14, 24, 255))

	g.pipeline.SetCamera(g.cam.ViewMatrix(), g.cam.ProjectionMatrix())

	if g.showDomain {
		g.drawDomainBox()
	}
	if g.showTree {
		g.drawTree(g.flock.Tree())
	}
	g.drawBoids()

	g.panel.Draw(g.flock.Settings())
	g.drawHUD()

	rl.EndDrawing()
}

// drawBoids renders every agent in the current mode.
func (g *Game) drawBoids() {
	switch g.renderMode {
	case ModeTetrahedron:
		for i := 0; i < g.flock.Len(); i++ {
			model := boidBasis(g.flock.Velocity(i), g.flock.Position(i), g.boidSize)
			fill := neighborColor(g.flock.NeighborCount(i), g.flock.Settings().Accuracy)
			for _, face := range tetraFaces {
				tri := [3]rl.Vector3{tetraVerts[face[0]], tetraVerts[face[1]], tetraVerts[face[2]]}
				g.pipeline.DrawClosedPolygon3D(tri[:], model, rl.NewColor(20, 24, 40, 255), fill)
			}
		}
	case ModeBillboard:
		for i := 0; i < g.flock.Len(); i++ {
			fill := neighborColor(g.flock.NeighborCount(i), g.flock.Settings().Accuracy)
			g.pipeline.DrawBillboardQuad(g.flock.Position(i), g.boidSize, rl.Blank, fill)
		}
	case ModeHidden:
	}
}

// neighborColor shades a boid from cool to warm as its neighborhood fills up
// toward the accuracy cap.
func neighborColor(count, limit int) rl.Color {
	if limit < 1 {
		limit = 1
	}
	t := float32(count) / float32(limit)
	if t > 1 {
		t = 1
	}
	return rl.NewColor(
		uint8(90+t*165),
		uint8(160-t*60),
		uint8(235-t*150),
		255,
	)
}

// boidBasis builds a model matrix orienting local +Z along the velocity and
// placing the boid at pos.
func boidBasis(vel, pos rl.Vector3, scale float32) rl.Matrix {
	fwd := vel
	m2 := rl.Vector3DotProduct(fwd, fwd)
	if m2 < 1e-8 {
		fwd = rl.Vector3{Z: 1}
	} else {
		fwd = rl.Vector3Scale(fwd, 1/float32(math.Sqrt(float64(m2))))
	}
	up := rl.Vector3{Y: 1}
	if f := rl.Vector3DotProduct(fwd, up); f > 0.99 || f < -0.99 {
		up = rl.Vector3{X: 1}
	}
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(up, fwd))
	up = rl.Vector3CrossProduct(fwd, right)

	// Column-major basis matrix: columns are the scaled local axes plus the
	// translation.
	return rl.Matrix{
		M0: right.X * scale, M4: up.X * scale, M8: fwd.X * scale, M12: pos.X,
		M1: right.Y * scale, M5: up.Y * scale, M9: fwd.Y * scale, M13: pos.Y,
		M2: right.Z * scale, M6: up.Z * scale, M10: fwd.Z * scale, M14: pos.Z,
		M3: 0, M7: 0, M11: 0, M15: 1,
	}
}

// boxEdges lists the 12 edges of a unit box by corner index; corners are
// encoded by the sign bits of x, y, z.
var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func boxCorner(center, half rl.Vector3, i int) rl.Vector3 {
	sign := func(b bool) float32 {
		if b {
			return 1
		}
		return -1
	}
	return rl.Vector3{
		X: center.X + half.X*sign(i&1 != 0),
		Y: center.Y + half.Y*sign(i&2 != 0),
		Z: center.Z + half.Z*sign(i&4 != 0),
	}
}

// drawWireBox strokes an axis-aligned box through the clip pipeline.
func (g *Game) drawWireBox(center, half rl.Vector3, col rl.Color) {
	identity := rl.MatrixIdentity()
	for _, e := range boxEdges {
		a := boxCorner(center, half, e[0])
		b := boxCorner(center, half, e[1])
		g.pipeline.DrawLine3D(a, b, identity, col)
	}
}

func (g *Game) drawDomainBox() {
	min, max := g.flock.Bounds()
	center := rl.Vector3Scale(rl.Vector3Add(min, max), 0.5)
	half := rl.Vector3Scale(rl.Vector3Subtract(max, min), 0.5)
	g.drawWireBox(center, half, rl.NewColor(70, 80, 110, 255))
}

// drawTree walks the octree and strokes every node box. Diagnostic only;
// leaves with agents get a brighter stroke.
func (g *Game) drawTree(node *systems.Octree) {
	if node == nil {
		return
	}
	col := rl.NewColor(40, 90, 60, 120)
	if node.Children() == nil && len(node.Indices()) > 0 {
		col = rl.NewColor(60, 170, 90, 200)
	}
	g.drawWireBox(node.Center(), node.Half(), col)
	for _, c := range node.Children() {
		g.drawTree(c)
	}
}

func (g *Game) drawHUD() {
	y := g.screenHeight - 64
	status := fmt.Sprintf("tick %d | boids %d | mode %s | %dx", g.tick, g.flock.Len(), g.renderMode, g.stepsPerUpdate)
	if g.paused {
		status += " | PAUSED"
	}
	rl.DrawText(status, 10, int32(y), 16, rl.RayWhite)
	rl.DrawText("space pause  ,/. speed  m mode  t tree  b box  tab panel  r reset", 10, int32(y)+22, 14, rl.Gray)
	rl.DrawFPS(int32(g.screenWidth)-90, 10)
}
