package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Pipeline carries the camera matrices and viewport used to turn world-space
// primitives into screen-space strokes and fills. It consumes a read-only
// view of simulation state; both matrices may be replaced between ticks.
type Pipeline struct {
	view     rl.Matrix
	proj     rl.Matrix
	viewProj rl.Matrix
	width    float32
	height   float32

	// Scratch, reused across draw calls.
	clipBuf   []rl.Vector4
	screenBuf []rl.Vector2
}

// NewPipeline creates a pipeline for the given viewport with identity
// matrices.
func NewPipeline(width, height float32) *Pipeline {
	p := &Pipeline{
		view: rl.MatrixIdentity(),
		proj: rl.MatrixIdentity(),
	}
	p.Resize(width, height)
	p.updateViewProj()
	return p
}

// SetCamera replaces the view and projection matrices.
func (p *Pipeline) SetCamera(view, proj rl.Matrix) {
	p.view = view
	p.proj = proj
	p.updateViewProj()
}

// Resize updates the viewport dimensions.
func (p *Pipeline) Resize(width, height float32) {
	p.width = width
	p.height = height
}

func (p *Pipeline) updateViewProj() {
	p.viewProj = rl.MatrixMultiply(p.view, p.proj)
}

// View returns the current view matrix.
func (p *Pipeline) View() rl.Matrix { return p.view }

// Projection returns the current projection matrix.
func (p *Pipeline) Projection() rl.Matrix { return p.proj }

// DrawLine3D strokes the world-space segment a..b under the model matrix,
// clipped to the frustum. Invisible segments draw nothing.
func (p *Pipeline) DrawLine3D(a, b rl.Vector3, model rl.Matrix, col rl.Color) {
	mvp := rl.MatrixMultiply(model, p.viewProj)
	c1 := Transform4(mvp, Vec4(a, 1))
	c2 := Transform4(mvp, Vec4(b, 1))
	tMin, tMax, ok := ClipLine(c1, c2)
	if !ok {
		return
	}
	s1 := ToScreen(Lerp4(c1, c2, tMin), p.width, p.height)
	s2 := ToScreen(Lerp4(c1, c2, tMax), p.width, p.height)
	rl.DrawLineV(s1, s2, col)
}

// DrawPolyline3D strokes a world-space polyline, wrapping the last vertex
// back to the first when closed. Each clipped edge is drawn independently.
func (p *Pipeline) DrawPolyline3D(closed bool, points []rl.Vector3, model rl.Matrix, col rl.Color) {
	if len(points) < 2 {
		return
	}
	mvp := rl.MatrixMultiply(model, p.viewProj)
	p.clipBuf = p.clipBuf[:0]
	for _, v := range points {
		p.clipBuf = append(p.clipBuf, Transform4(mvp, Vec4(v, 1)))
	}
	for _, seg := range ClipPolyline(closed, p.clipBuf) {
		s1 := ToScreen(seg[0], p.width, p.height)
		s2 := ToScreen(seg[1], p.width, p.height)
		rl.DrawLineV(s1, s2, col)
	}
}

// DrawClosedPolygon3D fills and strokes a convex world-space polygon. Either
// color may be blank to skip that pass. Fully culled polygons draw nothing.
func (p *Pipeline) DrawClosedPolygon3D(points []rl.Vector3, model rl.Matrix, stroke, fill rl.Color) {
	if len(points) < 3 {
		return
	}
	mvp := rl.MatrixMultiply(model, p.viewProj)
	p.clipBuf = p.clipBuf[:0]
	for _, v := range points {
		p.clipBuf = append(p.clipBuf, Transform4(mvp, Vec4(v, 1)))
	}
	ring := ClipPolygon(p.clipBuf)
	if ring == nil {
		return
	}
	p.screenBuf = p.screenBuf[:0]
	for _, v := range ring {
		p.screenBuf = append(p.screenBuf, ToScreen(v, p.width, p.height))
	}
	if fill.A > 0 {
		rl.DrawTriangleFan(p.screenBuf, fill)
	}
	if stroke.A > 0 {
		for i := range p.screenBuf {
			rl.DrawLineV(p.screenBuf[i], p.screenBuf[(i+1)%len(p.screenBuf)], stroke)
		}
	}
}

// DrawBillboardQuad fills a camera-facing square of the given world size
// centered at center. The quad's axes come from the view matrix rows, so it
// always faces the camera regardless of orientation.
func (p *Pipeline) DrawBillboardQuad(center rl.Vector3, size float32, stroke, fill rl.Color) {
	half := size * 0.5
	right := rl.Vector3Scale(rl.Vector3{X: p.view.M0, Y: p.view.M4, Z: p.view.M8}, half)
	up := rl.Vector3Scale(rl.Vector3{X: p.view.M1, Y: p.view.M5, Z: p.view.M9}, half)

	corners := [4]rl.Vector3{
		rl.Vector3Add(center, rl.Vector3Add(rl.Vector3Scale(right, -1), rl.Vector3Scale(up, -1))),
		rl.Vector3Add(center, rl.Vector3Add(right, rl.Vector3Scale(up, -1))),
		rl.Vector3Add(center, rl.Vector3Add(right, up)),
		rl.Vector3Add(center, rl.Vector3Add(rl.Vector3Scale(right, -1), up)),
	}
	p.DrawClosedPolygon3D(corners[:], rl.MatrixIdentity(), stroke, fill)
}
