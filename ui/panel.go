// Package ui renders the tunables panel with raygui controls.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/murmur/systems"
)

const (
	panelWidth  = 300
	rowHeight   = 35
	sliderWidth = panelWidth - 90
)

// Panel is the flock tunables side panel. All sliders write straight into
// the flock settings; changes apply on the next tick.
type Panel struct {
	x, y    int32
	visible bool
}

// NewPanel creates a hidden panel anchored at the given corner.
func NewPanel(x, y int32) *Panel {
	return &Panel{x: x, y: y}
}

// Toggle switches panel visibility and returns the new state.
func (p *Panel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *Panel) IsVisible() bool { return p.visible }

// ContainsMouse reports whether the pointer is over the panel, so camera
// dragging can be suppressed while adjusting sliders.
func (p *Panel) ContainsMouse() bool {
	if !p.visible {
		return false
	}
	m := rl.GetMousePosition()
	height := int32(12*rowHeight) + 50
	return m.X >= float32(p.x) && m.X <= float32(p.x+panelWidth) &&
		m.Y >= float32(p.y) && m.Y <= float32(p.y+height)
}

// Draw renders the panel and applies slider changes to s.
func (p *Panel) Draw(s *systems.Settings) {
	if !p.visible {
		return
	}

	height := int32(12*rowHeight) + 50
	rl.DrawRectangle(p.x, p.y, panelWidth, height, rl.Fade(rl.Black, 0.7))
	rl.DrawRectangleLines(p.x, p.y, panelWidth, height, rl.DarkGray)

	x := float32(p.x + 10)
	y := float32(p.y + 10)
	rl.DrawText("Flock Tunables", p.x+10, int32(y), 18, rl.RayWhite)
	y += 30

	accuracy := float32(s.Accuracy)
	p.slider(&y, x, "accuracy", "%0.f", &accuracy, 1, 64)
	s.Accuracy = int(accuracy)

	p.slider(&y, x, "radius", "%.1f", &s.Radius, 1, 50)
	p.slider(&y, x, "alignment", "%.2f", &s.AlignmentForce, 0, 4)
	p.slider(&y, x, "align bias", "%.2f", &s.AlignmentBias, 0, 1)
	p.slider(&y, x, "cohesion", "%.2f", &s.CohesionForce, 0, 4)
	p.slider(&y, x, "separation", "%.2f", &s.SeparationForce, 0, 4)
	p.slider(&y, x, "steering", "%.1f", &s.SteeringForce, 0, 50)
	p.slider(&y, x, "randomness", "%.2f", &s.Randomness, 0, 5)
	p.slider(&y, x, "drag", "%.3f", &s.Drag, 0, 0.2)
	p.slider(&y, x, "min speed", "%.1f", &s.MinSpeed, 0, s.MaxSpeed)
	p.slider(&y, x, "max speed", "%.1f", &s.MaxSpeed, s.MinSpeed, 60)
}

// slider draws one labeled slider row and advances the layout cursor.
func (p *Panel) slider(y *float32, x float32, label, format string, value *float32, min, max float32) {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 16
	*value = gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: sliderWidth, Height: 14},
		"", "",
		*value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, *value), int32(x+sliderWidth+8), int32(*y), 14, rl.RayWhite)
	*y += rowHeight - 16
}
