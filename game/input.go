package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input for the frame.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Simulation speed with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyM) {
		g.renderMode = g.renderMode.cycle()
	}
	if rl.IsKeyPressed(rl.KeyT) {
		g.showTree = !g.showTree
	}
	if rl.IsKeyPressed(rl.KeyB) {
		g.showDomain = !g.showDomain
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.Reset()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.panel.Toggle()
	}

	// Camera orbit only while the pointer is off the panel, so slider drags
	// don't spin the view.
	if !g.panel.ContainsMouse() {
		g.cam.HandleInput()
	}
}

// handleResize propagates a window resize to the camera and pipeline.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.cam.Resize(w, h)
	g.pipeline.Resize(w, h)
}
