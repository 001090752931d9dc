// Package game wires the flock integrator, camera, render pipeline, UI and
// telemetry into the tick-driven application loop.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/murmur/camera"
	"github.com/pthm-cable/murmur/config"
	"github.com/pthm-cable/murmur/renderer"
	"github.com/pthm-cable/murmur/systems"
	"github.com/pthm-cable/murmur/telemetry"
	"github.com/pthm-cable/murmur/ui"
)

// Options holds game initialization parameters from the CLI.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game holds the complete application state.
type Game struct {
	flock    *systems.Flock
	pipeline *renderer.Pipeline
	cam      *camera.Camera
	panel    *ui.Panel

	collector *telemetry.Collector
	output    *telemetry.OutputManager
	perf      *telemetry.PerfCollector

	opts Options
	dt   float32
	tick int64

	paused         bool
	stepsPerUpdate int
	renderMode     RenderMode
	boidSize       float32
	showDomain     bool
	showTree       bool

	screenWidth  float32
	screenHeight float32
}

// NewGame creates a game instance from the loaded configuration.
func NewGame(opts Options) *Game {
	cfg := config.Cfg()

	min := rl.Vector3{X: cfg.Domain.Min.X, Y: cfg.Domain.Min.Y, Z: cfg.Domain.Min.Z}
	max := rl.Vector3{X: cfg.Domain.Max.X, Y: cfg.Domain.Max.Y, Z: cfg.Domain.Max.Z}
	settings := systems.Settings{
		Accuracy:        cfg.Flock.Accuracy,
		Drag:            cfg.Flock.Drag,
		Randomness:      cfg.Flock.Randomness,
		Radius:          cfg.Flock.Radius,
		AlignmentForce:  cfg.Flock.AlignmentForce,
		AlignmentBias:   cfg.Flock.AlignmentBias,
		CohesionForce:   cfg.Flock.CohesionForce,
		SeparationForce: cfg.Flock.SeparationForce,
		SteeringForce:   cfg.Flock.SteeringForce,
		MinSpeed:        cfg.Flock.MinSpeed,
		MaxSpeed:        cfg.Flock.MaxSpeed,
	}

	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		flock:          systems.NewFlock(cfg.Flock.Count, settings, min, max, opts.Seed),
		collector:      telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		opts:           opts,
		dt:             cfg.Derived.DT32,
		stepsPerUpdate: opts.StepsPerUpdate,
		renderMode:     ParseRenderMode(cfg.Render.Mode),
		boidSize:       cfg.Render.BoidSize,
		showDomain:     cfg.Render.ShowDomain,
		showTree:       cfg.Render.ShowTree,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
	}

	g.flock.SetPhaseHook(g.perf.StartPhase)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("telemetry output disabled", "error", err)
	} else {
		g.output = output
		if err := g.output.WriteConfig(cfg); err != nil {
			slog.Error("failed to snapshot config", "error", err)
		}
	}

	if !opts.Headless {
		domainCenter := rl.Vector3Scale(rl.Vector3Add(min, max), 0.5)
		g.cam = camera.New(domainCenter, cfg.Camera.Distance, g.screenWidth, g.screenHeight)
		g.cam.FovY = cfg.Camera.FovYDeg * rl.Deg2rad
		g.cam.Near = cfg.Camera.Near
		g.cam.Far = cfg.Camera.Far
		g.pipeline = renderer.NewPipeline(g.screenWidth, g.screenHeight)
		g.panel = ui.NewPanel(10, 10)
	}

	return g
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 { return g.tick }

// Update runs input handling and the configured number of simulation steps.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// UpdateHeadless runs simulation steps without any input or rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step advances the simulation one tick and services telemetry.
func (g *Game) step() {
	g.perf.StartTick()
	g.flock.Step(g.dt)
	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.tick++

	if g.collector.ShouldSample(g.tick) {
		stats := g.collector.Sample(g.flock, g.tick)
		if g.opts.LogStats {
			stats.Log()
		}
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Error("telemetry write failed", "error", err)
		}
		if err := g.output.WritePerf(g.perf.Record(g.tick)); err != nil {
			slog.Error("perf write failed", "error", err)
		}
	}
	g.perf.EndTick()
}

// Reset reinitializes the flock with the current agent count.
func (g *Game) Reset() {
	g.flock.Init(g.flock.Len())
	g.tick = 0
}

// Unload releases owned resources.
func (g *Game) Unload() {
	g.output.Close()
}
