// Package game runs the campfire frame loop: input, one scene tick, and
// drawing of the skybox, model, fire sprites and debug GUI.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/campfire/config"
	"github.com/pthm-cable/campfire/renderer"
	"github.com/pthm-cable/campfire/scene"
	"github.com/pthm-cable/campfire/telemetry"
	"github.com/pthm-cable/campfire/ui"
)

// Options configures a game instance.
type Options struct {
	Seed        int64
	LogStats    bool
	OutputDir   string
	SnapshotDir string // Save a snapshot on each bookmark
	ResumePath  string // Snapshot to resume from
	Headless    bool
}

// Game holds the complete application state.
type Game struct {
	scene         *scene.Scene
	outputManager *telemetry.OutputManager

	// Rendering (nil in headless mode)
	skybox   *renderer.SkyboxRenderer
	campfire *renderer.CampfireRenderer
	sprites  *renderer.SpriteRenderer
	panel    *ui.DebugPanel
	hud      *ui.HUD
	perf     *ui.PerfPanel

	// State
	paused        bool
	showPerf      bool
	additive      bool
	ticked        bool // A perf sample is open until Draw closes it
	currentSkybox string

	screenWidth, screenHeight int32
}

// config returns the global configuration.
func (g *Game) config() *config.Config {
	return config.Cfg()
}

// NewGameWithOptions creates a game. In graphical mode the window must
// already be open so GPU resources can be created.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	sc, err := scene.New(cfg, rand.New(rand.NewSource(opts.Seed)), scene.Options{
		OutputManager: outputManager,
		LogStats:      opts.LogStats,
		SnapshotDir:   opts.SnapshotDir,
		Seed:          opts.Seed,
	})
	if err != nil {
		outputManager.Close()
		return nil, fmt.Errorf("creating scene: %w", err)
	}

	if opts.ResumePath != "" {
		if err := resume(sc, opts.ResumePath); err != nil {
			outputManager.Close()
			return nil, err
		}
	}

	g := &Game{
		scene:         sc,
		outputManager: outputManager,
		screenWidth:   int32(cfg.Screen.Width),
		screenHeight:  int32(cfg.Screen.Height),
	}

	if !opts.Headless {
		if err := g.initRenderers(); err != nil {
			g.Unload()
			return nil, err
		}
	}

	if dir := outputManager.Dir(); dir != "" {
		slog.Info("output enabled", "dir", dir)
	}
	return g, nil
}

// resume restores the scene from a snapshot file.
func resume(sc *scene.Scene, path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if err := sc.Restore(snap); err != nil {
		return fmt.Errorf("resuming from %s: %w", path, err)
	}
	slog.Info("resumed from snapshot",
		"path", path,
		"tick", snap.Tick,
		"particles", len(snap.Particles),
		"snapshot_seed", snap.RNGSeed,
	)
	return nil
}

// Update handles input and runs one tick with the measured frame time.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		g.scene.Idle()
		return
	}
	g.tick(frameMS())
}

// UpdateHeadless runs one tick with the configured fixed frame time.
func (g *Game) UpdateHeadless() {
	g.tick(g.config().Headless.FrameMS)
	g.scene.EndFrame()
	g.ticked = false
}

func (g *Game) tick(elapsedMS float64) {
	if err := g.scene.Tick(elapsedMS); err != nil {
		slog.Warn("tick skipped", "tick", g.scene.CurrentTick(), "elapsed_ms", elapsedMS, "error", err)
	}
	g.ticked = true
}

// Tick returns the number of ticks run so far.
func (g *Game) Tick() int32 {
	return g.scene.CurrentTick()
}

// SimTimeMS returns the total simulated time.
func (g *Game) SimTimeMS() float64 {
	return g.scene.SimTimeMS()
}

// Unload releases GPU resources and closes output files.
func (g *Game) Unload() {
	if g.skybox != nil {
		g.skybox.Unload()
	}
	if g.campfire != nil {
		g.campfire.Unload()
	}
	if g.sprites != nil {
		g.sprites.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
