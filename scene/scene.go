// Package scene holds the per-tick campfire state: the GUI settings and their
// command queue, the particle system, the orbit camera and telemetry. It has
// no rendering dependency, so the headless runner and tests drive it directly.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/campfire/camera"
	"github.com/pthm-cable/campfire/config"
	"github.com/pthm-cable/campfire/control"
	"github.com/pthm-cable/campfire/fire"
	"github.com/pthm-cable/campfire/telemetry"
)

// Options configures optional scene features.
type Options struct {
	OutputManager *telemetry.OutputManager          // nil disables CSV output
	LogStats      bool                              // Log window and perf stats
	StatsCallback func(stats telemetry.WindowStats) // Called on every window flush
	SnapshotDir   string                            // Save a snapshot on each bookmark; empty disables
	Seed          int64                             // Recorded in snapshots
}

// Scene is the simulation side of one frame. It is owned by the frame loop
// and not safe for concurrent use.
type Scene struct {
	settings *control.Settings
	queue    control.Queue
	fire     *fire.System
	cam      *camera.Orbit
	attrs    fire.Attributes

	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	logStats      bool
	statsCallback func(stats telemetry.WindowStats)
	snapshotDir   string
	seed          int64

	tick int32

	// Camera position last synced between settings and the orbit camera
	syncedCamera fire.Vec3
}

// New builds a scene from configuration. rng drives emission jitter and the
// effect rules.
func New(cfg *config.Config, rng fire.Rand, opts Options) (*Scene, error) {
	fireOpts, err := cfg.FireOptions()
	if err != nil {
		return nil, fmt.Errorf("building fire options: %w", err)
	}
	sys, err := fire.New(fireOpts, rng)
	if err != nil {
		return nil, fmt.Errorf("creating fire system: %w", err)
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, fmt.Errorf("building settings: %w", err)
	}

	s := &Scene{
		settings:      settings,
		fire:          sys,
		cam:           newCamera(cfg.Camera),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarks:     telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		output:        opts.OutputManager,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		snapshotDir:   opts.SnapshotDir,
		seed:          opts.Seed,
	}
	s.writeBackCamera()
	return s, nil
}

func newCamera(c config.CameraConfig) *camera.Orbit {
	o := camera.New(c.Position, c.Target, c.Fovy)
	if c.MinDistance > 0 {
		o.MinDistance = c.MinDistance
	}
	if c.MaxDistance > 0 {
		o.MaxDistance = c.MaxDistance
	}
	if c.ZoomSpeed > 0 {
		o.ZoomSpeed = c.ZoomSpeed
	}
	if c.PanSpeed > 0 {
		o.PanSpeed = c.PanSpeed
	}
	o.FromPosition(c.Position, c.Target)
	return o
}

// Tick opens a perf sample and runs one simulation frame: drain queued
// commands, sync the camera, step the fire with the eye as viewpoint, and
// record telemetry. The perf sample stays open so the caller can time
// drawing; close it with EndFrame.
//
// A rejected step leaves the particles untouched and is returned.
func (s *Scene) Tick(elapsedMS float64) error {
	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseCommands)
	s.drainCommands()
	s.syncCamera()

	stepErr := s.stepFire(elapsedMS)

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.tick++
	if stepErr != nil {
		s.collector.RecordStepError()
		s.collector.RecordTick(0, fire.TickStats{Live: s.fire.Count()})
	} else {
		s.collector.RecordTick(elapsedMS, s.fire.LastTick())
	}
	s.flushTelemetry()

	return stepErr
}

// Idle applies queued commands and syncs the camera without advancing the
// fire or the tick count. Paused frames call it so GUI changes still land.
func (s *Scene) Idle() {
	s.drainCommands()
	s.syncCamera()
}

// DrawPhase marks the start of rendering within the open perf sample.
func (s *Scene) DrawPhase() {
	s.perf.StartPhase(telemetry.PhaseDraw)
}

// EndFrame closes the perf sample opened by Tick.
func (s *Scene) EndFrame() {
	s.perf.EndTick()
}

// Step runs Tick and EndFrame, for loops that do not draw.
func (s *Scene) Step(elapsedMS float64) error {
	err := s.Tick(elapsedMS)
	s.EndFrame()
	return err
}

func (s *Scene) drainCommands() {
	pending := s.queue.Len()
	if pending == 0 {
		return
	}
	applied, err := s.queue.Drain(s.settings)
	s.collector.RecordCommands(applied, pending-applied)
	if err != nil {
		slog.Warn("commands rejected", "tick", s.tick, "applied", applied, "error", err)
	}
}

// syncCamera moves the orbit camera when a command changed the camera
// position, then publishes the eye position back to settings so the GUI
// follows mouse orbiting.
func (s *Scene) syncCamera() {
	if s.settings.CameraPosition != s.syncedCamera {
		s.cam.SetPosition(s.settings.CameraPosition)
	}
	s.writeBackCamera()
}

func (s *Scene) writeBackCamera() {
	pos := s.cam.Position()
	s.settings.CameraPosition = pos
	s.syncedCamera = pos
}

// stepFire drives the fire phases one at a time so each can be timed.
func (s *Scene) stepFire(elapsedMS float64) error {
	params := s.settings.Params
	if err := fire.CheckInputs(elapsedMS, params); err != nil {
		return err
	}

	s.perf.StartPhase(telemetry.PhaseEmit)
	spawned := s.fire.Emit(params)

	s.perf.StartPhase(telemetry.PhaseAge)
	expired := s.fire.Age(elapsedMS)

	s.perf.StartPhase(telemetry.PhaseMutate)
	s.fire.Mutate(params.WindSpeed)

	s.perf.StartPhase(telemetry.PhaseSort)
	s.fire.SortByDepth(s.cam.Position())

	s.perf.StartPhase(telemetry.PhaseExtract)
	s.fire.RecordTick(spawned, expired)
	s.attrs = s.fire.Attributes()
	return nil
}

// flushTelemetry writes and logs window stats when a window completes, and
// handles any bookmarks the window triggers.
func (s *Scene) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.fire.Particles())
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.output.WritePopulation(stats); err != nil {
		slog.Error("failed to write population", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if s.snapshotDir != "" {
			s.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot creates and saves a snapshot to disk.
func (s *Scene) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(s.Snapshot(bookmark), s.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", s.tick)
}

// Snapshot captures the settings and live particles. bookmark may be nil.
func (s *Scene) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	return &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		RNGSeed:   s.seed,
		Tick:      s.tick,
		SimTimeMS: s.collector.SimTimeMS(),
		Settings: telemetry.SettingsState{
			Params:            s.settings.Params,
			Element:           s.settings.Element,
			Skybox:            s.settings.Skybox,
			CameraPosition:    telemetry.VecArray(s.settings.CameraPosition),
			FirePlacePosition: telemetry.VecArray(s.settings.FirePlacePosition),
		},
		Particles: telemetry.NewParticleStates(s.fire.Particles()),
		Bookmark:  bookmark,
	}
}

// Restore resumes from a snapshot. Params are checked with Params.Validate,
// the check configured defaults get, so values outside the GUI slider
// ranges restore as long as they are valid emission parameters. Skybox,
// element and fire place go through their GUI commands. Nothing changes
// unless every check passes. Pending commands are discarded.
func (s *Scene) Restore(snap *telemetry.Snapshot) error {
	if snap.Tick < 0 {
		return errors.New("scene: negative snapshot tick")
	}
	st := snap.Settings
	if err := st.Params.Validate(); err != nil {
		return err
	}
	for _, v := range st.CameraPosition {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("scene: snapshot camera position is not finite")
		}
	}

	next := *s.settings
	next.Params = st.Params
	next.Element = ""
	cmds := []control.Command{
		control.SelectSkybox{Name: st.Skybox},
		control.SetFirePlacePosition{Position: telemetry.ArrayVec(st.FirePlacePosition)},
	}
	if st.Element != "" {
		cmds = append(cmds, control.SelectElement{Name: st.Element})
	}
	for _, cmd := range cmds {
		if err := cmd.Apply(&next); err != nil {
			return fmt.Errorf("restoring settings: %w", err)
		}
	}

	particles := make([]fire.Particle, len(snap.Particles))
	for i, ps := range snap.Particles {
		particles[i] = ps.ToParticle()
	}
	if err := s.fire.Restore(particles); err != nil {
		return err
	}

	*s.settings = next
	s.cam.SetPosition(telemetry.ArrayVec(st.CameraPosition))
	s.writeBackCamera()

	s.queue.Clear()
	s.tick = snap.Tick
	s.collector.Resume(snap.Tick, snap.SimTimeMS)
	s.attrs = s.fire.Attributes()
	return nil
}

// Push queues a command for the next tick.
func (s *Scene) Push(cmd control.Command) {
	s.queue.Push(cmd)
}

// Settings returns the live settings. Callers must treat them as read-only
// and change them through Push.
func (s *Scene) Settings() *control.Settings {
	return s.settings
}

// Camera returns the orbit camera for direct mouse manipulation.
func (s *Scene) Camera() *camera.Orbit {
	return s.cam
}

// Attributes returns the render buffers from the last successful tick.
func (s *Scene) Attributes() fire.Attributes {
	return s.attrs
}

// Fire returns the particle system.
func (s *Scene) Fire() *fire.System {
	return s.fire
}

// Perf returns the frame timing collector.
func (s *Scene) Perf() *telemetry.PerfCollector {
	return s.perf
}

// CurrentTick returns the number of ticks run so far.
func (s *Scene) CurrentTick() int32 {
	return s.tick
}

// SimTimeMS returns the total simulated time.
func (s *Scene) SimTimeMS() float64 {
	return s.collector.SimTimeMS()
}
