package telemetry

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/campfire/fire"
)

// Collector accumulates per-tick particle counts within windows of ticks and
// produces WindowStats.
type Collector struct {
	windowTicks int32

	windowStartTick int32
	simTimeMS       float64

	spawned         int
	expired         int
	live            []float64
	commandsApplied int
	commandErrors   int
	stepErrors      int

	// Scratch buffers reused across flushes
	progress []float64
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: int32(windowTicks),
		live:        make([]float64, 0, windowTicks),
	}
}

// RecordTick records the outcome of one particle step.
func (c *Collector) RecordTick(elapsedMS float64, ts fire.TickStats) {
	c.simTimeMS += elapsedMS
	c.spawned += ts.Spawned
	c.expired += ts.Expired
	c.live = append(c.live, float64(ts.Live))
}

// RecordCommands records the result of draining the command queue.
func (c *Collector) RecordCommands(applied, failed int) {
	c.commandsApplied += applied
	c.commandErrors += failed
}

// RecordStepError records a rejected step.
func (c *Collector) RecordStepError() {
	c.stepErrors++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush summarizes the window, sampling the distribution of the given live
// particles, and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, particles []fire.Particle) WindowStats {
	s := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeMS:       c.simTimeMS,
		Spawned:         c.spawned,
		Expired:         c.expired,
		Live:            len(particles),
		CommandsApplied: c.commandsApplied,
		CommandErrors:   c.commandErrors,
		StepErrors:      c.stepErrors,
	}

	if len(c.live) > 0 {
		s.LiveMean, s.LiveStd = stat.PopMeanStdDev(c.live, nil)
		for _, n := range c.live {
			s.LivePeak = max(s.LivePeak, int(n))
		}
	}

	if n := len(particles); n > 0 {
		c.progress = c.progress[:0]
		var alpha, size float64
		smoke := 0
		for i := range particles {
			p := &particles[i]
			c.progress = append(c.progress, p.Progress())
			alpha += p.Alpha
			size += p.CurrentSize
			if p.Colour == fire.Black {
				smoke++
			}
		}
		s.ProgressMean, s.ProgressP10, s.ProgressP50, s.ProgressP90 = Distribution(c.progress)
		s.AlphaMean = alpha / float64(n)
		s.SizeMean = size / float64(n)
		s.SmokeFraction = float64(smoke) / float64(n)
	}

	c.windowStartTick = currentTick
	c.spawned = 0
	c.expired = 0
	c.live = c.live[:0]
	c.commandsApplied = 0
	c.commandErrors = 0
	c.stepErrors = 0

	return s
}

// Resume continues counting from a saved tick and simulated time, starting
// a fresh window.
func (c *Collector) Resume(tick int32, simTimeMS float64) {
	c.windowStartTick = tick
	c.simTimeMS = simTimeMS
	c.spawned = 0
	c.expired = 0
	c.live = c.live[:0]
	c.commandsApplied = 0
	c.commandErrors = 0
	c.stepErrors = 0
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int32 {
	return c.windowTicks
}

// SimTimeMS returns the total simulated time recorded so far.
func (c *Collector) SimTimeMS() float64 {
	return c.simTimeMS
}
