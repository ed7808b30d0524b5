package telemetry

import (
	"fmt"
	"log/slog"
	"time"
)

// Phase is one timed section of a frame.
type Phase uint8

// Phases of one frame, in the order they run.
const (
	PhaseCommands Phase = iota
	PhaseEmit
	PhaseAge
	PhaseMutate
	PhaseSort
	PhaseExtract
	PhaseTelemetry
	PhaseDraw

	NumPhases = int(PhaseDraw) + 1
)

var phaseNames = [NumPhases]string{
	"commands", "emit", "age", "mutate", "sort", "extract", "telemetry", "draw",
}

// Phases lists every phase in frame order.
var Phases = []Phase{
	PhaseCommands, PhaseEmit, PhaseAge, PhaseMutate,
	PhaseSort, PhaseExtract, PhaseTelemetry, PhaseDraw,
}

// String returns the phase's log and CSV name.
func (p Phase) String() string {
	if int(p) < NumPhases {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// PhaseDurations holds one duration per phase.
type PhaseDurations [NumPhases]time.Duration

type frameSample struct {
	total  time.Duration
	phases PhaseDurations
}

// PerfCollector keeps per-phase frame timings for the last windowSize
// frames. A frame runs from StartTick to EndTick. Each StartPhase closes
// the phase before it.
type PerfCollector struct {
	ring  []frameSample
	next  int
	count int

	open       frameSample
	frameStart time.Time
	phaseStart time.Time
	running    Phase
	inPhase    bool

	lastPresent time.Time
	presentGap  time.Duration
}

// NewPerfCollector returns a collector over windowSize frames; a size
// below 1 selects 60.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]frameSample, windowSize)}
}

// StartTick opens a new frame sample.
func (p *PerfCollector) StartTick() {
	p.frameStart = time.Now()
	p.open = frameSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	if int(phase) >= NumPhases {
		return
	}
	p.running = phase
	p.phaseStart = now
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.open.phases[p.running] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// EndTick closes the frame sample and stores it in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.open.total = now.Sub(p.frameStart)

	p.ring[p.next] = p.open
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame records the wall time between successive presented frames.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastPresent.IsZero() {
		p.presentGap = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// PerfStats summarises the frames in the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	// Mean time per phase and its share of the mean frame
	PhaseAvg PhaseDurations
	PhasePct [NumPhases]float64

	// Present-to-present time, zero when headless
	FrameDuration time.Duration
	FPS           float64
}

// Stats summarises the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{FrameDuration: p.presentGap}
	if p.presentGap > 0 {
		out.FPS = float64(time.Second) / float64(p.presentGap)
	}
	if p.count == 0 {
		return out
	}

	var total time.Duration
	var phases PhaseDurations
	out.MinTickDuration = p.ring[0].total
	for _, s := range p.ring[:p.count] {
		total += s.total
		out.MinTickDuration = min(out.MinTickDuration, s.total)
		out.MaxTickDuration = max(out.MaxTickDuration, s.total)
		for i, d := range s.phases {
			phases[i] += d
		}
	}

	n := time.Duration(p.count)
	out.AvgTickDuration = total / n
	for i := range phases {
		out.PhaseAvg[i] = phases[i] / n
	}
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
		for i, d := range out.PhaseAvg {
			out.PhasePct[i] = 100 * float64(d) / float64(out.AvgTickDuration)
		}
	}
	return out
}

// LogStats logs the window at info level. Phases under 0.1% are left out.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 5+NumPhases)
	attrs = append(attrs,
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	)
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		attrs = append(attrs, slog.Float64(phase.String()+"_pct", s.PhasePct[phase]))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	CommandsPct  float64 `csv:"commands_pct"`
	EmitPct      float64 `csv:"emit_pct"`
	AgePct       float64 `csv:"age_pct"`
	MutatePct    float64 `csv:"mutate_pct"`
	SortPct      float64 `csv:"sort_pct"`
	ExtractPct   float64 `csv:"extract_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
	DrawPct      float64 `csv:"draw_pct"`
}

// ToCSV flattens s into the row for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		CommandsPct:  pct[PhaseCommands],
		EmitPct:      pct[PhaseEmit],
		AgePct:       pct[PhaseAge],
		MutatePct:    pct[PhaseMutate],
		SortPct:      pct[PhaseSort],
		ExtractPct:   pct[PhaseExtract],
		TelemetryPct: pct[PhaseTelemetry],
		DrawPct:      pct[PhaseDraw],
	}
}
