package telemetry

import (
	"testing"
	"time"
)

// runFrames times n ticks, sleeping the given duration inside each phase.
func runFrames(pc *PerfCollector, n int, phases map[Phase]time.Duration) {
	for i := 0; i < n; i++ {
		pc.StartTick()
		for _, phase := range Phases {
			d, ok := phases[phase]
			if !ok {
				continue
			}
			pc.StartPhase(phase)
			time.Sleep(d)
		}
		pc.EndTick()
	}
}

func TestPerfCollectorTracksSimulationPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	runFrames(pc, 5, map[Phase]time.Duration{
		PhaseMutate: 200 * time.Microsecond,
		PhaseSort:   100 * time.Microsecond,
	})

	stats := pc.Stats()
	if stats.AvgTickDuration < 300*time.Microsecond {
		t.Errorf("average tick %v shorter than the phases slept", stats.AvgTickDuration)
	}
	for _, phase := range []Phase{PhaseMutate, PhaseSort} {
		if stats.PhaseAvg[phase] <= 0 {
			t.Errorf("phase %s not timed: %v", phase, stats.PhaseAvg)
		}
	}
	if stats.PhaseAvg[PhaseEmit] != 0 || stats.PhasePct[PhaseEmit] != 0 {
		t.Errorf("emit never started but was reported: %v", stats.PhaseAvg)
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("min/avg/max out of order: %v %v %v",
			stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollectorWindowOverwrites(t *testing.T) {
	pc := NewPerfCollector(5)
	runFrames(pc, 12, map[Phase]time.Duration{PhaseEmit: 10 * time.Microsecond})

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("no tick time after the window wrapped")
	}
	if stats.TicksPerSecond <= 0 {
		t.Errorf("ticks per second = %v", stats.TicksPerSecond)
	}
}

func TestPerfCollectorSortDominates(t *testing.T) {
	pc := NewPerfCollector(10)
	runFrames(pc, 5, map[Phase]time.Duration{
		PhaseEmit: 10 * time.Microsecond,
		PhaseSort: 500 * time.Microsecond,
	})

	pct := pc.Stats().PhasePct
	if pct[PhaseSort] <= pct[PhaseEmit] {
		t.Errorf("sort %.1f%% should exceed emit %.1f%%", pct[PhaseSort], pct[PhaseEmit])
	}
	if total := pct[PhaseSort] + pct[PhaseEmit]; total > 100.5 {
		t.Errorf("phase shares sum to %.1f%%", total)
	}
}

func TestPerfCollectorNoSamples(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector reported timings: %+v", stats)
	}
	if stats.PhaseAvg != (PhaseDurations{}) || stats.MinTickDuration != 0 {
		t.Errorf("empty collector reported phases: %+v", stats)
	}
}

func TestPerfCollectorFrameRate(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(20 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 20*time.Millisecond {
		t.Errorf("frame duration = %v, want at least 20ms", stats.FrameDuration)
	}
	// Sleep can overrun, so only the upper bound on FPS holds.
	if stats.FPS <= 0 || stats.FPS > 50 {
		t.Errorf("fps = %v, want in (0, 50]", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct: [NumPhases]float64{
			PhaseEmit:   5,
			PhaseMutate: 40,
			PhaseSort:   30,
			PhaseDraw:   25,
		},
	}
	row := s.ToCSV(120)
	if row.WindowEnd != 120 || row.AvgTickUS != 2000 {
		t.Errorf("unexpected header fields: %+v", row)
	}
	if row.EmitPct != 5 || row.MutatePct != 40 || row.SortPct != 30 || row.DrawPct != 25 {
		t.Errorf("phase percentages not carried: %+v", row)
	}
	if row.AgePct != 0 {
		t.Errorf("untracked phase should be zero, got %v", row.AgePct)
	}
}

func TestPerfCollectorTickWithoutPhases(t *testing.T) {
	pc := NewPerfCollector(3)
	pc.StartTick()
	pc.EndTick()

	if phases := pc.Stats().PhaseAvg; phases != (PhaseDurations{}) {
		t.Errorf("expected no phases, got %v", phases)
	}
}

func TestPhaseNames(t *testing.T) {
	if len(Phases) != NumPhases {
		t.Fatalf("Phases lists %d of %d phases", len(Phases), NumPhases)
	}
	for i, phase := range Phases {
		if int(phase) != i {
			t.Errorf("Phases[%d] = %s, out of frame order", i, phase)
		}
	}
	if PhaseSort.String() != "sort" || PhaseDraw.String() != "draw" {
		t.Errorf("unexpected names %s, %s", PhaseSort, PhaseDraw)
	}
	if got := Phase(200).String(); got != "Phase(200)" {
		t.Errorf("unknown phase = %q", got)
	}
}

func TestPerfCollectorIgnoresUnknownPhase(t *testing.T) {
	pc := NewPerfCollector(2)
	pc.StartTick()
	pc.StartPhase(PhaseEmit)
	time.Sleep(50 * time.Microsecond)
	pc.StartPhase(Phase(NumPhases))
	time.Sleep(50 * time.Microsecond)
	pc.EndTick()

	stats := pc.Stats()
	if stats.PhaseAvg[PhaseEmit] <= 0 {
		t.Error("emit not timed before the unknown phase")
	}
	if stats.PhaseAvg[PhaseEmit] >= stats.AvgTickDuration {
		t.Errorf("unknown phase time charged to emit: %v of %v", stats.PhaseAvg[PhaseEmit], stats.AvgTickDuration)
	}
}
