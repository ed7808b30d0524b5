package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated particle statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeMS       float64 `csv:"sim_time_ms"`

	// Membership changes during window
	Spawned int `csv:"spawned"`
	Expired int `csv:"expired"`

	// Population over the window, sampled once per tick
	Live     int     `csv:"live"` // At window end
	LiveMean float64 `csv:"live_mean"`
	LiveStd  float64 `csv:"live_std"`
	LivePeak int     `csv:"live_peak"`

	// Distribution at window end
	ProgressMean  float64 `csv:"progress_mean"`
	ProgressP10   float64 `csv:"progress_p10"`
	ProgressP50   float64 `csv:"progress_p50"`
	ProgressP90   float64 `csv:"progress_p90"`
	AlphaMean     float64 `csv:"alpha_mean"`
	SizeMean      float64 `csv:"size_mean"`
	SmokeFraction float64 `csv:"smoke_fraction"`

	// Control plane
	CommandsApplied int `csv:"commands_applied"`
	CommandErrors   int `csv:"command_errors"`
	StepErrors      int `csv:"step_errors"`
}

// Percentile returns the p-th empirical quantile of a sorted slice.
// p is clamped to [0, 1], NaN counting as 0. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if !(p > 0) {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Distribution returns the mean and the 10th, 50th and 90th percentiles.
// values is not modified.
func Distribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return stat.Mean(sorted, nil), Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time_ms", s.SimTimeMS),
		slog.Int("spawned", s.Spawned),
		slog.Int("expired", s.Expired),
		slog.Int("live", s.Live),
		slog.Float64("live_mean", s.LiveMean),
		slog.Float64("live_std", s.LiveStd),
		slog.Int("live_peak", s.LivePeak),
		slog.Float64("progress_mean", s.ProgressMean),
		slog.Float64("progress_p50", s.ProgressP50),
		slog.Float64("alpha_mean", s.AlphaMean),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("smoke_fraction", s.SmokeFraction),
		slog.Int("commands_applied", s.CommandsApplied),
		slog.Int("command_errors", s.CommandErrors),
		slog.Int("step_errors", s.StepErrors),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
