package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/campfire/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinguished     BookmarkType = "extinguished"
	BookmarkRekindled        BookmarkType = "rekindled"
	BookmarkSmokeBurst       BookmarkType = "smoke_burst"
	BookmarkSteadyBurn       BookmarkType = "steady_burn"
	BookmarkSettingsRejected BookmarkType = "settings_rejected"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	SimTimeMS   float64      `csv:"sim_time_ms" json:"sim_time_ms"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"sim_time_ms", b.SimTimeMS,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in the fire's behaviour.
type BookmarkDetector struct {
	thresholds config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	burning            bool // Particles were live at the last window end
	seen               bool // At least one window checked
	steadyWindowsCount int  // Consecutive windows with a steady population
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, thresholds config.BookmarksConfig) *BookmarkDetector {
	if historySize < 4 {
		historySize = 4 // steady burn compares the last 4 windows
	}
	if thresholds.SteadyBurn.Windows < 1 {
		thresholds.SteadyBurn.Windows = 1
	}
	return &BookmarkDetector{
		thresholds:  thresholds,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.seen {
		// Fire went out or came back
		if b := bd.checkTransition(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Smoke fraction spiked above the rolling average
		if b := bd.checkSmokeBurst(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Population held steady over several windows
		if b := bd.checkSteadyBurn(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	if b := bd.checkSettingsRejected(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	bd.burning = stats.Live > 0
	bd.seen = true

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the most recent windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	size := bd.historyIdx
	if bd.historyFull {
		size = bd.historySize
	}
	n = min(n, size)
	out := make([]WindowStats, n)
	for i := 0; i < n; i++ {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) checkTransition(stats WindowStats) *Bookmark {
	switch {
	case bd.burning && stats.Live == 0:
		return &Bookmark{
			Type:        BookmarkExtinguished,
			Tick:        stats.WindowEndTick,
			SimTimeMS:   stats.SimTimeMS,
			Description: fmt.Sprintf("Fire went out after %d expired this window", stats.Expired),
		}
	case !bd.burning && stats.Live > 0:
		return &Bookmark{
			Type:        BookmarkRekindled,
			Tick:        stats.WindowEndTick,
			SimTimeMS:   stats.SimTimeMS,
			Description: fmt.Sprintf("Fire rekindled with %d particles", stats.Live),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSmokeBurst(stats WindowStats) *Bookmark {
	history := bd.recent(bd.historySize)
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.SmokeFraction
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	th := bd.thresholds.SmokeBurst
	if stats.SmokeFraction > avg*th.Multiplier && stats.SmokeFraction >= th.MinFraction {
		return &Bookmark{
			Type:        BookmarkSmokeBurst,
			Tick:        stats.WindowEndTick,
			SimTimeMS:   stats.SimTimeMS,
			Description: fmt.Sprintf("Smoke fraction %.2f is %.1fx average (%.2f)", stats.SmokeFraction, stats.SmokeFraction/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSteadyBurn(stats WindowStats) *Bookmark {
	th := bd.thresholds.SteadyBurn
	if stats.Live < th.MinLive {
		bd.steadyWindowsCount = 0
		return nil
	}

	history := bd.recent(4)
	if len(history) < 4 {
		return nil
	}

	var sum float64
	for _, h := range history {
		sum += h.LiveMean
	}
	mean := sum / 4
	var variance float64
	for _, h := range history {
		d := h.LiveMean - mean
		variance += d * d
	}
	variance /= 4

	// Squared coefficient of variation against the squared threshold
	if mean > 0 && variance/(mean*mean) < th.MaxCV*th.MaxCV {
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == th.Windows {
		return &Bookmark{
			Type:        BookmarkSteadyBurn,
			Tick:        stats.WindowEndTick,
			SimTimeMS:   stats.SimTimeMS,
			Description: fmt.Sprintf("Steady burn around %.0f particles over %d windows", mean, th.Windows),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSettingsRejected(stats WindowStats) *Bookmark {
	if stats.CommandErrors == 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkSettingsRejected,
		Tick:        stats.WindowEndTick,
		SimTimeMS:   stats.SimTimeMS,
		Description: fmt.Sprintf("%d of %d settings changes rejected", stats.CommandErrors, stats.CommandErrors+stats.CommandsApplied),
	}
}
