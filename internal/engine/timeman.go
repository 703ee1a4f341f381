package engine

import (
	"time"

	"github.com/hailam/chessplay/internal/board"
)

// UCILimits carries a `go` command's time-control parameters.
type UCILimits struct {
	Time      [2]time.Duration // wtime, btime
	Inc       [2]time.Duration // winc, binc
	MovesToGo int              // 0 = sudden death
	MoveTime  time.Duration    // fixed time per move, overrides the clock
	Depth     int
	Nodes     uint64
	Infinite  bool
}

// TimeManager computes a single stop_time budget for one search, per
// spec.md §5: stop_time = start + budget + inc, budget = wtime/movestogo -
// 50ms (movestogo = 1 if only movetime is given).
type TimeManager struct {
	startTime time.Time
	stopTime  time.Time
	bounded   bool
}

// NewTimeManager creates an unstarted time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init starts the clock and computes the stop_time for the given limits and
// side to move. Infinite and depth-only searches have no stop_time.
func (tm *TimeManager) Init(limits UCILimits, us board.Color) {
	tm.startTime = time.Now()
	tm.bounded = false

	if limits.Infinite {
		return
	}

	var budget, inc time.Duration
	switch {
	case limits.MoveTime > 0:
		budget = limits.MoveTime
	case limits.Time[us] > 0:
		movesToGo := limits.MovesToGo
		if movesToGo <= 0 {
			movesToGo = 30
		}
		budget = limits.Time[us]/time.Duration(movesToGo) - 50*time.Millisecond
		if budget < time.Millisecond {
			budget = time.Millisecond
		}
		inc = limits.Inc[us]
	default:
		return
	}

	tm.bounded = true
	tm.stopTime = tm.startTime.Add(budget + inc)
}

// Elapsed returns the time elapsed since the search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// ShouldStop reports whether stop_time has passed. Unbounded (infinite or
// depth-only) searches never stop on time.
func (tm *TimeManager) ShouldStop() bool {
	return tm.bounded && time.Now().After(tm.stopTime)
}
