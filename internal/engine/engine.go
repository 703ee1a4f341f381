package engine

import (
	"log"

	"github.com/hailam/chessplay/internal/board"
)

// EngineInfo is the UCI-facing form of the Searcher's SearchInfo: the same
// fields, with Time in milliseconds, plus HashFull.
type EngineInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     int64 // milliseconds
	PV       []board.Move
	HashFull int
}

// Engine wraps a single Searcher over one transposition table. Per
// spec.md §5's concurrency model, search is strictly single-threaded and
// cooperative: one Position, one writer into the TT, cancellation via a
// polled stop flag.
type Engine struct {
	tt       *TranspositionTable
	searcher *Searcher

	// OnInfo, when set, is called once per completed iterative-deepening
	// depth during Search.
	OnInfo func(EngineInfo)
}

// NewEngine creates a new chess engine with the given transposition table
// size in MB.
func NewEngine(ttSizeMB int) *Engine {
	tt := NewTranspositionTable(ttSizeMB)
	e := &Engine{
		tt:       tt,
		searcher: NewSearcher(tt),
	}
	log.Printf("[Engine] Ready (hash=%dMB)", ttSizeMB)
	return e
}

// Search runs iterative deepening on pos under limits and returns the best
// move found in the deepest completed iteration.
func (e *Engine) Search(pos *board.Position, limits UCILimits) board.Move {
	e.searcher.SetPosition(pos)
	e.searcher.OnIteration = func(info SearchInfo) {
		if e.OnInfo != nil {
			e.OnInfo(EngineInfo{
				Depth:    info.Depth,
				Score:    info.Score,
				Nodes:    info.Nodes,
				Time:     info.Time.Milliseconds(),
				PV:       info.PV,
				HashFull: e.tt.HashFull(),
			})
		}
	}

	move, _ := e.searcher.Start(limits)
	return move
}

// Stop requests cooperative cancellation of the current search.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Clear resets the transposition table and pawn cache for a new game.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.searcher.pawnCache.Clear()
}

// Perft counts leaf nodes at depth below pos, for move-generation testing.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.LegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		pos.DoMove(m)
		nodes += e.Perft(pos, depth-1)
		pos.UndoMove()
	}

	return nodes
}

// Evaluate returns the static evaluation of a position, from the side to
// move's perspective.
func (e *Engine) Evaluate(pos *board.Position) int {
	return EvaluateWithPawnCache(pos, e.searcher.pawnCache)
}

// ScoreToString renders a centipawn or mate score for human-readable
// output (e.g. the "d" debug command).
func ScoreToString(score int) string {
	if score > board.ValueMateInMaxPly {
		mateIn := (board.ValueMate - score + 1) / 2
		return "Mate in " + itoa(mateIn)
	}
	if score < -board.ValueMateInMaxPly {
		mateIn := (board.ValueMate + score + 1) / 2
		return "Mated in " + itoa(mateIn)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	return sign + itoa(pawns) + "." + itoa(centipawns)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string('0'+byte(n%10)) + s
		n /= 10
	}
	return s
}
