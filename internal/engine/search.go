package engine

import (
	"time"

	"github.com/hailam/chessplay/internal/board"
)

// Search tuning constants, bit-exact per spec.md §6's numeric constants table.
const (
	WindowDepth          = 5
	WindowSize           = 5
	RazorDepth           = 1
	RazorMargin          = 350
	BetaPruningDepth     = 8
	BetaMargin           = 85
	NullMovePruningDepth = 2
	FutilityMargin       = 600

	nodeCheckInterval = 2048
)

// SearchInfo is reported once per completed iterative-deepening iteration.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
}

// mateIn/matedIn translate a ply distance into a mate score, per spec.md's
// value encoding (mate_in(k) = MATE - k, stored toward the root).
func mateIn(ply int) int  { return board.ValueMate - ply }
func matedIn(ply int) int { return -board.ValueMate + ply }

// Searcher runs alpha-beta search with iterative deepening over a single
// mutable Position. It is not safe for concurrent use — spec.md §5 mandates
// a single-threaded cooperative scheduling model: one Position, one writer
// into the transposition table, no internal goroutines.
type Searcher struct {
	pos *board.Position
	tt  *TranspositionTable

	nodes     uint64
	stopped   bool
	startTime time.Time
	tm        *TimeManager
	pawnCache *PawnCache

	rootBestMove board.Move
	rootPV       []board.Move

	pvTable [board.MaxPly][board.MaxPly]board.Move
	pvLen   [board.MaxPly]int

	// OnIteration, when set, is called after each completed iterative
	// deepening depth with the reportable SearchInfo.
	OnIteration func(SearchInfo)
}

// NewSearcher creates a searcher bound to a transposition table. Bind it to
// a position with SetPosition before calling Start.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{tt: tt, pawnCache: NewPawnCache(16384)}
}

// evaluate scores the current position through EvaluateWithPawnCache,
// passing the searcher's pawn-structure cache, which that function does not
// read or write.
func (s *Searcher) evaluate() int {
	return EvaluateWithPawnCache(s.pos, s.pawnCache)
}

// SetPosition binds the searcher to pos, which it mutates in place via
// DoMove/UndoMove for the duration of the search.
func (s *Searcher) SetPosition(pos *board.Position) {
	s.pos = pos
}

// Stop requests cooperative cancellation; the search polls this every
// nodeCheckInterval nodes and at each recursive return site.
func (s *Searcher) Stop() {
	s.stopped = true
}

func (s *Searcher) Stopped() bool { return s.stopped }

func (s *Searcher) Nodes() uint64 { return s.nodes }

// clearForNewSearch clears killers/history and resets ply, matching the
// iterative-deepening driver's clear_history/clear_killers/reset-ply step.
func (s *Searcher) clearForNewSearch() {
	s.pos.KillerMoves = [2][board.MaxPly]board.Move{}
	s.pos.HistoryScores = [2][64][64]int32{}
	s.pos.Ply = 0
	s.nodes = 0
	s.stopped = false
	s.tt.NewSearch()
}

// Start runs iterative deepening from depth 1 to limits.Depth (or until time
// runs out / stopped), returning the best move and score from the deepest
// completed iteration. A zero limits.Depth means search to MaxPly-1.
func (s *Searcher) Start(limits UCILimits) (board.Move, int) {
	s.clearForNewSearch()
	s.startTime = time.Now()
	s.tm = NewTimeManager()
	s.tm.Init(limits, s.pos.SideToMove)

	depthLimit := limits.Depth
	if depthLimit <= 0 || depthLimit > board.MaxPly-1 {
		depthLimit = board.MaxPly - 1
	}

	score := 0
	bestMove := board.NoMove
	bestPV := []board.Move(nil)

	for depth := 1; depth <= depthLimit; depth++ {
		iterScore := s.aspirationWindow(depth, score)
		if s.stopped {
			break
		}
		score = iterScore
		bestMove = s.rootBestMove
		bestPV = append([]board.Move(nil), s.rootPV...)

		if s.OnIteration != nil {
			s.OnIteration(SearchInfo{
				Depth: depth,
				Score: score,
				Nodes: s.nodes,
				Time:  time.Since(s.startTime),
				PV:    bestPV,
			})
		}

		if s.tm.ShouldStop() {
			break
		}
	}

	s.stopped = true
	return bestMove, score
}

// aspirationWindow narrows the search window around the previous
// iteration's score, widening and re-searching on fail-high/fail-low.
func (s *Searcher) aspirationWindow(depth, previous int) int {
	alpha, beta := -board.ValueInfinite, board.ValueInfinite
	delta := 5

	if depth >= WindowDepth {
		alpha = previous - delta
		beta = previous + delta
	}

	for {
		value := s.search(alpha, beta, depth, 0, true)
		if s.stopped {
			return value
		}

		if value <= alpha {
			beta = (alpha + beta) / 2
			alpha = value - delta
			if alpha < -board.ValueInfinite {
				alpha = -board.ValueInfinite
			}
		} else if value >= beta {
			beta = value + delta
			if beta > board.ValueInfinite {
				beta = board.ValueInfinite
			}
		} else {
			return value
		}

		delta += delta / 2
	}
}

func (s *Searcher) checkTime() {
	if s.nodes%nodeCheckInterval != 0 {
		return
	}
	if s.tm.ShouldStop() {
		s.stopped = true
	}
}

// search implements search<NT>(alpha, beta, depth, pos, info, null_ok) for
// both the PV and NonPV node kinds, selected implicitly by beta-alpha>1.
func (s *Searcher) search(alpha, beta, depth, ply int, nullOk bool) int {
	isPV := beta-alpha > 1
	root := ply == 0

	if depth <= 0 {
		return s.quiescence(alpha, beta, ply)
	}

	s.nodes++
	s.checkTime()
	if s.stopped {
		return 0
	}

	if !root {
		if s.pos.IsRepetition() || s.pos.FiftyMove >= 100 || s.pos.IsInsufficientMaterial() {
			return 0
		}
		if ply >= board.MaxPly-1 {
			return s.evaluate()
		}

		if a := matedIn(ply); a > alpha {
			alpha = a
		}
		if b := mateIn(ply + 1); b < beta {
			beta = b
		}
		if alpha >= beta {
			return alpha
		}
	}

	origAlpha := alpha

	if isPV {
		s.pvLen[ply] = 0
	}

	var ttMove board.Move
	eval := s.evaluate()

	if entry, hit := s.tt.Probe(s.pos.Hash); hit {
		ttMove = entry.BestMove
		ttValue := AdjustScoreFromTT(int(entry.Score), ply)
		eval = ttValue

		if int(entry.Depth) >= depth {
			switch entry.Flag {
			case TTExact:
				return ttValue
			case TTLowerBound:
				if ttValue > alpha {
					alpha = ttValue
				}
			case TTUpperBound:
				if ttValue < beta {
					beta = ttValue
				}
			}
			if alpha >= beta {
				return ttValue
			}
		}
	}

	inCheck := s.pos.InCheck()

	if !isPV && !inCheck {
		if depth <= RazorDepth && eval+RazorMargin < alpha {
			return s.quiescence(alpha, beta, ply)
		}

		if depth <= BetaPruningDepth && eval-BetaMargin*depth > beta {
			return eval
		}

		if nullOk && depth >= NullMovePruningDepth && ply > 0 &&
			eval >= beta && s.pos.HasNonPawnMaterial() {
			r := 4 + depth/6
			if bonus := (eval - beta) / 200; bonus < 3 {
				r += bonus
			} else {
				r += 3
			}
			reducedDepth := depth - r
			if reducedDepth < 0 {
				reducedDepth = 0
			}

			u := s.pos.DoNullMove()
			nullValue := -s.search(-beta, -beta+1, reducedDepth, ply+1, false)
			s.pos.UndoNullMove(u)

			if s.stopped {
				return 0
			}
			if nullValue >= beta {
				if nullValue > board.ValueMateInMaxPly {
					nullValue = beta
				}
				return nullValue
			}
		}
	}

	if inCheck {
		depth++
	}

	var moves board.MoveList
	board.GenerateAll(s.pos, &moves)
	if ttMove != board.NoMove {
		for i := 0; i < moves.Len(); i++ {
			if moves.Get(i) == ttMove {
				moves.SetScore(i, 2_000_000)
				break
			}
		}
	}

	legalCount := 0
	quietCount := 0
	bestValue := -board.ValueInfinite
	bestMove := board.NoMove

	for i := 0; i < moves.Len(); i++ {
		moves.PickMove(i)
		m := moves.Get(i)

		if !s.pos.DoMove(m) {
			continue
		}
		legalCount++
		quiet := m.IsQuiet()
		if quiet {
			quietCount++
		}

		if depth == 1 && quiet && !inCheck && !isAdvancedPawnPush(m) &&
			eval+FutilityMargin <= alpha && eval < board.ValueKnownWin {
			s.pos.UndoMove()
			continue
		}

		var value int
		if legalCount > 1 && depth > 2 && quiet && !inCheck {
			reduction := 2
			if quietCount > 6 {
				reduction = depth/3 + 1
			}
			newDepth := depth - 1 - reduction
			if newDepth < 1 {
				newDepth = 1
			}
			value = -s.search(-alpha-1, -alpha, newDepth, ply+1, true)
			if value > alpha {
				value = -s.search(-beta, -alpha, depth-1, ply+1, true)
			}
		} else {
			value = -s.search(-beta, -alpha, depth-1, ply+1, true)
		}

		s.pos.UndoMove()

		if s.stopped {
			return 0
		}

		if value > bestValue {
			bestValue = value
			bestMove = m

			if value > alpha {
				alpha = value
				if isPV {
					s.pvTable[ply][0] = m
					copy(s.pvTable[ply][1:], s.pvTable[ply+1][:s.pvLen[ply+1]])
					s.pvLen[ply] = 1 + s.pvLen[ply+1]
				}
				if root {
					s.rootBestMove = m
					s.rootPV = append([]board.Move(nil), s.pvTable[0][:s.pvLen[0]]...)
				}
			}

			if alpha >= beta {
				if quiet {
					s.updateKillers(ply, m)
					s.pos.HistoryScores[s.pos.SideToMove][m.From()][m.To()] += int32(depth * depth)
				}
				break
			}
		}
	}

	if legalCount == 0 {
		if inCheck {
			return matedIn(ply)
		}
		return 0
	}

	if root && bestMove != board.NoMove {
		s.pos.BestMoveRoot = bestMove
	}

	flag := TTUpperBound
	if bestValue >= beta {
		flag = TTLowerBound
	} else if bestValue > origAlpha {
		flag = TTExact
	}
	s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(bestValue, ply), flag, bestMove)

	return bestValue
}

// quiescence implements qsearch(alpha, beta, pos, info).
func (s *Searcher) quiescence(alpha, beta, ply int) int {
	s.nodes++
	s.checkTime()
	if s.stopped {
		return 0
	}

	if s.pos.IsRepetition() || s.pos.FiftyMove >= 100 || s.pos.IsInsufficientMaterial() {
		return 0
	}
	if ply >= board.MaxPly-1 {
		return s.evaluate()
	}

	if entry, hit := s.tt.Probe(s.pos.Hash); hit {
		ttValue := AdjustScoreFromTT(int(entry.Score), ply)
		switch entry.Flag {
		case TTExact:
			return ttValue
		case TTLowerBound:
			if ttValue > alpha {
				alpha = ttValue
			}
		case TTUpperBound:
			if ttValue < beta {
				beta = ttValue
			}
		}
		if alpha >= beta {
			return ttValue
		}
	}

	standPat := s.evaluate()
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	var moves board.MoveList
	board.GenerateNoisy(s.pos, &moves)

	for i := 0; i < moves.Len(); i++ {
		moves.PickMove(i)
		m := moves.Get(i)

		if !s.pos.DoMove(m) {
			continue
		}
		score := -s.quiescence(-beta, -alpha, ply+1)
		s.pos.UndoMove()

		if s.stopped {
			return 0
		}
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// updateKillers pushes m onto ply's two-entry killer shift register,
// skipping if m is already slot 0 (no duplicates).
func (s *Searcher) updateKillers(ply int, m board.Move) {
	if ply >= board.MaxPly {
		return
	}
	if s.pos.KillerMoves[0][ply] == m {
		return
	}
	s.pos.KillerMoves[1][ply] = s.pos.KillerMoves[0][ply]
	s.pos.KillerMoves[0][ply] = m
}

// isAdvancedPawnPush reports whether m pushes a pawn to the 7th/2nd rank
// (one step from promotion), exempting it from frontier futility pruning.
func isAdvancedPawnPush(m board.Move) bool {
	if m.MovedType() != board.Pawn {
		return false
	}
	r := m.To().Rank()
	return r == 6 || r == 1
}
