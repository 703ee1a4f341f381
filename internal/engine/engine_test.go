package engine

import (
	"testing"
	"time"

	"github.com/hailam/chessplay/internal/board"
)

func TestSearchBasic(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16)

	move := eng.Search(pos, UCILimits{Depth: 4})
	if move == board.NoMove {
		t.Error("Search returned NoMove for starting position")
	}
	t.Logf("Best move: %s", move.String())
}

func TestSearchReportsIterations(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16)

	var depths []int
	eng.OnInfo = func(info EngineInfo) {
		depths = append(depths, info.Depth)
	}

	eng.Search(pos, UCILimits{Depth: 4})

	if len(depths) == 0 {
		t.Fatal("expected at least one reported iteration")
	}
	for i, d := range depths {
		if d != i+1 {
			t.Errorf("expected depth %d reported in order, got %d at index %d", i+1, d, i)
		}
	}
}

func TestSearchRespectsMoveTime(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16)

	start := time.Now()
	move := eng.Search(pos, UCILimits{MoveTime: 200 * time.Millisecond})
	elapsed := time.Since(start)

	if move == board.NoMove {
		t.Error("Search returned NoMove for starting position")
	}
	if elapsed > 2*time.Second {
		t.Errorf("search overran its time budget: took %v", elapsed)
	}
}

func TestSearchVariousPositions(t *testing.T) {
	positions := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3", // Italian Game
		"8/8/8/4k3/8/4K3/4P3/8 w - - 0 1",                                  // KP endgame
	}

	eng := NewEngine(16)

	for i, fen := range positions {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatalf("Failed to parse position %d: %v", i, err)
		}

		move := eng.Search(pos, UCILimits{Depth: 5, MoveTime: 300 * time.Millisecond})
		if move == board.NoMove {
			if !pos.InCheck() || pos.LegalMoves().Len() > 0 {
				t.Errorf("Position %d: Search returned NoMove", i)
			}
		} else {
			t.Logf("Position %d: best move = %s", i, move.String())
		}
	}
}

func TestPawnCache(t *testing.T) {
	cache := NewPawnCache(1024)

	pos := board.NewPosition()

	if _, _, found := cache.Probe(pos.PawnKey); found {
		t.Error("expected cache miss on first probe")
	}

	cache.Store(pos.PawnKey, -15, -20)

	mg, eg, found := cache.Probe(pos.PawnKey)
	if !found {
		t.Error("expected cache hit after store")
	}
	if mg != -15 || eg != -20 {
		t.Errorf("wrong values: got mg=%d, eg=%d, want -15, -20", mg, eg)
	}

	oldKey := pos.PawnKey
	pos.DoMove(board.NewDoublePush(board.E2, board.E4))
	if pos.PawnKey == oldKey {
		t.Error("PawnKey should change when a pawn moves")
	}

	pos.UndoMove()
	if pos.PawnKey != oldKey {
		t.Error("PawnKey should be restored on undo")
	}
}

func TestPerft(t *testing.T) {
	eng := NewEngine(16)
	pos := board.NewPosition()

	// Known perft values for the starting position.
	want := map[int]uint64{
		1: 20,
		2: 400,
		3: 8902,
	}

	for depth, nodes := range want {
		got := eng.Perft(pos, depth)
		if got != nodes {
			t.Errorf("Perft(%d) = %d, want %d", depth, got, nodes)
		}
	}
}
