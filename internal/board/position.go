package board

import "fmt"

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling  CastlingRights = 0
	AllCastling CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// CastlePermTable[sq] is AND-masked into the current castling rights whenever
// a move's from- or to-square equals sq, so a king move, a rook move off its
// home square, or a rook capture on a corner square all clear the relevant
// right(s) through one uniform rule.
var CastlePermTable [64]CastlingRights

func init() {
	for sq := A1; sq <= H8; sq++ {
		CastlePermTable[sq] = AllCastling
	}
	CastlePermTable[A1] = AllCastling &^ WhiteQueenSideCastle
	CastlePermTable[E1] = AllCastling &^ (WhiteKingSideCastle | WhiteQueenSideCastle)
	CastlePermTable[H1] = AllCastling &^ WhiteKingSideCastle
	CastlePermTable[A8] = AllCastling &^ BlackQueenSideCastle
	CastlePermTable[E8] = AllCastling &^ (BlackKingSideCastle | BlackQueenSideCastle)
	CastlePermTable[H8] = AllCastling &^ BlackKingSideCastle
}

// MaxGameLength bounds the do_move/undo_move history ring.
const MaxGameLength = 1024

// Position represents a complete chess position, searched in place: DoMove
// pushes an Undo record and mutates state; UndoMove pops it and reverses
// every field it touched.
type Position struct {
	// Pieces/Occupied/AllOccupied realize the by_color_type aggregate
	// structure: Occupied[c] is the "both" row for color c, and the
	// both-sides aggregate for a piece type is Pieces[White][t]|Pieces[Black][t].
	Pieces      [2][6]Bitboard
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	// SquareToType is the square -> piece-type redundancy array:
	// SquareToType[s] == NoPieceType iff s is empty.
	SquareToType [64]PieceType

	KingSquare [2]Square

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // target square for en passant, NoSquare if none
	FiftyMove      int    // plies since the last pawn move or capture
	Ply            int    // distance from the search root
	HisPly         int    // distance from the game root; indexes History
	FullMoveNumber int    // FEN full-move counter, not itself part of search state

	Hash    uint64 // incremental Zobrist key
	PawnKey uint64 // incremental hash over pawns only, for the pawn cache

	// PSQ is the tapered {mid, end} PSQT+material accumulator, White-positive.
	PSQ [2]int
	// NonPawnMaterial[c] is the midgame value of c's non-pawn, non-king material.
	NonPawnMaterial [2]int

	// History is the do_move/undo_move ring, popped from HisPly-1 by UndoMove.
	History [MaxGameLength]Undo

	Checkers Bitboard // pieces currently giving check to SideToMove

	// Move-ordering state, cleared once per search.
	KillerMoves   [2][MaxPly]Move
	HistoryScores [2][64][64]int32
	PVArray       [MaxPly]Move
	BestMoveRoot  Move
}

// NewPosition creates the standard starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	cp := *p
	return &cp
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	pt := p.SquareToType[sq]
	if pt == NoPieceType {
		return NoPiece
	}
	if p.Occupied[White].IsSet(sq) {
		return NewPiece(pt, White)
	}
	return NewPiece(pt, Black)
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.SquareToType[sq] == NoPieceType
}

// setPiece places a piece on a square and updates bitboards, SquareToType,
// PSQ and NonPawnMaterial. Callers own the Zobrist hash, since promotion
// needs to XOR out a different piece than it sets.
func (p *Position) setPiece(pt PieceType, c Color, sq Square) {
	bb := SquareBB(sq)

	p.Pieces[c][pt] |= bb
	p.Occupied[c] |= bb
	p.AllOccupied |= bb
	p.SquareToType[sq] = pt

	p.PSQ[PhaseMid] += PSQTValue(c, pt, sq, PhaseMid)
	p.PSQ[PhaseEnd] += PSQTValue(c, pt, sq, PhaseEnd)

	if pt != Pawn && pt != King {
		p.NonPawnMaterial[c] += PieceValueMg[pt]
	}
	if pt == King {
		p.KingSquare[c] = sq
	}
}

// removePiece removes whatever piece sits on sq and reports its type/color.
func (p *Position) removePiece(sq Square) (PieceType, Color) {
	pt := p.SquareToType[sq]
	bb := SquareBB(sq)
	c := Black
	if p.Occupied[White].IsSet(sq) {
		c = White
	}

	p.Pieces[c][pt] &^= bb
	p.Occupied[c] &^= bb
	p.AllOccupied &^= bb
	p.SquareToType[sq] = NoPieceType

	p.PSQ[PhaseMid] -= PSQTValue(c, pt, sq, PhaseMid)
	p.PSQ[PhaseEnd] -= PSQTValue(c, pt, sq, PhaseEnd)

	if pt != Pawn && pt != King {
		p.NonPawnMaterial[c] -= PieceValueMg[pt]
	}

	return pt, c
}

// movePiece relocates a piece from one square to another, keeping bitboards,
// SquareToType, PSQ and the Zobrist/pawn hashes in sync.
func (p *Position) movePiece(from, to Square) {
	pt := p.SquareToType[from]
	c := Black
	if p.Occupied[White].IsSet(from) {
		c = White
	}
	moveBB := SquareBB(from) | SquareBB(to)

	p.Pieces[c][pt] ^= moveBB
	p.Occupied[c] ^= moveBB
	p.AllOccupied ^= moveBB
	p.SquareToType[from] = NoPieceType
	p.SquareToType[to] = pt

	p.PSQ[PhaseMid] += PSQTValue(c, pt, to, PhaseMid) - PSQTValue(c, pt, from, PhaseMid)
	p.PSQ[PhaseEnd] += PSQTValue(c, pt, to, PhaseEnd) - PSQTValue(c, pt, from, PhaseEnd)

	p.Hash ^= ZobristPiece(c, pt, from) ^ ZobristPiece(c, pt, to)
	if pt == Pawn {
		p.PawnKey ^= ZobristPiece(c, pt, from) ^ ZobristPiece(c, pt, to)
	}

	if pt == King {
		p.KingSquare[c] = to
	}
}

// updateOccupied recalculates occupancy bitboards from the piece bitboards.
func (p *Position) updateOccupied() {
	p.Occupied[White] = Empty
	p.Occupied[Black] = Empty
	for pt := Pawn; pt <= King; pt++ {
		p.Occupied[White] |= p.Pieces[White][pt]
		p.Occupied[Black] |= p.Pieces[Black][pt]
	}
	p.AllOccupied = p.Occupied[White] | p.Occupied[Black]
}

// findKings locates and caches the king squares.
func (p *Position) findKings() {
	p.KingSquare[White] = p.Pieces[White][King].LSB()
	p.KingSquare[Black] = p.Pieces[Black][King].LSB()
}

// rebuildSquareToType regenerates SquareToType/PSQ/NonPawnMaterial from the
// piece bitboards; used once after FEN parsing populates Pieces directly.
func (p *Position) rebuildSquareToType() {
	for sq := A1; sq <= H8; sq++ {
		p.SquareToType[sq] = NoPieceType
	}
	p.PSQ = [2]int{}
	p.NonPawnMaterial = [2]int{}

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				p.SquareToType[sq] = pt
				p.PSQ[PhaseMid] += PSQTValue(c, pt, sq, PhaseMid)
				p.PSQ[PhaseEnd] += PSQTValue(c, pt, sq, PhaseEnd)
				if pt != Pawn && pt != King {
					p.NonPawnMaterial[c] += PieceValueMg[pt]
				}
			}
		}
	}
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			piece := p.PieceAt(sq)
			if piece == NoPiece {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", p.SideToMove)
	s += fmt.Sprintf("Castling: %s\n", p.CastlingRights)
	s += fmt.Sprintf("En passant: %s\n", p.EnPassant)
	s += fmt.Sprintf("Fifty-move: %d\n", p.FiftyMove)
	s += fmt.Sprintf("Hash: %016x\n", p.Hash)
	return s
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	*p = Position{EnPassant: NoSquare, FullMoveNumber: 1}
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare
	for sq := A1; sq <= H8; sq++ {
		p.SquareToType[sq] = NoPieceType
	}
}

// Validate checks structural invariants; meant for debug assertions, not the
// hot path.
func (p *Position) Validate() error {
	if p.Pieces[White][King].PopCount() != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if p.Pieces[Black][King].PopCount() != 1 {
		return fmt.Errorf("black must have exactly one king")
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawns cannot be on rank 1 or 8")
	}
	for sq := A1; sq <= H8; sq++ {
		want := p.SquareToType[sq]
		occupied := p.AllOccupied.IsSet(sq)
		if want == NoPieceType && occupied {
			return fmt.Errorf("square %s occupied but SquareToType says empty", sq)
		}
		if want != NoPieceType && !occupied {
			return fmt.Errorf("square %s empty but SquareToType says %s", sq, want)
		}
	}
	return nil
}

// GameOver returns true if the game is over by checkmate or one of the
// recognized draw conditions (stalemate, fifty-move, insufficient material,
// threefold repetition).
func (p *Position) GameOver() bool {
	return p.IsCheckmate() || p.IsDraw()
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.Checkers != 0
}

// Material returns the midgame material balance (positive favors White); a
// diagnostic helper, not part of the tapered evaluator.
func (p *Position) Material() int {
	score := 0
	for pt := Pawn; pt < King; pt++ {
		score += p.Pieces[White][pt].PopCount() * PieceValueMg[pt]
		score -= p.Pieces[Black][pt].PopCount() * PieceValueMg[pt]
	}
	return score
}

// ComputePinned computes the pieces pinned to the side-to-move's king, using
// Stockfish-style x-ray sniper detection.
func (p *Position) ComputePinned() Bitboard {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]
	pinned := Bitboard(0)

	snipers := RookAttacks(ksq, 0) & (p.Pieces[them][Rook] | p.Pieces[them][Queen])
	for snipers != 0 {
		sq := snipers.PopLSB()
		blockers := Between(sq, ksq) & p.AllOccupied
		if blockers.PopCount() == 1 && blockers&p.Occupied[us] != 0 {
			pinned |= blockers
		}
	}

	snipers = BishopAttacks(ksq, 0) & (p.Pieces[them][Bishop] | p.Pieces[them][Queen])
	for snipers != 0 {
		sq := snipers.PopLSB()
		blockers := Between(sq, ksq) & p.AllOccupied
		if blockers.PopCount() == 1 && blockers&p.Occupied[us] != 0 {
			pinned |= blockers
		}
	}

	return pinned
}

// HasNonPawnMaterial returns true if the side to move holds non-pawn, non-king
// material (gates null-move pruning away from pure pawn endgames/zugzwang risk).
func (p *Position) HasNonPawnMaterial() bool {
	us := p.SideToMove
	return p.Pieces[us][Knight]|p.Pieces[us][Bishop]|p.Pieces[us][Rook]|p.Pieces[us][Queen] != 0
}

// IsInsufficientMaterial reports draws by insufficient material: K v K,
// K+minor v K, or K+B v K+B with same-colored bishops.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 {
		return false
	}
	if p.Pieces[White][Rook]|p.Pieces[Black][Rook]|p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}
	wMinors := p.Pieces[White][Knight].PopCount() + p.Pieces[White][Bishop].PopCount()
	bMinors := p.Pieces[Black][Knight].PopCount() + p.Pieces[Black][Bishop].PopCount()
	if wMinors == 0 && bMinors == 0 {
		return true
	}
	if wMinors+bMinors == 1 {
		return true
	}
	if wMinors == 1 && bMinors == 1 && p.Pieces[White][Knight] == 0 && p.Pieces[Black][Knight] == 0 {
		wb := p.Pieces[White][Bishop].LSB()
		bb := p.Pieces[Black][Bishop].LSB()
		wDark := (wb.File()+wb.Rank())%2 == 0
		bDark := (bb.File()+bb.Rank())%2 == 0
		return wDark == bDark
	}
	return false
}

// IsRepetition reports whether the current key has already occurred at least
// twice since the last irreversible move, i.e. this occurrence would be the
// third.
func (p *Position) IsRepetition() bool {
	if p.FiftyMove < 4 || p.HisPly < 4 {
		return false
	}
	start := p.HisPly - p.FiftyMove
	if start < 0 {
		start = 0
	}
	count := 0
	for i := p.HisPly - 2; i >= start; i -= 2 {
		if p.History[i].PosKey == p.Hash {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

// DoMove applies a pseudo-legal move in place. It returns false (and reverts
// the position back to how it was before the call) if the move leaves the
// mover's own king in check: pseudo-legal generation plus a do_move legality
// filter is the single source of truth for legality.
func (p *Position) DoMove(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()

	if DebugMoveValidation {
		Assert(p.SquareToType[from] == m.MovedType(), "moved piece type does not match the from square")
	}

	u := &p.History[p.HisPly]
	u.Move = m
	u.CastlePerm = p.CastlingRights
	u.EnPassant = p.EnPassant
	u.FiftyMove = p.FiftyMove
	u.PosKey = p.Hash
	u.PawnKey = p.PawnKey

	if p.EnPassant != NoSquare {
		p.Hash ^= ZobristEnPassant(p.EnPassant.File())
	}
	p.Hash ^= ZobristCastling(p.CastlingRights)

	p.FiftyMove++
	p.EnPassant = NoSquare

	switch {
	case m.IsCastle():
		p.movePiece(from, to)
		switch to {
		case G1:
			p.movePiece(H1, F1)
		case C1:
			p.movePiece(A1, D1)
		case G8:
			p.movePiece(H8, F8)
		case C8:
			p.movePiece(A8, D8)
		}
	case m.IsEnPassant():
		p.movePiece(from, to)
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		pt, c := p.removePiece(capSq)
		p.Hash ^= ZobristPiece(c, pt, capSq)
		p.PawnKey ^= ZobristPiece(c, pt, capSq)
	case m.IsPromotion():
		if m.IsCapture() {
			cpt, cc := p.removePiece(to)
			p.Hash ^= ZobristPiece(cc, cpt, to)
		}
		_, c := p.removePiece(from)
		p.Hash ^= ZobristPiece(c, Pawn, from)
		p.PawnKey ^= ZobristPiece(c, Pawn, from)
		p.setPiece(m.PromotedType(), c, to)
		p.Hash ^= ZobristPiece(c, m.PromotedType(), to)
	default:
		if m.IsCapture() {
			cpt, cc := p.removePiece(to)
			p.Hash ^= ZobristPiece(cc, cpt, to)
			if cpt == Pawn {
				p.PawnKey ^= ZobristPiece(cc, cpt, to)
			}
		}
		p.movePiece(from, to)
	}

	if m.MovedType() == Pawn || m.IsCapture() {
		p.FiftyMove = 0
	}

	if m.IsDoublePush() {
		if us == White {
			p.EnPassant = from + 8
		} else {
			p.EnPassant = from - 8
		}
		p.Hash ^= ZobristEnPassant(p.EnPassant.File())
	}

	p.CastlingRights &= CastlePermTable[from] & CastlePermTable[to]
	p.Hash ^= ZobristCastling(p.CastlingRights)

	p.SideToMove = them
	p.Hash ^= ZobristSideToMove()

	p.HisPly++
	p.Ply++

	if DebugMoveValidation {
		Assert(p.Hash == p.ComputeHash(), "incremental Zobrist key differs from a full recomputation")
	}

	p.UpdateCheckers()

	if p.isKingAttacked(us) {
		p.UndoMove()
		return false
	}

	return true
}

// UndoMove reverses the most recent DoMove.
func (p *Position) UndoMove() {
	p.HisPly--
	p.Ply--

	u := p.History[p.HisPly]
	m := u.Move

	them := p.SideToMove
	us := them.Other()
	from, to := m.From(), m.To()

	switch {
	case m.IsCastle():
		p.movePiece(to, from)
		switch to {
		case G1:
			p.movePiece(F1, H1)
		case C1:
			p.movePiece(D1, A1)
		case G8:
			p.movePiece(F8, H8)
		case C8:
			p.movePiece(D8, A8)
		}
	case m.IsEnPassant():
		p.movePiece(to, from)
		capSq := to - 8
		if us == Black {
			capSq = to + 8
		}
		p.setPiece(Pawn, them, capSq)
	case m.IsPromotion():
		p.removePiece(to)
		p.setPiece(Pawn, us, from)
		if m.IsCapture() {
			p.setPiece(m.CapturedType(), them, to)
		}
	default:
		p.movePiece(to, from)
		if m.IsCapture() {
			p.setPiece(m.CapturedType(), them, to)
		}
	}

	p.SideToMove = us
	p.CastlingRights = u.CastlePerm
	p.EnPassant = u.EnPassant
	p.FiftyMove = u.FiftyMove
	p.Hash = u.PosKey
	p.PawnKey = u.PawnKey

	p.UpdateCheckers()
}

// isKingAttacked reports whether c's king square is attacked by the opponent.
func (p *Position) isKingAttacked(c Color) bool {
	return p.AttackersByColor(p.KingSquare[c], c.Other(), p.AllOccupied) != 0
}

// NullMoveUndo holds the minimal state DoNullMove needs to restore, kept
// separate from the main History ring since a null move has no Move value
// and its call sites always pair DoNullMove with UndoNullMove immediately.
type NullMoveUndo struct {
	EnPassant Square
	Hash      uint64
	Ply       int
}

// DoNullMove passes the turn without moving a piece, for null-move pruning.
// Callers must guard against calling this while in check; DoNullMove itself
// performs no legality check.
func (p *Position) DoNullMove() NullMoveUndo {
	u := NullMoveUndo{EnPassant: p.EnPassant, Hash: p.Hash, Ply: p.Ply}

	if p.EnPassant != NoSquare {
		p.Hash ^= ZobristEnPassant(p.EnPassant.File())
		p.EnPassant = NoSquare
	}
	p.SideToMove = p.SideToMove.Other()
	p.Hash ^= ZobristSideToMove()
	p.Ply++

	p.UpdateCheckers()

	return u
}

// UndoNullMove reverses a DoNullMove.
func (p *Position) UndoNullMove(u NullMoveUndo) {
	p.SideToMove = p.SideToMove.Other()
	p.EnPassant = u.EnPassant
	p.Hash = u.Hash
	p.Ply = u.Ply

	p.UpdateCheckers()
}
