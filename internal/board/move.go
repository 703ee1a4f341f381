package board

import "fmt"

// Move encodes a chess move in a packed 32-bit integer:
//
//	bits 0-5:   from square (0-63)
//	bits 6-11:  to square (0-63)
//	bits 12-14: moved piece type
//	bits 15-17: captured piece type (NoPieceType if none)
//	bits 18-20: promoted piece type (NoPieceType if none)
//	bit  21:    en passant
//	bit  22:    double pawn push
//	bit  23:    castle
//
// "Capture" and "promotion" are recovered directly from the captured/promoted
// fields rather than by looking the position up again. A move is "noisy" iff
// it is a capture, promotion, en passant, or castle.
type Move uint32

const (
	moveFromShift     = 0
	moveToShift       = 6
	moveMovedShift    = 12
	moveCapturedShift = 15
	movePromoShift    = 18
	moveEPBit         = 1 << 21
	moveDoublePushBit = 1 << 22
	moveCastleBit     = 1 << 23

	moveSquareMask = 0x3F
	movePieceMask  = 0x7
)

// NoMove is the reserved sentinel for "no move".
const NoMove Move = 0

// NewMove builds a plain (non-capture, non-special) move.
func NewMove(from, to Square, moved PieceType) Move {
	return Move(from)<<moveFromShift | Move(to)<<moveToShift | Move(moved)<<moveMovedShift |
		Move(NoPieceType)<<moveCapturedShift | Move(NoPieceType)<<movePromoShift
}

// NewCapture builds a capture move.
func NewCapture(from, to Square, moved, captured PieceType) Move {
	return Move(from)<<moveFromShift | Move(to)<<moveToShift | Move(moved)<<moveMovedShift |
		Move(captured)<<moveCapturedShift | Move(NoPieceType)<<movePromoShift
}

// NewPromotion builds a (possibly capturing) promotion move.
func NewPromotion(from, to Square, captured, promoted PieceType) Move {
	return Move(from)<<moveFromShift | Move(to)<<moveToShift | Move(Pawn)<<moveMovedShift |
		Move(captured)<<moveCapturedShift | Move(promoted)<<movePromoShift
}

// NewEnPassant builds an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return Move(from)<<moveFromShift | Move(to)<<moveToShift | Move(Pawn)<<moveMovedShift |
		Move(Pawn)<<moveCapturedShift | Move(NoPieceType)<<movePromoShift | moveEPBit
}

// NewDoublePush builds a double pawn push move.
func NewDoublePush(from, to Square) Move {
	return Move(from)<<moveFromShift | Move(to)<<moveToShift | Move(Pawn)<<moveMovedShift |
		Move(NoPieceType)<<moveCapturedShift | Move(NoPieceType)<<movePromoShift | moveDoublePushBit
}

// NewCastle builds a castling move (the king's from/to pair).
func NewCastle(from, to Square) Move {
	return Move(from)<<moveFromShift | Move(to)<<moveToShift | Move(King)<<moveMovedShift |
		Move(NoPieceType)<<moveCapturedShift | Move(NoPieceType)<<movePromoShift | moveCastleBit
}

// From returns the origin square.
func (m Move) From() Square {
	return Square((m >> moveFromShift) & moveSquareMask)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> moveToShift) & moveSquareMask)
}

// MovedType returns the type of piece that moved.
func (m Move) MovedType() PieceType {
	return PieceType((m >> moveMovedShift) & movePieceMask)
}

// CapturedType returns the type of piece captured, or NoPieceType.
func (m Move) CapturedType() PieceType {
	return PieceType((m >> moveCapturedShift) & movePieceMask)
}

// PromotedType returns the promoted-to piece type, or NoPieceType.
func (m Move) PromotedType() PieceType {
	return PieceType((m >> movePromoShift) & movePieceMask)
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m&moveEPBit != 0
}

// IsDoublePush returns true if this is a double pawn push.
func (m Move) IsDoublePush() bool {
	return m&moveDoublePushBit != 0
}

// IsCastle returns true if this is a castling move.
func (m Move) IsCastle() bool {
	return m&moveCastleBit != 0
}

// IsPromotion returns true if this move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.PromotedType() != NoPieceType
}

// IsCapture returns true if this move captures a piece (including en passant).
func (m Move) IsCapture() bool {
	return m.CapturedType() != NoPieceType
}

// IsNoisy returns true iff the move is a capture, promotion, en passant, or castle.
func (m Move) IsNoisy() bool {
	return m.IsCapture() || m.IsPromotion() || m.IsCastle()
}

// IsQuiet is the complement of IsNoisy.
func (m Move) IsQuiet() bool {
	return !m.IsNoisy()
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		s += string(m.PromotedType().Char())
	}

	return s
}

// ParseMove parses a UCI format move string against the given position,
// looking the move up among pseudo-legal moves so that flags (en passant,
// castle, double push, captured type) are filled in correctly.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	var promo PieceType
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}

	var list MoveList
	GenerateAll(pos, &list)
	for i := 0; i < list.Len(); i++ {
		m := list.Get(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if promo != NoPieceType {
			if m.PromotedType() == promo {
				return m, nil
			}
			continue
		}
		if !m.IsPromotion() {
			return m, nil
		}
	}

	return NoMove, fmt.Errorf("no pseudo-legal move %s in this position", s)
}

// MoveList is a fixed-size list of moves to avoid allocations. Scores run
// parallel to moves, carrying the ordering score each move was generated
// with (spec.md §4.4: ordering scores are attached at generation time).
type MoveList struct {
	moves  [256]Move
	scores [256]int32
	count  int
}

// Add adds a move with ordering score 0.
func (ml *MoveList) Add(m Move) {
	ml.AddScored(m, 0)
}

// AddScored adds a move along with its ordering score.
func (ml *MoveList) AddScored(m Move, score int32) {
	ml.moves[ml.count] = m
	ml.scores[ml.count] = score
	ml.count++
}

// Score returns the ordering score of the move at index i.
func (ml *MoveList) Score(i int) int32 {
	return ml.scores[i]
}

// SetScore overrides the ordering score of the move at index i (used by
// search to boost the TT move to the sentinel order once it's known).
func (ml *MoveList) SetScore(i int, score int32) {
	ml.scores[i] = score
}

// PickMove selects the highest-scoring move among [i, Len) and swaps it into
// position i (selection-sort-by-swap, spec.md §4.4), avoiding a full sort
// when beta cutoffs make most of the list irrelevant.
func (ml *MoveList) PickMove(i int) {
	best := i
	for j := i + 1; j < ml.count; j++ {
		if ml.scores[j] > ml.scores[best] {
			best = j
		}
	}
	if best != i {
		ml.Swap(i, best)
	}
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves (and their scores) in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
	ml.scores[i], ml.scores[j] = ml.scores[j], ml.scores[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// Undo is the record pushed onto Position.History by DoMove and popped by
// UndoMove. The captured/promoted piece types travel with the move itself,
// so the record only needs to carry what do_move cannot otherwise recover.
type Undo struct {
	Move       Move
	CastlePerm CastlingRights
	EnPassant  Square
	FiftyMove  int
	PosKey     uint64
	PawnKey    uint64
}
