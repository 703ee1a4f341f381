package board

// GenerateAll emits every pseudo-legal move for the side to move (captures,
// quiets, promotions, en passant, castling), with ordering scores attached
// per spec.md §4.4: MVV-LVA for captures, queen-promotion/knight-promotion
// bonuses, killer-move scores at the position's current ply, and history
// scores for remaining quiets. Legality is NOT checked here — Position.DoMove
// is the single source of truth for legality (spec.md §4.2/§7.2).
func GenerateAll(pos *Position, list *MoveList) {
	generatePawnMoves(pos, list, true)
	generatePieceMoves(pos, list, true)
	generateCastling(pos, list)
}

// GenerateNoisy emits only captures, promotions, and en passant — the move
// set quiescence search walks.
func GenerateNoisy(pos *Position, list *MoveList) {
	generatePawnMoves(pos, list, false)
	generatePieceMoves(pos, list, false)
}

func scoreCapture(attacker, victim PieceType) int32 {
	return int32(1_000_000 + PieceValueMg[victim] + 6 - PieceValueMg[attacker]/100)
}

func scorePromotion(promoted PieceType, isCapture bool, victim PieceType) int32 {
	switch promoted {
	case Queen:
		s := int32(1_100_000)
		if isCapture {
			s += int32(PieceValueMg[victim])
		}
		return s
	case Knight:
		if isCapture {
			return scoreCapture(Pawn, victim) + 5_000
		}
		return 10_000
	default: // Rook, Bishop underpromotions
		if isCapture {
			return scoreCapture(Pawn, victim) - 500_000
		}
		return 0
	}
}

func scoreQuiet(pos *Position, m Move) int32 {
	us := pos.SideToMove
	ply := pos.Ply
	if ply < MaxPly {
		if pos.KillerMoves[0][ply] == m {
			return 900_000
		}
		if pos.KillerMoves[1][ply] == m {
			return 800_000
		}
	}
	return pos.HistoryScores[us][m.From()][m.To()]
}

// generatePawnMoves emits pawn pushes/captures/promotions/en-passant for the
// side to move. When includeQuiets is true, quiets are included too.
func generatePawnMoves(pos *Position, list *MoveList, includeQuiets bool) {
	us := pos.SideToMove
	them := us.Other()
	pawns := pos.Pieces[us][Pawn]
	enemies := pos.Occupied[them]
	occupied := pos.AllOccupied
	empty := ^occupied

	var push1, push2, attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	promoPush := push1 & promotionRank
	for bb := promoPush; bb != 0; {
		to := bb.PopLSB()
		from := Square(int(to) - pushDir)
		addPromotions(list, from, to, NoPieceType, false)
	}

	promoL := attackL & promotionRank
	for bb := promoL; bb != 0; {
		to := bb.PopLSB()
		from := Square(int(to) - pushDir + 1)
		addPromotions(list, from, to, pos.SquareToType[to], true)
	}

	promoR := attackR & promotionRank
	for bb := promoR; bb != 0; {
		to := bb.PopLSB()
		from := Square(int(to) - pushDir - 1)
		addPromotions(list, from, to, pos.SquareToType[to], true)
	}

	nonPromoL := attackL &^ promotionRank
	for bb := nonPromoL; bb != 0; {
		to := bb.PopLSB()
		from := Square(int(to) - pushDir + 1)
		victim := pos.SquareToType[to]
		list.AddScored(NewCapture(from, to, Pawn, victim), scoreCapture(Pawn, victim))
	}

	nonPromoR := attackR &^ promotionRank
	for bb := nonPromoR; bb != 0; {
		to := bb.PopLSB()
		from := Square(int(to) - pushDir - 1)
		victim := pos.SquareToType[to]
		list.AddScored(NewCapture(from, to, Pawn, victim), scoreCapture(Pawn, victim))
	}

	if pos.EnPassant != NoSquare {
		epBB := SquareBB(pos.EnPassant)
		var epAttackers Bitboard
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			from := epAttackers.PopLSB()
			m := NewEnPassant(from, pos.EnPassant)
			list.AddScored(m, scoreCapture(Pawn, Pawn))
		}
	}

	if !includeQuiets {
		return
	}

	nonPromo := push1 &^ promotionRank
	for bb := nonPromo; bb != 0; {
		to := bb.PopLSB()
		from := Square(int(to) - pushDir)
		m := NewMove(from, to, Pawn)
		list.AddScored(m, scoreQuiet(pos, m))
	}

	for bb := push2; bb != 0; {
		to := bb.PopLSB()
		from := Square(int(to) - 2*pushDir)
		m := NewDoublePush(from, to)
		list.AddScored(m, scoreQuiet(pos, m))
	}
}

// addPromotions emits the four promotion choices for a from/to pair.
func addPromotions(list *MoveList, from, to Square, victim PieceType, isCapture bool) {
	for _, pt := range [4]PieceType{Queen, Rook, Bishop, Knight} {
		var m Move
		if isCapture {
			m = NewPromotion(from, to, victim, pt)
		} else {
			m = NewPromotion(from, to, NoPieceType, pt)
		}
		list.AddScored(m, scorePromotion(pt, isCapture, victim))
	}
}

// generatePieceMoves emits knight/bishop/rook/queen/king moves.
func generatePieceMoves(pos *Position, list *MoveList, includeQuiets bool) {
	us := pos.SideToMove
	them := us.Other()
	occupied := pos.AllOccupied
	own := pos.Occupied[us]
	enemies := pos.Occupied[them]

	genFor := func(pt PieceType, attacksFn func(Square) Bitboard) {
		bb := pos.Pieces[us][pt]
		for bb != 0 {
			from := bb.PopLSB()
			attacks := attacksFn(from) &^ own
			captures := attacks & enemies
			for captures != 0 {
				to := captures.PopLSB()
				victim := pos.SquareToType[to]
				list.AddScored(NewCapture(from, to, pt, victim), scoreCapture(pt, victim))
			}
			if includeQuiets {
				quiets := attacks &^ enemies
				for quiets != 0 {
					to := quiets.PopLSB()
					m := NewMove(from, to, pt)
					list.AddScored(m, scoreQuiet(pos, m))
				}
			}
		}
	}

	genFor(Knight, func(sq Square) Bitboard { return KnightAttacks(sq) })
	genFor(Bishop, func(sq Square) Bitboard { return BishopAttacks(sq, occupied) })
	genFor(Rook, func(sq Square) Bitboard { return RookAttacks(sq, occupied) })
	genFor(Queen, func(sq Square) Bitboard { return QueenAttacks(sq, occupied) })
	genFor(King, func(sq Square) Bitboard { return KingAttacks(sq) })
}

// generateCastling emits castling moves: the right bit must be set, the
// intervening squares empty, and neither the king's home square nor any
// square it passes through attacked. The destination square's safety is
// checked separately by DoMove's legality filter.
func generateCastling(pos *Position, list *MoveList) {
	us := pos.SideToMove
	them := us.Other()

	if us == White {
		if pos.CastlingRights&WhiteKingSideCastle != 0 &&
			pos.AllOccupied&(SquareBB(F1)|SquareBB(G1)) == 0 &&
			!pos.IsSquareAttacked(E1, them) && !pos.IsSquareAttacked(F1, them) && !pos.IsSquareAttacked(G1, them) {
			m := NewCastle(E1, G1)
			list.AddScored(m, scoreQuiet(pos, m))
		}
		if pos.CastlingRights&WhiteQueenSideCastle != 0 &&
			pos.AllOccupied&(SquareBB(B1)|SquareBB(C1)|SquareBB(D1)) == 0 &&
			!pos.IsSquareAttacked(E1, them) && !pos.IsSquareAttacked(D1, them) && !pos.IsSquareAttacked(C1, them) {
			m := NewCastle(E1, C1)
			list.AddScored(m, scoreQuiet(pos, m))
		}
		return
	}

	if pos.CastlingRights&BlackKingSideCastle != 0 &&
		pos.AllOccupied&(SquareBB(F8)|SquareBB(G8)) == 0 &&
		!pos.IsSquareAttacked(E8, them) && !pos.IsSquareAttacked(F8, them) && !pos.IsSquareAttacked(G8, them) {
		m := NewCastle(E8, G8)
		list.AddScored(m, scoreQuiet(pos, m))
	}
	if pos.CastlingRights&BlackQueenSideCastle != 0 &&
		pos.AllOccupied&(SquareBB(B8)|SquareBB(C8)|SquareBB(D8)) == 0 &&
		!pos.IsSquareAttacked(E8, them) && !pos.IsSquareAttacked(D8, them) && !pos.IsSquareAttacked(C8, them) {
		m := NewCastle(E8, C8)
		list.AddScored(m, scoreQuiet(pos, m))
	}
}

// LegalMoves generates all legal moves for the side to move, filtering
// GenerateAll's pseudo-legal output through DoMove/UndoMove. Used by the SAN
// and perft-by-division helpers; the search's hot path never calls this —
// it walks GenerateAll directly and lets DoMove discover illegality.
func (p *Position) LegalMoves() *MoveList {
	var all MoveList
	GenerateAll(p, &all)

	legal := &MoveList{}
	for i := 0; i < all.Len(); i++ {
		m := all.Get(i)
		if p.DoMove(m) {
			p.UndoMove()
			legal.AddScored(m, all.Score(i))
		}
	}
	return legal
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	var list MoveList
	GenerateAll(p, &list)
	for i := 0; i < list.Len(); i++ {
		if p.DoMove(list.Get(i)) {
			p.UndoMove()
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDraw returns true if the position is a draw by stalemate, the fifty-move
// rule, insufficient material, or threefold repetition.
func (p *Position) IsDraw() bool {
	if p.FiftyMove >= 100 {
		return true
	}
	if p.IsInsufficientMaterial() || p.IsRepetition() {
		return true
	}
	return p.IsStalemate()
}
