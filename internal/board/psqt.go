package board

// Piece-square tables, grounded bit-exact on the source engine's psqt.cpp.
// Bonus[pt][rank][min(file, 7-file)] holds a (mid, end) pair for files a..d on White's
// side of the board; the table is mirrored for files e..h and for Black.
// PBonus[rank][file] is the pawn table, which (unlike the other piece types)
// is not left/right symmetric.

const (
	PhaseMid = 0
	PhaseEnd = 1
)

var bonus = [7][8][4][2]int{
	Knight: {
		{{-169, -105}, {-96, -74}, {-80, -46}, {-79, -18}},
		{{-79, -70}, {-39, -56}, {-24, -15}, {-9, 6}},
		{{-64, -38}, {-20, -33}, {4, -5}, {19, 27}},
		{{-28, -36}, {5, 0}, {41, 13}, {47, 34}},
		{{-29, -41}, {13, -20}, {42, 4}, {52, 35}},
		{{-11, -51}, {28, -38}, {63, -17}, {55, 19}},
		{{-67, -64}, {-21, -45}, {6, -37}, {37, 16}},
		{{-200, -98}, {-80, -89}, {-53, -53}, {-32, -16}},
	},
	Bishop: {
		{{-44, -63}, {-4, -30}, {-11, -35}, {-28, -8}},
		{{-18, -38}, {7, -13}, {14, -14}, {3, 0}},
		{{-8, -18}, {24, 0}, {-3, -7}, {15, 13}},
		{{1, -26}, {8, -3}, {26, 1}, {37, 16}},
		{{-7, -24}, {30, -6}, {23, -10}, {28, 17}},
		{{-17, -26}, {4, 2}, {-1, 1}, {8, 16}},
		{{-21, -34}, {-19, -18}, {10, -7}, {-6, 9}},
		{{-48, -51}, {-3, -40}, {-12, -39}, {-25, -20}},
	},
	Rook: {
		{{-24, -2}, {-13, -6}, {-7, -3}, {2, -2}},
		{{-18, -10}, {-10, -7}, {-5, 1}, {9, 0}},
		{{-21, 10}, {-7, -4}, {3, 2}, {-1, -2}},
		{{-13, -5}, {-5, 2}, {-4, -8}, {-6, 8}},
		{{-24, -8}, {-12, 5}, {-1, 4}, {6, -9}},
		{{-24, 3}, {-4, -2}, {4, -10}, {10, 7}},
		{{-8, 1}, {6, 2}, {10, 17}, {12, -8}},
		{{-22, 12}, {-24, -6}, {-6, 13}, {4, 7}},
	},
	Queen: {
		{{3, -69}, {-5, -57}, {-5, -47}, {4, -26}},
		{{-3, -55}, {5, -31}, {8, -22}, {12, -4}},
		{{-3, -39}, {6, -18}, {13, -9}, {7, 3}},
		{{4, -23}, {5, -3}, {9, 13}, {8, 24}},
		{{0, -29}, {14, -6}, {12, 9}, {5, 21}},
		{{-4, -38}, {10, -18}, {6, -12}, {8, 1}},
		{{-5, -50}, {6, -27}, {10, -24}, {8, -8}},
		{{-2, -75}, {-2, -52}, {1, -43}, {-2, -36}},
	},
	King: {
		{{272, 0}, {325, 41}, {273, 80}, {190, 93}},
		{{277, 57}, {305, 98}, {241, 138}, {183, 131}},
		{{198, 86}, {253, 138}, {168, 165}, {120, 173}},
		{{169, 103}, {191, 152}, {136, 168}, {108, 169}},
		{{145, 98}, {176, 166}, {112, 197}, {69, 194}},
		{{122, 87}, {159, 164}, {85, 174}, {36, 189}},
		{{87, 40}, {120, 99}, {64, 128}, {25, 141}},
		{{64, 5}, {87, 60}, {49, 75}, {0, 75}},
	},
}

var pBonus = [8][8][2]int{
	1: {{0, -10}, {-5, -3}, {10, 7}, {13, -1}, {21, 7}, {17, 6}, {6, 1}, {-3, -20}},
	2: {{-11, -6}, {-10, -6}, {15, -1}, {22, -1}, {26, -1}, {28, 2}, {4, -2}, {-24, -5}},
	3: {{-9, 4}, {-18, -5}, {8, -4}, {22, -5}, {33, -6}, {25, -13}, {-4, -3}, {-16, -7}},
	4: {{6, 18}, {-3, 2}, {-10, 2}, {1, -9}, {12, -13}, {6, -8}, {-12, 11}, {1, 9}},
	5: {{-6, 25}, {-8, 17}, {5, 19}, {11, 29}, {-14, 29}, {0, 8}, {-12, 4}, {-14, 12}},
	6: {{-10, -1}, {6, -6}, {-5, 18}, {-11, 22}, {-2, 22}, {-14, 17}, {12, 2}, {-1, 9}},
}

// psq[color][pieceType][square][phase] is the fully expanded table: material
// value plus positional bonus, signed so that White values are positive.
var psq [2][7][64][2]int

func init() {
	initPSQT()
}

func initPSQT() {
	for pt := Pawn; pt <= King; pt++ {
		for sq := A1; sq <= H8; sq++ {
			f := sq.File()
			mf := f
			if mf > 3 {
				mf = 7 - mf
			}
			r := sq.Rank()

			var midBonus, endBonus int
			if pt == Pawn {
				midBonus = pBonus[r][f][PhaseMid]
				endBonus = pBonus[r][f][PhaseEnd]
			} else {
				midBonus = bonus[pt][r][mf][PhaseMid]
				endBonus = bonus[pt][r][mf][PhaseEnd]
			}

			mg := PieceValueMg[pt] + midBonus
			eg := PieceValueEg[pt] + endBonus

			psq[White][pt][sq][PhaseMid] = mg
			psq[White][pt][sq][PhaseEnd] = eg

			mirrored := sq.Mirror()
			psq[Black][pt][mirrored][PhaseMid] = -mg
			psq[Black][pt][mirrored][PhaseEnd] = -eg
		}
	}
}

// PSQTValue returns the signed (White-positive) piece-square value for a
// piece of the given color/type on sq, at the given phase (PhaseMid/PhaseEnd).
func PSQTValue(c Color, pt PieceType, sq Square, phase int) int {
	return psq[c][pt][sq][phase]
}
