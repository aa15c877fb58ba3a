// Package tetris implements a deterministic, fixed-timestep Tetris simulation:
// piece geometry and wall-kick rotation, playfield collision and line clearing,
// a lock-delay state machine and a two-bag randomizer. The package contains
// pure game logic with no external dependencies; the platform layer handles
// input mapping, timing, and terminal rendering.
package tetris

// TileColor is the color of a filled playfield tile, or TileEmpty.
type TileColor int8

const (
	TileEmpty TileColor = iota - 1
	TileCyan
	TileBlue
	TileOrange
	TileYellow
	TileGreen
	TilePurple
	TileRed
)

// PieceKind identifies one of the seven tetromino kinds, or KindNone.
type PieceKind int8

const (
	KindNone PieceKind = iota - 1
	KindI
	KindJ
	KindL
	KindO
	KindS
	KindT
	KindZ
)

// NumKinds is the number of distinct tetromino kinds.
const NumKinds = 7

// String returns the conventional one-letter name of the kind.
func (k PieceKind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	case KindO:
		return "O"
	case KindS:
		return "S"
	case KindT:
		return "T"
	case KindZ:
		return "Z"
	default:
		return "none"
	}
}

// Rotation is a rotation direction.
type Rotation int8

const (
	RotateRight Rotation = iota // clockwise
	RotateLeft                  // counterclockwise
)

// Offset is a (row, col) translation, used for wall-kick candidates.
type Offset struct {
	Row, Col int
}

// numStates is the number of rotation states a piece cycles through.
const numStates = 4

// Wall-kick candidate tables, indexed by the pre-rotation state.
// Each row lists translations to try in order; the first is always (0,0),
// so an unobstructed rotation never moves the piece. The I piece has its
// own asymmetric tables, the five J/L/S/T/Z kinds share one.
var kicksIRight = [numStates][5]Offset{
	{{0, 0}, {0, -2}, {0, 1}, {1, -2}, {-2, 1}},
	{{0, 0}, {0, -1}, {0, 2}, {-2, -1}, {1, 2}},
	{{0, 0}, {0, 2}, {0, -1}, {-1, 2}, {2, -1}},
	{{0, 0}, {0, 1}, {0, -2}, {2, 1}, {-1, -2}},
}

var kicksILeft = [numStates][5]Offset{
	{{0, 0}, {0, -1}, {0, 2}, {-2, -1}, {1, 2}},
	{{0, 0}, {0, 2}, {0, -1}, {-1, 2}, {2, -1}},
	{{0, 0}, {0, 1}, {0, -2}, {2, 1}, {-1, -2}},
	{{0, 0}, {0, -2}, {0, 1}, {1, -2}, {-2, 1}},
}

var kicksOtherRight = [numStates][5]Offset{
	{{0, 0}, {0, 1}, {-1, -1}, {2, 0}, {2, -1}},
	{{0, 0}, {0, 1}, {1, 1}, {-2, 0}, {-2, 1}},
	{{0, 0}, {0, 1}, {-1, 1}, {2, 0}, {2, 1}},
	{{0, 0}, {0, -1}, {1, -1}, {-2, 0}, {-2, -1}},
}

var kicksOtherLeft = [numStates][5]Offset{
	{{0, 0}, {0, 1}, {-1, 1}, {2, 0}, {2, 1}},
	{{0, 0}, {0, -1}, {1, 1}, {-2, 0}, {-2, 1}},
	{{0, 0}, {0, -1}, {-1, -1}, {2, 0}, {2, -1}},
	{{0, 0}, {0, -1}, {1, -1}, {-2, 0}, {-2, -1}},
}

// geometry is the static spawn-orientation description of a piece kind.
type geometry struct {
	bBoxSide   int
	rows, cols int      // trimmed extent, used for the next-piece preview
	cells      []Offset // occupied cells within the bounding box at spawn
}

var geometries = [NumKinds]geometry{
	KindI: {bBoxSide: 4, rows: 1, cols: 4, cells: []Offset{{1, 0}, {1, 1}, {1, 2}, {1, 3}}},
	KindJ: {bBoxSide: 3, rows: 2, cols: 3, cells: []Offset{{0, 0}, {1, 0}, {1, 1}, {1, 2}}},
	KindL: {bBoxSide: 3, rows: 2, cols: 3, cells: []Offset{{0, 2}, {1, 0}, {1, 1}, {1, 2}}},
	KindO: {bBoxSide: 2, rows: 2, cols: 2, cells: []Offset{{0, 0}, {0, 1}, {1, 0}, {1, 1}}},
	KindS: {bBoxSide: 3, rows: 2, cols: 3, cells: []Offset{{0, 1}, {0, 2}, {1, 0}, {1, 1}}},
	KindT: {bBoxSide: 3, rows: 2, cols: 3, cells: []Offset{{0, 1}, {1, 0}, {1, 1}, {1, 2}}},
	KindZ: {bBoxSide: 3, rows: 2, cols: 3, cells: []Offset{{0, 0}, {0, 1}, {1, 1}, {1, 2}}},
}

// Piece is a tetromino in a specific rotation state. The zero value is not
// useful; construct with NewPiece. Rotation produces a new Piece, leaving
// the receiver untouched.
type Piece struct {
	kind     PieceKind
	color    TileColor
	bBoxSide int
	shape    []TileColor // bBoxSide×bBoxSide grid, row-major
	state    int         // rotation state in [0, numStates)
}

// NewPiece constructs a piece of the given kind in its spawn orientation.
// KindNone yields the empty sentinel piece with no shape.
func NewPiece(kind PieceKind) Piece {
	p := Piece{kind: kind, color: TileColor(kind)}
	if kind == KindNone {
		return p
	}

	geo := geometries[kind]
	p.bBoxSide = geo.bBoxSide
	p.shape = make([]TileColor, geo.bBoxSide*geo.bBoxSide)
	for i := range p.shape {
		p.shape[i] = TileEmpty
	}
	for _, c := range geo.cells {
		p.shape[c.Row*geo.bBoxSide+c.Col] = p.color
	}
	return p
}

// Kind returns the piece kind.
func (p Piece) Kind() PieceKind { return p.kind }

// Color returns the piece color.
func (p Piece) Color() TileColor { return p.color }

// BBoxSide returns the side length of the piece's bounding box.
func (p Piece) BBoxSide() int { return p.bBoxSide }

// State returns the rotation state in [0, 3].
func (p Piece) State() int { return p.state }

// TileAt returns the tile color at (row, col) within the bounding box,
// or TileEmpty for unoccupied or out-of-box coordinates.
func (p Piece) TileAt(row, col int) TileColor {
	if row < 0 || row >= p.bBoxSide || col < 0 || col >= p.bBoxSide {
		return TileEmpty
	}
	return p.shape[row*p.bBoxSide+col]
}

// PreviewSize returns the trimmed rows×cols extent of the spawn orientation,
// used to center the next-piece preview.
func (p Piece) PreviewSize() (rows, cols int) {
	if p.kind == KindNone {
		return 0, 0
	}
	geo := geometries[p.kind]
	return geo.rows, geo.cols
}

// PreviewTileAt reports whether (row, col) of the trimmed spawn orientation
// is occupied. Coordinates are relative to the trimmed extent, so the top
// occupied row of the bounding box maps to row 0.
func (p Piece) PreviewTileAt(row, col int) bool {
	if p.kind == KindNone {
		return false
	}
	geo := geometries[p.kind]
	minRow, minCol := geo.bBoxSide, geo.bBoxSide
	for _, c := range geo.cells {
		minRow = min(minRow, c.Row)
		minCol = min(minCol, c.Col)
	}
	for _, c := range geo.cells {
		if c.Row-minRow == row && c.Col-minCol == col {
			return true
		}
	}
	return false
}

// Rotated returns the piece rotated 90° in the given direction, with the
// rotation state advanced modulo 4. The O piece is rotation-symmetric, so
// its rotation is a no-op.
func (p Piece) Rotated(rot Rotation) Piece {
	if p.kind == KindO || p.kind == KindNone {
		return p
	}

	out := p
	out.shape = rotateShape(p.shape, p.bBoxSide, rot)
	switch rot {
	case RotateRight:
		out.state = (p.state + 1) % numStates
	case RotateLeft:
		out.state = (p.state + numStates - 1) % numStates
	}
	return out
}

// rotateShape returns a new shape grid rotated 90° in the given direction.
// Rotation is a transpose combined with a row or column reversal; the input
// is never modified.
func rotateShape(shape []TileColor, side int, rot Rotation) []TileColor {
	out := make([]TileColor, len(shape))
	index := 0
	switch rot {
	case RotateRight:
		for col := side - 1; col >= 0; col-- {
			for row := 0; row < side; row++ {
				out[row*side+col] = shape[index]
				index++
			}
		}
	case RotateLeft:
		for col := 0; col < side; col++ {
			for row := side - 1; row >= 0; row-- {
				out[row*side+col] = shape[index]
				index++
			}
		}
	}
	return out
}

// Kicks returns the wall-kick candidates for rotating from the current state
// in the given direction, in the order they must be tried. The O and none
// kinds have no kick tables; requesting them is a caller contract violation.
func (p Piece) Kicks(rot Rotation) []Offset {
	if p.kind == KindO || p.kind == KindNone {
		panic("tetris: no kick table for kind " + p.kind.String())
	}

	var table *[numStates][5]Offset
	if p.kind == KindI {
		if rot == RotateRight {
			table = &kicksIRight
		} else {
			table = &kicksILeft
		}
	} else {
		if rot == RotateRight {
			table = &kicksOtherRight
		} else {
			table = &kicksOtherLeft
		}
	}
	return table[p.state][:]
}
