package tetris

// hiddenRows is the number of invisible rows above the skyline that give
// pieces headroom to spawn and rotate before entering the visible field.
const hiddenRows = 2

// Board is the playfield: a tile grid plus the active piece's anchor and
// ghost row. Game rows run from -hiddenRows (top of the hidden buffer) to
// rows-1 (floor); row 0 is the skyline. The board guarantees that whenever
// an active piece exists, its anchor position is collision-free.
type Board struct {
	rows, cols int
	tiles      []TileColor // (rows+hiddenRows)×cols, row-major

	piece    Piece
	row, col int // anchor: top-left of the piece bounding box
	ghostRow int

	linesToClear    []int       // full rows pending removal, in descending order
	tilesAfterClear []TileColor // precomputed grid state once pending rows vanish
}

// NewBoard creates an empty board with the given visible dimensions.
func NewBoard(rows, cols int) *Board {
	b := &Board{
		rows:  rows,
		cols:  cols,
		tiles: make([]TileColor, (rows+hiddenRows)*cols),
		piece: NewPiece(KindNone),
	}
	b.Clear()
	return b
}

// Rows returns the number of visible rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.cols }

// Clear empties every tile, including the hidden rows, and drops any
// pending line clears.
func (b *Board) Clear() {
	for i := range b.tiles {
		b.tiles[i] = TileEmpty
	}
	b.linesToClear = b.linesToClear[:0]
}

// TileAt returns the color of the tile at (row, col). Rows in
// [-hiddenRows, rows) and columns in [0, cols) are addressable.
func (b *Board) TileAt(row, col int) TileColor {
	return b.tiles[(row+hiddenRows)*b.cols+col]
}

func (b *Board) setTile(row, col int, color TileColor) {
	b.tiles[(row+hiddenRows)*b.cols+col] = color
}

// Piece returns the active piece (KindNone when nothing is falling).
func (b *Board) Piece() Piece { return b.piece }

// PieceRow returns the anchor row of the active piece. May be negative while
// the piece is still inside the hidden buffer.
func (b *Board) PieceRow() int { return b.row }

// PieceCol returns the anchor column of the active piece.
func (b *Board) PieceCol() int { return b.col }

// GhostRow returns the deepest collision-free anchor row reachable by pure
// downward translation from the current position.
func (b *Board) GhostRow() int { return b.ghostRow }

// isTileFilled reports whether (row, col) blocks a piece cell. Anything
// outside the playfield, below the floor or above the hidden ceiling counts
// as filled.
func (b *Board) isTileFilled(row, col int) bool {
	if col < 0 || col >= b.cols || row < -hiddenRows || row >= b.rows {
		return true
	}
	return b.TileAt(row, col) != TileEmpty
}

// isPositionPossible reports whether the piece can sit with its bounding box
// anchored at (row, col) without any occupied cell landing on a filled tile.
// The none piece has no valid position.
func (b *Board) isPositionPossible(row, col int, piece Piece) bool {
	if piece.Kind() == KindNone {
		return false
	}
	for pieceRow := 0; pieceRow < piece.bBoxSide; pieceRow++ {
		for pieceCol := 0; pieceCol < piece.bBoxSide; pieceCol++ {
			if piece.shape[pieceRow*piece.bBoxSide+pieceCol] == TileEmpty {
				continue
			}
			if b.isTileFilled(row+pieceRow, col+pieceCol) {
				return false
			}
		}
	}
	return true
}

// SpawnPiece places a fresh piece of the given kind at the top of the board,
// horizontally centered. If the spawn position already collides it returns
// false without mutating anything further, which signals game over upstream.
// Otherwise the piece slides down as far as its natural spawn depth allows
// (one extra row for I, two for the rest) and the ghost row is recomputed.
func (b *Board) SpawnPiece(kind PieceKind) bool {
	b.piece = NewPiece(kind)
	b.row = -hiddenRows
	b.col = (b.cols - b.piece.bBoxSide) / 2

	if !b.isPositionPossible(b.row, b.col, b.piece) {
		return false
	}

	maxMoveDown := 2
	if kind == KindI {
		maxMoveDown = 1
	}
	for moveDown := 0; moveDown < maxMoveDown; moveDown++ {
		if !b.isPositionPossible(b.row+1, b.col, b.piece) {
			break
		}
		b.row++
	}
	b.updateGhostRow()
	return true
}

// MoveHorizontal shifts the active piece by dCol columns if the target
// position is collision-free. Returns whether the move happened.
func (b *Board) MoveHorizontal(dCol int) bool {
	if !b.isPositionPossible(b.row, b.col+dCol, b.piece) {
		return false
	}
	b.col += dCol
	b.updateGhostRow()
	return true
}

// MoveVertical shifts the active piece by dRow rows if the target position
// is collision-free. Returns whether the move happened.
func (b *Board) MoveVertical(dRow int) bool {
	if !b.isPositionPossible(b.row+dRow, b.col, b.piece) {
		return false
	}
	b.row += dRow
	return true
}

// Rotate rotates the active piece in the given direction, trying each
// wall-kick offset in table order and committing the first collision-free
// placement. If no candidate fits, nothing changes and Rotate returns false.
// The O piece never rotates and the none piece has nothing to rotate.
func (b *Board) Rotate(rot Rotation) bool {
	if b.piece.Kind() == KindO || b.piece.Kind() == KindNone {
		return false
	}

	rotated := b.piece.Rotated(rot)
	// Kick candidates are indexed by the pre-rotation state.
	for _, kick := range b.piece.Kicks(rot) {
		if b.isPositionPossible(b.row+kick.Row, b.col+kick.Col, rotated) {
			b.piece = rotated
			b.row += kick.Row
			b.col += kick.Col
			b.updateGhostRow()
			return true
		}
	}
	return false
}

// HardDrop teleports the active piece to its ghost row and returns the
// number of rows traveled. Locking is the controller's decision.
func (b *Board) HardDrop() int {
	rowsPassed := b.ghostRow - b.row
	b.row = b.ghostRow
	return rowsPassed
}

// OnGround reports whether the active piece cannot move down one more row.
func (b *Board) OnGround() bool {
	return !b.isPositionPossible(b.row+1, b.col, b.piece)
}

// FreezePiece copies every occupied cell of the active piece into the grid
// at the current anchor, runs line detection, and clears the active piece.
// It returns whether any frozen cell landed at or below the skyline; false
// means the stack overflowed the visible field.
func (b *Board) FreezePiece() bool {
	belowSkyline := false
	for pieceRow := 0; pieceRow < b.piece.bBoxSide; pieceRow++ {
		for pieceCol := 0; pieceCol < b.piece.bBoxSide; pieceCol++ {
			color := b.piece.shape[pieceRow*b.piece.bBoxSide+pieceCol]
			if color == TileEmpty {
				continue
			}
			row := b.row + pieceRow
			if row >= 0 {
				belowSkyline = true
			}
			b.setTile(row, b.col+pieceCol, color)
		}
	}

	b.findLinesToClear()
	b.piece = NewPiece(KindNone)
	return belowSkyline
}

// LinesToClear returns the full rows pending removal, highest row index
// first. Non-empty only between a lock and the following ClearLines.
func (b *Board) LinesToClear() []int { return b.linesToClear }

// ClearLines commits the precomputed post-compaction grid, removing the
// pending full rows. No-op when nothing is pending.
func (b *Board) ClearLines() {
	if len(b.linesToClear) == 0 {
		return
	}
	b.linesToClear = b.linesToClear[:0]
	copy(b.tiles, b.tilesAfterClear)
}

// findLinesToClear sweeps all rows bottom-up, collecting full rows and
// simultaneously compacting the surviving rows downward into
// tilesAfterClear. Vacated rows at the top become empty.
func (b *Board) findLinesToClear() {
	b.linesToClear = b.linesToClear[:0]
	if b.tilesAfterClear == nil {
		b.tilesAfterClear = make([]TileColor, len(b.tiles))
	}
	copy(b.tilesAfterClear, b.tiles)

	linesFound := 0
	index := len(b.tiles) - 1
	for row := b.rows - 1; row >= -hiddenRows; row-- {
		fullRow := true
		for col := 0; col < b.cols; col++ {
			if !b.isTileFilled(row, col) {
				fullRow = false
				break
			}
		}
		switch {
		case fullRow:
			b.linesToClear = append(b.linesToClear, row)
			linesFound++
			index -= b.cols
		case linesFound > 0:
			// Shift this surviving row down by the rows cleared beneath it.
			indexShift := linesFound * b.cols
			for col := 0; col < b.cols; col++ {
				b.tilesAfterClear[index+indexShift] = b.tiles[index]
				index--
			}
		default:
			index -= b.cols
		}
	}

	for i := 0; i < linesFound*b.cols; i++ {
		b.tilesAfterClear[i] = TileEmpty
	}
}

// updateGhostRow advances the ghost row while the row below remains valid.
func (b *Board) updateGhostRow() {
	b.ghostRow = b.row
	for b.isPositionPossible(b.ghostRow+1, b.col, b.piece) {
		b.ghostRow++
	}
}
