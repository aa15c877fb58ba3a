package tetris

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Each playfield cell is drawn two characters wide so the aspect ratio of
// terminal cells comes out roughly square.
const cellWidth = 2

const (
	blockRune = '█'
	ghostRune = '░'
	flashRune = '▓'
)

var tileColors = map[TileColor]core.Color{
	TileCyan:   core.ColorCyan,
	TileBlue:   core.ColorBlue,
	TileOrange: core.ColorOrange,
	TileYellow: core.ColorYellow,
	TileGreen:  core.ColorGreen,
	TilePurple: core.ColorMagenta,
	TileRed:    core.ColorRed,
}

const sidePanelWidth = 14

// Render draws the playfield, ghost piece, line-clear flash, next-piece
// preview and HUD into the screen buffer. The buffer is cleared first.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	board := g.board
	fieldW := board.Cols()*cellWidth + 2 // playfield plus box borders
	fieldH := board.Rows() + 2

	if dst.Width() < fieldW+sidePanelWidth || dst.Height() < fieldH {
		dst.DrawTextCentered(dst.Height()/2, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, "Resize to continue")
		return
	}

	boardX := (dst.Width() - fieldW - sidePanelWidth) / 2
	boardY := (dst.Height() - fieldH) / 2
	dst.DrawBox(core.NewRect(boardX, boardY, fieldW, fieldH))

	// Settled tiles, visible rows only.
	for row := 0; row < board.Rows(); row++ {
		for col := 0; col < board.Cols(); col++ {
			color := board.TileAt(row, col)
			if color == TileEmpty {
				continue
			}
			g.drawCell(dst, boardX, boardY, row, col, blockRune, tileColors[color])
		}
	}

	// Rows pending removal blink over the settled tiles while the
	// clear pause runs out.
	flash := flashRune
	if int(g.LinesClearPausePercent()*6)%2 == 1 {
		flash = blockRune
	}
	for _, row := range board.LinesToClear() {
		if row < 0 {
			continue
		}
		for col := 0; col < board.Cols(); col++ {
			g.drawCell(dst, boardX, boardY, row, col, flash, core.ColorBrightWhite)
		}
	}

	piece := board.Piece()
	if piece.Kind() != KindNone {
		if g.params.ShowGhost && board.GhostRow() != board.PieceRow() {
			g.drawPiece(dst, boardX, boardY, piece, board.GhostRow(), board.PieceCol(), ghostRune, core.ColorGray)
		}
		g.drawPiece(dst, boardX, boardY, piece, board.PieceRow(), board.PieceCol(), blockRune, tileColors[piece.Color()])
	}

	g.renderSidePanel(dst, boardX+fieldW+2, boardY)

	if g.gameOver {
		g.renderOverlay(dst, "Game Over", "Press R to restart")
	}
}

// drawPiece draws every occupied cell of the piece's bounding box anchored
// at (row, col) in board coordinates. Hidden rows are clipped.
func (g *Game) drawPiece(dst *core.Screen, boardX, boardY int, piece Piece, row, col int, r rune, c core.Color) {
	for pieceRow := 0; pieceRow < piece.BBoxSide(); pieceRow++ {
		for pieceCol := 0; pieceCol < piece.BBoxSide(); pieceCol++ {
			if piece.TileAt(pieceRow, pieceCol) == TileEmpty {
				continue
			}
			g.drawCell(dst, boardX, boardY, row+pieceRow, col+pieceCol, r, c)
		}
	}
}

// drawCell fills one board cell (two screen columns) inside the box.
func (g *Game) drawCell(dst *core.Screen, boardX, boardY, row, col int, r rune, c core.Color) {
	if row < 0 || row >= g.board.Rows() {
		return
	}
	x := boardX + 1 + col*cellWidth
	y := boardY + 1 + row
	dst.SetCell(x, y, r, c)
	dst.SetCell(x+1, y, r, c)
}

// renderSidePanel draws the next-piece preview and session counters.
func (g *Game) renderSidePanel(dst *core.Screen, x, y int) {
	dst.DrawText(x, y, "NEXT")
	next := NewPiece(g.NextPiece())
	rows, cols := next.PreviewSize()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if !next.PreviewTileAt(row, col) {
				continue
			}
			px := x + col*cellWidth
			py := y + 1 + row
			dst.SetCell(px, py, blockRune, tileColors[next.Color()])
			dst.SetCell(px+1, py, blockRune, tileColors[next.Color()])
		}
	}

	dst.DrawText(x, y+4, fmt.Sprintf("LEVEL %d", g.level))
	dst.DrawText(x, y+5, fmt.Sprintf("LINES %d", g.linesCleared))
	dst.DrawText(x, y+6, fmt.Sprintf("SCORE %d", g.score))

	// Lock meter drains while a grounded piece waits to freeze.
	if g.onGround && !g.pausedForLinesClear && !g.gameOver {
		const meterWidth = 10
		filled := int(g.LockPercent() * meterWidth)
		dst.DrawText(x, y+8, "LOCK")
		for i := 0; i < meterWidth; i++ {
			r := '·'
			if i < filled {
				r = '='
			}
			dst.Set(x+5+i, y+8, r)
		}
	}
}

// renderOverlay draws a centered two-line message box over the field.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := core.Max(len(line1), len(line2)) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))
	dst.DrawTextColored((dst.Width()-len(line1))/2, boxY+1, line1, core.ColorBrightRed)
	dst.DrawTextCentered(boxY+3, line2)
}
