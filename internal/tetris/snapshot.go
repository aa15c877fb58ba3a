package tetris

import "hash/fnv"

// Snapshot is a compact view of the full game state, intended for
// determinism tests: two games fed the same seed and the same inputs must
// produce identical snapshots tick for tick.
type Snapshot struct {
	Level    int
	Lines    int
	Score    int
	GameOver bool
	Clearing bool

	PieceKind  PieceKind
	PieceState int
	PieceRow   int
	PieceCol   int
	GhostRow   int
	NextKind   PieceKind

	PendingLines int
	GridHash     uint64
}

// Snapshot captures the current game state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Level:        g.level,
		Lines:        g.linesCleared,
		Score:        g.score,
		GameOver:     g.gameOver,
		Clearing:     g.pausedForLinesClear,
		PieceKind:    g.board.Piece().Kind(),
		PieceState:   g.board.Piece().State(),
		PieceRow:     g.board.PieceRow(),
		PieceCol:     g.board.PieceCol(),
		GhostRow:     g.board.GhostRow(),
		NextKind:     g.NextPiece(),
		PendingLines: len(g.board.LinesToClear()),
		GridHash:     g.gridHash(),
	}
}

// gridHash folds every settled tile, hidden rows included, into an FNV-1a
// hash so tests can compare whole playfields cheaply.
func (g *Game) gridHash() uint64 {
	h := fnv.New64a()
	buf := make([]byte, 1)
	for row := -hiddenRows; row < g.board.Rows(); row++ {
		for col := 0; col < g.board.Cols(); col++ {
			buf[0] = byte(g.board.TileAt(row, col))
			h.Write(buf)
		}
	}
	return h.Sum64()
}
