package tetris

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// testParams uses a 1/64 s timestep so every timer threshold is an exact
// binary fraction and the tick counts below are stable.
func testParams() Params {
	p := DefaultParams()
	p.TimeStep = 1.0 / 64
	return p
}

func newTestGame(seed int64) *Game {
	return New(testParams(), rand.New(rand.NewSource(seed)))
}

func countSettledTiles(b *Board) int {
	n := 0
	for row := -hiddenRows; row < b.Rows(); row++ {
		for col := 0; col < b.Cols(); col++ {
			if b.TileAt(row, col) != TileEmpty {
				n++
			}
		}
	}
	return n
}

func TestBagSevenDrawWindows(t *testing.T) {
	b := newBag(rand.New(rand.NewSource(42)))
	b.reset()

	for window := 0; window < 4; window++ {
		var seen [NumKinds]bool
		for i := 0; i < NumKinds; i++ {
			kind := b.draw()
			if kind < 0 || kind >= NumKinds {
				t.Fatalf("draw returned invalid kind %v", kind)
			}
			if seen[kind] {
				t.Fatalf("window %d: kind %v drawn twice", window, kind)
			}
			seen[kind] = true
		}
	}
}

func TestBagPeekMatchesDraw(t *testing.T) {
	b := newBag(rand.New(rand.NewSource(7)))
	b.reset()

	for i := 0; i < 30; i++ {
		want := b.peek()
		if got := b.draw(); got != want {
			t.Fatalf("draw %d: peek said %v, draw gave %v", i, want, got)
		}
	}
}

func TestGravityCurve(t *testing.T) {
	if got := secondsPerLineForLevel(1); got != 1.0 {
		t.Errorf("level 1 should fall at 1 s/line, got %v", got)
	}
	for level := 2; level <= 15; level++ {
		if secondsPerLineForLevel(level) >= secondsPerLineForLevel(level-1) {
			t.Errorf("gravity should speed up from level %d to %d", level-1, level)
		}
	}
}

func TestGravityTiming(t *testing.T) {
	g := newTestGame(1)
	row := g.Board().PieceRow()

	// Level 1 falls one row per simulated second: 64 ticks.
	for i := 0; i < 63; i++ {
		g.Update(false, false, false)
	}
	if g.Board().PieceRow() != row {
		t.Fatalf("piece fell early: row %d, want %d", g.Board().PieceRow(), row)
	}
	g.Update(false, false, false)
	if g.Board().PieceRow() != row+1 {
		t.Errorf("piece should fall on tick 64: row %d, want %d", g.Board().PieceRow(), row+1)
	}
}

func TestSoftDropSpeedsGravityOnly(t *testing.T) {
	g := newTestGame(1)
	row := g.Board().PieceRow()

	// Soft drop divides the 1 s interval by 20: a row every 4 ticks at
	// a 1/64 s timestep.
	for i := 0; i < 8; i++ {
		g.Update(true, false, false)
	}
	if g.Board().PieceRow() != row+2 {
		t.Errorf("expected 2 rows of soft drop in 8 ticks, got %d", g.Board().PieceRow()-row)
	}
	if g.Score() != 0 {
		t.Errorf("soft drop should not score, got %d", g.Score())
	}
}

func TestAutoShiftTiming(t *testing.T) {
	g := newTestGame(1)
	col := g.Board().PieceCol()

	// Tick 1: fresh press moves immediately and arms the repeat delay.
	g.Update(false, true, false)
	if g.Board().PieceCol() != col+1 {
		t.Fatalf("fresh press should move immediately, col %d want %d", g.Board().PieceCol(), col+1)
	}

	// The 0.15 s delay elapses 10 ticks later, so ticks 2..10 do nothing
	// and tick 11 produces the second move.
	for i := 0; i < 9; i++ {
		g.Update(false, true, false)
	}
	if g.Board().PieceCol() != col+1 {
		t.Fatalf("piece moved during the repeat delay, col %d want %d", g.Board().PieceCol(), col+1)
	}
	g.Update(false, true, false)
	if g.Board().PieceCol() != col+2 {
		t.Fatalf("second move should land on tick 11, col %d want %d", g.Board().PieceCol(), col+2)
	}

	// Once repeating, the 0.05 s interval fires every 4 ticks.
	for i := 0; i < 4; i++ {
		g.Update(false, true, false)
	}
	if g.Board().PieceCol() != col+3 {
		t.Errorf("repeat should move every 4 ticks, col %d want %d", g.Board().PieceCol(), col+3)
	}
}

func TestOppositeDirectionsPreferNewPress(t *testing.T) {
	g := newTestGame(1)
	col := g.Board().PieceCol()

	// Hold right, then press left while right is still held: the newer
	// press wins.
	g.Update(false, true, false)
	g.Update(false, true, true)
	if g.Board().PieceCol() != col {
		t.Errorf("new left press should override held right, col %d want %d", g.Board().PieceCol(), col)
	}
	if g.motion != motionLeft {
		t.Errorf("expected motionLeft, got %v", g.motion)
	}

	// Both already held: the engaged motion continues.
	g.Update(false, true, true)
	if g.motion != motionLeft {
		t.Errorf("both held should keep the current motion, got %v", g.motion)
	}
}

func TestLockDelayExpiry(t *testing.T) {
	g := newTestGame(1)
	g.Board().HardDrop() // ground the piece without locking

	// The first update notices ground contact; the 0.4 s delay then
	// expires 26 ticks later.
	for i := 0; i < 26; i++ {
		g.Update(false, false, false)
		if n := countSettledTiles(g.Board()); n != 0 {
			t.Fatalf("piece locked early on tick %d (%d tiles)", i+1, n)
		}
	}
	g.Update(false, false, false)
	if n := countSettledTiles(g.Board()); n != 4 {
		t.Errorf("piece should lock on tick 27, settled tiles %d want 4", n)
	}
	if g.Board().Piece().Kind() == KindNone {
		t.Error("a fresh piece should spawn after an uneventful lock")
	}
}

func TestGroundedMovesResetLockTimer(t *testing.T) {
	g := newTestGame(1)
	g.Board().HardDrop()
	g.Update(false, false, false) // register ground contact

	// Alternate direction presses: each frame is a fresh press, each
	// successful grounded move resets the lock timer. 14 moves stay under
	// the move cap; the cap itself is the next test.
	for i := 0; i < 14; i++ {
		g.Update(false, i%2 == 0, i%2 == 1)
		if g.lockingTimer != 0 {
			t.Fatalf("tick %d: lock timer should reset on a grounded move", i)
		}
		if countSettledTiles(g.Board()) != 0 {
			t.Fatalf("tick %d: piece locked while being shuffled", i)
		}
	}
}

func TestMoveCapForcesLock(t *testing.T) {
	g := newTestGame(1)
	g.Board().HardDrop()
	g.Update(false, false, false) // register ground contact

	// 15 grounded moves exhaust the cap; the 15th locks the piece even
	// though every move reset the lock timer.
	for i := 0; i < 15; i++ {
		g.Update(false, i%2 == 0, i%2 == 1)
	}
	if n := countSettledTiles(g.Board()); n != 4 {
		t.Errorf("move cap should force a lock, settled tiles %d want 4", n)
	}
}

// stageLineClear hands the game a horizontal I over a row 19 that lacks
// exactly the four columns the I will fill.
func stageLineClear(g *Game) {
	fillRow(g.board, 19, 3, 4, 5, 6)
	g.board.piece = NewPiece(KindI)
	g.board.row = 0
	g.board.col = 3
	g.board.updateGhostRow()
}

func TestLineClearPause(t *testing.T) {
	g := newTestGame(3)
	stageLineClear(g)

	g.HardDrop()
	if !g.PausedForLinesClear() {
		t.Fatal("completing a row should start the clear pause")
	}
	if g.Score() != 2*1*18 {
		t.Errorf("hard drop over 18 rows at level 1 should score 36, got %d", g.Score())
	}

	// The 0.3 s pause expires on tick 20 at a 1/64 s timestep.
	for i := 0; i < 19; i++ {
		g.Update(false, false, false)
		if !g.PausedForLinesClear() {
			t.Fatalf("pause ended early on tick %d", i+1)
		}
	}
	g.Update(false, false, false)
	if g.PausedForLinesClear() {
		t.Error("pause should expire on tick 20")
	}
	if g.LinesCleared() != 1 {
		t.Errorf("expected 1 cleared line, got %d", g.LinesCleared())
	}
	if n := countSettledTiles(g.Board()); n != 0 {
		t.Errorf("the cleared row should leave an empty field, %d tiles remain", n)
	}
	if g.Board().Piece().Kind() == KindNone {
		t.Error("the next piece should spawn when the pause expires")
	}
}

func TestRestartDuringClearPause(t *testing.T) {
	g := newTestGame(3)
	stageLineClear(g)
	g.HardDrop()
	if !g.PausedForLinesClear() {
		t.Fatal("expected a clear pause")
	}

	g.Restart(2)
	if g.PausedForLinesClear() {
		t.Error("restart should cancel the clear pause")
	}
	if len(g.Board().LinesToClear()) != 0 {
		t.Error("restart should drop pending lines")
	}
	if g.Level() != 2 || g.Score() != 0 || g.LinesCleared() != 0 {
		t.Errorf("restart should reset the session, got level %d score %d lines %d",
			g.Level(), g.Score(), g.LinesCleared())
	}
	if countSettledTiles(g.Board()) != 0 {
		t.Error("restart should empty the field")
	}
}

func TestBlockedSpawnEndsGame(t *testing.T) {
	g := newTestGame(5)
	// A nearly full hidden row blocks every spawn position without ever
	// counting as a clearable line.
	fillRow(g.board, -1, 0)

	g.HardDrop()
	if !g.GameOver() {
		t.Fatal("spawning into a blocked area should end the game")
	}

	g.Restart(1)
	if g.GameOver() {
		t.Error("restart should clear the game-over state")
	}
	if n := countSettledTiles(g.Board()); n != 0 {
		t.Errorf("a fresh session should have no settled tiles, got %d", n)
	}
	if g.Board().Piece().Kind() == KindNone {
		t.Error("a fresh session should have an active piece")
	}
}

func TestLockPercentBounds(t *testing.T) {
	g := newTestGame(9)
	if g.LockPercent() != 0 {
		t.Errorf("lock percent should start at 0, got %v", g.LockPercent())
	}

	g.Board().HardDrop()
	for i := 0; i < 10; i++ {
		g.Update(false, false, false)
		if p := g.LockPercent(); p < 0 || p > 1 {
			t.Fatalf("lock percent out of range: %v", p)
		}
	}
	if g.LockPercent() == 0 {
		t.Error("lock percent should rise while grounded")
	}
}

func TestDeterminism(t *testing.T) {
	// Two games with the same seed and the same input script must agree
	// tick for tick.
	run := func() []Snapshot {
		g := New(testParams(), rand.New(rand.NewSource(12345)))
		var snaps []Snapshot
		for tick := 0; tick < 600; tick++ {
			switch {
			case tick%97 == 13:
				g.Rotate(RotateRight)
			case tick%113 == 50:
				g.Rotate(RotateLeft)
			case tick%151 == 80:
				g.HardDrop()
			}
			g.Update(tick%5 == 0, tick%7 < 2, tick%11 < 2)
			if tick%25 == 0 {
				snaps = append(snaps, g.Snapshot())
			}
		}
		snaps = append(snaps, g.Snapshot())
		return snaps
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("snapshot counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("snapshot %d differs:\n  %+v\n  %+v", i, a[i], b[i])
		}
	}
}

func TestRenderSmoke(t *testing.T) {
	g := newTestGame(11)
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	content := screen.String()
	if len(content) == 0 {
		t.Fatal("rendered screen should not be empty")
	}
	for _, want := range []string{"NEXT", "LEVEL 1", "LINES 0", "SCORE 0"} {
		if !contains(content, want) {
			t.Errorf("rendered screen should contain %q", want)
		}
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := newTestGame(11)
	screen := core.NewScreen(20, 10)
	g.Render(screen)
	if !contains(screen.String(), "too small") {
		t.Error("undersized screens should show the resize hint")
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
