package tetris

import (
	"math"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Params holds the board dimensions and timing constants of a session.
// Times are in seconds; the simulation advances by TimeStep per Update call
// and never samples a wall clock.
type Params struct {
	Rows, Cols int

	TimeStep        float64 // simulated seconds per Update call
	MoveRepeat      float64 // auto-shift interval once repeating
	MoveRepeatDelay float64 // delay before a held direction starts repeating
	SoftDropFactor  float64 // gravity divisor while soft drop is held
	LockDelay       float64 // grace period on the ground before locking
	LockMoveLimit   int     // grounded moves allowed before a forced lock
	LineClearPause  float64 // freeze duration while cleared lines flash

	ShowGhost bool // whether the renderer draws the ghost piece
}

// DefaultParams returns the standard guideline-flavored tuning on a 20×10
// field at 60 simulation ticks per second.
func DefaultParams() Params {
	return Params{
		Rows:            20,
		Cols:            10,
		TimeStep:        1.0 / 60,
		MoveRepeat:      0.05,
		MoveRepeatDelay: 0.15,
		SoftDropFactor:  20,
		LockDelay:       0.4,
		LockMoveLimit:   15,
		LineClearPause:  0.3,
		ShowGhost:       true,
	}
}

// secondsPerLineForLevel is the marathon gravity curve: seconds for the
// active piece to fall one row at the given level.
func secondsPerLineForLevel(level int) float64 {
	return math.Pow(0.8-float64(level-1)*0.007, float64(level-1))
}

// motion is the horizontal auto-shift direction currently engaged.
type motion int8

const (
	motionNone motion = iota
	motionRight
	motionLeft
)

// Game is the gameplay controller: it owns the board, arbitrates input,
// runs the gravity/lock-delay/line-clear state machine and the bag
// randomizer. One call to Update advances exactly one fixed timestep.
// Game is not safe for concurrent use; a session owns one exclusively.
type Game struct {
	board  *Board
	params Params
	bag    *bag

	level          int
	linesCleared   int
	score          int
	secondsPerLine float64
	gameOver       bool

	moveDownTimer        float64
	motion               motion
	moveLeftPrev         bool
	moveRightPrev        bool
	moveRepeatDelayTimer float64
	moveRepeatTimer      float64

	onGround          bool
	lockingTimer      float64
	movesWhileLocking int

	pausedForLinesClear bool
	linesClearTimer     float64
}

// New creates a controller with the given tuning and randomness and starts
// a session at level 1.
func New(params Params, rng Shuffler) *Game {
	g := &Game{
		board:  NewBoard(params.Rows, params.Cols),
		params: params,
		bag:    newBag(rng),
	}
	g.Restart(1)
	return g
}

// Restart reinitializes the session in place: empty board, fresh timers and
// counters, gravity recomputed for the level, both bag halves reshuffled,
// and the first piece spawned.
func (g *Game) Restart(level int) {
	g.board.Clear()
	g.gameOver = false
	g.level = level
	g.secondsPerLine = secondsPerLineForLevel(level)
	g.linesCleared = 0
	g.score = 0

	g.motion = motionNone
	g.moveLeftPrev = false
	g.moveRightPrev = false
	g.moveDownTimer = 0
	g.moveRepeatTimer = 0
	g.moveRepeatDelayTimer = 0

	g.onGround = false
	g.lockingTimer = 0

	g.pausedForLinesClear = false
	g.linesClearTimer = 0

	g.bag.reset()
	g.spawnPiece()
}

// Update advances the simulation by one timestep. softDrop, moveRight and
// moveLeft are the held state of their keys this frame; rotation and hard
// drop arrive separately as edges via Rotate and HardDrop.
func (g *Game) Update(softDrop, moveRight, moveLeft bool) {
	if g.gameOver {
		return
	}

	// While paused for a line clear the simulation is frozen except for the
	// pause timer. On expiry the pending rows are committed, the next piece
	// spawns, and this same frame continues as a normal one.
	if g.pausedForLinesClear {
		g.linesClearTimer += g.params.TimeStep
		if g.linesClearTimer < g.params.LineClearPause {
			return
		}
		g.linesCleared += len(g.board.LinesToClear())
		g.board.ClearLines()
		g.spawnPiece()
		g.pausedForLinesClear = false
	}

	g.moveDownTimer += g.params.TimeStep
	g.moveRepeatTimer += g.params.TimeStep
	g.moveRepeatDelayTimer += g.params.TimeStep
	if g.onGround {
		g.lockingTimer += g.params.TimeStep
	} else {
		g.lockingTimer = 0
	}

	// When both directions are held, prefer the one pressed this frame; if
	// both were already held, keep the current motion.
	moveLeftInput, moveRightInput := moveLeft, moveRight
	if moveLeft && moveRight {
		switch {
		case !g.moveRightPrev:
			moveLeft = false
		case !g.moveLeftPrev:
			moveRight = false
		case g.motion == motionLeft:
			moveRight = false
		default:
			moveLeft = false
		}
	}

	switch {
	case moveRight:
		if g.motion != motionRight {
			// First frame of a new hold: move immediately, arm the delay.
			g.moveRepeatDelayTimer = 0
			g.moveRepeatTimer = 0
			g.moveHorizontal(1)
		} else if g.moveRepeatDelayTimer >= g.params.MoveRepeatDelay && g.moveRepeatTimer >= g.params.MoveRepeat {
			g.moveRepeatTimer = 0
			g.moveHorizontal(1)
		}
		g.motion = motionRight
	case moveLeft:
		if g.motion != motionLeft {
			g.moveRepeatDelayTimer = 0
			g.moveRepeatTimer = 0
			g.moveHorizontal(-1)
		} else if g.moveRepeatDelayTimer >= g.params.MoveRepeatDelay && g.moveRepeatTimer >= g.params.MoveRepeat {
			g.moveRepeatTimer = 0
			g.moveHorizontal(-1)
		}
		g.motion = motionLeft
	default:
		g.motion = motionNone
	}
	g.moveLeftPrev = moveLeftInput
	g.moveRightPrev = moveRightInput

	// Soft drop divides the gravity interval; it carries no score bonus.
	speedFactor := 1.0
	if softDrop {
		speedFactor = g.params.SoftDropFactor
	}
	if g.moveDownTimer >= g.secondsPerLine/speedFactor {
		g.board.MoveVertical(1) // blocked fall is silent; grounding is handled below
		g.moveDownTimer = 0
	}

	g.checkLock()
}

// Rotate applies a rotation edge. A successful rotation of a grounded piece
// resets the lock timer and counts against the grounded-move cap.
func (g *Game) Rotate(rot Rotation) {
	if g.gameOver || g.pausedForLinesClear {
		return
	}
	if g.board.Rotate(rot) && g.onGround {
		g.lockingTimer = 0
		g.movesWhileLocking++
	}
	g.checkLock()
}

// HardDrop drops the active piece to its ghost row and locks it
// immediately. No-op when no piece is active.
func (g *Game) HardDrop() {
	if g.gameOver || g.pausedForLinesClear || g.board.Piece().Kind() == KindNone {
		return
	}
	g.score += 2 * g.level * g.board.HardDrop()
	g.lock()
}

// moveHorizontal is the controller-side move: a successful shift of a
// grounded piece resets the lock timer and counts against the move cap.
func (g *Game) moveHorizontal(dCol int) {
	if g.board.MoveHorizontal(dCol) && g.onGround {
		g.lockingTimer = 0
		g.movesWhileLocking++
	}
}

// checkLock tracks ground contact and locks the piece once the lock delay
// expires or the grounded-move cap is exhausted. The dual condition bounds
// how long a grounded piece can be stalled by shuffling it around.
func (g *Game) checkLock() {
	if !g.board.OnGround() {
		g.onGround = false
		return
	}

	g.onGround = true
	if g.lockingTimer >= g.params.LockDelay || g.movesWhileLocking >= g.params.LockMoveLimit {
		g.lock()
	}
}

// lock freezes the piece into the board. A lock entirely above the skyline
// is a board overflow and ends the game. Otherwise the next piece spawns
// immediately, unless full rows are pending, in which case the session
// pauses so the platform can animate the clear.
func (g *Game) lock() {
	g.lockingTimer = 0
	g.onGround = false

	if !g.board.FreezePiece() {
		g.gameOver = true
		return
	}

	if len(g.board.LinesToClear()) == 0 {
		g.spawnPiece()
		return
	}
	g.pausedForLinesClear = true
	g.linesClearTimer = 0
}

// spawnPiece draws the next kind from the bag and places it. A rejected
// spawn means the stack reached the spawn area: game over.
func (g *Game) spawnPiece() {
	g.gameOver = !g.board.SpawnPiece(g.bag.draw())
	g.movesWhileLocking = 0
}

// Board exposes the playfield for read-only queries and rendering.
func (g *Game) Board() *Board { return g.board }

// Params returns the session tuning.
func (g *Game) Params() Params { return g.params }

// GameOver reports whether the session has ended.
func (g *Game) GameOver() bool { return g.gameOver }

// Level returns the session level, fixed until the next Restart.
func (g *Game) Level() int { return g.level }

// LinesCleared returns the number of lines cleared this session.
func (g *Game) LinesCleared() int { return g.linesCleared }

// Score returns the placeholder score (hard drops only).
func (g *Game) Score() int { return g.score }

// NextPiece returns the kind the bag will hand out next.
func (g *Game) NextPiece() PieceKind { return g.bag.peek() }

// LockPercent returns lock-delay progress in [0, 1] for rendering.
func (g *Game) LockPercent() float64 {
	return core.ClampF(g.lockingTimer/g.params.LockDelay, 0, 1)
}

// PausedForLinesClear reports whether the session is frozen for a clear.
func (g *Game) PausedForLinesClear() bool { return g.pausedForLinesClear }

// LinesClearPausePercent returns clear-pause progress in [0, 1].
func (g *Game) LinesClearPausePercent() float64 {
	return core.ClampF(g.linesClearTimer/g.params.LineClearPause, 0, 1)
}

// State summarizes the session for the platform layer.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		Lines:    g.linesCleared,
		Level:    g.level,
		GameOver: g.gameOver,
	}
}
