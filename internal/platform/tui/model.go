package tui

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/storage"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// holdWindow is how long a direction key counts as held after its last
// key event. Terminals report key repeats rather than releases, so a held
// key looks like a stream of events; the window bridges the gaps between
// them and expires shortly after the player lets go.
const holdWindow = 170 * time.Millisecond

// Model is the Bubble Tea model for running a tetris session.
type Model struct {
	game      *tetris.Game
	screen    *core.Screen
	store     *storage.Store
	config    core.RuntimeConfig
	gameCfg   config.TetrisConfig
	player    string
	keyMapper *KeyMapper

	heldUntil map[core.Action]time.Time
	input     core.InputFrame // rotation/hard-drop presses pending for the next tick

	startLevel int
	paused     bool
	quitting   bool
	scoreSaved bool // Whether score has been saved for current game over
}

// GameParams builds simulation tuning from the loaded config and tick rate.
func GameParams(gameCfg config.TetrisConfig, tickRate int) tetris.Params {
	p := tetris.DefaultParams()
	if gameCfg.Board.Rows > 0 {
		p.Rows = gameCfg.Board.Rows
	}
	if gameCfg.Board.Cols > 0 {
		p.Cols = gameCfg.Board.Cols
	}
	if tickRate > 0 {
		p.TimeStep = 1.0 / float64(tickRate)
	}
	if gameCfg.Timing.MoveRepeat > 0 {
		p.MoveRepeat = gameCfg.Timing.MoveRepeat
	}
	if gameCfg.Timing.MoveRepeatDelay > 0 {
		p.MoveRepeatDelay = gameCfg.Timing.MoveRepeatDelay
	}
	if gameCfg.Timing.SoftDropFactor > 0 {
		p.SoftDropFactor = gameCfg.Timing.SoftDropFactor
	}
	if gameCfg.Timing.LockDelay > 0 {
		p.LockDelay = gameCfg.Timing.LockDelay
	}
	if gameCfg.Timing.LockMoveLimit > 0 {
		p.LockMoveLimit = gameCfg.Timing.LockMoveLimit
	}
	if gameCfg.Timing.LineClearPause > 0 {
		p.LineClearPause = gameCfg.Timing.LineClearPause
	}
	p.ShowGhost = gameCfg.Gameplay.Ghost
	return p
}

// NewModel creates a new Bubble Tea model for a session.
func NewModel(gameCfg config.TetrisConfig, store *storage.Store, cfg core.RuntimeConfig, player string) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	startLevel := gameCfg.Gameplay.StartLevel
	if startLevel < 1 {
		startLevel = 1
	}

	game := tetris.New(GameParams(gameCfg, cfg.TickRate), rand.New(rand.NewSource(cfg.Seed)))
	if startLevel != 1 {
		game.Restart(startLevel)
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		gameCfg:    gameCfg,
		player:     player,
		keyMapper:  NewKeyMapper(),
		heldUntil:  make(map[core.Action]time.Time),
		input:      core.NewInputFrame(),
		startLevel: startLevel,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch {
	case m.keyMapper.IsHeldAction(action):
		m.heldUntil[action] = time.Now().Add(holdWindow)

	case action == core.ActionPause:
		if !m.game.GameOver() {
			m.paused = !m.paused
		}

	case action == core.ActionRestart:
		m.input.Set(action)

	case action == core.ActionRotateCW, action == core.ActionRotateCCW, action == core.ActionHardDrop:
		if !m.paused {
			m.input.Set(action)
		}
	}

	return m, nil
}

// handleResize processes window resize events. The playfield dimensions are
// fixed per session, so only the screen buffer changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes one simulation tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	defer m.input.Clear()

	if m.input.Has(core.ActionRestart) {
		// Reset seed for the new session
		m.config.Seed = time.Now().UnixNano()
		m.game = tetris.New(GameParams(m.gameCfg, m.config.TickRate), rand.New(rand.NewSource(m.config.Seed)))
		if m.startLevel != 1 {
			m.game.Restart(m.startLevel)
		}
		m.paused = false
		m.scoreSaved = false
		return m, tickCmd(m.config.TickRate)
	}

	if m.paused || m.game.GameOver() {
		m.saveScoreOnce()
		return m, tickCmd(m.config.TickRate)
	}

	if m.input.Has(core.ActionRotateCW) {
		m.game.Rotate(tetris.RotateRight)
	}
	if m.input.Has(core.ActionRotateCCW) {
		m.game.Rotate(tetris.RotateLeft)
	}
	if m.input.Has(core.ActionHardDrop) {
		m.game.HardDrop()
	}

	now := time.Now()
	m.game.Update(
		now.Before(m.heldUntil[core.ActionSoftDrop]),
		now.Before(m.heldUntil[core.ActionRight]),
		now.Before(m.heldUntil[core.ActionLeft]),
	)

	m.saveScoreOnce()
	return m, tickCmd(m.config.TickRate)
}

// saveScoreOnce persists the session result the first time a game over is
// observed. Saving is best-effort; the session continues regardless.
func (m *Model) saveScoreOnce() {
	if !m.game.GameOver() || m.scoreSaved {
		return
	}
	m.scoreSaved = true

	if m.store == nil || m.game.Score() == 0 {
		return
	}
	//nolint:errcheck // Best-effort save
	m.store.SaveScore(m.player, m.game.Score(), m.game.LinesCleared(), m.game.Level())
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".tetris", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("tetris_%s.txt", timestamp))

	//nolint:errcheck // Best-effort save
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.paused {
		m.screen.DrawTextCentered(m.screen.Height()/2, "  Paused (press P to resume)  ")
	}

	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program for a local session.
func Run(gameCfg config.TetrisConfig, store *storage.Store, cfg core.RuntimeConfig, player string) error {
	model := NewModel(gameCfg, store, cfg, player)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
