// Package tui provides terminal UI components including SSH server support via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/storage"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.tetris/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// ConfigPath is an optional path to a gameplay config file.
	ConfigPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.tetris/scores.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server serving tetris sessions.
type SSHServer struct {
	config  SSHServerConfig
	gameCfg config.TetrisConfig
	server  *ssh.Server
	store   *storage.Store
	logger  *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tetris-ssh",
	})

	// Gameplay config is shared by all sessions
	gameCfg, err := config.LoadTetris(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("cannot load gameplay config: %w", err)
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config:  cfg,
		gameCfg: gameCfg,
		store:   store,
		logger:  logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".tetris", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Create runtime config from PTY size
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
		Seed:     time.Now().UnixNano(),
	}

	// Create session model that handles menu + game flow
	model := NewSessionModel(s.store, s.gameCfg, cfg, sshSession.User())

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionState identifies the active screen within an SSH session.
type sessionState int

const (
	stateMenu sessionState = iota
	stateLevelSelect
	stateScores
	stateGame
)

// SessionModel manages the full session flow: menu -> level select -> game.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	store    *storage.Store
	gameCfg  config.TetrisConfig
	config   core.RuntimeConfig
	username string

	state     sessionState
	menu      MenuModel
	level     LevelModel
	scores    ScoreboardModel
	gameModel *GameModel
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, gameCfg config.TetrisConfig, cfg core.RuntimeConfig, username string) SessionModel {
	return SessionModel{
		store:    store,
		gameCfg:  gameCfg,
		config:   cfg,
		username: username,
		menu:     NewMenuModel(cfg.ScreenW, cfg.ScreenH, sessionHighScore(store)),
	}
}

// sessionHighScore fetches the stored high score for the menu header.
func sessionHighScore(store *storage.Store) int {
	if store == nil {
		return 0
	}
	high, err := store.HighScore()
	if err != nil {
		return 0
	}
	return high
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.state {
	case stateGame:
		return m.updateGame(msg)
	case stateLevelSelect:
		return m.updateLevelSelect(msg)
	case stateScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	// Check if user quit
	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if selected := m.menu.Selected(); selected != nil {
		switch *selected {
		case MenuChoicePlay:
			m.state = stateLevelSelect
			m.level = NewLevelModel(m.config.ScreenW, m.config.ScreenH, m.gameCfg.Gameplay.StartLevel)
			return m, m.level.Init()

		case MenuChoiceScores:
			m.state = stateScores
			m.scores = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
			return m, m.scores.Init()

		case MenuChoiceQuit:
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, cmd
}

// updateLevelSelect handles updates on the start-level screen.
func (m SessionModel) updateLevelSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	newLevel, cmd := m.level.Update(msg)
	if levelModel, ok := newLevel.(LevelModel); ok {
		m.level = levelModel
	}

	if m.level.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.level.WantsBack() {
		return m.backToMenu()
	}

	if level := m.level.Selected(); level > 0 {
		gameModel := NewGameModel(m.store, m.gameCfg, m.config, m.username, level)
		m.gameModel = &gameModel
		m.state = stateGame
		return m, m.gameModel.Init()
	}

	return m, cmd
}

// updateScores handles updates on the scoreboard screen.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newScores, cmd := m.scores.Update(msg)
	if scoresModel, ok := newScores.(ScoreboardModel); ok {
		m.scores = scoresModel
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scores.IsGoingBack() {
		return m.backToMenu()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	// Check if user quit game (back to menu)
	if m.gameModel.BackToMenu() {
		m.gameModel = nil
		return m.backToMenu()
	}

	// Check if user quit entirely
	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// backToMenu resets to a fresh menu, picking up any new high score.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.state = stateMenu
	m.menu = NewMenuModel(m.config.ScreenW, m.config.ScreenH, sessionHighScore(m.store))
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case stateGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
		return ""
	case stateLevelSelect:
		return m.level.View()
	case stateScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// GameModel wraps a game session with back-to-menu capability.
type GameModel struct {
	game      *tetris.Game
	screen    *core.Screen
	store     *storage.Store
	config    core.RuntimeConfig
	gameCfg   config.TetrisConfig
	player    string
	keyMapper *KeyMapper

	heldUntil map[core.Action]time.Time
	input     core.InputFrame
	gameState core.GameState

	startLevel int
	paused     bool
	quitting   bool
	goBack     bool
	scoreSaved bool
}

// NewGameModel creates a game model for an SSH session.
func NewGameModel(store *storage.Store, gameCfg config.TetrisConfig, cfg core.RuntimeConfig, player string, startLevel int) GameModel {
	cfg.Seed = time.Now().UnixNano()
	if startLevel < 1 {
		startLevel = 1
	}

	game := tetris.New(GameParams(gameCfg, cfg.TickRate), rand.New(rand.NewSource(cfg.Seed)))
	if startLevel != 1 {
		game.Restart(startLevel)
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		gameCfg:    gameCfg,
		player:     player,
		keyMapper:  NewKeyMapper(),
		heldUntil:  make(map[core.Action]time.Time),
		input:      core.NewInputFrame(),
		gameState:  game.State(),
		startLevel: startLevel,
	}
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	// Back to menu only from a resting state, so a stray Esc cannot
	// abandon a live game.
	if action == core.ActionBack && (m.gameState.GameOver || m.paused) {
		m.goBack = true
		return m, nil
	}

	switch {
	case m.keyMapper.IsHeldAction(action):
		m.heldUntil[action] = time.Now().Add(holdWindow)

	case action == core.ActionPause:
		if !m.gameState.GameOver {
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

// handleTick processes one simulation tick.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	defer m.input.Clear()

	if m.input.Has(core.ActionRestart) {
		m.config.Seed = time.Now().UnixNano()
		m.game = tetris.New(GameParams(m.gameCfg, m.config.TickRate), rand.New(rand.NewSource(m.config.Seed)))
		if m.startLevel != 1 {
			m.game.Restart(m.startLevel)
		}
		m.gameState = m.game.State()
		m.paused = false
		m.scoreSaved = false
		return m, tickCmd(m.config.TickRate)
	}

	if m.paused || m.gameState.GameOver {
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
	m.gameState = m.game.State()

	m.saveScoreOnce()
	return m, tickCmd(m.config.TickRate)
}

// saveScoreOnce persists the session result the first time a game over is
// observed. Saving is best-effort; the session continues regardless.
func (m *GameModel) saveScoreOnce() {
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

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.paused {
		m.screen.DrawTextCentered(m.screen.Height()/2, "  Paused (press P to resume)  ")
	}

	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.goBack
}
