package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// MaxStartLevel is the highest level selectable from the menu. Gravity past
// this point is faster than a piece per two frames and not playable anyway.
const MaxStartLevel = 15

// LevelModel lets users choose the starting level for a session.
type LevelModel struct {
	cursor    int // startLevel - 1
	width     int
	height    int
	keyMapper *KeyMapper
	choosing  bool
	quitting  bool
	back      bool
}

// NewLevelModel creates a new level selection model.
func NewLevelModel(width, height, startLevel int) LevelModel {
	cursor := startLevel - 1
	if cursor < 0 || cursor >= MaxStartLevel {
		cursor = 0
	}
	return LevelModel{
		cursor:    cursor,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m LevelModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m LevelModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < MaxStartLevel-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.choosing = false
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the level selection.
func (m LevelModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("T E T R I S", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select starting level:", m.width))
	b.WriteString("\n\n")

	for i := 0; i < MaxStartLevel; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%sLevel %2d", cursor, i+1)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the chosen start level, or 0 if none was chosen.
func (m LevelModel) Selected() int {
	if m.choosing {
		return 0
	}
	return m.cursor + 1
}

// IsQuitting returns true if user wants to quit.
func (m LevelModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m LevelModel) WantsBack() bool {
	return m.back
}

// RunLevelSelector runs the level selection and returns the chosen level,
// or 0 if the user backed out.
func RunLevelSelector(cfg core.RuntimeConfig, startLevel int) (int, error) {
	model := NewLevelModel(cfg.ScreenW, cfg.ScreenH, startLevel)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return 0, err
	}

	m, ok := finalModel.(LevelModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return 0, nil
	}

	return m.Selected(), nil
}
