package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/t2048"
)

type screen int

const (
	screenMenu screen = iota
	screenGame
	screenRecords
)

// SessionModel manages one player's flow: menu -> game/records -> menu.
// It is the top-level model for both local play and SSH sessions.
type SessionModel struct {
	engine      *t2048.Game
	player      string
	leaderboard Leaderboard
	logger      *log.Logger
	screen      screen
	menu        MenuModel
	game        GameModel
	records     RecordsModel
	width       int
	height      int
	quitting    bool
}

// NewSessionModel creates a session around engine, loading the persisted
// best score and history and dealing the first board.
func NewSessionModel(engine *t2048.Game, player string, leaderboard Leaderboard, logger *log.Logger) SessionModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	engine.InitBestScore()
	engine.InitBoard()

	m := SessionModel{
		engine:      engine,
		player:      player,
		leaderboard: leaderboard,
		logger:      logger,
	}
	m.menu = m.newMenu()
	return m
}

func (m SessionModel) newMenu() MenuModel {
	return NewMenuModel(m.player, m.engine.BestScore(), m.width, m.height)
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenRecords:
		return m.updateRecords(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.menu.Selected() {
	case ChoiceNewGame:
		m.engine.RestartGame()
		m.logger.Debug("new game", "player", m.player)
		return m.enterGame(true)
	case ChoicePlay:
		return m.enterGame(m.game.engine == nil)
	case ChoiceRecords:
		m.records = NewRecordsModel(m.engine.Records(), m.leaderboard, m.width, m.height)
		m.screen = screenRecords
		return m, m.records.Init()
	}

	return m, cmd
}

// enterGame shows the game screen. Resuming keeps the per-game view state
// (acknowledged win, saved score) of the model left for the menu.
func (m SessionModel) enterGame(fresh bool) (tea.Model, tea.Cmd) {
	if fresh {
		m.game = NewGameModel(m.engine, m.player, m.leaderboard, m.logger)
	} else {
		m.game = m.game.resume()
	}
	m.screen = screenGame
	// Child models learn the size from the session's last resize.
	updated, _ := m.game.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.game = updated.(GameModel)
	return m, m.game.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		return m.backToMenu()
	}

	return m, cmd
}

// updateRecords handles updates when browsing records.
func (m SessionModel) updateRecords(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.records.Update(msg)
	if recordsModel, ok := newModel.(RecordsModel); ok {
		m.records = recordsModel
	}

	if m.records.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.records.IsGoingBack() {
		return m.backToMenu()
	}

	return m, cmd
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = m.newMenu()
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenRecords:
		return m.records.View()
	}
	return m.menu.View()
}

// Engine returns the session's engine.
func (m SessionModel) Engine() *t2048.Game {
	return m.engine
}

// Run starts a local session in the alternate screen.
func Run(engine *t2048.Game, player string, leaderboard Leaderboard, logger *log.Logger) error {
	model := NewSessionModel(engine, player, leaderboard, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
