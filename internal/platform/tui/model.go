package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

// Minimum terminal size needed to draw the HUD, board and help line.
const (
	minWidth  = 40
	minHeight = 24
)

// statusDuration is how long a status line stays visible.
const statusDuration = 2 * time.Second

// Leaderboard records finished games across players.
type Leaderboard interface {
	SaveScore(player string, score int, won bool) (int64, error)
	TopScores(limit int) ([]storage.ScoreEntry, error)
}

// clearStatusMsg hides the status line set by the move with the same seq.
type clearStatusMsg struct{ seq int }

func clearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// GameModel is the Bubble Tea model for a game of 2048.
// It drives the engine synchronously: one key press, at most one move.
type GameModel struct {
	engine      *t2048.Game
	player      string
	leaderboard Leaderboard // may be nil
	logger      *log.Logger
	keys        GameKeyMap
	help        help.Model
	width       int
	height      int
	status      string
	statusSeq   int
	scoreSaved  bool // Whether the current game over was sent to the leaderboard
	winSeen     bool // Player chose to keep going; the win overlay stays hidden for this game
	quitting    bool
	backToMenu  bool
}

// NewGameModel creates a game model around an initialized engine.
func NewGameModel(engine *t2048.Game, player string, leaderboard Leaderboard, logger *log.Logger) GameModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := help.New()
	h.ShowAll = false

	return GameModel{
		engine:      engine,
		player:      player,
		leaderboard: leaderboard,
		logger:      logger,
		keys:        DefaultGameKeyMap(),
		help:        h,
		scoreSaved:  engine.Over(),
	}
}

// Init initializes the model.
func (m GameModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.state()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.backToMenu = true
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Restart):
		m.engine.RestartGame()
		m.scoreSaved = false
		m.winSeen = false
		return m.setStatus("New game")
	case key.Matches(msg, m.keys.Continue):
		if state == t2048.StateWin {
			m.engine.ContinueGame()
			m.winSeen = true
			return m.setStatus("Keep going!")
		}
		return m, nil
	}

	// The win overlay holds the board until the player decides.
	if state != t2048.StatePlaying {
		return m, nil
	}

	dir, ok := m.keys.Direction(msg)
	if !ok {
		return m, nil
	}
	return m.move(dir)
}

// state is the engine state as shown to the player: once the win has been
// acknowledged, a game still holding the win tile reads as playing.
func (m GameModel) state() t2048.GameStateType {
	state := m.engine.Snapshot().State
	if state == t2048.StateWin && m.winSeen {
		return t2048.StatePlaying
	}
	return state
}

// resume clears the navigation flags so the model can be shown again.
func (m GameModel) resume() GameModel {
	m.backToMenu = false
	return m
}

// move applies one slide and reports the outcome.
func (m GameModel) move(dir t2048.Direction) (tea.Model, tea.Cmd) {
	prevBest := m.engine.BestScore()
	if !m.engine.Move(dir) {
		return m, nil
	}

	if m.engine.Over() {
		m.saveScore()
		return m, nil
	}
	if prevBest > 0 && m.engine.BestScore() > prevBest {
		return m.setStatus("New best score!")
	}
	return m, nil
}

// saveScore sends a finished game to the leaderboard, once per game.
func (m *GameModel) saveScore() {
	if m.scoreSaved {
		return
	}
	m.scoreSaved = true
	if m.leaderboard == nil {
		return
	}
	if _, err := m.leaderboard.SaveScore(m.player, m.engine.Score(), m.engine.Won()); err != nil {
		m.logger.Warn("could not save score", "player", m.player, "error", err)
	}
}

func (m GameModel) setStatus(text string) (tea.Model, tea.Cmd) {
	m.statusSeq++
	m.status = text
	return m, clearStatusCmd(m.statusSeq)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width > 0 && (m.width < minWidth || m.height < minHeight) {
		return m.renderTooSmall()
	}

	snap := m.engine.Snapshot()
	board := RenderBoard(snap.Board, snap.NewTile)

	switch m.state() {
	case t2048.StateWin:
		board = m.placeOver(board, renderOverlay(
			titleStyle.Render(fmt.Sprintf("You reached %d!", m.engine.WinValue())),
			"",
			"c: keep going   r: new game",
		))
	case t2048.StateGameOver:
		board = m.placeOver(board, renderOverlay(
			titleStyle.Render("GAME OVER"),
			fmt.Sprintf("Score: %d   Max tile: %d", snap.Score, snap.MaxTile),
			"",
			"r: new game   esc: menu",
		))
	}

	hud := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCard("SCORE", strconv.Itoa(snap.Score), 10),
		" ",
		renderCard("BEST", strconv.Itoa(snap.BestScore), 10),
		" ",
		renderCard("MAX", strconv.Itoa(snap.MaxTile), 10),
	)

	title := titleStyle.Render("2 0 4 8")
	if m.status != "" {
		title += "  " + labelStyle.Render(m.status)
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		title,
		hud,
		board,
		helpStyle.Render(m.help.View(m.keys)),
	)

	if m.width == 0 {
		return body
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)
}

// placeOver centers an overlay in the area occupied by the board.
func (m GameModel) placeOver(board, overlay string) string {
	return lipgloss.Place(
		lipgloss.Width(board), lipgloss.Height(board),
		lipgloss.Center, lipgloss.Center,
		overlay,
	)
}

// renderTooSmall shows a "window too small" message.
func (m GameModel) renderTooSmall() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("\n", m.height/2))
	b.WriteString(centerText("Window too small", m.width))
	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("Need %dx%d, have %dx%d", minWidth, minHeight, m.width, m.height), m.width))
	return b.String()
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
