package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

// leaderboardSize is how many leaderboard rows are loaded.
const leaderboardSize = 50

// RecordsTab selects what the records screen lists.
type RecordsTab int

const (
	TabHistory RecordsTab = iota
	TabLeaderboard
)

func (t RecordsTab) String() string {
	if t == TabLeaderboard {
		return "Leaderboard"
	}
	return "History"
}

// RecordsKeyMap defines the key bindings for the records screen.
type RecordsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RecordsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RecordsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab},
		{k.Back, k.Quit},
	}
}

// DefaultRecordsKeyMap returns default key bindings.
func DefaultRecordsKeyMap() RecordsKeyMap {
	return RecordsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "switch list"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RecordsModel lists the player's game history and the shared leaderboard.
type RecordsModel struct {
	history     []t2048.Record
	stats       t2048.Stats
	leaderboard Leaderboard // may be nil: no leaderboard tab
	scores      []storage.ScoreEntry
	loadErr     error
	tab         RecordsTab
	table       table.Model
	help        help.Model
	keys        RecordsKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
}

// NewRecordsModel creates a records model for the given history.
func NewRecordsModel(history []t2048.Record, leaderboard Leaderboard, width, height int) RecordsModel {
	h := help.New()
	h.ShowAll = false

	m := RecordsModel{
		history:     history,
		stats:       t2048.ComputeStats(history),
		leaderboard: leaderboard,
		keys:        DefaultRecordsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
	}
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// createTable creates a table with columns for the active tab.
func (m *RecordsModel) createTable() table.Model {
	var columns []table.Column
	if m.tab == TabLeaderboard {
		columns = []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Player", Width: 14},
			{Title: "Score", Width: 8},
			{Title: "Won", Width: 4},
			{Title: "Date", Width: 14},
		}
	} else {
		columns = []table.Column{
			{Title: "#", Width: 4},
			{Title: "Score", Width: 8},
			{Title: "Time", Width: 8},
			{Title: "Won", Width: 4},
			{Title: "Date", Width: 20},
		}
	}

	height := m.height - 14 // Title, stats cards, tabs, help and borders
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadScores fetches the leaderboard.
func (m *RecordsModel) loadScores() {
	m.scores, m.loadErr = nil, nil
	if m.leaderboard == nil {
		return
	}
	m.scores, m.loadErr = m.leaderboard.TopScores(leaderboardSize)
}

// updateTableRows fills the table from the active tab.
func (m *RecordsModel) updateTableRows() {
	var rows []table.Row
	if m.tab == TabLeaderboard {
		rows = make([]table.Row, len(m.scores))
		for i, s := range m.scores {
			rows[i] = table.Row{
				fmt.Sprintf("#%d", i+1),
				s.Player,
				fmt.Sprintf("%d", s.Score),
				wonMark(s.Won),
				s.CreatedAt.Format("Jan 02 15:04"),
			}
		}
	} else {
		rows = make([]table.Row, len(m.history))
		for i, r := range m.history {
			rows[i] = table.Row{
				fmt.Sprintf("%d", i+1),
				fmt.Sprintf("%d", r.Score),
				formatDuration(r.DurationOrZero()),
				wonMark(r.Won),
				r.Date,
			}
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the records model.
func (m RecordsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the records screen.
func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextTab):
			if m.leaderboard == nil {
				return m, nil
			}
			if m.tab == TabHistory {
				m.tab = TabLeaderboard
				m.loadScores()
			} else {
				m.tab = TabHistory
			}
			m.table = m.createTable()
			m.updateTableRows()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table for scrolling
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the records screen.
func (m RecordsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	b.WriteString(centerText(titleStyle.Render("RECORDS"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderStats(), m.width))
	b.WriteString("\n")
	if m.leaderboard != nil {
		b.WriteString(centerText(m.renderTabs(), m.width))
		b.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderStats draws the summary cards of the history.
func (m RecordsModel) renderStats() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		renderCard("GAMES", fmt.Sprintf("%d", m.stats.Games), 9),
		renderCard("WINS", fmt.Sprintf("%d", m.stats.Wins), 9),
		renderCard("BEST", fmt.Sprintf("%d", m.stats.BestScore), 9),
		renderCard("AVERAGE", fmt.Sprintf("%.0f", m.stats.AvgScore), 9),
		renderCard("PLAYED", formatDuration(m.stats.TotalTime), 9),
	)
}

func (m RecordsModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, 0, 2)
	for _, t := range []RecordsTab{TabHistory, TabLeaderboard} {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(t.String()))
		}
	}
	return strings.Join(tabs, " ")
}

// renderTableContent renders the table or an empty message.
func (m RecordsModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.tab == TabLeaderboard {
		if m.loadErr != nil {
			return emptyStyle.Render("Could not load the leaderboard.")
		}
		if len(m.scores) == 0 {
			return emptyStyle.Render("No finished games on the leaderboard yet.")
		}
		return m.table.View()
	}

	if len(m.history) == 0 {
		return emptyStyle.Render("No games recorded yet.\nFinish a game to see it here!")
	}
	return m.table.View()
}

// Tab returns the active tab.
func (m RecordsModel) Tab() RecordsTab {
	return m.tab
}

// IsGoingBack returns true if user wants to go back to menu.
func (m RecordsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m RecordsModel) IsQuitting() bool {
	return m.quitting
}

func wonMark(won bool) string {
	if won {
		return "yes"
	}
	return "-"
}

// formatDuration renders a play time as m:ss or h:mm:ss.
func formatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
