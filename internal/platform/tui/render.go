package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/t2048"
)

const (
	tileWidth  = 8 // Inner width of a tile
	tileHeight = 3 // Inner height of a tile
)

// tilePalette maps tile values to background/foreground colors.
// Values above 2048 share the last entry.
var tilePalette = []struct {
	value  int
	bg, fg lipgloss.Color
}{
	{2, "254", "236"},
	{4, "230", "236"},
	{8, "215", "231"},
	{16, "209", "231"},
	{32, "203", "231"},
	{64, "196", "231"},
	{128, "221", "236"},
	{256, "220", "236"},
	{512, "214", "236"},
	{1024, "178", "231"},
	{2048, "172", "231"},
	{4096, "54", "231"},
}

var (
	emptyTileStyle = lipgloss.NewStyle().
			Width(tileWidth).
			Height(tileHeight).
			Background(lipgloss.Color("239"))

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Background(lipgloss.Color("237")).
			Padding(0, 1)

	newTileMark = lipgloss.NewStyle().Underline(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Align(lipgloss.Center)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("229")).
			Padding(1, 3).
			Align(lipgloss.Center)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// tileStyle returns the style used to draw a tile holding value.
func tileStyle(value int) lipgloss.Style {
	entry := tilePalette[len(tilePalette)-1]
	for _, p := range tilePalette {
		if value <= p.value {
			entry = p
			break
		}
	}
	return lipgloss.NewStyle().
		Width(tileWidth).
		Height(tileHeight).
		Bold(true).
		Align(lipgloss.Center, lipgloss.Center).
		Background(entry.bg).
		Foreground(entry.fg)
}

// RenderBoard draws the grid. The freshly inserted tile, if any, is
// underlined so the player can see where it landed.
func RenderBoard(board t2048.Board, newTile *t2048.Pos) string {
	rows := make([]string, 0, t2048.BoardSize*2-1)
	for r := range t2048.BoardSize {
		cells := make([]string, 0, t2048.BoardSize*2-1)
		for c := range t2048.BoardSize {
			if c > 0 {
				cells = append(cells, " ")
			}
			cells = append(cells, renderTile(board[r][c], newTile != nil && *newTile == t2048.Pos{Row: r, Col: c}))
		}
		if r > 0 {
			rows = append(rows, "")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderTile(tile t2048.Tile, isNew bool) string {
	if tile.Empty() {
		return emptyTileStyle.Render("")
	}
	label := strconv.Itoa(tile.Value)
	if isNew {
		label = newTileMark.Render(label)
	}
	return tileStyle(tile.Value).Render(label)
}

// renderCard draws a small labelled value box used by the HUD and stats.
func renderCard(label, value string, width int) string {
	return cardStyle.Width(width).Render(
		labelStyle.Render(label) + "\n" + valueStyle.Render(value),
	)
}

// renderOverlay draws a boxed message, one line per argument.
func renderOverlay(lines ...string) string {
	return overlayStyle.Render(strings.Join(lines, "\n"))
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
