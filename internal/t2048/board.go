package t2048

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// BoardSize is the board dimension.
const BoardSize = 4

// Tile is a numbered tile. The zero Tile is an empty cell.
// ID identifies the tile across moves so a renderer can follow it;
// it has no gameplay effect.
type Tile struct {
	Value int
	ID    uint64
}

// Empty reports whether the cell holds no tile.
func (t Tile) Empty() bool {
	return t.Value == 0
}

// Board is the 4x4 grid, indexed [row][col].
type Board [BoardSize][BoardSize]Tile

// Pos is a cell coordinate.
type Pos struct {
	Row, Col int
}

type line [BoardSize]Tile

// slideLine compacts and merges a line toward index 0.
// merged is local to this pass: a tile produced by a merge cannot merge
// again in the same move.
func slideLine(in line) (out line, points int) {
	tiles := make([]Tile, 0, BoardSize)
	for _, t := range in {
		if !t.Empty() {
			tiles = append(tiles, t)
		}
	}

	var merged [BoardSize]bool
	for i := 0; i < len(tiles)-1; i++ {
		if tiles[i].Value != tiles[i+1].Value || merged[i] || merged[i+1] {
			continue
		}
		tiles[i].Value *= 2
		points += tiles[i].Value
		merged[i] = true
		tiles = append(tiles[:i+1], tiles[i+2:]...)
		copy(merged[i+1:], merged[i+2:])
		merged[BoardSize-1] = false
	}

	copy(out[:], tiles)
	return out, points
}

// reverseLine reverses a line.
func reverseLine(l line) line {
	var out line
	for i := range BoardSize {
		out[i] = l[BoardSize-1-i]
	}
	return out
}

// readLine extracts line i oriented so that index 0 is the leading edge
// for dir.
func readLine(b *Board, dir Direction, i int) line {
	var l line
	switch dir {
	case DirLeft, DirRight:
		l = b[i]
	default:
		for r := range BoardSize {
			l[r] = b[r][i]
		}
	}
	if dir == DirRight || dir == DirDown {
		l = reverseLine(l)
	}
	return l
}

// writeLine stores a leading-edge oriented line back into the board.
func writeLine(b *Board, dir Direction, i int, l line) {
	if dir == DirRight || dir == DirDown {
		l = reverseLine(l)
	}
	switch dir {
	case DirLeft, DirRight:
		b[i] = l
	default:
		for r := range BoardSize {
			b[r][i] = l[r]
		}
	}
}

// Slide performs a move in the given direction.
// Returns the new board, the points gained from merges, and whether any
// line changed. Each row or column is resolved independently of the others.
func Slide(board Board, dir Direction) (Board, int, bool) {
	switch dir {
	case DirUp, DirDown, DirLeft, DirRight:
	default:
		return board, 0, false
	}

	result := board
	total := 0
	moved := false

	for i := range BoardSize {
		before := readLine(&board, dir, i)
		after, points := slideLine(before)
		if after != before {
			moved = true
		}
		total += points
		writeLine(&result, dir, i, after)
	}

	if !moved {
		return board, 0, false
	}
	return result, total, true
}

// EmptyCells returns coordinates of all empty cells in row-major order.
func EmptyCells(board Board) []Pos {
	var cells []Pos
	for r := range BoardSize {
		for c := range BoardSize {
			if board[r][c].Empty() {
				cells = append(cells, Pos{Row: r, Col: c})
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func HasEmptyCell(board Board) bool {
	for r := range BoardSize {
		for c := range BoardSize {
			if board[r][c].Empty() {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if any orthogonally adjacent tiles share a value.
func HasPossibleMerge(board Board) bool {
	for r := range BoardSize {
		for c := range BoardSize {
			val := board[r][c].Value
			if val == 0 {
				continue
			}
			if c < BoardSize-1 && board[r][c+1].Value == val {
				return true
			}
			if r < BoardSize-1 && board[r+1][c].Value == val {
				return true
			}
		}
	}
	return false
}

// CanMove returns true if any move is possible.
func CanMove(board Board) bool {
	return HasEmptyCell(board) || HasPossibleMerge(board)
}

// MaxTile returns the maximum tile value on the board.
func MaxTile(board Board) int {
	maxVal := 0
	for r := range BoardSize {
		for c := range BoardSize {
			if board[r][c].Value > maxVal {
				maxVal = board[r][c].Value
			}
		}
	}
	return maxVal
}

// HasTile reports whether a tile with exactly value is on the board.
func HasTile(board Board, value int) bool {
	for r := range BoardSize {
		for c := range BoardSize {
			if board[r][c].Value == value {
				return true
			}
		}
	}
	return false
}

// Values returns the board as plain values, 0 for empty cells.
func Values(board Board) [BoardSize][BoardSize]int {
	var out [BoardSize][BoardSize]int
	for r := range BoardSize {
		for c := range BoardSize {
			out[r][c] = board[r][c].Value
		}
	}
	return out
}
