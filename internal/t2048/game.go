// Package t2048 implements the 2048 board engine: a synchronous state
// machine over a 4x4 grid with score, best score and game history
// bookkeeping. The engine performs no locking; callers serialize access.
package t2048

import (
	"io"
	"math/rand"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

// Default rule parameters.
const (
	DefaultSpawn4Prob = 0.10
	DefaultWinValue   = 2048
)

// Game is the 2048 board engine.
type Game struct {
	rng    *rand.Rand
	store  KV
	logger *log.Logger
	now    func() time.Time

	spawn4Prob   float64
	winValue     int
	historyLimit int
	dateFormat   string

	board     Board
	score     int
	bestScore int
	over      bool
	won       bool
	records   []Record

	nextID    uint64
	startedAt time.Time
	lastSpawn *Pos
}

// Option configures a Game.
type Option func(*Game)

// WithRand sets the random source used for tile placement and values.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

// WithSeed seeds a new random source.
func WithSeed(seed int64) Option {
	return func(g *Game) { g.rng = rand.New(rand.NewSource(seed)) }
}

// WithLogger sets the logger for persistence diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithClock overrides the time source for start instants and records.
func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

// WithSpawn4Prob sets the probability that a new tile is a 4.
func WithSpawn4Prob(p float64) Option {
	return func(g *Game) { g.spawn4Prob = p }
}

// WithWinValue sets the tile value that wins the game.
func WithWinValue(v int) Option {
	return func(g *Game) { g.winValue = v }
}

// WithHistoryLimit sets the maximum history length.
func WithHistoryLimit(n int) Option {
	return func(g *Game) { g.historyLimit = n }
}

// WithDateFormat sets the time layout of Record.Date.
func WithDateFormat(layout string) Option {
	return func(g *Game) { g.dateFormat = layout }
}

// New creates an engine backed by store. A nil store keeps state in memory only.
// The board is empty until InitBoard is called.
func New(store KV, opts ...Option) *Game {
	g := &Game{
		store:        store,
		now:          time.Now,
		spawn4Prob:   DefaultSpawn4Prob,
		winValue:     DefaultWinValue,
		historyLimit: DefaultHistoryLimit,
		dateFormat:   DefaultDateFormat,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(g.now().UnixNano()))
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	return g
}

// InitBoard starts a new game: empty board, score 0, flags cleared,
// two tiles seeded.
func (g *Game) InitBoard() {
	g.board = Board{}
	g.score = 0
	g.over = false
	g.won = false
	g.startedAt = g.now()
	g.lastSpawn = nil

	g.spawnTile()
	g.spawnTile()
}

// RestartGame discards the current game and starts a new one.
// Best score and history are kept.
func (g *Game) RestartGame() {
	g.InitBoard()
}

// ContinueGame clears won so play can go on past the win tile. Board,
// score and over are untouched; the next changing move sets won again
// while a win tile is still on the board.
func (g *Game) ContinueGame() {
	g.won = false
}

// spawnTile places a 2 (or a 4) in a uniformly chosen empty cell.
// No-op when the board is full.
func (g *Game) spawnTile() {
	emptyCells := EmptyCells(g.board)
	if len(emptyCells) == 0 {
		return
	}

	cell := emptyCells[g.rng.Intn(len(emptyCells))]

	value := 2
	if g.rng.Float64() < g.spawn4Prob {
		value = 4
	}

	g.board[cell.Row][cell.Col] = Tile{Value: value, ID: g.nextID}
	g.nextID++
	g.lastSpawn = &cell
}

// MoveLeft slides all tiles left. Returns whether the board changed.
func (g *Game) MoveLeft() bool { return g.Move(DirLeft) }

// MoveRight slides all tiles right. Returns whether the board changed.
func (g *Game) MoveRight() bool { return g.Move(DirRight) }

// MoveUp slides all tiles up. Returns whether the board changed.
func (g *Game) MoveUp() bool { return g.Move(DirUp) }

// MoveDown slides all tiles down. Returns whether the board changed.
func (g *Game) MoveDown() bool { return g.Move(DirDown) }

// Move applies a move in dir. A move that changes no line, or any move on a
// finished game, leaves the state untouched and returns false.
func (g *Game) Move(dir Direction) bool {
	if g.over {
		return false
	}

	newBoard, points, moved := Slide(g.board, dir)
	if !moved {
		return false
	}

	g.board = newBoard
	g.score += points
	g.spawnTile()
	g.checkWin()
	g.UpdateBestScore()

	if !CanMove(g.board) {
		g.over = true
		g.SaveGameRecord()
	}
	return true
}

// checkWin sets won whenever the board holds the win tile.
func (g *Game) checkWin() {
	if HasTile(g.board, g.winValue) {
		g.won = true
	}
}

// UpdateBestScore raises the best score to the current score when it is
// strictly higher and persists it.
func (g *Game) UpdateBestScore() {
	if g.score <= g.bestScore {
		return
	}
	g.bestScore = g.score
	g.set(KeyBestScore, strconv.Itoa(g.bestScore))
}

// InitBestScore loads the best score and the record history from the store.
func (g *Game) InitBestScore() {
	if raw, ok := g.get(KeyBestScore); ok {
		best, err := parseBestScore(raw)
		if err != nil {
			g.logger.Warn("ignoring malformed best score", "error", err)
			best = 0
		}
		g.bestScore = best
	}
	g.LoadGameRecords()
}

// LoadGameRecords replaces the history with the persisted one.
// A malformed slot resets history to empty.
func (g *Game) LoadGameRecords() {
	raw, ok := g.get(KeyRecords)
	if !ok {
		return
	}
	history, err := DecodeRecords(raw)
	if err != nil {
		g.logger.Error("failed to load game records", "error", err)
		g.records = nil
		return
	}
	if g.historyLimit > 0 && len(history) > g.historyLimit {
		history = history[:g.historyLimit]
	}
	g.records = history
}

// SaveGameRecord records the current game at the front of the history and
// persists the history.
func (g *Game) SaveGameRecord() {
	now := g.now()
	rec := Record{
		ID:        now.UnixMilli(),
		Score:     g.score,
		Date:      now.Format(g.dateFormat),
		Timestamp: now.UnixMilli(),
		Won:       g.won,
	}
	if !g.startedAt.IsZero() {
		secs := int(now.Sub(g.startedAt) / time.Second)
		if secs < 0 {
			secs = 0
		}
		rec.Duration = &secs
	}

	g.records = prependRecord(g.records, rec, g.historyLimit)

	raw, err := EncodeRecords(g.records)
	if err != nil {
		g.logger.Error("failed to encode game records", "error", err)
		return
	}
	g.set(KeyRecords, raw)
}

func (g *Game) get(key string) (string, bool) {
	if g.store == nil {
		return "", false
	}
	value, ok, err := g.store.Get(key)
	if err != nil {
		g.logger.Warn("storage read failed", "key", key, "error", err)
		return "", false
	}
	return value, ok
}

func (g *Game) set(key, value string) {
	if g.store == nil {
		return
	}
	if err := g.store.Set(key, value); err != nil {
		g.logger.Warn("storage write failed", "key", key, "error", err)
	}
}

// Board returns a copy of the current board.
func (g *Game) Board() Board { return g.board }

// Score returns the current score.
func (g *Game) Score() int { return g.score }

// BestScore returns the best score seen.
func (g *Game) BestScore() int { return g.bestScore }

// Over reports whether the game has no legal move left.
func (g *Game) Over() bool { return g.over }

// Won reports whether the win tile was reached and not yet dismissed.
func (g *Game) Won() bool { return g.won }

// Records returns a copy of the history, most recent first.
func (g *Game) Records() []Record {
	out := make([]Record, len(g.records))
	copy(out, g.records)
	return out
}

// Stats aggregates the history.
func (g *Game) Stats() Stats {
	return ComputeStats(g.records)
}

// WinValue returns the tile value that wins the game.
func (g *Game) WinValue() int { return g.winValue }
