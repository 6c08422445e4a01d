package t2048

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying  GameStateType = "playing"
	StateWin      GameStateType = "win"
	StateGameOver GameStateType = "game_over"
)

// Snapshot captures the observable game state for renderers and tests.
type Snapshot struct {
	Board     Board
	Score     int
	BestScore int
	MaxTile   int
	State     GameStateType
	NewTile   *Pos // cell filled by the latest insertion, if any
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.over:
		state = StateGameOver
	case g.won:
		state = StateWin
	}

	var newTile *Pos
	if g.lastSpawn != nil {
		p := *g.lastSpawn
		newTile = &p
	}

	return Snapshot{
		Board:     g.board,
		Score:     g.score,
		BestScore: g.bestScore,
		MaxTile:   MaxTile(g.board),
		State:     state,
		NewTile:   newTile,
	}
}
