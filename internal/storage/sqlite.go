// Package storage provides SQLite-based persistence for the 2048 engine.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
//
// Engine state lives in a key-value table partitioned by namespace (one
// namespace per player); finished games are additionally appended to a
// shared leaderboard.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultNamespace is used for local play.
const DefaultNamespace = "local"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry is a leaderboard row.
type ScoreEntry struct {
	ID        int64
	Player    string
	Score     int
	Won       bool
	CreatedAt time.Time
}

// NamespaceInfo describes a namespace that holds saved state.
type NamespaceInfo struct {
	Name      string
	Keys      int
	UpdatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := ExpandPath(dbPath)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			namespace TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (namespace, key)
		);

		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);
		CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the value stored under key in namespace.
// ok is false when the key was never written.
func (s *Store) Get(namespace, key string) (value string, ok bool, err error) {
	err = s.db.QueryRow(
		"SELECT value FROM kv WHERE namespace = ? AND key = ?",
		namespace, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %s/%s: %w", namespace, key, err)
	}
	return value, true, nil
}

// Set stores value under key in namespace, replacing any previous value.
func (s *Store) Set(namespace, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET
		   value = excluded.value,
		   updated_at = CURRENT_TIMESTAMP`,
		namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s/%s: %w", namespace, key, err)
	}
	return nil
}

// ClearNamespace deletes every key of namespace.
func (s *Store) ClearNamespace(namespace string) error {
	_, err := s.db.Exec("DELETE FROM kv WHERE namespace = ?", namespace)
	if err != nil {
		return fmt.Errorf("storage: cannot clear namespace %s: %w", namespace, err)
	}
	return nil
}

// Namespaces lists namespaces holding state, most recently updated first.
func (s *Store) Namespaces() ([]NamespaceInfo, error) {
	rows, err := s.db.Query(
		`SELECT namespace, COUNT(*), MAX(updated_at)
		 FROM kv
		 GROUP BY namespace
		 ORDER BY MAX(updated_at) DESC, namespace`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list namespaces: %w", err)
	}
	defer rows.Close()

	var result []NamespaceInfo
	for rows.Next() {
		var info NamespaceInfo
		var updatedAt any
		if err := rows.Scan(&info.Name, &info.Keys, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		info.UpdatedAt = parseTimestamp(updatedAt)
		result = append(result, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return result, nil
}

// Bucket returns a view of one namespace usable as the engine's KV.
func (s *Store) Bucket(namespace string) *Bucket {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Bucket{store: s, namespace: namespace}
}

// Bucket is a namespace-scoped key-value view of a Store.
type Bucket struct {
	store     *Store
	namespace string
}

// Get returns the value stored under key.
func (b *Bucket) Get(key string) (string, bool, error) {
	return b.store.Get(b.namespace, key)
}

// Set stores value under key.
func (b *Bucket) Set(key, value string) error {
	return b.store.Set(b.namespace, key, value)
}

// SaveScore appends a finished game to the leaderboard.
// Returns the ID of the inserted row.
func (s *Store) SaveScore(player string, score int, won bool) (int64, error) {
	wonFlag := 0
	if won {
		wonFlag = 1
	}

	result, err := s.db.Exec(
		"INSERT INTO scores (player, score, won) VALUES (?, ?, ?)",
		player, score, wonFlag,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N leaderboard rows, highest score first.
func (s *Store) TopScores(limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, player, score, won, created_at
		 FROM scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Player, &e.Score, &e.Won, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest leaderboard score of player.
// Returns 0 if the player has no scores.
func (s *Store) HighScore(player string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE player = ?",
		player,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// parseTimestamp handles the driver returning either time.Time or text.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
