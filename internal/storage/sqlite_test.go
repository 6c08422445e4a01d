package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/t2048"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.Set("alice", "best-score", "512"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	v, ok, err := store.Get("alice", "best-score")
	if err != nil || !ok || v != "512" {
		t.Errorf("Get() = %q, %v, %v; want 512", v, ok, err)
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := openTestStore(t)

	v, ok, err := store.Get("nobody", "records")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if ok || v != "" {
		t.Errorf("Get() of missing key = %q, %v; want absent", v, ok)
	}
}

func TestStoreSetOverwrites(t *testing.T) {
	store := openTestStore(t)

	for _, v := range []string{"10", "20", "30"} {
		if err := store.Set(DefaultNamespace, "best-score", v); err != nil {
			t.Fatalf("Set(%s) failed: %v", v, err)
		}
	}

	v, _, _ := store.Get(DefaultNamespace, "best-score")
	if v != "30" {
		t.Errorf("Get() = %q, want 30", v)
	}
}

func TestStoreNamespacesAreIsolated(t *testing.T) {
	store := openTestStore(t)

	store.Set("alice", "best-score", "100")
	store.Set("bob", "best-score", "200")
	store.Set("bob", "records", "[]")

	if v, _, _ := store.Get("alice", "best-score"); v != "100" {
		t.Errorf("alice best = %q, want 100", v)
	}

	namespaces, err := store.Namespaces()
	if err != nil {
		t.Fatalf("Namespaces() failed: %v", err)
	}
	keys := make(map[string]int)
	for _, ns := range namespaces {
		keys[ns.Name] = ns.Keys
	}
	if len(keys) != 2 || keys["alice"] != 1 || keys["bob"] != 2 {
		t.Errorf("Namespaces() = %+v", namespaces)
	}

	if err := store.ClearNamespace("bob"); err != nil {
		t.Fatalf("ClearNamespace() failed: %v", err)
	}
	if _, ok, _ := store.Get("bob", "records"); ok {
		t.Error("bob's records should be gone")
	}
	if _, ok, _ := store.Get("alice", "best-score"); !ok {
		t.Error("alice should not be affected by clearing bob")
	}
}

func TestBucketDefaultsNamespace(t *testing.T) {
	store := openTestStore(t)

	b := store.Bucket("")
	b.Set("best-score", "8")
	if v, _, _ := store.Get(DefaultNamespace, "best-score"); v != "8" {
		t.Errorf("bucket write landed elsewhere, got %q", v)
	}
}

func TestBucketBacksEngine(t *testing.T) {
	store := openTestStore(t)
	bucket := store.Bucket("carol")

	g := t2048.New(bucket, t2048.WithSeed(1))
	g.InitBestScore()
	g.InitBoard()
	g.SaveGameRecord()
	g.UpdateBestScore()

	again := t2048.New(bucket, t2048.WithSeed(2))
	again.InitBestScore()
	if len(again.Records()) != 1 {
		t.Errorf("reloaded %d records, want 1", len(again.Records()))
	}
}

func TestStoreLeaderboard(t *testing.T) {
	store := openTestStore(t)

	for i, e := range []struct {
		player string
		score  int
		won    bool
	}{
		{"alice", 100, false},
		{"bob", 500, true},
		{"alice", 300, false},
		{"carol", 200, false},
		{"bob", 50, false},
	} {
		if _, err := store.SaveScore(e.player, e.score, e.won); err != nil {
			t.Fatalf("SaveScore #%d failed: %v", i, err)
		}
	}

	top, err := store.TopScores(3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(top))
	}
	if top[0].Score != 500 || top[1].Score != 300 || top[2].Score != 200 {
		t.Errorf("Scores not in expected order: %v", top)
	}
	if !top[0].Won || top[0].Player != "bob" {
		t.Errorf("top entry = %+v, want bob's win", top[0])
	}

	high, err := store.HighScore("alice")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}

	high, _ = store.HighScore("dave")
	if high != 0 {
		t.Errorf("Expected high score of 0 for unknown player, got %d", high)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandPath("~/.t2048/state.db")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if want := filepath.Join(home, ".t2048", "state.db"); got != want {
		t.Errorf("ExpandPath = %q, want %q", got, want)
	}

	if got, _ := ExpandPath("/tmp/x.db"); got != "/tmp/x.db" {
		t.Errorf("absolute path changed to %q", got)
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	if _, ok, _ := m.Get("records"); ok {
		t.Error("empty memory store reported a key")
	}
	m.Set("records", "[]")
	if v, ok, _ := m.Get("records"); !ok || v != "[]" {
		t.Errorf("Get() = %q, %v", v, ok)
	}

	var _ t2048.KV = m
	var _ t2048.KV = (*Bucket)(nil)
}
