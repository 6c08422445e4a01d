package tui

import (
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

func newTestServer(t *testing.T) *SSHServer {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &SSHServer{
		store:  store,
		logger: log.New(io.Discard),
		locks:  newPlayerLocks(),
	}
}

func TestPlayerName(t *testing.T) {
	if got := PlayerName(""); got != AnonymousPlayer {
		t.Errorf("PlayerName(\"\") = %q, want %q", got, AnonymousPlayer)
	}
	if got := PlayerName("alice"); got != "alice" {
		t.Errorf("PlayerName(alice) = %q", got)
	}
	if AnonymousPlayer == storage.DefaultNamespace {
		t.Error("anonymous SSH players must not share the local namespace")
	}
}

func TestPlayerLocksOneSessionPerPlayer(t *testing.T) {
	locks := newPlayerLocks()

	if !locks.acquire("alice") {
		t.Fatal("first session of alice should be admitted")
	}
	if locks.acquire("alice") {
		t.Error("second concurrent session of alice should be refused")
	}
	if !locks.acquire("bob") {
		t.Error("bob is independent of alice")
	}

	locks.release("alice")
	if !locks.acquire("alice") {
		t.Error("alice should be admitted again after her session ended")
	}
}

func TestPlayerLocksConcurrentAcquire(t *testing.T) {
	locks := newPlayerLocks()

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if locks.acquire("carol") {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != 1 {
		t.Errorf("%d sessions admitted at once, want 1", admitted)
	}
}

func TestNamedPlayerStateIsPersisted(t *testing.T) {
	srv := newTestServer(t)

	g := srv.newEngine("alice")
	g.InitBestScore()
	g.InitBoard()
	g.SaveGameRecord()

	again := srv.newEngine("alice")
	again.InitBestScore()
	if len(again.Records()) != 1 {
		t.Errorf("reloaded %d records, want 1", len(again.Records()))
	}
}

func TestAnonymousStateStaysInMemory(t *testing.T) {
	srv := newTestServer(t)

	g := srv.newEngine(AnonymousPlayer)
	g.InitBestScore()
	g.InitBoard()
	g.SaveGameRecord()
	if len(g.Records()) != 1 {
		t.Fatalf("session history has %d records, want 1", len(g.Records()))
	}

	for _, ns := range []string{AnonymousPlayer, storage.DefaultNamespace} {
		if _, ok, _ := srv.store.Get(ns, t2048.KeyRecords); ok {
			t.Errorf("anonymous game wrote records into namespace %q", ns)
		}
	}

	other := srv.newEngine(AnonymousPlayer)
	other.InitBestScore()
	if len(other.Records()) != 0 {
		t.Error("anonymous sessions must not share history")
	}
}
