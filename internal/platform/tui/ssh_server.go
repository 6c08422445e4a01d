// Package tui provides the Bubble Tea views for 2048 and serves them over
// SSH via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.t2048/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// EngineOptions are applied to every session's engine.
	EngineOptions []t2048.Option
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// AnonymousPlayer is the player name of SSH logins without a user name.
const AnonymousPlayer = "anonymous"

// SSHServer wraps a Wish SSH server. Every session plays its own game,
// persisted in the namespace of the SSH user. A user has at most one
// session at a time so two engines never write the same namespace.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
	locks  *playerLocks
}

// playerLocks admits one live session per player.
type playerLocks struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{active: make(map[string]struct{})}
}

// acquire reports whether player had no session and marks one open.
func (l *playerLocks) acquire(player string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.active[player]; busy {
		return false
	}
	l.active[player] = struct{}{}
	return true
}

func (l *playerLocks) release(player string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.active, player)
}

// NewSSHServer creates a new SSH server backed by store.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if store == nil {
		return nil, errors.New("ssh: a store is required")
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "t2048-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
		locks:  newPlayerLocks(),
	}

	hostKeyPath, err := resolveHostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if err := os.MkdirAll(hostKeyDir, 0o700); err != nil {
		return nil, fmt.Errorf("ssh: cannot create host key directory: %w", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.playerLockMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("ssh: cannot create server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// resolveHostKeyPath expands path, defaulting to ~/.t2048/host_key.
func resolveHostKeyPath(path string) (string, error) {
	if path == "" {
		path = "~/.t2048/host_key"
	}
	expanded, err := storage.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("ssh: %w", err)
	}
	return expanded, nil
}

// PlayerName maps an SSH user to a storage namespace.
func PlayerName(user string) string {
	if user == "" {
		return AnonymousPlayer
	}
	return user
}

// gameStore returns where a player's best score and history live.
// Anonymous games are kept in memory only, so concurrent anonymous
// sessions never share state.
func (s *SSHServer) gameStore(player string) t2048.KV {
	if player == AnonymousPlayer {
		return storage.NewMemory()
	}
	return s.store.Bucket(player)
}

// newEngine builds an engine for one session of player.
func (s *SSHServer) newEngine(player string) *t2048.Game {
	opts := []t2048.Option{
		t2048.WithSeed(time.Now().UnixNano()),
		t2048.WithLogger(s.logger.With("player", player)),
	}
	opts = append(opts, s.config.EngineOptions...)
	return t2048.New(s.gameStore(player), opts...)
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	if _, _, ok := sshSession.Pty(); !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	player := PlayerName(sshSession.User())
	model := NewSessionModel(s.newEngine(player), player, s.store, s.logger)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// playerLockMiddleware refuses a second concurrent session of a named player.
func (s *SSHServer) playerLockMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		player := PlayerName(sshSession.User())
		if player == AnonymousPlayer {
			next(sshSession)
			return
		}
		if !s.locks.acquire(player) {
			s.logger.Warn("refusing concurrent session",
				"user", player,
				"remote", sshSession.RemoteAddr().String(),
			)
			fmt.Fprintf(sshSession.Stderr(), "%s already has a game open; close it and try again.\n", player)
			//nolint:errcheck // Session is closing anyway
			sshSession.Exit(1)
			return
		}
		defer s.locks.release(player)
		next(sshSession)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return fmt.Errorf("ssh: %w", err)
	}
}

// Shutdown gracefully stops the server. The store is owned by the caller.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
