package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"
	"github.com/tomz197/swarm/internal/config"
	"github.com/tomz197/swarm/internal/draw"
	"github.com/tomz197/swarm/internal/logx"
	"github.com/tomz197/swarm/internal/loop"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	logger := logx.New(os.Stderr)
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	settings := config.LoadSettings()
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "saveDir", settings.SaveDir)

	// Cancelled on shutdown so running sessions leave their frame loops.
	ctx, cancel := context.WithCancel(context.Background())
	games := &gameHandler{
		ctx:       ctx,
		settings:  settings,
		logger:    logger,
		fixedSeed: config.GetEnv("SWARM_SEED", "") != "",
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			games.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	cancel()
	if !games.wait(15 * time.Second) {
		logger.Warn("sessions still running after timeout")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameHandler runs an isolated single-player session per SSH connection.
type gameHandler struct {
	ctx       context.Context
	settings  config.Settings
	logger    *log.Logger
	fixedSeed bool
	active    sync.WaitGroup
}

func (g *gameHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}
		g.active.Add(1)
		defer g.active.Done()

		id := uuid.New()
		logger := g.logger.With("session", id.String(), "user", sess.User())
		logger.Info("new game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		settings := g.settings
		settings.SavePath = filepath.Join(settings.SaveDir, saveName(sess.User())+".sav")
		if !g.fixedSeed {
			settings.Seed = time.Now().UnixNano()
		}

		ctx, cancel := context.WithCancel(sess.Context())
		stop := context.AfterFunc(g.ctx, cancel)
		defer stop()
		defer cancel()

		err := loop.Run(ctx, bufio.NewReader(sess), sess, loop.Options{
			Settings:     settings,
			Logger:       logger,
			TermSizeFunc: sizeTracker.getSize,
		})
		if err != nil {
			logger.Error("game error", "err", err)
			fmt.Fprintf(sess, "game error: %v\r\n", err)
		}
		next(sess)
	}
}

// wait blocks until every session has ended or timeout passes.
func (g *gameHandler) wait(timeout time.Duration) bool {
	finished := make(chan struct{})
	go func() {
		g.active.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return true
	case <-time.After(timeout):
		return false
	}
}

// saveName derives a file name from the SSH user. Names that are not safe
// file names map to a name-based uuid, so the same user always gets the same
// save.
func saveName(user string) string {
	lower := strings.ToLower(user)
	if lower == "" || len(lower) > 32 {
		return anonName(user)
	}
	for _, r := range lower {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return anonName(user)
		}
	}
	return lower
}

func anonName(user string) string {
	return "anon-" + uuid.NewSHA1(saveNamespace, []byte(user)).String()
}

// saveNamespace scopes the name-based ids of save files.
var saveNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("swarm:ssh-save"))

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
