package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/pucks/internal/commentary"
	"github.com/tomz197/pucks/internal/config"
	"github.com/tomz197/pucks/internal/draw"
	"github.com/tomz197/pucks/internal/loop"
	"github.com/tomz197/pucks/internal/object"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

// Tracks live sessions so shutdown can wait for them.
var sessions sync.WaitGroup

func main() {
	if err := config.Load(".env"); err != nil {
		log.Fatal("failed to load .env", "err", err)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	workingDir, workErr := os.Getwd()
	if workErr != nil {
		log.Warn("failed to get working directory", "err", workErr)
	}
	log.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "workingDir", workingDir)

	// Validate the match settings once so a bad roster fails at startup.
	if _, err := loop.MatchConfigFromEnv(); err != nil {
		log.Fatal("invalid match config", "err", err)
	}

	serverCtx, cancelSessions := context.WithCancel(context.Background())

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware(serverCtx),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for pointer input
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
		log.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Info("Starting SSH server", "host", host, "port", port)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Fatal("server error", "err", err)
		}
	}()

	<-done
	log.Info("Shutting down server...")

	cancelSessions()
	waitSessions(15 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Fatal("shutdown error", "err", err)
	}
}

func waitSessions(timeout time.Duration) {
	finished := make(chan struct{})
	go func() {
		sessions.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(timeout):
		log.Warn("sessions still open after shutdown timeout")
	}
}

// gameMiddleware gives every SSH session its own match against the computer.
func gameMiddleware(serverCtx context.Context) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			sessions.Add(1)
			defer sessions.Done()

			logger := log.Default().With("user", sess.User())
			logger.Info("New game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

			// Create a terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

			// Listen for window size changes in a goroutine
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			if err := play(serverCtx, sess, sizeTracker.getSize, logger); err != nil {
				logger.Error("Game error", "err", err)
			}

			logger.Info("Session ended")
			next(sess)
		}
	}
}

func play(serverCtx context.Context, sess ssh.Session, size draw.TermSizeFunc, logger *log.Logger) error {
	cfg, err := loop.MatchConfigFromEnv()
	if err != nil {
		return err
	}
	engine, err := cfg.Start()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(serverCtx)
	defer cancel()
	go func() {
		select {
		case <-sess.Context().Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	commentator := commentary.New(&commentary.Static{}, commentary.Options{Logger: logger})
	go commentator.Run(ctx)

	runner := loop.NewRunner(engine, loop.Options{
		AI:     [2]bool{false, true},
		Sinks:  []loop.EventSink{commentator},
		Logger: logger,
	})
	go runner.Run(ctx)

	session := loop.NewSession(runner, bufio.NewReader(sess), sess, loop.SessionOptions{
		Team:         object.Red,
		TermSizeFunc: size,
		Username:     sess.User(),
		Commentary:   commentator.Lines(),
		Logger:       logger,
	})
	err = session.Run(ctx)
	cancel()
	<-runner.Done()
	return err
}

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

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
