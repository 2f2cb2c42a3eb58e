// SPDX-License-Identifier: MPL-2.0

package shd

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"gobox/pkg/applet"
)

const (
	// StateCreated is a server that has not started yet.
	StateCreated State = iota
	// StateStarting is a server between Start and readiness.
	StateStarting
	// StateRunning is a server accepting sessions.
	StateRunning
	// StateStopping is a server draining sessions.
	StateStopping
	// StateStopped is the terminal state of an orderly shutdown.
	StateStopped
	// StateFailed is the terminal state of a startup or serve failure.
	StateFailed
)

type (
	// State is the lifecycle state of a Server.
	State int32

	// Config holds the immutable configuration of a Server.
	Config struct {
		// Addr is the listen address. Empty means loopback with an
		// auto-selected port.
		Addr string
		// Password authenticates every session. Required; the server
		// refuses to start without it.
		Password string
		// ShutdownTimeout bounds the graceful drain (default 10s).
		ShutdownTimeout time.Duration
		// StartupTimeout bounds Start (default 5s).
		StartupTimeout time.Duration
		// Logger receives session and lifecycle diagnostics. Nil means
		// the process default logger.
		Logger *log.Logger
	}

	// Server is a single-use SSH daemon dispatching sessions into the
	// toolbox: once stopped or failed, build a new instance.
	Server struct {
		cfg    Config
		parent *applet.Invocation
		logger *log.Logger

		state atomic.Int32

		stateMu  sync.Mutex
		srv      *ssh.Server
		listener net.Listener
		addr     string

		ctx       context.Context
		cancel    context.CancelFunc
		wg        sync.WaitGroup
		startedCh chan struct{}
		errCh     chan error
		lastErr   error
	}
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// NewServer builds a server that derives one child invocation from
// parent per session. The parent's invoker must be bound; sessions
// dispatch through it.
func NewServer(cfg Config, parent *applet.Invocation) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:       cfg,
		parent:    parent,
		logger:    logger,
		startedCh: make(chan struct{}),
		errCh:     make(chan error, 1),
	}
	s.state.Store(int32(StateCreated))
	return s
}

// Start binds the listener and blocks until the server accepts
// sessions, fails, or the startup timeout passes. After a nil return,
// monitor Err for serve failures.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.Password == "" {
		s.transitionToFailed(errors.New("no session password configured"))
		return s.lastErr
	}
	if s.parent == nil || s.parent.Invoker() == nil {
		s.transitionToFailed(errors.New("no invoker bound to the parent invocation"))
		return s.lastErr
	}
	select {
	case <-ctx.Done():
		s.transitionToFailed(fmt.Errorf("context cancelled before start: %w", ctx.Err()))
		return s.lastErr
	default:
	}

	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("cannot start server in state %s", State(s.state.Load()))
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())

	startupCtx, startupCancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer startupCancel()

	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", s.cfg.Addr)
	if err != nil {
		s.transitionToFailed(fmt.Errorf("listen on %s: %w", s.cfg.Addr, err))
		return s.lastErr
	}

	s.stateMu.Lock()
	s.listener = listener
	s.addr = listener.Addr().String()
	s.stateMu.Unlock()

	srv, err := wish.NewServer(
		wish.WithAddress(s.cfg.Addr),
		wish.WithPasswordAuth(s.passwordHandler),
		wish.WithPublicKeyAuth(s.publicKeyHandler),
		wish.WithMiddleware(s.sessionMiddleware()),
	)
	if err != nil {
		_ = listener.Close()
		s.transitionToFailed(fmt.Errorf("build SSH server: %w", err))
		return s.lastErr
	}

	s.stateMu.Lock()
	s.srv = srv
	s.stateMu.Unlock()

	s.wg.Add(1)
	go s.serve()

	select {
	case <-s.startedCh:
		s.logger.Info("toolbox daemon started", "address", s.Address())
		return nil
	case err := <-s.errCh:
		s.transitionToFailed(err)
		return err
	case <-startupCtx.Done():
		s.cancel()
		s.transitionToFailed(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
		return s.lastErr
	}
}

// Stop drains sessions and releases the listener. Safe to call any
// number of times and in any state.
func (s *Server) Stop() error {
	for {
		current := State(s.state.Load())
		switch current {
		case StateStopped, StateFailed:
			return nil
		case StateCreated:
			if s.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return nil
			}
		case StateStopping:
			s.wg.Wait()
			return nil
		case StateStarting, StateRunning:
			if !s.state.CompareAndSwap(int32(current), int32(StateStopping)) {
				continue
			}
			return s.doStop()
		default:
			return fmt.Errorf("unknown server state %d", current)
		}
	}
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// IsRunning reports whether the server accepts sessions.
func (s *Server) IsRunning() bool {
	return s.State() == StateRunning
}

// Err receives fatal serve errors after Start returned nil. The
// channel closes when the server stops.
func (s *Server) Err() <-chan error {
	return s.errCh
}

// Address returns the bound address, including the resolved port, or
// the empty string before the listener exists.
func (s *Server) Address() string {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.addr
}

// Port returns the bound port, or 0 before the listener exists.
func (s *Server) Port() int {
	_, portStr, err := net.SplitHostPort(s.Address())
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}

// Wait blocks until the server stops and returns the failure, if any.
func (s *Server) Wait() error {
	s.wg.Wait()
	if s.State() == StateFailed {
		return s.lastErr
	}
	return nil
}

// serve accepts sessions until shutdown, reporting readiness exactly
// once.
func (s *Server) serve() {
	defer s.wg.Done()

	if s.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(s.startedCh)
	}

	s.stateMu.Lock()
	srv := s.srv
	listener := s.listener
	s.stateMu.Unlock()
	if srv == nil || listener == nil {
		return
	}

	err := srv.Serve(listener)
	if err != nil {
		if errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
			return
		}
		select {
		case s.errCh <- fmt.Errorf("serve: %w", err):
		default:
			s.logger.Error("serve error with full channel", "error", err)
		}
	}
}

// doStop performs the shutdown once the state machine granted it.
func (s *Server) doStop() error {
	if s.cancel != nil {
		s.cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error
	s.stateMu.Lock()
	if s.srv != nil {
		shutdownErr = s.srv.Shutdown(shutdownCtx)
		if shutdownErr != nil && !isClosedConnError(shutdownErr) {
			s.logger.Error("shutdown error", "error", shutdownErr)
		} else {
			shutdownErr = nil
		}
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.stateMu.Unlock()

	s.wg.Wait()

	s.state.Store(int32(StateStopped))
	s.logger.Info("toolbox daemon stopped")
	close(s.errCh)

	return shutdownErr
}

// transitionToFailed records err and moves to the terminal failed
// state.
func (s *Server) transitionToFailed(err error) {
	s.lastErr = err
	s.state.Store(int32(StateFailed))
	if s.cancel != nil {
		s.cancel()
	}
	select {
	case s.errCh <- err:
	default:
	}
}

// passwordHandler accepts sessions presenting the configured password.
func (s *Server) passwordHandler(ctx ssh.Context, password string) bool {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1 {
		s.logger.Debug("session authenticated", "user", ctx.User(), "remote", ctx.RemoteAddr())
		return true
	}
	s.logger.Warn("authentication rejected", "user", ctx.User(), "remote", ctx.RemoteAddr())
	return false
}

// publicKeyHandler rejects key auth; sessions carry the shared
// password only.
func (s *Server) publicKeyHandler(ssh.Context, ssh.PublicKey) bool {
	return false
}

// sessionMiddleware dispatches each session into the toolbox: the
// session command names the applet, no command means the sh applet on
// the session streams. The session's exit status is the outcome code.
func (s *Server) sessionMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			name, args := "sh", []string(nil)
			if cmd := sess.Command(); len(cmd) > 0 {
				name, args = cmd[0], cmd[1:]
			}

			child := s.parent.Child(name, args,
				applet.WithEnviron(sessionEnviron(s.parent.Env, sess.Environ())),
				applet.WithStdin(sess),
				applet.WithStdout(sess),
				applet.WithStderr(sess.Stderr()),
			)
			out := s.parent.Invoker().Invoke(sess.Context(), child)
			if err := child.Release(); err != nil && out.Success() {
				fmt.Fprintf(sess.Stderr(), "%s: %v\n", name, err)
				out = applet.Outcome{Class: applet.ClassRuntime, Code: 1}
			}
			if !out.Success() && out.Diag != "" {
				fmt.Fprintln(sess.Stderr(), out.Diag)
			}

			s.logger.Debug("session finished",
				"user", sess.User(),
				"applet", name,
				"class", out.Class,
				"code", out.Code,
			)
			_ = sess.Exit(out.Code)
		}
	}
}

// sessionEnviron overlays the session's environment requests onto the
// daemon's own environment.
func sessionEnviron(base *applet.Environ, requested []string) *applet.Environ {
	env := base.Clone()
	for _, kv := range requested {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env.Set(k, v)
		}
	}
	return env
}

// isClosedConnError reports the "use of closed network connection"
// shutdown artifact.
func isClosedConnError(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Err.Error() == "use of closed network connection"
	}
	return false
}
