// Package playback drives the external player: one live session at a time,
// a listener that mirrors the player's position into Status, and the
// scrobble bookkeeping built on top of it.
package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mmcdole/termnavi/internal/domain"
	"github.com/mmcdole/termnavi/internal/mpv"
)

var (
	// ErrLaunchFailed wraps errors from starting the player process
	ErrLaunchFailed = errors.New("failed to launch player")

	// ErrNoSession is returned by commands sent while nothing is playing
	ErrNoSession = errors.New("no active playback session")
)

const (
	endpointName   = "mpv.sock"
	dirPattern     = "termnavi-*"
	commandTimeout = 2 * time.Second
)

// Session owns the player process, its ephemeral control directory and the
// listener goroutine. At most one is live; Start retires the previous one
// before creating anything new.
type Session struct {
	launcher domain.PlayerLauncher
	dialer   mpv.Dialer
	logger   *slog.Logger

	retryDelay time.Duration
	tempRoot   string

	mu     sync.Mutex
	live   *liveSession
	status *Status

	listeners atomic.Int32
}

type liveSession struct {
	dir      string
	endpoint string
	proc     domain.PlayerProcess
	status   *Status
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// Option configures a Session
type Option func(*Session)

// WithRetryDelay sets the backoff between control endpoint connection attempts
func WithRetryDelay(d time.Duration) Option {
	return func(s *Session) { s.retryDelay = d }
}

// WithTempRoot sets where ephemeral directories are created (default os.TempDir)
func WithTempRoot(dir string) Option {
	return func(s *Session) { s.tempRoot = dir }
}

// NewSession creates an idle session
func NewSession(launcher domain.PlayerLauncher, dialer mpv.Dialer, logger *slog.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		launcher:   launcher,
		dialer:     dialer,
		logger:     logger,
		retryDelay: time.Second,
		status:     NewStatus(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns the status of the current (or last) session
func (s *Session) Status() *Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Active reports whether a player is live
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live != nil
}

// Listeners returns the number of running listener goroutines
func (s *Session) Listeners() int {
	return int(s.listeners.Load())
}

// Dir returns the ephemeral directory of the live session
func (s *Session) Dir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == nil {
		return ""
	}
	return s.live.dir
}

// Start plays urls beginning at startIndex, replacing any live session
func (s *Session) Start(urls []string, startIndex int) error {
	if len(urls) == 0 {
		return fmt.Errorf("%w: empty queue", ErrLaunchFailed)
	}
	if startIndex < 0 || startIndex >= len(urls) {
		return fmt.Errorf("%w: start index %d out of range", ErrLaunchFailed, startIndex)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.retireLocked()

	// The retired status must not outlive its session, even if this start fails
	status := NewStatus(len(urls))
	s.status = status

	dir, err := os.MkdirTemp(s.tempRoot, dirPattern)
	if err != nil {
		return fmt.Errorf("%w: create control dir: %v", ErrLaunchFailed, err)
	}
	endpoint := filepath.Join(dir, endpointName)

	proc, err := s.launcher.Launch(urls, startIndex, endpoint)
	if err != nil {
		os.RemoveAll(dir)
		return fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	live := &liveSession{
		dir:      dir,
		endpoint: endpoint,
		proc:     proc,
		status:   status,
		cancel:   cancel,
	}
	s.live = live

	s.listeners.Add(1)
	live.wg.Add(2)
	go s.listen(ctx, live)
	go s.watchExit(ctx, live)

	s.logger.Info("playback started", "tracks", len(urls), "start", startIndex, "endpoint", endpoint)
	return nil
}

// Stop kills the player and returns the status to "nothing playing"
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.status
	st.setShouldQuit(true)
	s.retireLocked()
	st.reset()
	st.setShouldQuit(false)
}

// Close releases the live session. Safe to call more than once.
func (s *Session) Close() error {
	s.Stop()
	return nil
}

// retireLocked tears down the live session and waits for its goroutines.
// The directory is gone when it returns.
func (s *Session) retireLocked() {
	live := s.live
	if live == nil {
		return
	}
	s.live = nil

	live.status.setShouldQuit(true)
	live.cancel()
	if err := live.proc.Kill(); err != nil {
		s.logger.Debug("kill player", "error", err)
	}
	live.wg.Wait()

	if err := os.RemoveAll(live.dir); err != nil {
		s.logger.Warn("remove control dir", "dir", live.dir, "error", err)
	}
	s.logger.Debug("playback session retired", "dir", live.dir)
}

// SendCommand writes one text command to the live player
func (s *Session) SendCommand(text string) error {
	s.mu.Lock()
	live := s.live
	s.mu.Unlock()
	if live == nil {
		return ErrNoSession
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return mpv.Send(ctx, s.dialer, live.endpoint, text)
}

// watchExit flags the end of the queue when the player exits on its own
func (s *Session) watchExit(ctx context.Context, live *liveSession) {
	defer live.wg.Done()
	select {
	case <-live.proc.Done():
		if !live.status.ShouldQuit() {
			s.logger.Info("player exited")
			live.status.MarkEnded()
		}
	case <-ctx.Done():
	}
}

func (s *Session) listen(ctx context.Context, live *liveSession) {
	defer live.wg.Done()
	defer s.listeners.Add(-1)

	for {
		if live.status.ShouldQuit() || ctx.Err() != nil {
			return
		}

		conn, err := s.dialer.Dial(ctx, live.endpoint)
		if err != nil {
			// Player may not have created the socket yet
			if !s.wait(ctx) {
				return
			}
			continue
		}

		s.serve(ctx, conn, live.status)
		conn.Close()

		if live.status.ShouldQuit() || !s.wait(ctx) {
			return
		}
	}
}

// serve subscribes and applies events until the connection fails
func (s *Session) serve(ctx context.Context, conn mpv.Conn, status *Status) {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for _, line := range mpv.Subscriptions() {
		if err := conn.WriteLine(line); err != nil {
			return
		}
	}

	for {
		line, err := conn.ReadLine()
		if err != nil {
			if !status.ShouldQuit() {
				s.logger.Debug("control channel read", "error", err)
			}
			return
		}
		ev, ok := mpv.ParseEvent(line)
		if !ok {
			continue
		}
		switch ev.Kind {
		case mpv.EventPlaylistPos:
			status.ObservePosition(ev.Index)
		case mpv.EventTimePos:
			status.SetElapsed(ev.Seconds)
		case mpv.EventEndFile:
			status.ObserveEndFile(ev.Reason)
		}
	}
}

func (s *Session) wait(ctx context.Context) bool {
	t := time.NewTimer(s.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
