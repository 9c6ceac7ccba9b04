package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/mmcdole/termnavi/internal/domain"
)

// Launcher starts an mpv-compatible player bound to a control socket
type Launcher struct {
	command string   // configured player command, empty to auto-detect
	args    []string // additional arguments for the player
	logger  *slog.Logger

	lookPath func(string) (string, error)
	start    func(cmd *exec.Cmd) error
}

var _ domain.PlayerLauncher = (*Launcher)(nil)

// playerConfig describes how a player front-end forwards options to mpv
type playerConfig struct {
	optionPrefix string // "--" for mpv itself, "--mpv-" for front-ends
}

// players registry - every entry must speak mpv's IPC protocol
var players = map[string]playerConfig{
	"mpv":       {optionPrefix: "--"},
	"mpvnet":    {optionPrefix: "--"},
	"celluloid": {optionPrefix: "--mpv-"},
	"iina-cli":  {optionPrefix: "--mpv-"},
}

// candidatePlayers defines the preferred player order for each platform
var candidatePlayers = map[string][]string{
	"darwin":  {"mpv", "iina-cli"},
	"linux":   {"mpv", "celluloid"},
	"windows": {"mpv", "mpvnet"},
}

// NewLauncher creates a Launcher. An empty command auto-detects a player.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		logger:   logger,
		lookPath: exec.LookPath,
		start:    func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

// playerName normalizes a command to its registry key
func playerName(command string) string {
	base := filepath.Base(command)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(base)
}

// resolve picks the command to run and its option prefix
func (l *Launcher) resolve() (string, playerConfig, error) {
	if l.command != "" {
		cfg, ok := players[playerName(l.command)]
		if !ok {
			l.logger.Warn("unknown player, assuming mpv options", "command", l.command)
			cfg = players["mpv"]
		}
		return l.command, cfg, nil
	}

	candidates, ok := candidatePlayers[runtime.GOOS]
	if !ok {
		candidates = candidatePlayers["linux"] // default
	}
	for _, name := range candidates {
		path, err := l.lookPath(name)
		if err != nil {
			l.logger.Debug("player not available", "player", name, "error", err)
			continue
		}
		l.logger.Info("detected player", "player", name, "path", path)
		return path, players[name], nil
	}
	return "", playerConfig{}, fmt.Errorf("no mpv-compatible player found (tried %s)", strings.Join(candidates, ", "))
}

// Args builds the player command line for a queue of urls
func (l *Launcher) Args(cfg playerConfig, urls []string, startIndex int, endpoint string) []string {
	p := cfg.optionPrefix
	args := append([]string{}, l.args...)
	args = append(args,
		p+"no-video",
		p+"no-terminal",
		fmt.Sprintf("%splaylist-start=%d", p, startIndex),
		p+"input-ipc-server="+endpoint,
	)
	if cfg.optionPrefix != "--" {
		// Front-ends take files after a separator
		args = append(args, "--")
	}
	return append(args, urls...)
}

// Launch starts the player on urls and returns its process handle
func (l *Launcher) Launch(urls []string, startIndex int, endpoint string) (domain.PlayerProcess, error) {
	command, cfg, err := l.resolve()
	if err != nil {
		return nil, err
	}

	args := l.Args(cfg, urls, startIndex, endpoint)
	l.logger.Info("launching player", "command", command, "tracks", len(urls), "start", startIndex)

	cmd := exec.Command(command, args...)
	// The terminal belongs to the UI
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := l.start(cmd); err != nil {
		return nil, err
	}
	return newPlayerProcess(cmd, l.logger), nil
}

// PlayerProcess is a started player, reaped in the background
type PlayerProcess struct {
	cmd  *exec.Cmd
	done chan struct{}

	mu  sync.Mutex
	err error
}

func newPlayerProcess(cmd *exec.Cmd, logger *slog.Logger) *PlayerProcess {
	p := &PlayerProcess{cmd: cmd, done: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		logger.Debug("player exited", "error", err)
		close(p.done)
	}()
	return p
}

// Kill terminates the player
func (p *PlayerProcess) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	err := p.cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// Done is closed when the player has exited
func (p *PlayerProcess) Done() <-chan struct{} {
	return p.done
}

// Err returns the exit error once Done is closed
func (p *PlayerProcess) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
