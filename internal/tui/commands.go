package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/termnavi/internal/domain"
	"github.com/mmcdole/termnavi/internal/playback"
)

const (
	tickInterval    = 100 * time.Millisecond
	fetchTimeout    = 30 * time.Second
	searchTimeout   = 30 * time.Second
	scrobbleTimeout = 10 * time.Second
)

// Command factories for async operations

// FetchCmd runs a catalog request
func FetchCmd(lib Library, req domain.Request, restore bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		res, err := lib.Fetch(ctx, req)
		res.Request = req
		return FetchedMsg{Result: res, Err: err, Restore: restore}
	}
}

// SearchCmd runs a song search
func SearchCmd(svc Searcher, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		songs, offline, err := svc.Search(ctx, query)
		return SearchResultsMsg{Query: query, Songs: songs, Offline: offline, Err: err}
	}
}

// ScrobbleCmd submits a claimed report off the update loop
func ScrobbleCmd(r *playback.Reporter, sub playback.Submission) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), scrobbleTimeout)
		defer cancel()

		return ScrobbledMsg{Sub: sub, Err: r.Submit(ctx, sub)}
	}
}

// VolumeCmd steps the player volume up or down
func VolumeCmd(p Player, up bool) tea.Cmd {
	return func() tea.Msg {
		step := p.VolumeDown
		if up {
			step = p.VolumeUp
		}
		v, err := step()
		return PlayerCmdMsg{Op: "change volume", Done: fmt.Sprintf("Volume %d%%", v), Err: err}
	}
}

// PlayerCmd runs a side-channel player command
func PlayerCmd(op, done string, run func() error) tea.Cmd {
	return func() tea.Msg {
		return PlayerCmdMsg{Op: op, Done: done, Err: run()}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
