package tui

import (
	"time"

	"github.com/mmcdole/termnavi/internal/domain"
	"github.com/mmcdole/termnavi/internal/playback"
)

// Message types for the TUI

// ErrMsg represents a failed operation. It renders as "Failed to <op>: <err>".
type ErrMsg struct {
	Err error
	Op  string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Op != "" {
		return "Failed to " + e.Op + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// TickMsg drives reconciliation and redraw
type TickMsg time.Time

// FetchedMsg carries the outcome of a catalog request. Restore marks
// results that rebuild a persisted position rather than a user drill.
type FetchedMsg struct {
	Result  domain.Result
	Err     error
	Restore bool
}

// SearchResultsMsg carries search results
type SearchResultsMsg struct {
	Query   string
	Songs   []domain.Song
	Offline bool
	Err     error
}

// ScrobbledMsg carries the outcome of a scrobble submission
type ScrobbledMsg struct {
	Sub playback.Submission
	Err error
}

// PlayerCmdMsg carries the outcome of a side-channel player command.
// Op names the action for error messages, Done is shown on success.
type PlayerCmdMsg struct {
	Op   string
	Done string
	Err  error
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message it was scheduled for
type ClearStatusMsg struct {
	Seq int
}
