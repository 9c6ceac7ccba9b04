package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/termnavi/internal/domain"
	"github.com/mmcdole/termnavi/internal/navigation"
)

// drillIn opens the selected artist or album, or plays the selected song
func (m *Model) drillIn() tea.Cmd {
	if m.Nav.Mode == navigation.ModeSongs {
		if _, ok := m.Nav.SelectedSong(); !ok {
			return nil
		}
		start := m.Nav.SongPanel.Selected
		return m.startPlayback(m.Nav.StartQueue(), start)
	}

	req, ok := m.Nav.DrillRequest()
	if !ok {
		return nil
	}
	m.Loading = true
	return FetchCmd(m.library, req, false)
}

// resume replays the session that was playing when the app last quit
func (m *Model) resume() tea.Cmd {
	_, start, ok := m.Nav.Resumable()
	if !ok {
		return m.setStatus("Nothing to resume", false)
	}
	return m.startPlayback(m.Nav.StartQueue(), start)
}

// handleFetched installs the result of a user drill
func (m Model) handleFetched(msg FetchedMsg) (tea.Model, tea.Cmd) {
	m.Loading = false
	if msg.Err != nil {
		return m, m.setError(ErrMsg{Err: msg.Err, Op: "load " + msg.Result.Request.Kind.String()})
	}
	if err := m.Nav.ApplyResult(msg.Result); err != nil {
		m.logger.Error("dropped catalog result", "kind", msg.Result.Request.Kind, "error", err)
		return m, nil
	}
	m.Offline = false
	return m, nil
}

// handleRestored installs one step of the startup (or refresh) chain and
// starts the next. Failing to load the artists at startup is fatal.
func (m Model) handleRestored(msg FetchedMsg) (tea.Model, tea.Cmd) {
	if len(m.restoreQueue) > 0 {
		m.restoreQueue = m.restoreQueue[1:]
	}
	kind := msg.Result.Request.Kind

	var cmd tea.Cmd
	if msg.Err != nil {
		if kind == domain.RequestArtists && !m.started {
			m.logger.Error("failed to load catalog", "error", msg.Err)
			m.State = StateFatal
			m.Fatal = ErrMsg{Err: msg.Err, Op: "load artists"}
			m.Loading = false
			m.restoreQueue = nil
			return m, nil
		}
		m.logger.Warn("failed to restore position", "kind", kind, "error", msg.Err)
		m.Nav.FailRestore(kind)
		// Deeper levels depend on the one that failed
		m.restoreQueue = nil
		cmd = m.setError(ErrMsg{Err: msg.Err, Op: "load " + kind.String()})
	} else {
		if err := m.Nav.ApplyRestored(msg.Result); err != nil {
			m.logger.Error("dropped restored result", "kind", kind, "error", err)
		}
		if kind == domain.RequestArtists {
			m.started = true
		}
	}

	if len(m.restoreQueue) > 0 {
		return m, tea.Batch(cmd, FetchCmd(m.library, m.restoreQueue[0], true))
	}
	m.Loading = false
	return m, cmd
}

// refresh drops the catalog cache and refetches every loaded level in place
func (m *Model) refresh() tea.Cmd {
	m.library.InvalidateAll()
	m.restoreQueue = m.Nav.RestoreRequests()
	m.Loading = true
	return tea.Batch(
		m.setStatus("Refreshing…", false),
		FetchCmd(m.library, m.restoreQueue[0], true),
	)
}
