package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg dispatches key presses. Keys are processed in order:
// fatal screen, search input, global keys, then navigation (which is
// ignored while a catalog request is in flight).
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.State == StateFatal {
		return m, tea.Quit
	}

	if m.State == StateSearching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, m.quit()

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = !m.ShowHelp
		return m, nil

	case key.Matches(msg, Keys.Stop):
		return m, m.stopPlayback()

	case key.Matches(msg, Keys.VolumeUp):
		return m, VolumeCmd(m.player, true)

	case key.Matches(msg, Keys.VolumeDown):
		return m, VolumeCmd(m.player, false)

	case key.Matches(msg, Keys.Mute):
		return m, PlayerCmd("toggle mute", "Mute toggled", m.player.ToggleMute)

	case key.Matches(msg, Keys.Next):
		return m, PlayerCmd("skip to next song", "Next", m.player.Next)

	case key.Matches(msg, Keys.Prev):
		return m, PlayerCmd("go to previous song", "Previous", m.player.Prev)
	}

	if m.Loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Refresh):
		return m, m.refresh()

	case key.Matches(msg, Keys.Resume):
		return m, m.resume()

	case key.Matches(msg, Keys.Search):
		m.State = StateSearching
		m.SearchInput.Reset()
		return m, m.SearchInput.Focus()

	case key.Matches(msg, Keys.Up):
		m.Nav.Up()
	case key.Matches(msg, Keys.Down):
		m.Nav.Down()
	case key.Matches(msg, Keys.PageUp):
		m.Nav.PageUp()
	case key.Matches(msg, Keys.PageDown):
		m.Nav.PageDown()
	case key.Matches(msg, Keys.Home):
		m.Nav.Top()
	case key.Matches(msg, Keys.End):
		m.Nav.Bottom()

	case key.Matches(msg, Keys.Enter):
		return m, m.drillIn()

	case key.Matches(msg, Keys.Back):
		m.Nav.Back()

	default:
		if r, ok := quickJumpRune(msg); ok {
			m.Nav.QuickJump(r)
		}
	}
	return m, nil
}

// handleSearchKey feeds the search prompt
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, m.quit()

	case key.Matches(msg, Keys.Cancel):
		m.State = StateBrowsing
		m.SearchInput.Blur()
		return m, nil

	case key.Matches(msg, Keys.Submit):
		query := strings.TrimSpace(m.SearchInput.Value())
		m.State = StateBrowsing
		m.SearchInput.Blur()
		if query == "" {
			return m, nil
		}
		m.Loading = true
		return m, SearchCmd(m.search, query)
	}

	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	return m, cmd
}

// quickJumpRune returns the typed character when it is a lower-case
// letter or a digit
func quickJumpRune(msg tea.KeyMsg) (rune, bool) {
	if msg.Type != tea.KeyRunes || msg.Alt || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if unicode.IsLower(r) || unicode.IsDigit(r) {
		return r, true
	}
	return 0, false
}
