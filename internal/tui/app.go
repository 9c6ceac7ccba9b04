package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/termnavi/internal/domain"
	"github.com/mmcdole/termnavi/internal/navigation"
	"github.com/mmcdole/termnavi/internal/playback"
	"github.com/mmcdole/termnavi/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateSearching
	StateFatal
)

const (
	statusDuration = 3 * time.Second
	errorDuration  = 5 * time.Second
)

// Library fetches catalog listings (consumer-defined interface)
type Library interface {
	Fetch(ctx context.Context, req domain.Request) (domain.Result, error)
	InvalidateAll()
}

// Searcher runs song searches
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.Song, bool, error)
}

// Player controls the external player
type Player interface {
	Play(queue []domain.Song, startIndex int) error
	Stop()
	Status() *playback.Status
	Active() bool
	Volume() int
	VolumeUp() (int, error)
	VolumeDown() (int, error)
	ToggleMute() error
	Next() error
	Prev() error
}

// Deps wires the model to its services
type Deps struct {
	Library  Library
	Search   Searcher
	Player   Player
	Reporter *playback.Reporter
	Sessions navigation.SessionStore
	Logger   *slog.Logger
	Window   int
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool
	Nav   *navigation.State

	// Services
	library  Library
	search   Searcher
	player   Player
	reporter *playback.Reporter
	sessions navigation.SessionStore
	logger   *slog.Logger

	// UI Components
	SearchInput textinput.Model

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	Loading     bool
	ShowHelp    bool
	Offline     bool // Songs came from the local cache
	Fatal       error
	statusSeq   int

	// Restore/refresh chain; the head is in flight
	restoreQueue []domain.Request
	started      bool

	// Reconciliation against the session status
	status       *playback.Status
	lastPosition int64
}

// NewModel creates a new application model positioned at the persisted
// navigation state. The lists themselves are refetched by Init.
func NewModel(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reporter := deps.Reporter
	if reporter == nil {
		reporter = playback.NewReporter(logger, false, nil)
	}

	nav := navigation.New(deps.Window)
	if deps.Sessions != nil {
		nav.Restore(navigation.Load(deps.Sessions))
	}

	input := textinput.New()
	input.Prompt = "/ "
	input.PromptStyle = styles.SearchPromptStyle
	input.Placeholder = "search songs"
	input.CharLimit = 200

	return Model{
		State:        StateBrowsing,
		Nav:          nav,
		library:      deps.Library,
		search:       deps.Search,
		player:       deps.Player,
		reporter:     reporter,
		sessions:     deps.Sessions,
		logger:       logger,
		SearchInput:  input,
		Loading:      true,
		restoreQueue: nav.RestoreRequests(),
		lastPosition: playback.NoTrack,
	}
}

// Init fetches the root list (and the rest of the restored position) and
// starts the render tick
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd(tickInterval)}
	if len(m.restoreQueue) > 0 {
		cmds = append(cmds, FetchCmd(m.library, m.restoreQueue[0], true))
	}
	return tea.Batch(cmds...)
}

// Err returns the startup failure, if any
func (m Model) Err() error {
	return m.Fatal
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.SearchInput.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		cmd := m.onTick()
		return m, tea.Batch(TickCmd(tickInterval), cmd)

	case FetchedMsg:
		if msg.Restore {
			return m.handleRestored(msg)
		}
		return m.handleFetched(msg)

	case SearchResultsMsg:
		m.Loading = false
		if msg.Err != nil {
			return m, m.setError(ErrMsg{Err: msg.Err, Op: "search"})
		}
		m.Nav.ApplySearch(msg.Songs)
		m.Offline = msg.Offline
		return m, m.setStatus(searchSummary(msg), false)

	case ScrobbledMsg:
		m.reporter.Ack(msg.Sub, msg.Err)
		return m, nil

	case PlayerCmdMsg:
		if msg.Err != nil {
			if errors.Is(msg.Err, playback.ErrNoSession) {
				return m, m.setStatus("Nothing is playing", false)
			}
			return m, m.setError(ErrMsg{Err: msg.Err, Op: msg.Op})
		}
		return m, m.setStatus(msg.Done, false)

	case ErrMsg:
		return m, m.setError(msg)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	return m, nil
}

// onTick reconciles the player position into the navigation state when the
// listener has raised the redraw flag, then claims a due scrobble. The flag
// is raised after every index store, so a tick that finds it clear has
// nothing new to reconcile.
func (m *Model) onTick() tea.Cmd {
	if m.player == nil {
		return nil
	}
	st := m.player.Status()
	if st == nil {
		return nil
	}
	changed := st.TakeRedraw()

	if st != m.status {
		m.status = st
		m.lastPosition = playback.NoTrack
		changed = true
	}

	if pos := st.Position(); changed && pos != m.lastPosition {
		m.lastPosition = pos
		m.reporter.Reset(st)
		m.reconcile(pos, st.SongCount())
	}

	return m.scrobbleCmd(st)
}

// reconcile applies a reported queue position. A position at or past the
// end of the queue means playback ran out and clears now-playing.
func (m *Model) reconcile(pos int64, count int) {
	if pos == playback.NoTrack {
		return
	}

	before, had := m.Nav.NowPlaying()
	if count > 0 && pos >= int64(count) {
		m.Nav.ClearNowPlaying()
	} else {
		m.Nav.SetNowPlaying(int(pos))
	}

	if after, has := m.Nav.NowPlaying(); after != before || has != had {
		m.logger.Debug("now playing changed", "index", after, "playing", has)
		m.persist()
	}
}

func (m *Model) scrobbleCmd(st *playback.Status) tea.Cmd {
	idx, ok := m.Nav.NowPlaying()
	if !ok {
		return nil
	}
	song, ok := m.Nav.NowPlayingSong()
	if !ok {
		return nil
	}
	sub, ok := m.reporter.Next(st, idx, song, st.Elapsed(), time.Now())
	if !ok {
		return nil
	}
	return ScrobbleCmd(m.reporter, sub)
}

// startPlayback launches the player on queue. It runs on the update loop so
// the status swap and the queue snapshot land together.
func (m *Model) startPlayback(queue []domain.Song, start int) tea.Cmd {
	err := m.player.Play(queue, start)
	m.status = m.player.Status()
	m.lastPosition = playback.NoTrack
	m.reporter.Reset(m.status)
	m.persist()

	if err != nil {
		return m.setError(ErrMsg{Err: err, Op: "start playback"})
	}
	return m.setStatus("Playing: "+queue[start].Title, false)
}

func (m *Model) stopPlayback() tea.Cmd {
	m.player.Stop()
	m.Nav.ClearNowPlaying()
	m.reporter.Reset(m.player.Status())
	m.lastPosition = playback.NoTrack
	m.persist()
	return m.setStatus("Stopped", false)
}

func (m *Model) quit() tea.Cmd {
	if m.player != nil {
		m.player.Stop()
	}
	m.persist()
	return tea.Quit
}

func (m *Model) persist() {
	if m.sessions == nil {
		return
	}
	if err := m.Nav.Save(m.sessions); err != nil {
		m.logger.Warn("failed to save session", "error", err)
	}
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	d := statusDuration
	if isErr {
		d = errorDuration
	}
	return ClearStatusCmd(m.statusSeq, d)
}

func (m *Model) setError(e ErrMsg) tea.Cmd {
	m.logger.Warn("operation failed", "op", e.Op, "error", e.Err)
	return m.setStatus(e.Error(), true)
}

func searchSummary(msg SearchResultsMsg) string {
	s := fmt.Sprintf("%s for %q", pluralize(len(msg.Songs), "result"), msg.Query)
	if msg.Offline {
		s += " (offline)"
	}
	return s
}
