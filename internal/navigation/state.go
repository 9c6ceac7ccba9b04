package navigation

import (
	"fmt"
	"strings"

	"github.com/mmcdole/termnavi/internal/domain"
)

// ViewMode is the active browse level. Order matters: Back moves one step left.
type ViewMode int

const (
	ModeArtists ViewMode = iota
	ModeAlbums
	ModeSongs
)

// String returns the persisted name of the mode
func (m ViewMode) String() string {
	switch m {
	case ModeArtists:
		return "artists"
	case ModeAlbums:
		return "albums"
	case ModeSongs:
		return "songs"
	default:
		return fmt.Sprintf("ViewMode(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler
func (m ViewMode) MarshalText() ([]byte, error) {
	if m < ModeArtists || m > ModeSongs {
		return nil, fmt.Errorf("invalid view mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *ViewMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "artists":
		*m = ModeArtists
	case "albums":
		*m = ModeAlbums
	case "songs":
		*m = ModeSongs
	default:
		return fmt.Errorf("unknown view mode %q", text)
	}
	return nil
}

const noTrack = -1

// State is the browse state machine: three lists, a panel per list, the
// active mode and the now-playing pointer into the playback queue.
//
// Queue holds the songs the current playback session was started with.
// The now-playing index always refers to Queue, so it stays valid while
// the user browses other albums.
type State struct {
	Mode ViewMode

	Artists []domain.Artist
	Albums  []domain.Album
	Songs   []domain.Song
	Queue   []domain.Song

	ArtistPanel PanelState
	AlbumPanel  PanelState
	SongPanel   PanelState

	CurrentArtist *domain.Ref
	CurrentAlbum  *domain.Ref

	window     int
	nowPlaying int

	// Restored from disk, applied once the matching songs are refetched
	pendingNowPlaying int
}

// New creates an empty state in Artists mode
func New(window int) *State {
	if window < 1 {
		window = DefaultWindowSize
	}
	return &State{
		Mode:              ModeArtists,
		window:            window,
		nowPlaying:        noTrack,
		pendingNowPlaying: noTrack,
	}
}

// Window returns the number of visible rows
func (s *State) Window() int {
	return s.window
}

// Panel returns the panel of the active view
func (s *State) Panel() *PanelState {
	return s.panelFor(s.Mode)
}

func (s *State) panelFor(mode ViewMode) *PanelState {
	switch mode {
	case ModeAlbums:
		return &s.AlbumPanel
	case ModeSongs:
		return &s.SongPanel
	default:
		return &s.ArtistPanel
	}
}

// Len returns the length of the active list
func (s *State) Len() int {
	return s.lenFor(s.Mode)
}

func (s *State) lenFor(mode ViewMode) int {
	switch mode {
	case ModeAlbums:
		return len(s.Albums)
	case ModeSongs:
		return len(s.Songs)
	default:
		return len(s.Artists)
	}
}

// Names returns the display names of the active list
func (s *State) Names() []string {
	switch s.Mode {
	case ModeAlbums:
		names := make([]string, len(s.Albums))
		for i, a := range s.Albums {
			names[i] = a.DisplayName()
		}
		return names
	case ModeSongs:
		names := make([]string, len(s.Songs))
		for i, song := range s.Songs {
			names[i] = song.DisplayName()
		}
		return names
	default:
		names := make([]string, len(s.Artists))
		for i, a := range s.Artists {
			names[i] = a.DisplayName()
		}
		return names
	}
}

// Up moves the selection one row up, stopping at the first row
func (s *State) Up() {
	s.Panel().Move(-1, s.Len(), s.window)
}

// Down moves the selection one row down, stopping at the last row
func (s *State) Down() {
	s.Panel().Move(1, s.Len(), s.window)
}

// Top jumps to the first row
func (s *State) Top() {
	s.Panel().Select(0, s.Len(), s.window)
}

// Bottom jumps to the last row
func (s *State) Bottom() {
	s.Panel().Select(s.Len()-1, s.Len(), s.window)
}

// PageDown moves the selection one window down
func (s *State) PageDown() {
	s.Panel().Move(s.window, s.Len(), s.window)
}

// PageUp moves the selection one window up
func (s *State) PageUp() {
	s.Panel().Move(-s.window, s.Len(), s.window)
}

// SelectedArtist returns the highlighted artist, if any
func (s *State) SelectedArtist() (domain.Artist, bool) {
	i := s.ArtistPanel.Selected
	if i < 0 || i >= len(s.Artists) {
		return domain.Artist{}, false
	}
	return s.Artists[i], true
}

// SelectedAlbum returns the highlighted album, if any
func (s *State) SelectedAlbum() (domain.Album, bool) {
	i := s.AlbumPanel.Selected
	if i < 0 || i >= len(s.Albums) {
		return domain.Album{}, false
	}
	return s.Albums[i], true
}

// SelectedSong returns the highlighted song, if any
func (s *State) SelectedSong() (domain.Song, bool) {
	i := s.SongPanel.Selected
	if i < 0 || i >= len(s.Songs) {
		return domain.Song{}, false
	}
	return s.Songs[i], true
}

// DrillRequest returns the catalog request that drilling into the current
// selection needs. It returns false in Songs mode (selection plays instead)
// and when the active list is empty.
func (s *State) DrillRequest() (domain.Request, bool) {
	switch s.Mode {
	case ModeArtists:
		artist, ok := s.SelectedArtist()
		if !ok {
			return domain.Request{}, false
		}
		return domain.AlbumsRequest(artist), true
	case ModeAlbums:
		album, ok := s.SelectedAlbum()
		if !ok {
			return domain.Request{}, false
		}
		return domain.SongsRequest(album), true
	default:
		return domain.Request{}, false
	}
}

// ApplyResult installs a fetched listing. Drill results replace the target
// list, reset its panel and switch mode; search results replace Songs and
// reset every panel; an artist listing replaces the root list in place.
func (s *State) ApplyResult(res domain.Result) error {
	switch res.Request.Kind {
	case domain.RequestArtists:
		s.Artists = res.Artists
		s.ArtistPanel.Select(s.ArtistPanel.Selected, len(s.Artists), s.window)

	case domain.RequestArtistAlbums:
		parent := res.Request.Parent
		s.Albums = res.Albums
		s.AlbumPanel.Reset()
		s.CurrentArtist = &parent
		s.CurrentAlbum = nil
		s.Mode = ModeAlbums

	case domain.RequestAlbumSongs:
		parent := res.Request.Parent
		s.Songs = res.Songs
		s.SongPanel.Reset()
		s.CurrentAlbum = &parent
		s.Mode = ModeSongs

	case domain.RequestSearch:
		s.ApplySearch(res.Songs)

	default:
		return fmt.Errorf("%w: %s", domain.ErrUnexpectedResult, res.Request.Kind)
	}
	return nil
}

// ApplySearch swaps search results into the Songs view
func (s *State) ApplySearch(songs []domain.Song) {
	s.Songs = songs
	s.ArtistPanel.Reset()
	s.AlbumPanel.Reset()
	s.SongPanel.Reset()
	s.CurrentArtist = nil
	s.CurrentAlbum = nil
	s.Mode = ModeSongs
}

// Back moves one level up without discarding loaded lists.
// It returns false when already at the root.
func (s *State) Back() bool {
	if s.Mode == ModeArtists {
		return false
	}
	s.Mode--
	return true
}

// QuickJump selects the first item of the active list whose folded name
// starts with the folded character. It returns false when nothing matches.
func (s *State) QuickJump(r rune) bool {
	prefix := foldRune(r)
	if prefix == "" {
		return false
	}
	for i, name := range s.Names() {
		if strings.HasPrefix(Fold(name), prefix) {
			s.Panel().Select(i, s.Len(), s.window)
			return true
		}
	}
	return false
}

// StartQueue snapshots the Songs list as the playback queue and returns it
func (s *State) StartQueue() []domain.Song {
	s.Queue = append([]domain.Song(nil), s.Songs...)
	s.nowPlaying = noTrack
	s.pendingNowPlaying = noTrack
	return s.Queue
}

// ShowingQueue reports whether the Songs view lists the playback queue
func (s *State) ShowingQueue() bool {
	if len(s.Queue) == 0 || len(s.Queue) != len(s.Songs) {
		return false
	}
	for i := range s.Queue {
		if s.Queue[i].ID != s.Songs[i].ID {
			return false
		}
	}
	return true
}

// NowPlaying returns the queue index of the playing song
func (s *State) NowPlaying() (int, bool) {
	if s.nowPlaying == noTrack {
		return 0, false
	}
	return s.nowPlaying, true
}

// NowPlayingSong returns the playing song
func (s *State) NowPlayingSong() (domain.Song, bool) {
	i, ok := s.NowPlaying()
	if !ok || i >= len(s.Queue) {
		return domain.Song{}, false
	}
	return s.Queue[i], true
}

// SetNowPlaying points now-playing at queue index i. When the Songs view
// shows the queue, the selection follows. Out-of-range indexes clear it.
func (s *State) SetNowPlaying(i int) {
	if i < 0 || i >= len(s.Queue) {
		s.ClearNowPlaying()
		return
	}
	s.nowPlaying = i
	s.pendingNowPlaying = noTrack
	if s.ShowingQueue() {
		s.SongPanel.Select(i, len(s.Songs), s.window)
	}
}

// ClearNowPlaying marks nothing as playing
func (s *State) ClearNowPlaying() {
	s.nowPlaying = noTrack
	s.pendingNowPlaying = noTrack
}
