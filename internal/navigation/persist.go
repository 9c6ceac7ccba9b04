package navigation

import (
	"encoding/json"

	"github.com/mmcdole/termnavi/internal/domain"
)

// PersistedState is the on-disk form of the browse position
type PersistedState struct {
	Mode          ViewMode    `json:"mode"`
	ArtistState   PanelState  `json:"artist_state"`
	AlbumState    PanelState  `json:"album_state"`
	SongState     PanelState  `json:"song_state"`
	CurrentArtist *domain.Ref `json:"current_artist,omitempty"`
	CurrentAlbum  *domain.Ref `json:"current_album,omitempty"`
	NowPlaying    *int        `json:"now_playing,omitempty"`
}

// SessionStore is the slice of the store that holds the snapshot
type SessionStore interface {
	LoadSession() ([]byte, bool)
	SaveSession(doc []byte) error
}

// Encode serializes the snapshot
func (p PersistedState) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// Decode parses a snapshot. Anything unreadable yields the zero state.
func Decode(data []byte) (PersistedState, error) {
	var p PersistedState
	if err := json.Unmarshal(data, &p); err != nil {
		return PersistedState{}, err
	}
	return p, nil
}

// Load reads the snapshot from the store, falling back to defaults
func Load(store SessionStore) PersistedState {
	data, ok := store.LoadSession()
	if !ok {
		return PersistedState{}
	}
	p, err := Decode(data)
	if err != nil {
		return PersistedState{}
	}
	return p
}

// Save writes the current snapshot to the store
func (s *State) Save(store SessionStore) error {
	data, err := s.Snapshot().Encode()
	if err != nil {
		return err
	}
	return store.SaveSession(data)
}

// Snapshot captures the persisted fields of the state
func (s *State) Snapshot() PersistedState {
	p := PersistedState{
		Mode:          s.Mode,
		ArtistState:   s.ArtistPanel,
		AlbumState:    s.AlbumPanel,
		SongState:     s.SongPanel,
		CurrentArtist: cloneRef(s.CurrentArtist),
		CurrentAlbum:  cloneRef(s.CurrentAlbum),
	}
	// A live index points into Queue; it is only meaningful on disk while
	// the Songs view (the list restored from CurrentAlbum) is that queue.
	if i, ok := s.NowPlaying(); ok {
		if s.ShowingQueue() {
			p.NowPlaying = &i
		}
	} else if s.pendingNowPlaying != noTrack {
		i := s.pendingNowPlaying
		p.NowPlaying = &i
	}
	return p
}

// Restore loads a snapshot. Lists are not part of the snapshot; the caller
// refetches them with RestoreRequests and installs them with ApplyRestored.
// A mode that has no parent to refetch from falls back one level.
func (s *State) Restore(p PersistedState) {
	s.ArtistPanel = sanitize(p.ArtistState, s.window)
	s.AlbumPanel = sanitize(p.AlbumState, s.window)
	s.SongPanel = sanitize(p.SongState, s.window)
	s.CurrentArtist = cloneRef(p.CurrentArtist)
	s.CurrentAlbum = cloneRef(p.CurrentAlbum)

	mode := p.Mode
	if mode < ModeArtists || mode > ModeSongs {
		mode = ModeArtists
	}
	if mode == ModeSongs && s.CurrentAlbum == nil {
		mode = ModeAlbums
	}
	if mode == ModeAlbums && s.CurrentArtist == nil {
		mode = ModeArtists
	}
	s.Mode = mode

	s.nowPlaying = noTrack
	s.pendingNowPlaying = noTrack
	if p.NowPlaying != nil && *p.NowPlaying >= 0 && s.CurrentAlbum != nil {
		s.pendingNowPlaying = *p.NowPlaying
	}
}

// RestoreRequests lists the fetches needed to rebuild the restored lists,
// root first.
func (s *State) RestoreRequests() []domain.Request {
	reqs := []domain.Request{domain.ArtistsRequest()}
	if s.CurrentArtist != nil {
		reqs = append(reqs, domain.Request{
			Kind:   domain.RequestArtistAlbums,
			ID:     s.CurrentArtist.ID,
			Parent: *s.CurrentArtist,
		})
	}
	if s.CurrentAlbum != nil {
		reqs = append(reqs, domain.Request{
			Kind:   domain.RequestAlbumSongs,
			ID:     s.CurrentAlbum.ID,
			Parent: *s.CurrentAlbum,
		})
	}
	return reqs
}

// ApplyRestored installs a refetched list without touching the mode or
// resetting the restored panel. The panel is clamped to the new length.
// A restored song list becomes the resumable queue when a pending
// now-playing index fits inside it.
func (s *State) ApplyRestored(res domain.Result) error {
	switch res.Request.Kind {
	case domain.RequestArtists:
		s.Artists = res.Artists
		clampPanel(&s.ArtistPanel, len(s.Artists), s.window)
	case domain.RequestArtistAlbums:
		s.Albums = res.Albums
		clampPanel(&s.AlbumPanel, len(s.Albums), s.window)
	case domain.RequestAlbumSongs:
		s.Songs = res.Songs
		clampPanel(&s.SongPanel, len(s.Songs), s.window)
		if s.pendingNowPlaying >= len(s.Songs) {
			s.pendingNowPlaying = noTrack
		}
	default:
		return domain.ErrUnexpectedResult
	}
	return nil
}

// FailRestore drops the part of a restored position whose list could not be
// refetched and moves the mode back to a level that is still loaded.
func (s *State) FailRestore(kind domain.RequestKind) {
	switch kind {
	case domain.RequestArtistAlbums:
		s.CurrentArtist = nil
		s.CurrentAlbum = nil
		s.AlbumPanel.Reset()
		s.SongPanel.Reset()
		s.Mode = ModeArtists
		s.pendingNowPlaying = noTrack
	case domain.RequestAlbumSongs:
		s.CurrentAlbum = nil
		s.SongPanel.Reset()
		if s.Mode == ModeSongs {
			s.Mode = ModeAlbums
		}
		s.pendingNowPlaying = noTrack
	}
}

// Resumable returns the queue and start index of the session that was
// playing when the snapshot was taken.
func (s *State) Resumable() ([]domain.Song, int, bool) {
	if s.pendingNowPlaying == noTrack || s.pendingNowPlaying >= len(s.Songs) {
		return nil, 0, false
	}
	return s.Songs, s.pendingNowPlaying, true
}

func sanitize(p PanelState, window int) PanelState {
	if p.Selected < 0 {
		p.Selected = 0
	}
	if p.Scroll < 0 || p.Scroll > p.Selected {
		p.Scroll = 0
	}
	p.AdjustScroll(window)
	return p
}

func clampPanel(p *PanelState, count, window int) {
	if count <= 0 {
		p.Reset()
		return
	}
	p.Select(p.Selected, count, window)
}

func cloneRef(r *domain.Ref) *domain.Ref {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
