package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/termnavi/internal/domain"
)

type memSession struct {
	doc []byte
}

func (m *memSession) LoadSession() ([]byte, bool) { return m.doc, m.doc != nil }
func (m *memSession) SaveSession(doc []byte) error {
	m.doc = doc
	return nil
}

func TestPersistedState_RoundTrip(t *testing.T) {
	three := 3
	want := PersistedState{
		Mode:          ModeSongs,
		ArtistState:   PanelState{Selected: 40, Scroll: 26},
		AlbumState:    PanelState{Selected: 2, Scroll: 0},
		SongState:     PanelState{Selected: 5, Scroll: 1},
		CurrentArtist: &domain.Ref{ID: "ar1", Name: "Beatles"},
		CurrentAlbum:  &domain.Ref{ID: "al1", Name: "Abbey Road"},
		NowPlaying:    &three,
	}

	store := &memSession{}
	s := New(DefaultWindowSize)
	s.Restore(want)
	require.NoError(t, s.Save(store))

	got := Load(store)
	assert.Equal(t, want, got)
}

func TestPersistedState_Schema(t *testing.T) {
	p := PersistedState{Mode: ModeAlbums, CurrentArtist: &domain.Ref{ID: "1", Name: "A"}}
	data, err := p.Encode()
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"mode": "albums",
		"artist_state": {"selected": 0, "scroll": 0},
		"album_state": {"selected": 0, "scroll": 0},
		"song_state": {"selected": 0, "scroll": 0},
		"current_artist": {"id": "1", "name": "A"}
	}`, string(data))
}

func TestLoad_DefaultsOnBadDocument(t *testing.T) {
	for _, doc := range []string{`not json`, `{"mode":"playlists"}`} {
		store := &memSession{doc: []byte(doc)}
		assert.Equal(t, PersistedState{}, Load(store), doc)
	}
	assert.Equal(t, PersistedState{}, Load(&memSession{}))
}

func TestRestore_FallsBackWithoutParent(t *testing.T) {
	s := New(DefaultWindowSize)
	s.Restore(PersistedState{Mode: ModeSongs, CurrentArtist: &domain.Ref{ID: "1"}})
	assert.Equal(t, ModeAlbums, s.Mode)

	s.Restore(PersistedState{Mode: ModeSongs})
	assert.Equal(t, ModeArtists, s.Mode)
}

func TestRestore_RefetchAndResume(t *testing.T) {
	two := 2
	s := New(DefaultWindowSize)
	s.Restore(PersistedState{
		Mode:          ModeSongs,
		ArtistState:   PanelState{Selected: 9},
		SongState:     PanelState{Selected: 2},
		CurrentArtist: &domain.Ref{ID: "ar1", Name: "B"},
		CurrentAlbum:  &domain.Ref{ID: "al1", Name: "X"},
		NowPlaying:    &two,
	})

	reqs := s.RestoreRequests()
	require.Len(t, reqs, 3)
	assert.Equal(t, domain.RequestArtists, reqs[0].Kind)
	assert.Equal(t, "ar1", reqs[1].ID)
	assert.Equal(t, "al1", reqs[2].ID)

	require.NoError(t, s.ApplyRestored(domain.Result{Request: reqs[0], Artists: artists("A", "B")}))
	assert.Equal(t, 1, s.ArtistPanel.Selected, "restored selection clamped to the shorter list")

	require.NoError(t, s.ApplyRestored(domain.Result{Request: reqs[2], Songs: songs(4)}))
	assert.Equal(t, ModeSongs, s.Mode)

	queue, start, ok := s.Resumable()
	require.True(t, ok)
	assert.Len(t, queue, 4)
	assert.Equal(t, 2, start)
}

func TestRestore_FailRestore(t *testing.T) {
	s := New(DefaultWindowSize)
	s.Restore(PersistedState{
		Mode:          ModeSongs,
		CurrentArtist: &domain.Ref{ID: "ar1"},
		CurrentAlbum:  &domain.Ref{ID: "al1"},
	})

	s.FailRestore(domain.RequestAlbumSongs)
	assert.Equal(t, ModeAlbums, s.Mode)
	assert.Nil(t, s.CurrentAlbum)

	s.FailRestore(domain.RequestArtistAlbums)
	assert.Equal(t, ModeArtists, s.Mode)
	assert.Nil(t, s.CurrentArtist)
}

func TestSnapshot_NowPlayingOnlyWhileShowingQueue(t *testing.T) {
	s := New(DefaultWindowSize)
	s.Songs = songs(3)
	s.CurrentAlbum = &domain.Ref{ID: "al1"}
	s.StartQueue()
	s.SetNowPlaying(1)

	p := s.Snapshot()
	require.NotNil(t, p.NowPlaying)
	assert.Equal(t, 1, *p.NowPlaying)

	// Browsing another album keeps playback but the index no longer
	// describes the persisted album
	s.Songs = songs(5)
	s.CurrentAlbum = &domain.Ref{ID: "al2"}
	assert.Nil(t, s.Snapshot().NowPlaying)
}
