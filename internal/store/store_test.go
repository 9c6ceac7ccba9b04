package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/termnavi/internal/domain"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(t.TempDir(), "http://music.local:4533/")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltStore_SessionRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := NewBoltStore(dir, "http://music.local")
	require.NoError(t, err)

	_, ok := s.LoadSession()
	assert.False(t, ok, "fresh store has no session")

	doc := []byte(`{"mode":"songs"}`)
	require.NoError(t, s.SaveSession(doc))
	require.NoError(t, s.Close())

	// Reopen to make sure it hit disk, not just the memory cache
	s, err = NewBoltStore(dir, "http://music.local")
	require.NoError(t, err)
	defer s.Close()

	got, ok := s.LoadSession()
	require.True(t, ok)
	assert.JSONEq(t, string(doc), string(got))
}

func TestBoltStore_ServerURLScopesDatabase(t *testing.T) {
	dir := t.TempDir()

	a, err := NewBoltStore(dir, "http://a.local")
	require.NoError(t, err)
	require.NoError(t, a.SaveSession([]byte(`{}`)))
	require.NoError(t, a.Close())

	b, err := NewBoltStore(dir, "http://b.local")
	require.NoError(t, err)
	defer b.Close()

	_, ok := b.LoadSession()
	assert.False(t, ok)
}

func TestBoltStore_CatalogCache(t *testing.T) {
	s := openTestStore(t)

	artists := []domain.Artist{{ID: "ar1", Name: "Adele"}, {ID: "ar2", Name: "Beatles"}}
	require.NoError(t, s.SaveArtists(artists))

	got, ok := s.GetArtists()
	require.True(t, ok)
	assert.Equal(t, artists, got)

	albums := []domain.Album{{ID: "al1", Name: "25", ArtistID: "ar1"}}
	require.NoError(t, s.SaveAlbums("ar1", albums))
	gotAlbums, ok := s.GetAlbums("ar1")
	require.True(t, ok)
	assert.Equal(t, albums, gotAlbums)

	songs := []domain.Song{{ID: "s1", Title: "Hello", Duration: 295}}
	require.NoError(t, s.SaveSongs("ar1", "al1", songs))
	gotSongs, ok := s.GetSongs("ar1", "al1")
	require.True(t, ok)
	assert.Equal(t, songs, gotSongs)
}

func TestBoltStore_AllSongsDeduplicates(t *testing.T) {
	for _, tc := range []struct {
		name string
		dir  string
	}{
		{"disk", "disk"},
		{"memory", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dir := tc.dir
			if dir != "" {
				dir = t.TempDir()
			}
			s, err := NewBoltStore(dir, "")
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.SaveSongs("ar1", "al1", []domain.Song{{ID: "s1"}, {ID: "s2"}}))
			require.NoError(t, s.SaveSongs("ar2", "al9", []domain.Song{{ID: "s2"}, {ID: "s3"}}))

			ids := map[string]bool{}
			for _, song := range s.AllSongs() {
				ids[song.ID] = true
			}
			assert.Equal(t, map[string]bool{"s1": true, "s2": true, "s3": true}, ids)
			assert.Len(t, s.AllSongs(), 3)
		})
	}
}

func TestBoltStore_InvalidateArtistCascades(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveAlbums("1", []domain.Album{{ID: "a"}}))
	require.NoError(t, s.SaveAlbums("10", []domain.Album{{ID: "b"}}))
	require.NoError(t, s.SaveSongs("1", "a", []domain.Song{{ID: "x"}}))
	require.NoError(t, s.SaveSongs("10", "b", []domain.Song{{ID: "y"}}))

	s.InvalidateArtist("1")

	_, ok := s.GetAlbums("1")
	assert.False(t, ok)
	_, ok = s.GetSongs("1", "a")
	assert.False(t, ok)

	// Artist "10" shares the "1" prefix and must survive
	_, ok = s.GetAlbums("10")
	assert.True(t, ok)
	_, ok = s.GetSongs("10", "b")
	assert.True(t, ok)
}

func TestBoltStore_InvalidateAllKeepsSession(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveSession([]byte(`{"mode":"albums"}`)))
	require.NoError(t, s.SaveArtists([]domain.Artist{{ID: "1"}}))
	require.NoError(t, s.SaveSongs("1", "2", []domain.Song{{ID: "3"}}))

	s.InvalidateAll()

	_, ok := s.GetArtists()
	assert.False(t, ok)
	assert.Empty(t, s.AllSongs())

	_, ok = s.LoadSession()
	assert.True(t, ok)
}
