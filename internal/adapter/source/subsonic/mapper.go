package subsonic

import "github.com/mmcdole/termnavi/internal/domain"

// MapArtists flattens the index groups. Nameless entries are dropped.
func MapArtists(a ArtistsID3) []domain.Artist {
	var out []domain.Artist
	add := func(list []ArtistID3) {
		for _, ar := range list {
			if ar.Name == "" {
				continue
			}
			out = append(out, domain.Artist{ID: ar.ID, Name: ar.Name, AlbumCount: ar.AlbumCount})
		}
	}
	for _, idx := range a.Index {
		add(idx.Artist)
	}
	add(a.Artist)
	return out
}

// MapAlbums converts album entries
func MapAlbums(albums []AlbumID3) []domain.Album {
	out := make([]domain.Album, 0, len(albums))
	for _, al := range albums {
		out = append(out, domain.Album{
			ID:        al.ID,
			Name:      al.Name,
			Artist:    al.Artist,
			ArtistID:  al.ArtistID,
			SongCount: al.SongCount,
			Year:      al.Year,
		})
	}
	return out
}

// MapSongs converts song entries, skipping directories
func MapSongs(children []Child) []domain.Song {
	out := make([]domain.Song, 0, len(children))
	for _, c := range children {
		if c.IsDir {
			continue
		}
		out = append(out, domain.Song{
			ID:       c.ID,
			Title:    c.Title,
			Duration: c.Duration,
			Track:    c.Track,
			Album:    c.Album,
			AlbumID:  c.AlbumID,
			Artist:   c.Artist,
		})
	}
	return out
}
