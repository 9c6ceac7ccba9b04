package domain

// Store handles local persistence (BoltDB + memory).
// The session snapshot is stored as an opaque JSON document; the catalog
// cache mirrors the last fetched listings for offline search.
type Store interface {
	// === Session snapshot ===
	LoadSession() ([]byte, bool)
	SaveSession(doc []byte) error

	// === Catalog cache ===
	GetArtists() ([]Artist, bool)
	SaveArtists(artists []Artist) error

	GetAlbums(artistID string) ([]Album, bool)
	SaveAlbums(artistID string, albums []Album) error

	GetSongs(artistID, albumID string) ([]Song, bool)
	SaveSongs(artistID, albumID string, songs []Song) error

	// AllSongs returns every cached song (offline search index)
	AllSongs() []Song

	// === Invalidation ===
	InvalidateArtist(artistID string)
	InvalidateAll()

	Close() error
}
