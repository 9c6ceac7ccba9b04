package domain

import (
	"context"
	"time"
)

// CatalogRepository provides access to the remote music catalog
type CatalogRepository interface {
	// GetArtists returns every artist in the catalog
	GetArtists(ctx context.Context) ([]Artist, error)

	// GetAlbums returns the albums of an artist
	GetAlbums(ctx context.Context, artistID string) ([]Album, error)

	// GetSongs returns the songs of an album in track order
	GetSongs(ctx context.Context, albumID string) ([]Song, error)
}

// SearchRepository provides text search over songs
type SearchRepository interface {
	// SearchSongs returns a page of songs matching the query
	SearchSongs(ctx context.Context, query string, offset, limit int) ([]Song, error)
}

// StreamRepository resolves playable locators
type StreamRepository interface {
	// StreamURL returns an authenticated URL the external player can open
	StreamURL(songID string) string
}

// ScrobbleRepository records plays on the catalog server
type ScrobbleRepository interface {
	// Scrobble registers a play. submission=false sends a "now playing" notice.
	Scrobble(ctx context.Context, songID string, at time.Time, submission bool) error
}

// AuthResult contains the result of a successful credential check
type AuthResult struct {
	URL      string
	Username string
	Password string
}

// AuthFlow prompts for and verifies catalog credentials
type AuthFlow interface {
	Run(ctx context.Context, serverURL string) (*AuthResult, error)
}
