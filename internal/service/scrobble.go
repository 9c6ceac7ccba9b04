package service

import (
	"context"

	"github.com/mmcdole/termnavi/internal/domain"
)

// CatalogScrobbler reports plays to the catalog server itself
type CatalogScrobbler struct {
	repo domain.ScrobbleRepository
}

var _ domain.Scrobbler = (*CatalogScrobbler)(nil)

// NewCatalogScrobbler wraps the server's scrobble endpoint
func NewCatalogScrobbler(repo domain.ScrobbleRepository) *CatalogScrobbler {
	return &CatalogScrobbler{repo: repo}
}

// Scrobble submits a completed play
func (s *CatalogScrobbler) Scrobble(ctx context.Context, track domain.ScrobbleTrack) error {
	return s.repo.Scrobble(ctx, track.Song.ID, track.StartedAt, true)
}

// NowPlaying sends a now-playing notice
func (s *CatalogScrobbler) NowPlaying(ctx context.Context, track domain.ScrobbleTrack) error {
	return s.repo.Scrobble(ctx, track.Song.ID, track.StartedAt, false)
}
