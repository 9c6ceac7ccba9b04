package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/termnavi/internal/adapter"
	"github.com/mmcdole/termnavi/internal/adapter/source/subsonic"
	"github.com/mmcdole/termnavi/internal/domain"
)

// MediaSource combines all repository interfaces that a catalog backend must implement.
type MediaSource interface {
	domain.CatalogRepository  // Browsing: GetArtists, GetAlbums, GetSongs
	domain.SearchRepository   // Search: SearchSongs(query) across the catalog
	domain.StreamRepository   // Playback: StreamURL
	domain.ScrobbleRepository // Play reporting: Scrobble

	// Ping verifies connectivity and credentials
	Ping(ctx context.Context) error
}

// SourceConfig contains the configuration needed to create a MediaSource
type SourceConfig struct {
	URL      string
	Username string
	Password string
}

// NewClient creates a new MediaSource for a Subsonic-compatible server
func NewClient(cfg *SourceConfig, logger *slog.Logger) (MediaSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source config is nil")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("server credentials are required")
	}
	return subsonic.NewClient(cfg.URL, cfg.Username, cfg.Password, logger), nil
}

// NewClientFromConfig creates a MediaSource from the application config
func NewClientFromConfig(cfg *adapter.Config, logger *slog.Logger) (MediaSource, error) {
	return NewClient(&SourceConfig{
		URL:      cfg.Server.URL,
		Username: cfg.Server.Username,
		Password: cfg.Server.Password,
	}, logger)
}
