package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/termnavi/internal/domain"
)

// LibraryService answers catalog requests, reading through the store cache.
// Requests are dispatched on their kind; results always carry the request
// that produced them.
type LibraryService struct {
	repo   domain.CatalogRepository
	store  domain.Store
	logger *slog.Logger

	// albumID -> artistID, learned from album listings. Song lists are
	// cached under their artist so InvalidateArtist cascades.
	ownerMu sync.RWMutex
	owners  map[string]string
}

// NewLibraryService creates a new library service
func NewLibraryService(repo domain.CatalogRepository, store domain.Store, logger *slog.Logger) *LibraryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LibraryService{
		repo:   repo,
		store:  store,
		logger: logger,
		owners: make(map[string]string),
	}
}

// Fetch runs a browse request. Search requests are not handled here.
func (s *LibraryService) Fetch(ctx context.Context, req domain.Request) (domain.Result, error) {
	res := domain.Result{Request: req}
	var err error

	switch req.Kind {
	case domain.RequestArtists:
		res.Artists, err = s.GetArtists(ctx)
	case domain.RequestArtistAlbums:
		res.Albums, err = s.GetAlbums(ctx, req.ID)
	case domain.RequestAlbumSongs:
		res.Songs, err = s.GetSongs(ctx, req.ID)
	default:
		return res, fmt.Errorf("%w: %s", domain.ErrUnexpectedResult, req.Kind)
	}
	return res, err
}

// GetArtists returns all artists
func (s *LibraryService) GetArtists(ctx context.Context) ([]domain.Artist, error) {
	if s.store != nil {
		if artists, ok := s.store.GetArtists(); ok {
			s.logger.Debug("cache hit", "kind", "artists")
			return artists, nil
		}
	}

	artists, err := s.repo.GetArtists(ctx)
	if err != nil {
		s.logger.Error("failed to get artists", "error", err)
		return nil, err
	}

	if s.store != nil {
		if err := s.store.SaveArtists(artists); err != nil {
			s.logger.Warn("failed to cache artists", "error", err)
		}
	}
	s.logger.Info("loaded artists", "count", len(artists))
	return artists, nil
}

// GetAlbums returns the albums of an artist
func (s *LibraryService) GetAlbums(ctx context.Context, artistID string) ([]domain.Album, error) {
	if s.store != nil {
		if albums, ok := s.store.GetAlbums(artistID); ok {
			s.logger.Debug("cache hit", "kind", "albums", "artistID", artistID)
			s.learnOwners(artistID, albums)
			return albums, nil
		}
	}

	albums, err := s.repo.GetAlbums(ctx, artistID)
	if err != nil {
		s.logger.Error("failed to get albums", "error", err, "artistID", artistID)
		return nil, err
	}

	s.learnOwners(artistID, albums)
	if s.store != nil {
		if err := s.store.SaveAlbums(artistID, albums); err != nil {
			s.logger.Warn("failed to cache albums", "error", err)
		}
	}
	s.logger.Info("loaded albums", "artistID", artistID, "count", len(albums))
	return albums, nil
}

// GetSongs returns the songs of an album
func (s *LibraryService) GetSongs(ctx context.Context, albumID string) ([]domain.Song, error) {
	artistID := s.owner(albumID)

	if s.store != nil {
		if songs, ok := s.store.GetSongs(artistID, albumID); ok {
			s.logger.Debug("cache hit", "kind", "songs", "albumID", albumID)
			return songs, nil
		}
	}

	songs, err := s.repo.GetSongs(ctx, albumID)
	if err != nil {
		s.logger.Error("failed to get songs", "error", err, "albumID", albumID)
		if errors.Is(err, domain.ErrNotFound) && artistID != "" {
			// The cached album list still names it
			s.RefreshArtist(artistID)
		}
		return nil, err
	}

	if s.store != nil {
		if err := s.store.SaveSongs(artistID, albumID, songs); err != nil {
			s.logger.Warn("failed to cache songs", "error", err)
		}
	}
	s.logger.Info("loaded songs", "albumID", albumID, "count", len(songs))
	return songs, nil
}

// RefreshArtist drops the cached albums and songs of one artist
func (s *LibraryService) RefreshArtist(artistID string) {
	if s.store != nil {
		s.store.InvalidateArtist(artistID)
	}
	s.logger.Info("invalidated artist cache", "artistID", artistID)
}

// InvalidateAll drops the whole catalog cache. The session snapshot survives.
func (s *LibraryService) InvalidateAll() {
	if s.store != nil {
		s.store.InvalidateAll()
	}
	s.logger.Info("invalidated catalog cache")
}

func (s *LibraryService) learnOwners(artistID string, albums []domain.Album) {
	s.ownerMu.Lock()
	defer s.ownerMu.Unlock()
	for _, al := range albums {
		s.owners[al.ID] = artistID
	}
}

func (s *LibraryService) owner(albumID string) string {
	s.ownerMu.RLock()
	defer s.ownerMu.RUnlock()
	return s.owners[albumID]
}
