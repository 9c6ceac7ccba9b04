package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/termnavi/internal/domain"
	"github.com/mmcdole/termnavi/internal/navigation"
	"github.com/mmcdole/termnavi/internal/search"
)

const (
	searchPageSize   = 50
	maxSearchResults = 500
)

// SearchService handles song search, ranking server results locally and
// falling back to the cached catalog when the server fails
type SearchService struct {
	repo    domain.SearchRepository
	offline *search.Service
	logger  *slog.Logger
}

// NewSearchService creates a new search service. offline may be nil.
func NewSearchService(repo domain.SearchRepository, offline *search.Service, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		repo:    repo,
		offline: offline,
		logger:  logger,
	}
}

// Search returns songs matching query, best first. offline reports that the
// server failed and the results came from the local cache.
func (s *SearchService) Search(ctx context.Context, query string) (songs []domain.Song, offline bool, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, nil
	}

	s.logger.Debug("searching", "query", query)

	results, err := fetchAll(ctx, func(ctx context.Context, offset, limit int) ([]domain.Song, error) {
		return s.repo.SearchSongs(ctx, query, offset, limit)
	}, searchPageSize, maxSearchResults)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, err
		}
		local := s.SearchLocal(query)
		if len(local) == 0 {
			s.logger.Error("search failed", "query", query, "error", err)
			return nil, false, err
		}
		s.logger.Warn("server search failed, falling back to local", "error", err, "results", len(local))
		return local, true, nil
	}

	ranked := rankResults(results, query)
	s.logger.Debug("search complete", "query", query, "results", len(ranked))
	return ranked, false, nil
}

// SearchLocal searches the cached catalog only
func (s *SearchService) SearchLocal(query string) []domain.Song {
	if s.offline == nil {
		return nil
	}
	return search.Songs(s.offline.FilterLocal(query))
}

// rankResults orders server results by how closely the title matches.
// Ties keep server order.
func rankResults(songs []domain.Song, query string) []domain.Song {
	if len(songs) == 0 {
		return songs
	}

	query = navigation.Fold(query)

	type rankedSong struct {
		song  domain.Song
		score int
	}

	ranked := make([]rankedSong, len(songs))
	for i, song := range songs {
		ranked[i] = rankedSong{song: song, score: matchScore(song, query)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})

	out := make([]domain.Song, len(ranked))
	for i, r := range ranked {
		out[i] = r.song
	}
	return out
}

// matchScore scores a song against a folded query. Lower is better.
func matchScore(song domain.Song, query string) int {
	title := navigation.Fold(song.Title)

	switch {
	case title == query:
		return 0
	case strings.HasPrefix(title, query):
		return 10
	case strings.Contains(title, query):
		return 50
	case fuzzy.Match(query, title):
		return 60 + min(len(title)-len(query), 19)
	}

	other := navigation.Fold(song.Artist + " " + song.Album)
	if strings.Contains(other, query) {
		return 80
	}

	return 100 + fuzzy.LevenshteinDistance(query, title)
}
