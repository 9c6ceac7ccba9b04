// Package search matches queries against the locally cached catalog so a
// search still answers when the server does not.
package search

import (
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/termnavi/internal/domain"
	"github.com/mmcdole/termnavi/internal/navigation"
)

// MaxResults caps an offline result list
const MaxResults = 200

// SongCache is the part of the store the index reads from
type SongCache interface {
	AllSongs() []domain.Song
}

// Result is a matched song with match metadata
type Result struct {
	Song           domain.Song
	MatchedIndexes []int
	Score          int
}

// songIndex implements sahilm/fuzzy.Source over folded "title artist album" keys
type songIndex struct {
	songs []domain.Song
	keys  []string
}

func (idx *songIndex) String(i int) string { return idx.keys[i] }
func (idx *songIndex) Len() int            { return len(idx.songs) }

func newSongIndex(songs []domain.Song) *songIndex {
	idx := &songIndex{songs: songs, keys: make([]string, len(songs))}
	for i, s := range songs {
		idx.keys[i] = Key(s)
	}
	return idx
}

// Key is the folded text a song is matched against
func Key(s domain.Song) string {
	parts := []string{s.Title}
	if s.Artist != "" {
		parts = append(parts, s.Artist)
	}
	if s.Album != "" {
		parts = append(parts, s.Album)
	}
	return navigation.Fold(strings.Join(parts, " "))
}

// Service searches cached songs
type Service struct {
	cache  SongCache
	logger *slog.Logger
}

// NewService creates an offline search service over cache
func NewService(cache SongCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cache:  cache,
		logger: logger,
	}
}

// FilterLocal returns cached songs matching query, best first
func (s *Service) FilterLocal(query string) []Result {
	query = navigation.Fold(strings.TrimSpace(query))
	if query == "" || s.cache == nil {
		return nil
	}

	idx := newSongIndex(s.cache.AllSongs())
	if idx.Len() == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(query, idx)
	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Song:           idx.songs[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	s.logger.Debug("offline search", "query", query, "indexed", idx.Len(), "results", len(results))
	return results
}

// Songs strips the match metadata
func Songs(results []Result) []domain.Song {
	songs := make([]domain.Song, len(results))
	for i, r := range results {
		songs[i] = r.Song
	}
	return songs
}
