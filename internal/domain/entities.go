package domain

import (
	"fmt"
	"time"
)

// Artist represents a catalog artist
type Artist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AlbumCount int    `json:"album_count,omitempty"`
}

// Album represents a catalog album belonging to an artist
type Album struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Artist    string `json:"artist,omitempty"`
	ArtistID  string `json:"artist_id,omitempty"`
	SongCount int    `json:"song_count,omitempty"`
	Year      int    `json:"year,omitempty"`
}

// Song represents a playable track
type Song struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"` // Seconds
	Track    int    `json:"track,omitempty"`
	Album    string `json:"album,omitempty"`
	AlbumID  string `json:"album_id,omitempty"`
	Artist   string `json:"artist,omitempty"`
}

// Ref is a lightweight id+name pointer to an artist or album
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DisplayName implementations are used for list rendering and quick-jump matching.

func (a Artist) DisplayName() string { return a.Name }
func (a Album) DisplayName() string  { return a.Name }
func (s Song) DisplayName() string   { return s.Title }

// Ref returns the id+name pointer for the artist
func (a Artist) Ref() Ref { return Ref{ID: a.ID, Name: a.Name} }

// Ref returns the id+name pointer for the album
func (a Album) Ref() Ref { return Ref{ID: a.ID, Name: a.Name} }

// Length returns the song duration as a time.Duration
func (s Song) Length() time.Duration {
	return time.Duration(s.Duration) * time.Second
}

// FormattedDuration returns the duration as M:SS or H:MM:SS
func (s Song) FormattedDuration() string {
	return FormatClock(s.Length())
}

// Description returns secondary info for display
func (a Album) Description() string {
	switch {
	case a.Year > 0 && a.SongCount > 0:
		return fmt.Sprintf("%d · %d songs", a.Year, a.SongCount)
	case a.Year > 0:
		return fmt.Sprintf("%d", a.Year)
	case a.SongCount == 1:
		return "1 song"
	case a.SongCount > 0:
		return fmt.Sprintf("%d songs", a.SongCount)
	default:
		return ""
	}
}

// FormatClock formats a duration as M:SS, or H:MM:SS when it exceeds an hour
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
