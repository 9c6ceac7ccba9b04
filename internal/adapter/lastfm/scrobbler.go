// Package lastfm mirrors plays to Last.fm.
package lastfm

import (
	"context"
	"errors"
	"fmt"

	lfm "github.com/shkh/lastfm-go/lastfm"

	"github.com/mmcdole/termnavi/internal/domain"
)

// ErrNotAuthenticated is returned when no session key is configured.
var ErrNotAuthenticated = errors.New("last.fm: not authenticated")

// ErrMissingArtist is returned for songs Last.fm cannot identify.
var ErrMissingArtist = errors.New("last.fm: song has no artist")

// Scrobbler implements domain.Scrobbler against the Last.fm API
type Scrobbler struct {
	sessionKey string
	scrobble   func(lfm.P) error
	nowPlaying func(lfm.P) error
}

var _ domain.Scrobbler = (*Scrobbler)(nil)

// New creates a Last.fm scrobbler for an already authorized session
func New(apiKey, apiSecret, sessionKey string) *Scrobbler {
	api := lfm.New(apiKey, apiSecret)
	api.SetSession(sessionKey)
	return &Scrobbler{
		sessionKey: sessionKey,
		scrobble: func(p lfm.P) error {
			_, err := api.Track.Scrobble(p)
			return err
		},
		nowPlaying: func(p lfm.P) error {
			_, err := api.Track.UpdateNowPlaying(p)
			return err
		},
	}
}

// NowPlaying sends a "now playing" notification.
// The client library has no context support; ctx is checked up front only.
func (s *Scrobbler) NowPlaying(ctx context.Context, track domain.ScrobbleTrack) error {
	p, err := s.params(ctx, track)
	if err != nil {
		return err
	}
	if err := s.nowPlaying(p); err != nil {
		return fmt.Errorf("update now playing: %w", err)
	}
	return nil
}

// Scrobble submits a completed play
func (s *Scrobbler) Scrobble(ctx context.Context, track domain.ScrobbleTrack) error {
	p, err := s.params(ctx, track)
	if err != nil {
		return err
	}
	p["timestamp"] = track.StartedAt.Unix()
	if err := s.scrobble(p); err != nil {
		return fmt.Errorf("scrobble: %w", err)
	}
	return nil
}

func (s *Scrobbler) params(ctx context.Context, track domain.ScrobbleTrack) (lfm.P, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.sessionKey == "" {
		return nil, ErrNotAuthenticated
	}
	song := track.Song
	if song.Artist == "" {
		return nil, ErrMissingArtist
	}

	p := lfm.P{
		"artist": song.Artist,
		"track":  song.Title,
	}
	if song.Album != "" {
		p["album"] = song.Album
	}
	if song.Duration > 0 {
		p["duration"] = song.Duration
	}
	if song.Track > 0 {
		p["trackNumber"] = song.Track
	}
	return p, nil
}
