package lastfm

import (
	"context"
	"errors"
	"testing"
	"time"

	lfm "github.com/shkh/lastfm-go/lastfm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/termnavi/internal/domain"
)

func recording(sessionKey string) (*Scrobbler, *[]lfm.P, *[]lfm.P) {
	var scrobbles, notices []lfm.P
	s := &Scrobbler{
		sessionKey: sessionKey,
		scrobble:   func(p lfm.P) error { scrobbles = append(scrobbles, p); return nil },
		nowPlaying: func(p lfm.P) error { notices = append(notices, p); return nil },
	}
	return s, &scrobbles, &notices
}

func TestScrobbler_Params(t *testing.T) {
	s, scrobbles, notices := recording("sk")
	started := time.Unix(1_700_000_000, 0)
	track := domain.ScrobbleTrack{
		Song:      domain.Song{ID: "s1", Title: "Come Together", Artist: "Beatles", Album: "Abbey Road", Duration: 259, Track: 1},
		StartedAt: started,
	}

	require.NoError(t, s.NowPlaying(context.Background(), track))
	require.NoError(t, s.Scrobble(context.Background(), track))

	require.Len(t, *notices, 1)
	assert.Equal(t, lfm.P{
		"artist":      "Beatles",
		"track":       "Come Together",
		"album":       "Abbey Road",
		"duration":    259,
		"trackNumber": 1,
	}, (*notices)[0])

	require.Len(t, *scrobbles, 1)
	assert.Equal(t, int64(1_700_000_000), (*scrobbles)[0]["timestamp"])
}

func TestScrobbler_Guards(t *testing.T) {
	s, scrobbles, _ := recording("")
	err := s.Scrobble(context.Background(), domain.ScrobbleTrack{Song: domain.Song{Artist: "A"}})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	s, scrobbles, _ = recording("sk")
	err = s.Scrobble(context.Background(), domain.ScrobbleTrack{Song: domain.Song{Title: "x"}})
	assert.ErrorIs(t, err, ErrMissingArtist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Scrobble(ctx, domain.ScrobbleTrack{Song: domain.Song{Artist: "A"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *scrobbles)
}

func TestScrobbler_WrapsAPIError(t *testing.T) {
	s := &Scrobbler{
		sessionKey: "sk",
		scrobble:   func(lfm.P) error { return errors.New("rate limited") },
	}
	err := s.Scrobble(context.Background(), domain.ScrobbleTrack{Song: domain.Song{Artist: "A", Title: "B"}})
	assert.ErrorContains(t, err, "scrobble: rate limited")
}
