package domain

import (
	"context"
	"time"
)

// ScrobbleTrack contains the song metadata submitted with a play
type ScrobbleTrack struct {
	Song      Song
	StartedAt time.Time
}

// Scrobbler submits plays to one destination (catalog server, Last.fm, ...)
type Scrobbler interface {
	Scrobble(ctx context.Context, track ScrobbleTrack) error
	NowPlaying(ctx context.Context, track ScrobbleTrack) error
}

// PlayerProcess is a running external player
type PlayerProcess interface {
	// Kill terminates the player. Killing an exited player is not an error.
	Kill() error

	// Done is closed once the player has exited and been reaped
	Done() <-chan struct{}
}

// PlayerLauncher starts the external player on an ordered list of stream
// locators, beginning at startIndex, with its control endpoint bound to
// the given socket path.
type PlayerLauncher interface {
	Launch(urls []string, startIndex int, endpoint string) (PlayerProcess, error)
}
