package playback

import (
	"math"
	"sync/atomic"
	"time"
)

// NoTrack is the current index while nothing is playing
const NoTrack int64 = math.MaxInt64

// Status is the state shared between one session's listener goroutine and
// the UI loop. Every field is an atomic; the index is always stored before
// the redraw flag is raised, so a reader that takes the flag sees the index.
//
// current index is NoTrack or < song count at all times.
type Status struct {
	currentIndex  atomic.Int64
	currentTimeMS atomic.Int64
	songCount     atomic.Int64

	ended          atomic.Bool
	forceUIUpdate  atomic.Bool
	shouldQuit     atomic.Bool
	scrobbleSent   atomic.Bool
	nowPlayingSent atomic.Bool
}

// NewStatus returns a fresh status for a queue of songCount tracks
func NewStatus(songCount int) *Status {
	s := &Status{}
	s.currentIndex.Store(NoTrack)
	s.songCount.Store(int64(songCount))
	s.forceUIUpdate.Store(true)
	return s
}

// CurrentIndex returns the playing queue index
func (s *Status) CurrentIndex() (int, bool) {
	i := s.currentIndex.Load()
	if i == NoTrack {
		return 0, false
	}
	return int(i), true
}

// Position is the value the UI reconciles against: the current index, or
// the song count once the player has run off the end of the queue.
func (s *Status) Position() int64 {
	if s.ended.Load() {
		return s.songCount.Load()
	}
	return s.currentIndex.Load()
}

// SongCount returns the queue length
func (s *Status) SongCount() int {
	return int(s.songCount.Load())
}

// Elapsed returns the playback position within the current track
func (s *Status) Elapsed() time.Duration {
	return time.Duration(s.currentTimeMS.Load()) * time.Millisecond
}

// SetElapsed records the player's time position in seconds
func (s *Status) SetElapsed(seconds float64) {
	s.currentTimeMS.Store(int64(seconds * 1000))
}

// ObservePosition applies a playlist position reported by the player.
// In-range values become the current index; a new index starts its time at
// zero, since the player reports no time-pos until the next file loads.
// Running past the last track marks the queue as ended; the index is left
// as is. Anything else, including the player's -1 "no media" value, is
// ignored.
func (s *Status) ObservePosition(n int64) {
	count := s.songCount.Load()
	switch {
	case n >= 0 && n < count:
		if s.currentIndex.Swap(n) != n {
			s.currentTimeMS.Store(0)
		}
		s.ended.Store(false)
		s.forceUIUpdate.Store(true)
	case n >= count && count > 0:
		s.MarkEnded()
	}
}

// ObserveEndFile applies the player's end-file notice. Only a natural end
// of the last track finishes the queue; other reasons and earlier tracks
// are followed by a playlist-pos change instead.
func (s *Status) ObserveEndFile(reason string) {
	if reason != "eof" {
		return
	}
	count := s.songCount.Load()
	if count > 0 && s.currentIndex.Load() == count-1 {
		s.MarkEnded()
	}
}

// MarkEnded flags that the queue has finished playing
func (s *Status) MarkEnded() {
	s.ended.Store(true)
	s.forceUIUpdate.Store(true)
}

// Ended reports whether the queue has finished
func (s *Status) Ended() bool {
	return s.ended.Load()
}

// RequestRedraw raises the redraw flag
func (s *Status) RequestRedraw() {
	s.forceUIUpdate.Store(true)
}

// TakeRedraw returns and clears the redraw flag
func (s *Status) TakeRedraw() bool {
	return s.forceUIUpdate.Swap(false)
}

// ShouldQuit reports whether the listener has been told to exit
func (s *Status) ShouldQuit() bool {
	return s.shouldQuit.Load()
}

func (s *Status) setShouldQuit(v bool) {
	s.shouldQuit.Store(v)
}

// reset puts the status back to "nothing playing"
func (s *Status) reset() {
	s.currentIndex.Store(NoTrack)
	s.currentTimeMS.Store(0)
	s.ended.Store(false)
	s.ResetTrackFlags()
	s.forceUIUpdate.Store(true)
}

// ScrobbleSent reports whether the current track has been scrobbled
func (s *Status) ScrobbleSent() bool {
	return s.scrobbleSent.Load()
}

// NowPlayingSent reports whether the now-playing notice went out
func (s *Status) NowPlayingSent() bool {
	return s.nowPlayingSent.Load()
}

// ResetTrackFlags clears the per-track scrobble flags
func (s *Status) ResetTrackFlags() {
	s.scrobbleSent.Store(false)
	s.nowPlayingSent.Store(false)
}
