package playback

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/termnavi/internal/domain"
)

// ScrobbleAfter caps how long a track must play before it is scrobbled
const ScrobbleAfter = 10 * time.Second

// Threshold returns the elapsed time after which a track counts as played:
// half its length, but never more than ScrobbleAfter.
func Threshold(length time.Duration) time.Duration {
	if length <= 0 {
		return ScrobbleAfter
	}
	return min(ScrobbleAfter, length/2)
}

// Submission is one pending report for the track at Index
type Submission struct {
	Track  domain.ScrobbleTrack
	Index  int
	Notice bool // now-playing notice rather than a completed play

	status *Status
	gen    uint64
}

// Reporter decides when the playing track is reported and tracks the
// in-flight submission. It lives on the UI loop; only Submit runs elsewhere.
type Reporter struct {
	primary domain.Scrobbler
	mirrors []domain.Scrobbler
	notice  bool
	logger  *slog.Logger

	inFlight bool
	gen      uint64
}

// NewReporter creates a reporter submitting to primary and copying every
// report to mirrors. Mirror failures are logged and never fail a report.
// With notice set, a now-playing notice is sent when each track starts.
func NewReporter(logger *slog.Logger, notice bool, primary domain.Scrobbler, mirrors ...domain.Scrobbler) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	var live []domain.Scrobbler
	for _, m := range mirrors {
		if m != nil {
			live = append(live, m)
		}
	}
	return &Reporter{
		primary: primary,
		mirrors: live,
		notice:  notice,
		logger:  logger,
	}
}

// Enabled reports whether there is anywhere to send reports
func (r *Reporter) Enabled() bool {
	return r != nil && (r.primary != nil || len(r.mirrors) > 0)
}

// Evaluate reports whether the track at index is due for a scrobble
func (r *Reporter) Evaluate(st *Status, index int, song domain.Song, elapsed time.Duration) bool {
	if !r.Enabled() || st == nil || r.inFlight || st.ScrobbleSent() {
		return false
	}
	if cur, ok := st.CurrentIndex(); !ok || cur != index {
		return false
	}
	return elapsed >= Threshold(song.Length())
}

// Next claims the next due report, if any. A due now-playing notice goes
// before the scrobble. The claim holds until Ack or Reset.
func (r *Reporter) Next(st *Status, index int, song domain.Song, elapsed time.Duration, now time.Time) (Submission, bool) {
	if !r.Enabled() || st == nil || r.inFlight {
		return Submission{}, false
	}
	if cur, ok := st.CurrentIndex(); !ok || cur != index {
		return Submission{}, false
	}

	sub := Submission{
		Track:  domain.ScrobbleTrack{Song: song, StartedAt: now.Add(-elapsed)},
		Index:  index,
		status: st,
		gen:    r.gen,
	}
	switch {
	case r.notice && !st.NowPlayingSent():
		sub.Notice = true
	case r.Evaluate(st, index, song, elapsed):
	default:
		return Submission{}, false
	}
	r.inFlight = true
	return sub, true
}

// Submit sends the report. Safe to call off the UI loop.
func (r *Reporter) Submit(ctx context.Context, sub Submission) error {
	send := func(s domain.Scrobbler) error {
		if sub.Notice {
			return s.NowPlaying(ctx, sub.Track)
		}
		return s.Scrobble(ctx, sub.Track)
	}

	var err error
	if r.primary != nil {
		err = send(r.primary)
	}
	for _, m := range r.mirrors {
		if merr := send(m); merr != nil {
			r.logger.Warn("scrobble mirror failed", "song", sub.Track.Song.ID, "notice", sub.Notice, "error", merr)
		}
	}
	return err
}

// Ack records the outcome of Submit. A failed scrobble stays unsent so the
// next tick retries it; a failed notice is not retried. Acks for a track
// that has since changed are dropped.
func (r *Reporter) Ack(sub Submission, err error) {
	if sub.gen != r.gen {
		return
	}
	r.inFlight = false

	if err != nil {
		r.logger.Warn("scrobble failed", "song", sub.Track.Song.ID, "notice", sub.Notice, "error", err)
		if sub.Notice {
			sub.status.nowPlayingSent.Store(true)
		}
		return
	}

	if sub.Notice {
		sub.status.nowPlayingSent.Store(true)
		return
	}
	sub.status.scrobbleSent.Store(true)
	r.logger.Info("scrobbled", "song", sub.Track.Song.ID, "title", sub.Track.Song.Title)
}

// Reset forgets the previous track: flags cleared, in-flight claim dropped
func (r *Reporter) Reset(st *Status) {
	r.gen++
	r.inFlight = false
	if st != nil {
		st.ResetTrackFlags()
	}
}
