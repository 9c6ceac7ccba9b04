package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/termnavi/internal/domain"
	"github.com/mmcdole/termnavi/internal/playback"
)

const (
	VolumeStep    = 5
	defaultVolume = 100
)

// Control lines understood by the player
const (
	cmdMute = "cycle mute"
	cmdNext = "playlist-next"
	cmdPrev = "playlist-prev"
)

// player abstracts the playback session (consumer-defined interface)
type player interface {
	Start(urls []string, startIndex int) error
	Stop()
	SendCommand(text string) error
	Status() *playback.Status
	Active() bool
}

// PlaybackService orchestrates playback operations
type PlaybackService struct {
	player  player
	streams domain.StreamRepository
	logger  *slog.Logger

	mu     sync.Mutex
	volume int
}

// NewPlaybackService creates a new playback service
func NewPlaybackService(player player, streams domain.StreamRepository, logger *slog.Logger) *PlaybackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackService{
		player:  player,
		streams: streams,
		logger:  logger,
		volume:  defaultVolume,
	}
}

// Play starts a new session over queue beginning at startIndex
func (s *PlaybackService) Play(queue []domain.Song, startIndex int) error {
	if startIndex < 0 || startIndex >= len(queue) {
		return fmt.Errorf("%w: start %d outside queue of %d", playback.ErrLaunchFailed, startIndex, len(queue))
	}

	urls := make([]string, len(queue))
	for i, song := range queue {
		urls[i] = s.streams.StreamURL(song.ID)
	}

	s.logger.Info("launching playback", "title", queue[startIndex].Title, "songID", queue[startIndex].ID,
		"start", startIndex, "queue", len(queue))

	if err := s.player.Start(urls, startIndex); err != nil {
		s.logger.Error("failed to start playback", "error", err)
		return err
	}

	// Every session is a new player process at its default volume
	s.mu.Lock()
	s.volume = defaultVolume
	s.mu.Unlock()
	return nil
}

// Stop ends the live session, if any
func (s *PlaybackService) Stop() {
	if !s.player.Active() {
		return
	}
	s.logger.Info("stopping playback")
	s.player.Stop()
}

// Status returns the shared status of the current session
func (s *PlaybackService) Status() *playback.Status {
	return s.player.Status()
}

// Active reports whether a player is running
func (s *PlaybackService) Active() bool {
	return s.player.Active()
}

// Volume returns the last volume sent to the player
func (s *PlaybackService) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// VolumeUp raises the volume one step, capped at 100
func (s *PlaybackService) VolumeUp() (int, error) {
	return s.changeVolume(VolumeStep)
}

// VolumeDown lowers the volume one step, floored at 0
func (s *PlaybackService) VolumeDown() (int, error) {
	return s.changeVolume(-VolumeStep)
}

func (s *PlaybackService) changeVolume(delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := min(max(s.volume+delta, 0), 100)
	if err := s.send(fmt.Sprintf("set volume %d", next)); err != nil {
		return s.volume, err
	}
	s.volume = next
	return next, nil
}

// ToggleMute flips the player's mute state
func (s *PlaybackService) ToggleMute() error { return s.send(cmdMute) }

// Next skips to the next queued song
func (s *PlaybackService) Next() error { return s.send(cmdNext) }

// Prev returns to the previous queued song
func (s *PlaybackService) Prev() error { return s.send(cmdPrev) }

func (s *PlaybackService) send(cmd string) error {
	err := s.player.SendCommand(cmd)
	if err != nil && !errors.Is(err, playback.ErrNoSession) {
		s.logger.Warn("player command failed", "command", cmd, "error", err)
	}
	return err
}
