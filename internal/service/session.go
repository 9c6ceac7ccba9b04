package service

import (
	"log/slog"

	"github.com/mmcdole/termnavi/internal/adapter"
)

// SessionService manages user session operations
type SessionService struct {
	cacheDir string
	logger   *slog.Logger
}

// NewSessionService creates a new SessionService for the given cache directory
func NewSessionService(cacheDir string, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{cacheDir: cacheDir, logger: logger}
}

// Logout clears server configuration and cached data
func (s *SessionService) Logout() error {
	if err := adapter.ClearServerConfig(); err != nil {
		return err
	}

	// Cached listings and the saved position belong to the old server
	if err := adapter.ClearCache(s.cacheDir); err != nil {
		return err
	}

	s.logger.Info("logged out", "cache", s.cacheDir)
	return nil
}
