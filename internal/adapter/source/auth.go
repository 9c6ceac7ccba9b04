package source

import (
	"log/slog"

	"github.com/mmcdole/termnavi/internal/adapter/source/subsonic"
	"github.com/mmcdole/termnavi/internal/domain"
)

// AuthFlow is the interactive setup: server address, then credentials
type AuthFlow interface {
	domain.AuthFlow
	PromptForServerURL() (string, error)
}

// NewAuthFlow creates the username/password flow on the process terminal
func NewAuthFlow(logger *slog.Logger) AuthFlow {
	return subsonic.NewAuthFlow(logger)
}
