package subsonic

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/mmcdole/termnavi/internal/domain"
)

const authTimeout = 30 * time.Second

// AuthFlow implements domain.AuthFlow for Subsonic username/password login
type AuthFlow struct {
	logger *slog.Logger

	in           *bufio.Reader
	out          io.Writer
	readPassword func() ([]byte, error)
}

var _ domain.AuthFlow = (*AuthFlow)(nil)

// NewAuthFlow creates an interactive flow on the process terminal
func NewAuthFlow(logger *slog.Logger) *AuthFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthFlow{
		logger: logger,
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		readPassword: func() ([]byte, error) {
			return term.ReadPassword(int(os.Stdin.Fd()))
		},
	}
}

// Run prompts for credentials and verifies them with a ping
func (f *AuthFlow) Run(ctx context.Context, serverURL string) (*domain.AuthResult, error) {
	serverURL = strings.TrimRight(serverURL, "/")

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, "Subsonic Authentication")
	fmt.Fprintln(f.out, "━━━━━━━━━━━━━━━━━━━━━━━")

	fmt.Fprint(f.out, "Username: ")
	username, err := f.in.ReadString('\n')
	if err != nil && username == "" {
		return nil, fmt.Errorf("failed to read username: %w", err)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	// Hidden input
	fmt.Fprint(f.out, "Password: ")
	passwordBytes, err := f.readPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	password := string(passwordBytes)
	fmt.Fprintln(f.out)

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, "Authenticating...")

	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	client := NewClient(serverURL, username, password, f.logger)
	if err := client.Ping(ctx); err != nil {
		return nil, err
	}

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, "Authentication successful!")

	return &domain.AuthResult{
		URL:      serverURL,
		Username: username,
		Password: password,
	}, nil
}

// PromptForServerURL prompts for the server address
func (f *AuthFlow) PromptForServerURL() (string, error) {
	fmt.Fprint(f.out, "Enter your server URL (e.g., http://192.168.1.100:4533): ")
	u, err := f.in.ReadString('\n')
	if err != nil && u == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	u = strings.TrimSpace(u)
	if u == "" {
		return "", fmt.Errorf("server URL is required")
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "http://" + u
	}
	return u, nil
}
