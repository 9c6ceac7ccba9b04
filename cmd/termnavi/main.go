package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmcdole/termnavi/internal/adapter"
	"github.com/mmcdole/termnavi/internal/adapter/lastfm"
	"github.com/mmcdole/termnavi/internal/adapter/source"
	"github.com/mmcdole/termnavi/internal/domain"
	"github.com/mmcdole/termnavi/internal/mpv"
	"github.com/mmcdole/termnavi/internal/playback"
	"github.com/mmcdole/termnavi/internal/search"
	"github.com/mmcdole/termnavi/internal/service"
	"github.com/mmcdole/termnavi/internal/store"
	"github.com/mmcdole/termnavi/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

var configPath string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "termnavi",
		Short:         "Browse and play a Subsonic music library from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/termnavi/config.yaml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "setup",
			Short: "Configure the server address and credentials",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, logger, closer, err := bootstrap()
				if err != nil {
					return err
				}
				defer closer.Close()
				return runSetupFlow(cmd.Context(), cfg, logger)
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the server credentials and clear the cache",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, logger, closer, err := bootstrap()
				if err != nil {
					return err
				}
				defer closer.Close()
				if err := service.NewSessionService(cfg.Cache.Dir, logger).Logout(); err != nil {
					return err
				}
				fmt.Println("Logged out.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("termnavi %s\n", Version)
			},
		},
	)
	return root
}

// bootstrap loads configuration and installs the file logger
func bootstrap() (*adapter.Config, *slog.Logger, io.Closer, error) {
	cfg, err := adapter.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger, closer = adapter.NullLogger(), io.NopCloser(nil)
	}
	slog.SetDefault(logger)
	return cfg, logger, closer, nil
}

func run(ctx context.Context) error {
	cfg, logger, closer, err := bootstrap()
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info("starting termnavi", "version", Version)

	if !cfg.IsConfigured() {
		if err := runSetupFlow(ctx, cfg, logger); err != nil {
			return err
		}
	}

	client, err := source.NewClientFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	db, err := store.NewBoltStore(cfg.Cache.Dir, cfg.Server.URL)
	if err != nil {
		// A second instance holds the lock; browse without the disk cache
		logger.Warn("cache unavailable, running in memory", "error", err)
		db, _ = store.NewBoltStore("", "")
	}
	defer db.Close()

	launcher := adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger)
	session := playback.NewSession(launcher, mpv.UnixDialer{}, logger)
	defer session.Close()

	librarySvc := service.NewLibraryService(client, db, logger)
	searchSvc := service.NewSearchService(client, search.NewService(db, logger), logger)
	playbackSvc := service.NewPlaybackService(session, client, logger)

	var primary domain.Scrobbler
	if cfg.Scrobble.Enabled {
		primary = service.NewCatalogScrobbler(client)
	}
	var mirror domain.Scrobbler
	if cfg.LastFMEnabled() {
		mirror = lastfm.New(cfg.LastFM.APIKey, cfg.LastFM.APISecret, cfg.LastFM.SessionKey)
	}
	reporter := playback.NewReporter(logger, cfg.Scrobble.NowPlaying, primary, mirror)

	model := tui.NewModel(tui.Deps{
		Library:  librarySvc,
		Search:   searchSvc,
		Player:   playbackSvc,
		Reporter: reporter,
		Sessions: db,
		Logger:   logger,
		Window:   cfg.UI.WindowSize,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	logger.Info("starting TUI")

	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return m.Err()
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow prompts for the server and credentials, then saves them
func runSetupFlow(ctx context.Context, cfg *adapter.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to termnavi!")
	fmt.Println()

	flow := source.NewAuthFlow(logger)

	serverURL, err := flow.PromptForServerURL()
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	result, err := flow.Run(ctx, serverURL)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	cfg.Server.URL = result.URL
	cfg.Server.Username = result.Username
	cfg.Server.Password = result.Password

	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved to", adapter.ConfigFile())
	fmt.Println()
	return nil
}
