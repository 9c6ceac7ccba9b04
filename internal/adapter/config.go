package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const appName = "termnavi"

var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Player   PlayerConfig   `mapstructure:"player"`
	UI       UIConfig       `mapstructure:"ui"`
	Scrobble ScrobbleConfig `mapstructure:"scrobble"`
	LastFM   LastFMConfig   `mapstructure:"lastfm"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// ServerConfig holds catalog server configuration
type ServerConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	WindowSize int `mapstructure:"window_size"` // Visible rows per list
}

// ScrobbleConfig controls play reporting to the catalog server
type ScrobbleConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	NowPlaying bool `mapstructure:"now_playing"`
}

// LastFMConfig enables mirroring scrobbles to Last.fm when all three are set
type LastFMConfig struct {
	APIKey     string `mapstructure:"api_key"`
	APISecret  string `mapstructure:"api_secret"`
	SessionKey string `mapstructure:"session_key"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// CacheConfig holds the catalog cache location. Empty keeps the cache in memory.
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Player: PlayerConfig{
			Command: "mpv",
			Args:    []string{},
		},
		UI: UIConfig{
			WindowSize: 15,
		},
		Scrobble: ScrobbleConfig{
			Enabled:    true,
			NowPlaying: false,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
	}
}

// defaultLogPath returns the default log file path, under XDG_STATE_HOME
func defaultLogPath() string {
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

// defaultConfigPath returns the config directory, under XDG_CONFIG_HOME
func defaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// defaultCachePath returns the cache directory, under XDG_CACHE_HOME
func defaultCachePath() string {
	return filepath.Join(xdg.CacheHome, appName)
}

// ConfigFile returns the path configuration is written to
func ConfigFile() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// LoadConfig loads configuration from file and environment. A non-empty
// path overrides the XDG lookup.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	setDefaults(cfg)

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(defaultConfigPath())
		viper.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. TERMNAVI_SERVER_URL
	viper.SetEnvPrefix("TERMNAVI")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !(path != "" && os.IsNotExist(err)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if cfg.UI.WindowSize < 1 {
		cfg.UI.WindowSize = DefaultConfig().UI.WindowSize
	}

	return cfg, nil
}

// setDefaults registers every key so env overrides apply without a config file
func setDefaults(cfg *Config) {
	viper.SetDefault("server.url", cfg.Server.URL)
	viper.SetDefault("server.username", cfg.Server.Username)
	viper.SetDefault("server.password", cfg.Server.Password)
	viper.SetDefault("player.command", cfg.Player.Command)
	viper.SetDefault("player.args", cfg.Player.Args)
	viper.SetDefault("ui.window_size", cfg.UI.WindowSize)
	viper.SetDefault("scrobble.enabled", cfg.Scrobble.Enabled)
	viper.SetDefault("scrobble.now_playing", cfg.Scrobble.NowPlaying)
	viper.SetDefault("lastfm.api_key", cfg.LastFM.APIKey)
	viper.SetDefault("lastfm.api_secret", cfg.LastFM.APISecret)
	viper.SetDefault("lastfm.session_key", cfg.LastFM.SessionKey)
	viper.SetDefault("logging.file", cfg.Logging.File)
	viper.SetDefault("logging.level", cfg.Logging.Level)
	viper.SetDefault("cache.dir", cfg.Cache.Dir)
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("server.url", cfg.Server.URL)
	viper.Set("server.username", cfg.Server.Username)
	viper.Set("server.password", cfg.Server.Password)

	viper.Set("player.command", cfg.Player.Command)
	viper.Set("player.args", cfg.Player.Args)

	viper.Set("ui.window_size", cfg.UI.WindowSize)

	viper.Set("scrobble.enabled", cfg.Scrobble.Enabled)
	viper.Set("scrobble.now_playing", cfg.Scrobble.NowPlaying)

	viper.Set("lastfm.api_key", cfg.LastFM.APIKey)
	viper.Set("lastfm.api_secret", cfg.LastFM.APISecret)
	viper.Set("lastfm.session_key", cfg.LastFM.SessionKey)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	viper.Set("cache.dir", cfg.Cache.Dir)

	return writeConfig()
}

// ClearServerConfig removes the server URL and credentials while
// preserving other settings
func ClearServerConfig() error {
	viper.Set("server.url", "")
	viper.Set("server.username", "")
	viper.Set("server.password", "")
	return writeConfig()
}

func writeConfig() error {
	configFile := ConfigFile()
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	// Credentials live in this file
	if err := os.Chmod(configFile, 0600); err != nil {
		return fmt.Errorf("failed to restrict config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if the server URL and credentials are set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != "" && c.Server.Username != "" && c.Server.Password != ""
}

// LastFMEnabled reports whether the Last.fm mirror has full credentials
func (c *Config) LastFMEnabled() bool {
	return c.LastFM.APIKey != "" && c.LastFM.APISecret != "" && c.LastFM.SessionKey != ""
}

// ClearCache removes all cached data under dir
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
