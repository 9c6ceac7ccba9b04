package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "mpv", cfg.Player.Command)
	assert.Equal(t, 15, cfg.UI.WindowSize)
	assert.True(t, cfg.Scrobble.Enabled)
	assert.False(t, cfg.Scrobble.NowPlaying)
	assert.False(t, cfg.IsConfigured())
	assert.False(t, cfg.LastFMEnabled())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  url: http://music.local:4533
  username: alice
  password: hunter2
ui:
  window_size: 0
scrobble:
  now_playing: true
`), 0600))
	t.Setenv("TERMNAVI_PLAYER_COMMAND", "/usr/local/bin/mpv")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://music.local:4533", cfg.Server.URL)
	assert.True(t, cfg.IsConfigured())
	assert.True(t, cfg.Scrobble.NowPlaying)
	assert.Equal(t, 15, cfg.UI.WindowSize, "invalid window size falls back to default")
	assert.Equal(t, "/usr/local/bin/mpv", cfg.Player.Command)
}

func TestSaveAndClearServerConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	cfg.Server = ServerConfig{URL: "http://nd", Username: "bob", Password: "pw"}
	viper.SetConfigFile(path)
	require.NoError(t, SaveConfig(cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	viper.Reset()
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "bob", loaded.Server.Username)

	viper.SetConfigFile(path)
	require.NoError(t, ClearServerConfig())

	viper.Reset()
	cleared, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cleared.IsConfigured())
	assert.Equal(t, "mpv", cleared.Player.Command, "other settings survive")
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "termnavi.log")
	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "debug"})
	require.NoError(t, err)

	logger.Debug("hello", "k", "v")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"app":"termnavi"`)

	logger, closer, err = SetupLogger(&LoggingConfig{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}
