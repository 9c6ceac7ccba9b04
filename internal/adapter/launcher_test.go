package adapter

import (
	"errors"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLauncher_ArgsForMpv(t *testing.T) {
	l := NewLauncher("mpv", []string{"--volume=70"}, NullLogger())
	_, cfg, err := l.resolve()
	require.NoError(t, err)

	args := l.Args(cfg, []string{"http://a", "http://b"}, 1, "/tmp/termnavi-x/mpv.sock")
	assert.Equal(t, []string{
		"--volume=70",
		"--no-video",
		"--no-terminal",
		"--playlist-start=1",
		"--input-ipc-server=/tmp/termnavi-x/mpv.sock",
		"http://a",
		"http://b",
	}, args)
}

func TestLauncher_ArgsForFrontEnd(t *testing.T) {
	l := NewLauncher("/usr/bin/celluloid", nil, NullLogger())
	_, cfg, err := l.resolve()
	require.NoError(t, err)

	args := l.Args(cfg, []string{"http://a"}, 0, "/s")
	assert.Equal(t, []string{
		"--mpv-no-video",
		"--mpv-no-terminal",
		"--mpv-playlist-start=0",
		"--mpv-input-ipc-server=/s",
		"--",
		"http://a",
	}, args)
}

func TestLauncher_AutoDetect(t *testing.T) {
	l := NewLauncher("", nil, NullLogger())
	l.lookPath = func(name string) (string, error) {
		return "", errors.New("not found")
	}
	_, _, err := l.resolve()
	assert.ErrorContains(t, err, "no mpv-compatible player found")

	l.lookPath = func(name string) (string, error) {
		if name == "mpv" {
			return "/opt/bin/mpv", nil
		}
		return "", errors.New("not found")
	}
	cmd, cfg, err := l.resolve()
	require.NoError(t, err)
	assert.Equal(t, "/opt/bin/mpv", cmd)
	assert.Equal(t, "--", cfg.optionPrefix)
}

func TestLauncher_LaunchStartError(t *testing.T) {
	l := NewLauncher("mpv", nil, NullLogger())
	l.start = func(*exec.Cmd) error { return exec.ErrNotFound }

	_, err := l.Launch([]string{"http://a"}, 0, "/s")
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestLauncher_ProcessReaped(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a unix true(1)")
	}
	path, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true(1) not available")
	}

	l := NewLauncher(path, nil, NullLogger())
	proc, err := l.Launch([]string{"http://a"}, 0, "/s")
	require.NoError(t, err)

	select {
	case <-proc.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process was not reaped")
	}
	assert.NoError(t, proc.Kill(), "killing an exited player is not an error")
}
