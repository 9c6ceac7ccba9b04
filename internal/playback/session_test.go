package playback

import (
	"bufio"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/termnavi/internal/mpv"
)

const eventually = 2 * time.Second

func newTestSession(t *testing.T, dialer mpv.Dialer) (*Session, *fakeLauncher, string) {
	t.Helper()
	root, err := os.MkdirTemp("", "pbt")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(root) })

	l := &fakeLauncher{}
	s := NewSession(l, dialer, nil, WithRetryDelay(5*time.Millisecond), WithTempRoot(root))
	t.Cleanup(func() { s.Close() })
	return s, l, root
}

func urls(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "http://music.local/rest/stream?id=" + string(rune('a'+i))
	}
	return out
}

func TestSession_StartLaunchesPlayer(t *testing.T) {
	s, l, root := newTestSession(t, newFakeDialer())

	require.NoError(t, s.Start(urls(3), 1))

	got := l.last()
	assert.Equal(t, 1, got.start)
	assert.Len(t, got.urls, 3)
	assert.Equal(t, "mpv.sock", filepath.Base(got.endpoint))
	assert.True(t, strings.HasPrefix(filepath.Base(filepath.Dir(got.endpoint)), "termnavi-"))
	assert.Equal(t, root, filepath.Dir(filepath.Dir(got.endpoint)))

	st := s.Status()
	_, playing := st.CurrentIndex()
	assert.False(t, playing, "nothing reconciled until the player reports")
	assert.Equal(t, 3, st.SongCount())
	assert.True(t, st.TakeRedraw(), "fresh status asks for a redraw")
}

func TestSession_ListenerAppliesEvents(t *testing.T) {
	d := newFakeDialer()
	s, _, _ := newTestSession(t, d)
	conn := newFakeConn()
	d.conns <- conn

	require.NoError(t, s.Start(urls(3), 0))
	st := s.Status()

	require.Eventually(t, func() bool { return len(conn.writes()) == 2 }, eventually, time.Millisecond)
	assert.Equal(t, []string{
		`{"command":["observe_property",1,"playlist-pos"]}` + "\n",
		`{"command":["observe_property",2,"time-pos"]}` + "\n",
	}, conn.writes())

	conn.send(`{"event":"property-change","id":1,"name":"playlist-pos","data":1}`)
	conn.send(`{"event":"property-change","id":2,"name":"time-pos","data":4.25}`)
	require.Eventually(t, func() bool { return st.Elapsed() == 4250*time.Millisecond }, eventually, time.Millisecond)
	idx, ok := st.CurrentIndex()
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	// Out of range and malformed input leaves the index alone
	conn.send(`{"event":"property-change","id":1,"name":"playlist-pos","data":-1}`)
	conn.send(`garbage`)
	conn.send(`{"event":"property-change","id":2,"name":"time-pos","data":5}`)
	require.Eventually(t, func() bool { return st.Elapsed() == 5*time.Second }, eventually, time.Millisecond)
	idx, _ = st.CurrentIndex()
	assert.Equal(t, 1, idx)

	// Running off the end flags the queue as ended without breaking the index invariant
	conn.send(`{"event":"property-change","id":1,"name":"playlist-pos","data":3}`)
	require.Eventually(t, st.Ended, eventually, time.Millisecond)
	assert.Equal(t, int64(3), st.Position())
	idx, _ = st.CurrentIndex()
	assert.Equal(t, 1, idx)
}

func TestSession_ListenerRetriesUntilConnected(t *testing.T) {
	d := newFakeDialer()
	s, _, _ := newTestSession(t, d)

	require.NoError(t, s.Start(urls(2), 0))
	require.Eventually(t, func() bool { return d.dialCount() >= 3 }, eventually, time.Millisecond)

	conn := newFakeConn()
	d.conns <- conn
	conn.send(`{"event":"property-change","id":1,"name":"playlist-pos","data":1}`)

	st := s.Status()
	require.Eventually(t, func() bool { i, ok := st.CurrentIndex(); return ok && i == 1 }, eventually, time.Millisecond)
}

func TestSession_ListenerReconnectsAfterReadError(t *testing.T) {
	d := newFakeDialer()
	s, _, _ := newTestSession(t, d)
	first := newFakeConn()
	d.conns <- first

	require.NoError(t, s.Start(urls(2), 0))
	require.Eventually(t, func() bool { return len(first.writes()) == 2 }, eventually, time.Millisecond)

	second := newFakeConn()
	d.conns <- second
	first.Close()

	second.send(`{"event":"property-change","id":1,"name":"playlist-pos","data":1}`)
	st := s.Status()
	require.Eventually(t, func() bool { i, ok := st.CurrentIndex(); return ok && i == 1 }, eventually, time.Millisecond)
	assert.Len(t, second.writes(), 2, "subscriptions are sent again on reconnect")
}

func TestSession_StartTwiceRetiresPrevious(t *testing.T) {
	s, l, root := newTestSession(t, newFakeDialer())

	require.NoError(t, s.Start(urls(3), 0))
	firstDir := s.Dir()
	firstProc := l.last().proc
	firstStatus := s.Status()

	require.NoError(t, s.Start(urls(5), 2))

	assert.Equal(t, 1, s.Listeners(), "exactly one live listener")
	assert.NoDirExists(t, firstDir)
	assert.DirExists(t, s.Dir())
	assert.True(t, firstProc.wasKilled())
	assert.NotSame(t, firstStatus, s.Status())
	assert.Equal(t, 5, s.Status().SongCount())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSession_LaunchFailure(t *testing.T) {
	s, l, root := newTestSession(t, newFakeDialer())
	l.err = errors.New("exec: \"mpv\": executable file not found in $PATH")

	err := s.Start(urls(2), 0)
	require.ErrorIs(t, err, ErrLaunchFailed)
	assert.Contains(t, err.Error(), "executable file not found")

	assert.False(t, s.Active())
	assert.Equal(t, 0, s.Listeners())
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "control dir removed")
}

func TestSession_FailedStartDropsRetiredStatus(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "run")
	require.NoError(t, os.Mkdir(root, 0o755))

	d := newFakeDialer()
	conn := newFakeConn()
	d.conns <- conn
	s := NewSession(&fakeLauncher{}, d, nil, WithRetryDelay(5*time.Millisecond), WithTempRoot(root))
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Start(urls(3), 0))
	old := s.Status()
	conn.send(`{"event":"property-change","id":1,"name":"playlist-pos","data":2}`)
	require.Eventually(t, func() bool { _, ok := old.CurrentIndex(); return ok }, eventually, time.Millisecond)

	// No control dir can be created under a plain file
	require.NoError(t, os.RemoveAll(root))
	require.NoError(t, os.WriteFile(root, nil, 0o644))

	err := s.Start(urls(3), 1)
	require.ErrorIs(t, err, ErrLaunchFailed)

	st := s.Status()
	assert.NotSame(t, old, st)
	assert.False(t, s.Active())
	_, playing := st.CurrentIndex()
	assert.False(t, playing)
	assert.Equal(t, NoTrack, st.Position())
}

func TestSession_StartRejectsBadQueue(t *testing.T) {
	s, l, _ := newTestSession(t, newFakeDialer())

	assert.ErrorIs(t, s.Start(nil, 0), ErrLaunchFailed)
	assert.ErrorIs(t, s.Start(urls(2), 2), ErrLaunchFailed)
	assert.Empty(t, l.launches)
}

func TestSession_Stop(t *testing.T) {
	d := newFakeDialer()
	s, l, _ := newTestSession(t, d)
	conn := newFakeConn()
	d.conns <- conn

	require.NoError(t, s.Start(urls(3), 0))
	dir := s.Dir()
	st := s.Status()
	conn.send(`{"event":"property-change","id":1,"name":"playlist-pos","data":2}`)
	require.Eventually(t, func() bool { _, ok := st.CurrentIndex(); return ok }, eventually, time.Millisecond)

	s.Stop()

	assert.True(t, l.last().proc.wasKilled())
	assert.NoDirExists(t, dir)
	assert.Equal(t, 0, s.Listeners())
	assert.False(t, s.Active())
	assert.False(t, st.ShouldQuit(), "a later start must not be pre-signaled")
	assert.Equal(t, NoTrack, st.Position())

	// Stopping an idle session is harmless
	s.Stop()
}

func TestSession_PlayerExitEndsQueue(t *testing.T) {
	s, l, _ := newTestSession(t, newFakeDialer())
	require.NoError(t, s.Start(urls(2), 0))

	l.last().proc.exit()

	st := s.Status()
	require.Eventually(t, st.Ended, eventually, time.Millisecond)
	assert.Equal(t, int64(2), st.Position())
}

func TestSession_EndFileOnLastTrackEndsQueue(t *testing.T) {
	d := newFakeDialer()
	s, _, _ := newTestSession(t, d)
	conn := newFakeConn()
	d.conns <- conn

	require.NoError(t, s.Start(urls(2), 1))
	st := s.Status()

	conn.send(`{"event":"property-change","id":1,"name":"playlist-pos","data":1}`)
	conn.send(`{"event":"end-file","reason":"eof"}`)

	require.Eventually(t, st.Ended, eventually, time.Millisecond)
	assert.Equal(t, int64(2), st.Position())
}

func TestSession_SendCommand(t *testing.T) {
	root, err := os.MkdirTemp("", "pbc")
	require.NoError(t, err)
	defer os.RemoveAll(root)

	l := &fakeLauncher{}
	s := NewSession(l, mpv.UnixDialer{}, nil, WithRetryDelay(5*time.Millisecond), WithTempRoot(root))
	defer s.Close()

	assert.ErrorIs(t, s.SendCommand("cycle mute"), ErrNoSession)

	require.NoError(t, s.Start(urls(2), 0))

	ln, err := net.Listen("unix", l.last().endpoint)
	require.NoError(t, err)
	defer ln.Close()

	lines := make(chan string, 16)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				sc := bufio.NewScanner(c)
				for sc.Scan() {
					lines <- sc.Text()
				}
			}(c)
		}
	}()

	require.NoError(t, s.SendCommand("set volume 40"))

	deadline := time.After(eventually)
	for {
		select {
		case line := <-lines:
			if line == "set volume 40" {
				return
			}
		case <-deadline:
			t.Fatal("command never reached the player")
		}
	}
}
