package playback

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/mmcdole/termnavi/internal/domain"
	"github.com/mmcdole/termnavi/internal/mpv"
)

type fakeProcess struct {
	once   sync.Once
	done   chan struct{}
	killed bool
	mu     sync.Mutex
}

func newFakeProcess() *fakeProcess {
	return &fakeProcess{done: make(chan struct{})}
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()
	p.exit()
	return nil
}

func (p *fakeProcess) Done() <-chan struct{} { return p.done }

func (p *fakeProcess) exit() { p.once.Do(func() { close(p.done) }) }

func (p *fakeProcess) wasKilled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

type launch struct {
	urls     []string
	start    int
	endpoint string
	proc     *fakeProcess
}

type fakeLauncher struct {
	mu       sync.Mutex
	err      error
	launches []launch
}

func (l *fakeLauncher) Launch(urls []string, startIndex int, endpoint string) (domain.PlayerProcess, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	p := newFakeProcess()
	l.launches = append(l.launches, launch{urls: urls, start: startIndex, endpoint: endpoint, proc: p})
	return p, nil
}

func (l *fakeLauncher) last() launch {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches[len(l.launches)-1]
}

// fakeConn replays lines pushed by the test
type fakeConn struct {
	lines  chan []byte
	closed chan struct{}
	once   sync.Once

	mu      sync.Mutex
	written []string
}

func newFakeConn() *fakeConn {
	return &fakeConn{lines: make(chan []byte, 16), closed: make(chan struct{})}
}

func (c *fakeConn) WriteLine(line []byte) error {
	select {
	case <-c.closed:
		return io.ErrClosedPipe
	default:
	}
	c.mu.Lock()
	c.written = append(c.written, string(line))
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) ReadLine() ([]byte, error) {
	select {
	case l := <-c.lines:
		return l, nil
	case <-c.closed:
		return nil, io.EOF
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) send(line string) { c.lines <- []byte(line) }

func (c *fakeConn) writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.written...)
}

// fakeDialer hands out queued connections and refuses when none are queued
type fakeDialer struct {
	conns chan *fakeConn

	mu    sync.Mutex
	dials int
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{conns: make(chan *fakeConn, 4)}
}

func (d *fakeDialer) Dial(ctx context.Context, endpoint string) (mpv.Conn, error) {
	d.mu.Lock()
	d.dials++
	d.mu.Unlock()
	select {
	case c := <-d.conns:
		return c, nil
	default:
		return nil, errors.New("connection refused")
	}
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

type fakeScrobbler struct {
	mu        sync.Mutex
	errs      []error
	scrobbles []domain.ScrobbleTrack
	notices   []domain.ScrobbleTrack
}

func (f *fakeScrobbler) nextErr() error {
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func (f *fakeScrobbler) Scrobble(ctx context.Context, track domain.ScrobbleTrack) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrobbles = append(f.scrobbles, track)
	return f.nextErr()
}

func (f *fakeScrobbler) NowPlaying(ctx context.Context, track domain.ScrobbleTrack) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, track)
	return f.nextErr()
}
