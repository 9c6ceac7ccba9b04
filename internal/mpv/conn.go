package mpv

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// Conn is one connection to the player's control endpoint
type Conn interface {
	// WriteLine sends one protocol line. A trailing newline is added if missing.
	WriteLine(line []byte) error

	// ReadLine blocks for the next newline-delimited record, without the newline
	ReadLine() ([]byte, error)

	Close() error
}

// Dialer opens connections to a control endpoint
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Conn, error)
}

// UnixDialer connects to the player's unix domain socket
type UnixDialer struct {
	Timeout time.Duration
}

// Dial connects to the socket at endpoint
func (d UnixDialer) Dial(ctx context.Context, endpoint string) (Conn, error) {
	timeout := d.Timeout
	if timeout == 0 {
		timeout = 2 * time.Second
	}
	nd := net.Dialer{Timeout: timeout}
	c, err := nd.DialContext(ctx, "unix", endpoint)
	if err != nil {
		return nil, err
	}
	return &unixConn{c: c, r: bufio.NewReader(c)}, nil
}

type unixConn struct {
	c net.Conn
	r *bufio.Reader
}

func (u *unixConn) WriteLine(line []byte) error {
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line = append(append([]byte(nil), line...), '\n')
	}
	_, err := u.c.Write(line)
	return err
}

func (u *unixConn) ReadLine() ([]byte, error) {
	line, err := u.r.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	return line[:len(line)-1], nil
}

func (u *unixConn) Close() error {
	return u.c.Close()
}

// Send delivers a single text command over a short-lived connection
func Send(ctx context.Context, d Dialer, endpoint, text string) error {
	conn, err := d.Dial(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("connect control endpoint: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteLine([]byte(strings.TrimRight(text, "\n"))); err != nil {
		return fmt.Errorf("send %q: %w", text, err)
	}
	return nil
}
