// Package subsonic implements the catalog repositories against the
// Subsonic REST API (Navidrome, Airsonic, Gonic, ...).
package subsonic

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmcdole/termnavi/internal/domain"
)

const (
	apiVersion     = "1.16.1"
	clientName     = "termnavi"
	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
)

// Subsonic error codes
const (
	codeWrongCredentials = 40
	codeTokenUnsupported = 41
	codeNotFound         = 70
)

// Client talks to a Subsonic-compatible server
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger

	newSalt    func() string
	retryDelay time.Duration
}

var (
	_ domain.CatalogRepository  = (*Client)(nil)
	_ domain.SearchRepository   = (*Client)(nil)
	_ domain.StreamRepository   = (*Client)(nil)
	_ domain.ScrobbleRepository = (*Client)(nil)
)

// NewClient creates a new Subsonic API client
func NewClient(baseURL, username, password string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:     logger,
		newSalt:    randomSalt,
		retryDelay: baseRetryDelay,
	}
}

func randomSalt() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// authParams returns the token auth query: t = md5(password + salt)
func (c *Client) authParams() url.Values {
	salt := c.newSalt()
	sum := md5.Sum([]byte(c.password + salt))

	q := url.Values{}
	q.Set("u", c.username)
	q.Set("t", hex.EncodeToString(sum[:]))
	q.Set("s", salt)
	q.Set("v", apiVersion)
	q.Set("c", clientName)
	q.Set("f", "json")
	return q
}

func (c *Client) endpoint(method string, query url.Values) string {
	q := c.authParams()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return fmt.Sprintf("%s/rest/%s?%s", c.baseURL, method, q.Encode())
}

// doRequest performs an authenticated GET against a REST method.
// Includes retry logic with exponential backoff for 5xx server errors.
func (c *Client) doRequest(ctx context.Context, method string, query url.Values) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Wait before retry (exponential backoff)
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "method", method)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		// Fresh salt per attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(method, query), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		c.logger.Debug("subsonic request", "method", method, "query", query.Encode(), "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("subsonic request failed", "method", method, "error", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return nil, domain.ErrAuthFailed
		}

		// Retry on 5xx server errors
		if resp.StatusCode >= 500 && resp.StatusCode < 600 {
			lastErr = fmt.Errorf("server error: %d - %s", resp.StatusCode, string(body))
			c.logger.Warn("subsonic server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"method", method,
			)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			c.logger.Error("subsonic request error", "status", resp.StatusCode, "body", string(body))
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return body, nil
	}

	c.logger.Error("subsonic request failed after retries", "error", lastErr, "method", method)
	return nil, lastErr
}

// call performs a request, checks the envelope status and decodes into dest
func (c *Client) call(ctx context.Context, method string, query url.Values, dest any) error {
	body, err := c.doRequest(ctx, method, query)
	if err != nil {
		return err
	}

	var head headerEnvelope
	if err := json.Unmarshal(body, &head); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", method, err)
	}
	if err := checkStatus(head.Response); err != nil {
		c.logger.Warn("subsonic api error", "method", method, "error", err)
		return err
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", method, err)
	}
	return nil
}

func checkStatus(h ResponseHeader) error {
	if h.Status == "ok" {
		return nil
	}
	if h.Error == nil {
		return fmt.Errorf("subsonic: status %q", h.Status)
	}
	switch h.Error.Code {
	case codeWrongCredentials, codeTokenUnsupported:
		return fmt.Errorf("%w: %s", domain.ErrAuthFailed, h.Error.Message)
	case codeNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, h.Error.Message)
	default:
		return fmt.Errorf("subsonic error %d: %s", h.Error.Code, h.Error.Message)
	}
}

// Ping verifies connectivity and credentials
func (c *Client) Ping(ctx context.Context) error {
	return c.call(ctx, "ping", nil, nil)
}

// GetArtists returns every artist in the catalog
func (c *Client) GetArtists(ctx context.Context) ([]domain.Artist, error) {
	var env artistsEnvelope
	if err := c.call(ctx, "getArtists", nil, &env); err != nil {
		return nil, err
	}
	return MapArtists(env.Response.Artists), nil
}

// GetAlbums returns the albums of an artist
func (c *Client) GetAlbums(ctx context.Context, artistID string) ([]domain.Album, error) {
	q := url.Values{}
	q.Set("id", artistID)

	var env artistEnvelope
	if err := c.call(ctx, "getArtist", q, &env); err != nil {
		return nil, err
	}
	return MapAlbums(env.Response.Artist.Album), nil
}

// GetSongs returns the songs of an album in server order
func (c *Client) GetSongs(ctx context.Context, albumID string) ([]domain.Song, error) {
	q := url.Values{}
	q.Set("id", albumID)

	var env albumEnvelope
	if err := c.call(ctx, "getAlbum", q, &env); err != nil {
		return nil, err
	}
	return MapSongs(env.Response.Album.Song), nil
}

// SearchSongs returns a page of songs matching query
func (c *Client) SearchSongs(ctx context.Context, query string, offset, limit int) ([]domain.Song, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("songCount", strconv.Itoa(limit))
	q.Set("songOffset", strconv.Itoa(offset))
	q.Set("artistCount", "0")
	q.Set("albumCount", "0")

	var env search3Envelope
	if err := c.call(ctx, "search3", q, &env); err != nil {
		return nil, err
	}
	return MapSongs(env.Response.SearchResult3.Song), nil
}

// StreamURL returns an authenticated stream locator for the player
func (c *Client) StreamURL(songID string) string {
	q := url.Values{}
	q.Set("id", songID)
	return c.endpoint("stream", q)
}

// Scrobble registers a play (submission) or a now-playing notice
func (c *Client) Scrobble(ctx context.Context, songID string, at time.Time, submission bool) error {
	q := url.Values{}
	q.Set("id", songID)
	q.Set("time", strconv.FormatInt(at.UnixMilli(), 10))
	q.Set("submission", strconv.FormatBool(submission))
	return c.call(ctx, "scrobble", q, nil)
}
