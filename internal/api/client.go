// Package api is the authenticated HTTP client for the HR backend. It
// attaches the session's bearer token to every request and transparently
// recovers from one class of authorization failure: a forbidden (stale-token)
// response triggers at most one token refresh and one replay of the original
// request. A plain unauthenticated response always ends the session.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hrclient/internal/session"
)

const maxResponseBytes = 8 << 20

type Client struct {
	baseURL string
	httpc   *http.Client
	session *session.Store
	log     *slog.Logger

	// refreshMu single-flights token refreshes across concurrent requests.
	// Each request still replays at most once.
	refreshMu sync.Mutex

	onExpired func()
}

func New(baseURL string, sess *session.Store, httpc *http.Client, log *slog.Logger) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		session: sess,
		log:     log,
	}
}

// OnSessionExpired registers the signal the hosting UI uses to return to the
// login screen. It fires after the session has been cleared.
func (c *Client) OnSessionExpired(fn func()) {
	c.onExpired = fn
}

func (c *Client) Session() *session.Store {
	return c.session
}

// doJSON marshals body (when non-nil), runs the request through the
// refresh-and-replay machinery, and unwraps the {data} envelope into out.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
	}
	raw, err := c.do(ctx, method, path, payload, "application/json")
	if err != nil {
		return err
	}
	return decodeData(raw, out)
}

// do sends one request and applies the authorization state machine:
//   - 401 anywhere: clear the session, signal the UI, fail.
//   - 403 on the first attempt: refresh the token, replay exactly once.
//   - 403 on the replay: surface the error, never refresh again.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string) ([]byte, error) {
	state := c.session.Current()
	raw, err := c.once(ctx, method, path, body, contentType, state.AccessToken)
	if err == nil {
		return raw, nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return nil, err
	}

	switch apiErr.Status {
	case http.StatusUnauthorized:
		c.expire()
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, apiErr)

	case http.StatusForbidden:
		c.log.Debug("authorization rejected, attempting token refresh", "method", method, "path", path)
		token, refreshErr := c.refreshToken(ctx, state)
		if refreshErr != nil {
			if errors.Is(refreshErr, ErrRefreshNoToken) {
				// No usable token came back: reject with the original error.
				return nil, fmt.Errorf("%w: %w", ErrRefreshNoToken, apiErr)
			}
			return nil, refreshErr
		}

		raw, retryErr := c.once(ctx, method, path, body, contentType, token)
		if retryErr != nil {
			var retryAPIErr *APIError
			if errors.As(retryErr, &retryAPIErr) && retryAPIErr.Status == http.StatusUnauthorized {
				c.expire()
				return nil, fmt.Errorf("%w: %w", ErrSessionExpired, retryAPIErr)
			}
			return nil, retryErr
		}
		return raw, nil

	default:
		return nil, apiErr
	}
}

// refreshToken exchanges the refresh token for a new access token. If a
// concurrent request already rotated the session, the rotated token is reused
// without a second refresh call.
func (c *Client) refreshToken(ctx context.Context, stale session.State) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current := c.session.Current()
	if current.Generation != stale.Generation && current.Authenticated() && current.AccessToken != stale.AccessToken {
		return current.AccessToken, nil
	}

	if current.Claims == nil || current.Claims.UserID == "" || current.RefreshToken == "" {
		c.expire()
		return "", fmt.Errorf("%w: %w", ErrSessionExpired, ErrNoRefreshToken)
	}

	query := url.Values{}
	query.Set("user_id", current.Claims.UserID)
	query.Set("token", current.RefreshToken)

	// The refresh call itself is unauthenticated.
	raw, err := c.once(ctx, http.MethodGet, "/users/refresh?"+query.Encode(), nil, "", "")
	if err != nil {
		c.expire()
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: refresh rejected: %w", ErrSessionExpired, apiErr)
		}
		return "", fmt.Errorf("%w: token refresh: %w", ErrSessionExpired, err)
	}

	var refreshed struct {
		AccessToken string `json:"access_token"`
	}
	if err := decodeData(raw, &refreshed); err != nil || refreshed.AccessToken == "" {
		c.log.Debug("refresh answered without a usable token")
		return "", ErrRefreshNoToken
	}

	// Refresh token is unchanged; only the access token rotates.
	if err := c.session.SetToken(refreshed.AccessToken, ""); err != nil {
		return "", fmt.Errorf("api: store refreshed token: %w", err)
	}
	c.log.Debug("token refresh successful")
	return refreshed.AccessToken, nil
}

// once performs a single HTTP round trip with no recovery.
func (c *Client) once(ctx context.Context, method, path string, body []byte, contentType, token string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("api: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, raw)
	}
	return raw, nil
}

func (c *Client) expire() {
	if err := c.session.Logout(); err != nil {
		c.log.Warn("clearing expired session failed", "err", err)
	}
	if c.onExpired != nil {
		c.onExpired()
	}
}
