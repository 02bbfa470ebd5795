package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"hrclient/internal/session"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login authenticates and installs the returned token pair in the session.
// Usernames are employee codes; the backend expects them trimmed and
// upper-cased.
func (c *Client) Login(ctx context.Context, username, password string) (*session.Claims, error) {
	body := loginRequest{
		Username: strings.ToUpper(strings.TrimSpace(username)),
		Password: password,
	}

	var pair tokenPair
	if err := c.doJSON(ctx, http.MethodPost, "/users/login", body, &pair); err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, fmt.Errorf("%w: login returned no access token", ErrEnvelope)
	}

	if err := c.session.SetToken(pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, err
	}
	return c.session.Current().Claims, nil
}

// Logout is purely client-side: the backend holds no session to end.
func (c *Client) Logout() error {
	return c.session.Logout()
}
