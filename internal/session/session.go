// Package session is the single source of truth for authentication state:
// the current token pair and the claims decoded from the access token.
// Claims are always derived from the access token, never set on their own.
package session

import (
	"fmt"
	"log/slog"
	"sync"
)

const (
	keyToken        = "token"
	keyRefreshToken = "refresh_token"
)

// Vault is the secure-storage boundary: two opaque string values.
type Vault interface {
	Get(name string) (string, bool, error)
	Set(name, value string) error
	Delete(name string) error
}

// State is a point-in-time snapshot of the session. Generation increments on
// every write, letting the HTTP layer tell whether the token it saw fail has
// already been rotated by a concurrent refresh.
type State struct {
	AccessToken  string
	RefreshToken string
	Claims       *Claims
	Generation   uint64
}

func (s State) Authenticated() bool {
	return s.AccessToken != ""
}

type Store struct {
	vault Vault
	log   *slog.Logger

	mu    sync.Mutex
	state State
}

func NewStore(vault Vault, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{vault: vault, log: log}
}

// Load restores a persisted session. An undecodable stored token is discarded
// rather than surfaced: the user simply has to log in again.
func (s *Store) Load() error {
	token, ok, err := s.vault.Get(keyToken)
	if err != nil {
		return fmt.Errorf("session: load token: %w", err)
	}
	if !ok || token == "" {
		return nil
	}

	claims, err := DecodeClaims(token)
	if err != nil {
		s.log.Warn("discarding stored token that no longer decodes", "err", err)
		if err := s.vault.Delete(keyToken); err != nil {
			return fmt.Errorf("session: discard invalid token: %w", err)
		}
		_ = s.vault.Delete(keyRefreshToken)
		return nil
	}

	refresh, _, err := s.vault.Get(keyRefreshToken)
	if err != nil {
		return fmt.Errorf("session: load refresh token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AccessToken = token
	s.state.RefreshToken = refresh
	s.state.Claims = claims
	s.state.Generation++
	return nil
}

// SetToken persists the pair (refresh token only when provided, so a refresh
// rotating just the access token keeps the stored refresh token) and decodes
// claims. A storage failure leaves the session untouched; a decode failure is
// returned after the pair is stored, with claims left empty.
func (s *Store) SetToken(accessToken, refreshToken string) error {
	if err := s.vault.Set(keyToken, accessToken); err != nil {
		return fmt.Errorf("session: persist token: %w", err)
	}
	if refreshToken != "" {
		if err := s.vault.Set(keyRefreshToken, refreshToken); err != nil {
			return fmt.Errorf("session: persist refresh token: %w", err)
		}
	}

	claims, decodeErr := DecodeClaims(accessToken)

	s.mu.Lock()
	s.state.AccessToken = accessToken
	if refreshToken != "" {
		s.state.RefreshToken = refreshToken
	}
	s.state.Claims = claims
	s.state.Generation++
	s.mu.Unlock()

	if decodeErr != nil {
		return fmt.Errorf("session: decode claims: %w", decodeErr)
	}
	return nil
}

// Logout erases the persisted pair and clears in-memory state.
func (s *Store) Logout() error {
	tokenErr := s.vault.Delete(keyToken)
	refreshErr := s.vault.Delete(keyRefreshToken)

	s.mu.Lock()
	s.state.AccessToken = ""
	s.state.RefreshToken = ""
	s.state.Claims = nil
	s.state.Generation++
	s.mu.Unlock()

	if tokenErr != nil {
		return fmt.Errorf("session: erase token: %w", tokenErr)
	}
	if refreshErr != nil {
		return fmt.Errorf("session: erase refresh token: %w", refreshErr)
	}
	return nil
}

// Current is the synchronous snapshot read used on every outbound request.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
