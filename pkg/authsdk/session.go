package authsdk

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// refreshBuffer is how long before access-token expiry a Session refreshes.
// The service only accepts a refresh while the access token is still valid,
// so refreshing after expiry is not an option.
const refreshBuffer = 30 * time.Second

// Session represents an authenticated session that refreshes its token pair
// ahead of expiry.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// newSession creates an authenticated session from a token pair.
func newSession(client *SDKClient, pair *TokenPair) *Session {
	return &Session{
		client:       client,
		accessToken:  pair.AccessToken,
		refreshToken: pair.RefreshToken,
		expiresAt:    tokenExpiry(pair.AccessToken).Add(-refreshBuffer),
	}
}

// tokenExpiry reads the exp claim out of a JWT without verifying it. The
// server remains the authority; this only schedules the client-side refresh.
func tokenExpiry(token string) time.Time {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return time.Time{}
	}

	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Exp == 0 {
		return time.Time{}
	}

	return time.Unix(claims.Exp, 0)
}

// getValidToken returns an access token, refreshing the pair first when the
// current one is close to expiry.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring the write lock; another goroutine may
	// have refreshed already.
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if s.refreshToken == "" {
		return "", fmt.Errorf("access token expired and no refresh token available")
	}

	resp, err := s.client.doJSON(ctx, http.MethodPost, "/api/v1/auth/refresh-token",
		s.accessToken, map[string]string{"refreshToken": s.refreshToken})
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	var pair TokenPair
	if err := decodeJSON(resp, &pair, http.StatusOK); err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	s.accessToken = pair.AccessToken
	s.refreshToken = pair.RefreshToken
	s.expiresAt = tokenExpiry(pair.AccessToken).Add(-refreshBuffer)

	return s.accessToken, nil
}

// doAuthRequest performs an authenticated request, refreshing the token pair
// first if needed.
func (s *Session) doAuthRequest(
	ctx context.Context,
	method, path string,
	body any,
) (*http.Response, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}

	return s.client.doJSON(ctx, method, path, token, body)
}

// Refresh forces a token refresh regardless of remaining lifetime.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	_, err := s.getValidToken(ctx)
	return err
}

// Logout revokes every token the account holds, invalidating this session.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/api/v1/auth/logout", nil)
	if err != nil {
		return err
	}

	return checkStatusNoContent(resp)
}

// AccessToken returns the current access token without checking expiration.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}
