package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the precinct authentication service. It provides
// access to unauthenticated operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthenticateWithPassword signs in with officer credentials and returns an
// authenticated session.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, email, password string) (*Session, error) {
	pair, err := c.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	return newSession(c, pair), nil
}

// Register enrolls a new officer and returns an authenticated session for
// the fresh account.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/register", "", req)
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := decodeJSON(resp, &pair, http.StatusCreated); err != nil {
		return nil, err
	}

	return newSession(c, &pair), nil
}

// NewSessionFromTokens creates an authenticated session from previously
// stored tokens. Expiry is read out of the access token itself, so the
// session still refreshes proactively.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string) *Session {
	return newSession(c, &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken})
}
