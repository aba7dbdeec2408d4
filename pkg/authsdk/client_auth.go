package authsdk

import (
	"context"
	"net/http"
)

// Login exchanges officer credentials for a token pair. Most callers want
// AuthenticateWithPassword instead, which wraps the pair in a Session.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*TokenPair, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", "", req)
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := decodeJSON(resp, &pair, http.StatusOK); err != nil {
		return nil, err
	}

	return &pair, nil
}

// ForgotPassword resets an account's password without the current one. The
// service answers with a bare boolean.
func (c *SDKClient) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (bool, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/forgot-password", "", req)
	if err != nil {
		return false, err
	}

	var ok bool
	if err := decodeJSON(resp, &ok, http.StatusOK); err != nil {
		return false, err
	}

	return ok, nil
}
