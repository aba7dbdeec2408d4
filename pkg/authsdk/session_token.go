package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// TokenRevoked reports whether the given token string is on file and flagged
// revoked. Unknown tokens read as false.
func (s *Session) TokenRevoked(ctx context.Context, token string) (bool, error) {
	return s.tokenFlag(ctx, "/api/v1/auth/revoked-token", token)
}

// TokenExpired reports whether the given token string is on file and flagged
// expired. Unknown tokens read as false.
func (s *Session) TokenExpired(ctx context.Context, token string) (bool, error) {
	return s.tokenFlag(ctx, "/api/v1/auth/expired-token", token)
}

func (s *Session) tokenFlag(ctx context.Context, path, token string) (bool, error) {
	resp, err := s.doAuthRequest(ctx,
		http.MethodGet, path+"?token="+url.QueryEscape(token), nil)
	if err != nil {
		return false, err
	}

	var flagged bool
	if err := decodeJSON(resp, &flagged, http.StatusOK); err != nil {
		return false, err
	}

	return flagged, nil
}
