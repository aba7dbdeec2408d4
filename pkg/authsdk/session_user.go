package authsdk

import (
	"context"
	"net/http"
)

// ListUsers returns every officer on file. Requires the ReadWrite or Admin
// role.
func (s *Session) ListUsers(ctx context.Context) ([]UserRecord, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/v1/auth/users", nil)
	if err != nil {
		return nil, err
	}

	var users []UserRecord
	if err := decodeJSON(resp, &users, http.StatusOK); err != nil {
		return nil, err
	}

	return users, nil
}

// UpdateProfile mutates the signed-in officer's profile. The service rotates
// the token pair so the claims reflect the new profile; the session adopts
// the fresh pair.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*TokenPair, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/api/v1/auth/update-profile", req)
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := decodeJSON(resp, &pair, http.StatusOK); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.accessToken = pair.AccessToken
	s.refreshToken = pair.RefreshToken
	s.expiresAt = tokenExpiry(pair.AccessToken).Add(-refreshBuffer)
	s.mu.Unlock()

	return &pair, nil
}

// ChangePassword rotates the account password. The service answers with a
// bare boolean; false means the current password didn't match.
func (s *Session) ChangePassword(ctx context.Context, req ChangePasswordRequest) (bool, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/api/v1/auth/change-password", req)
	if err != nil {
		return false, err
	}

	var ok bool
	if err := decodeJSON(resp, &ok, http.StatusOK); err != nil {
		return false, err
	}

	return ok, nil
}
