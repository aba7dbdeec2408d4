package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/copperline/precinct-auth/internal/auth/domain"
	"github.com/copperline/precinct-auth/internal/auth/identity"
	"github.com/copperline/precinct-auth/internal/auth/store"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// Profile update outcome messages.
const (
	MsgUserNotFound          = "User not found."
	MsgProfileUpdateSuccess  = "Profile updated successfully."
	MsgProfileUpdateFailed   = "Failed to update profile."
	MsgProfileUpdateInternal = "Profile update failed due to an internal error."

	msgEmailTaken = "Email already used by another user."
	msgPhoneTaken = "Phone number already used by another user."
)

// UpdateProfileRequest carries the mutable profile fields. Empty fields keep
// their current value.
type UpdateProfileRequest struct {
	Name        string `json:"name"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// ProfileService updates officer profiles. A successful update re-issues the
// token pair since the claims embed profile fields.
type ProfileService struct {
	Identity *identity.Manager
	Store    store.Store
	Tokens   *TokenService
}

// UpdateProfile validates the new contact details against other officers,
// applies the change transactionally, and mints a fresh token pair carrying
// the updated claims.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (domain.TokenPair, Result, error) {
	l := slogx.FromContext(ctx)
	l.Info("profile update attempt", slog.String("user_id", userID))

	user, err := s.Identity.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("profile update for missing user", slog.String("user_id", userID))
			return domain.TokenPair{}, Result{Success: false, Message: MsgUserNotFound}, nil
		}
		return domain.TokenPair{}, Result{}, err
	}

	if msgs := s.validate(ctx, req, user); len(msgs) != 0 {
		l.Warn("profile update rejected",
			slog.String("user_id", userID), slog.String("reasons", strings.Join(msgs, ", ")))
		return domain.TokenPair{}, Result{Success: false, Message: strings.Join(msgs, "\n")}, nil
	}

	applyProfileFields(&user, req)

	result := RunInTransaction(ctx, s.Store, MsgProfileUpdateInternal, func(tx store.Tx) (Result, error) {
		if err := tx.Users().UpdateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) || errors.Is(err, store.ErrNotFound) {
				return Result{Success: false, Message: MsgProfileUpdateFailed}, nil
			}
			return Result{}, err
		}
		return Result{Success: true, Message: MsgProfileUpdateSuccess}, nil
	})
	if !result.Success {
		return domain.TokenPair{}, result, nil
	}

	pair, err := s.Tokens.IssuePair(ctx, user)
	if err != nil {
		return domain.TokenPair{}, Result{}, err
	}

	l.Info("profile updated", slog.String("user_id", userID))
	return pair, result, nil
}

func (s *ProfileService) validate(ctx context.Context, req UpdateProfileRequest, user domain.User) []string {
	var msgs []string

	if req.Email != "" && req.Email != user.Email {
		if used, err := s.Store.Users().EmailInUse(ctx, req.Email, user.ID); err == nil && used {
			msgs = append(msgs, msgEmailTaken)
		}
	}
	if req.PhoneNumber != "" && req.PhoneNumber != user.PhoneNumber {
		if used, err := s.Store.Users().PhoneInUse(ctx, req.PhoneNumber, user.ID); err == nil && used {
			msgs = append(msgs, msgPhoneTaken)
		}
	}

	return msgs
}

func applyProfileFields(u *domain.User, req UpdateProfileRequest) {
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.PhoneNumber != "" {
		u.PhoneNumber = req.PhoneNumber
	}
}
