package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/copperline/precinct-auth/internal/auth/domain"
	"github.com/copperline/precinct-auth/internal/auth/store"
	"github.com/copperline/precinct-auth/pkg/cryptox"
	"github.com/copperline/precinct-auth/pkg/idx"
	"github.com/copperline/precinct-auth/pkg/slogx"
)

// Registration outcome messages.
const (
	MsgRegistrationSuccess  = "Registration successful."
	MsgRegistrationFailed   = "Registration failed."
	MsgRegistrationInternal = "Registration failed due to an internal error."
)

// Identifier length bounds for generated officer numbers.
const (
	identificationMinLen = 5
	identificationMaxLen = 15
	badgeMinLen          = 5
	badgeMaxLen          = 10
)

// RegisterRequest carries everything needed to enroll a new officer.
// Identification and badge numbers are generated, never supplied.
type RegisterRequest struct {
	Name          string               `json:"name"`
	LastName      string               `json:"lastName"`
	Email         string               `json:"email"`
	PhoneNumber   string               `json:"phoneNumber"`
	CPF           string               `json:"cpf"`
	Password      string               `json:"password"`
	DateOfBirth   time.Time            `json:"dateOfBirth"`
	DateOfJoining time.Time            `json:"dateOfJoining"`
	Rank          domain.Rank          `json:"rank"`
	Department    domain.Department    `json:"department"`
	Status        domain.OfficerStatus `json:"status"`
}

// RegisterService enrolls officers. The assigned role and access level are
// derived from rank, never taken from the request.
type RegisterService struct {
	Store  store.Store
	Tokens *TokenService
}

// Register validates uniqueness, generates officer numbers, persists the
// record inside a transaction, and signs the new officer in by issuing a
// token pair.
func (s *RegisterService) Register(ctx context.Context, req RegisterRequest) (domain.TokenPair, Result, error) {
	l := slogx.FromContext(ctx)
	l.Info("registration attempt", slog.String("email", req.Email))

	if msgs := s.validateUniqueness(ctx, req); len(msgs) != 0 {
		l.Warn("registration rejected",
			slog.String("email", req.Email), slog.String("reasons", strings.Join(msgs, ", ")))
		return domain.TokenPair{}, Result{Success: false, Message: strings.Join(msgs, ", ")}, nil
	}

	identificationNumber, err := s.generateIdentifier(ctx, identificationMinLen, identificationMaxLen)
	if err != nil {
		return domain.TokenPair{}, Result{}, err
	}
	badgeNumber, err := s.generateIdentifier(ctx, badgeMinLen, badgeMaxLen)
	if err != nil {
		return domain.TokenPair{}, Result{}, err
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return domain.TokenPair{}, Result{}, err
	}

	role, accessLevel := domain.RoleForRank(req.Rank)
	user := domain.User{
		ID:                   idx.New().String(),
		IdentificationNumber: identificationNumber,
		BadgeNumber:          badgeNumber,
		Name:                 req.Name,
		LastName:             req.LastName,
		Email:                req.Email,
		PhoneNumber:          req.PhoneNumber,
		CPF:                  req.CPF,
		PasswordHash:         hash,
		Role:                 role,
		DateOfBirth:          req.DateOfBirth,
		DateOfJoining:        req.DateOfJoining,
		Rank:                 req.Rank,
		Department:           req.Department,
		Status:               req.Status,
		AccessLevel:          accessLevel,
	}

	result := RunInTransaction(ctx, s.Store, MsgRegistrationInternal, func(tx store.Tx) (Result, error) {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return Result{Success: false, Message: MsgRegistrationFailed}, nil
			}
			return Result{}, err
		}
		return Result{Success: true, Message: MsgRegistrationSuccess}, nil
	})
	if !result.Success {
		return domain.TokenPair{}, result, nil
	}

	pair, err := s.Tokens.IssuePair(ctx, user)
	if err != nil {
		return domain.TokenPair{}, Result{}, err
	}

	l.Info("officer registered",
		slog.String("email", req.Email), slog.String("user_id", user.ID))
	return pair, result, nil
}

func (s *RegisterService) validateUniqueness(ctx context.Context, req RegisterRequest) []string {
	var msgs []string

	if used, err := s.Store.Users().CPFInUse(ctx, req.CPF, ""); err == nil && used {
		msgs = append(msgs, "[CPF already used]")
	}
	if used, err := s.Store.Users().EmailInUse(ctx, req.Email, ""); err == nil && used {
		msgs = append(msgs, "[Email already used]")
	}
	if used, err := s.Store.Users().PhoneInUse(ctx, req.PhoneNumber, ""); err == nil && used {
		msgs = append(msgs, "[Phone number already used]")
	}

	return msgs
}

// generateIdentifier draws random uppercase alphanumeric identifiers until
// one is unused across both identification and badge numbers.
func (s *RegisterService) generateIdentifier(ctx context.Context, minLen, maxLen int) (string, error) {
	for {
		candidate, err := cryptox.RandomIdentifier(minLen, maxLen)
		if err != nil {
			return "", err
		}

		inUse, err := s.Store.Users().IdentifierInUse(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
	}
}
