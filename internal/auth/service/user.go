package service

import (
	"context"
	"time"

	"github.com/copperline/precinct-auth/internal/auth/domain"
	"github.com/copperline/precinct-auth/internal/auth/store"
)

// UserResponse is the public view of an officer record. The password hash
// never leaves the service layer.
type UserResponse struct {
	ID                   string    `json:"id"`
	IdentificationNumber string    `json:"identificationNumber"`
	BadgeNumber          string    `json:"badgeNumber"`
	Name                 string    `json:"name"`
	LastName             string    `json:"lastName"`
	Email                string    `json:"email"`
	PhoneNumber          string    `json:"phoneNumber"`
	CPF                  string    `json:"cpf"`
	Role                 string    `json:"role"`
	DateOfBirth          time.Time `json:"dateOfBirth"`
	DateOfJoining        time.Time `json:"dateOfJoining"`
	Rank                 string    `json:"rank"`
	Department           string    `json:"department"`
	Status               string    `json:"status"`
	AccessLevel          string    `json:"accessLevel"`
}

// UserService exposes read-side officer queries.
type UserService struct {
	Store store.Store
}

// ListUsers returns every officer on file.
func (s *UserService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out, nil
}

// GetProfile returns the officer owning the given id.
func (s *UserService) GetProfile(ctx context.Context, userID string) (UserResponse, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}
	return toUserResponse(u), nil
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:                   u.ID,
		IdentificationNumber: u.IdentificationNumber,
		BadgeNumber:          u.BadgeNumber,
		Name:                 u.Name,
		LastName:             u.LastName,
		Email:                u.Email,
		PhoneNumber:          u.PhoneNumber,
		CPF:                  u.CPF,
		Role:                 u.Role,
		DateOfBirth:          u.DateOfBirth,
		DateOfJoining:        u.DateOfJoining,
		Rank:                 string(u.Rank),
		Department:           string(u.Department),
		Status:               string(u.Status),
		AccessLevel:          string(u.AccessLevel),
	}
}
