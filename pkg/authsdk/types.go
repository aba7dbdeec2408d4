package authsdk

import "time"

// TokenPair is returned by every endpoint that signs the caller in.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginRequest carries officer credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest enrolls a new officer. Identification and badge numbers are
// assigned by the service.
type RegisterRequest struct {
	Name          string    `json:"name"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phoneNumber"`
	CPF           string    `json:"cpf"`
	Password      string    `json:"password"`
	DateOfBirth   time.Time `json:"dateOfBirth"`
	DateOfJoining time.Time `json:"dateOfJoining"`
	Rank          string    `json:"rank"`
	Department    string    `json:"department"`
	Status        string    `json:"status"`
}

// UpdateProfileRequest mutates profile fields. Empty fields keep their
// current value.
type UpdateProfileRequest struct {
	Name        string `json:"name,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// ChangePasswordRequest rotates a password with knowledge of the current one.
type ChangePasswordRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ForgotPasswordRequest resets a password without the current one.
type ForgotPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// UserRecord is the public officer view served by the users listing.
type UserRecord struct {
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

// HealthResponse is served by the /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks details each probed dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}
