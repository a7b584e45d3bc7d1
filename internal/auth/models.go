// Package auth provides authentication services for the travel planner.
package auth

import "time"

// User represents an authenticated user in the system.
type User struct {
	ID           string    `json:"userId"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never exposed in API
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CredentialsRequest represents a username/password authentication request.
// It backs both signup and login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate validates the credentials request.
func (r *CredentialsRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Username == "" {
		errors = append(errors, FieldError{
			Field:   "username",
			Message: "username is required",
			Code:    "REQUIRED",
		})
	} else if len(r.Username) < MinUsernameLength || len(r.Username) > MaxUsernameLength {
		errors = append(errors, FieldError{
			Field:   "username",
			Message: "username must be between 3 and 40 characters",
			Code:    "INVALID",
		})
	}

	if r.Password == "" {
		errors = append(errors, FieldError{
			Field:   "password",
			Message: "password is required",
			Code:    "REQUIRED",
		})
	} else if len(r.Password) < MinPasswordLength {
		errors = append(errors, FieldError{
			Field:   "password",
			Message: "password must be at least 8 characters",
			Code:    "INVALID",
		})
	}

	return errors
}

// Username and password constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 40
	MinPasswordLength = 8
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// TokenResponse represents the response after successful authentication.
type TokenResponse struct {
	// AccessToken is the JWT access token for API authentication.
	AccessToken string `json:"accessToken"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the number of seconds until the access token expires.
	ExpiresIn int64 `json:"expiresIn"`

	// RefreshToken is the opaque token used to obtain new access tokens.
	RefreshToken string `json:"refreshToken,omitempty"`

	// User contains the authenticated user's information.
	User *User `json:"user"`
}

// RefreshTokenRequest represents the request to refresh an access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Validate validates the refresh token request.
func (r *RefreshTokenRequest) Validate() []FieldError {
	var errors []FieldError

	if r.RefreshToken == "" {
		errors = append(errors, FieldError{
			Field:   "refreshToken",
			Message: "refresh token is required",
			Code:    "REQUIRED",
		})
	}

	return errors
}
