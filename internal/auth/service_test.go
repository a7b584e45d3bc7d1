package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BMTushyath/smart-travel-planner/internal/auth"
)

func newTestService() *auth.Service {
	return auth.NewService(auth.ServiceConfig{
		JWTService: auth.NewJWTService(auth.JWTConfig{
			SigningKey: "test-secret-key-for-testing-only",
			Issuer:     "https://api.smart-travel.local",
			Audience:   "smart-travel-api",
		}),
		UserRepo:    auth.NewInMemoryUserRepository(),
		RefreshRepo: auth.NewInMemoryRefreshTokenRepository(),
	})
}

func TestService_SignupAndLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	creds := &auth.CredentialsRequest{Username: "commuter", Password: "correct horse battery"}

	signup, err := svc.Signup(ctx, creds)
	require.NoError(t, err)
	assert.NotEmpty(t, signup.AccessToken)
	assert.NotEmpty(t, signup.RefreshToken)
	assert.Equal(t, "Bearer", signup.TokenType)
	assert.Equal(t, "commuter", signup.User.Username)

	login, err := svc.Login(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, login.User.ID)

	userID, err := svc.ValidateAccessToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, userID)
}

func TestService_Signup_DuplicateUsername(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	creds := &auth.CredentialsRequest{Username: "commuter", Password: "correct horse battery"}

	_, err := svc.Signup(ctx, creds)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, creds)
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)
}

func TestService_Signup_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name  string
		creds *auth.CredentialsRequest
	}{
		{"empty username", &auth.CredentialsRequest{Password: "long enough password"}},
		{"short username", &auth.CredentialsRequest{Username: "ab", Password: "long enough password"}},
		{"empty password", &auth.CredentialsRequest{Username: "commuter"}},
		{"short password", &auth.CredentialsRequest{Username: "commuter", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.creds)
			assert.Error(t, err)
		})
	}
}

func TestService_Login_WrongPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &auth.CredentialsRequest{Username: "commuter", Password: "correct horse battery"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &auth.CredentialsRequest{Username: "commuter", Password: "wrong password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &auth.CredentialsRequest{Username: "nobody", Password: "correct horse battery"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials, "unknown user must look like a bad password")
}

func TestService_RefreshRotation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	signup, err := svc.Signup(ctx, &auth.CredentialsRequest{Username: "commuter", Password: "correct horse battery"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshAccessToken(ctx, signup.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, signup.RefreshToken, refreshed.RefreshToken)

	// The old token was revoked by rotation
	_, err = svc.RefreshAccessToken(ctx, signup.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestService_Logout(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	signup, err := svc.Signup(ctx, &auth.CredentialsRequest{Username: "commuter", Password: "correct horse battery"})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeRefreshToken(ctx, signup.RefreshToken))

	_, err = svc.RefreshAccessToken(ctx, signup.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	ok, err := auth.CheckPassword(hash, "correct horse battery")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.CheckPassword(hash, "something else")
	require.NoError(t, err)
	assert.False(t, ok)
}
